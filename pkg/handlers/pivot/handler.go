package pivot

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/pivot-atlas/pkg/adapters"
	"github.com/de-tools/pivot-atlas/pkg/models/api"
	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/de-tools/pivot-atlas/pkg/services/config"
	"github.com/de-tools/pivot-atlas/pkg/services/pivot"
	"github.com/de-tools/pivot-atlas/pkg/services/session"
	"github.com/de-tools/pivot-atlas/pkg/store/columns"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	sessions session.Manager
	presets  config.PresetRegistry
	columns  columns.Source
}

// NewHandler accepts a nil preset registry; preset lookups then fail with 400.
func NewHandler(sessions session.Manager, presets config.PresetRegistry) *Handler {
	return &Handler{
		sessions: sessions,
		presets:  presets,
	}
}

// WithColumnSource enables table based column discovery.
func (h *Handler) WithColumnSource(source columns.Source) *Handler {
	h.columns = source
	return h
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}
	cols, initial, ok := h.resolveSource(w, r, req)
	if !ok {
		return
	}

	view, err := h.sessions.Create(r.Context(), cols, initial)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapSessionViewToAPI(view))
}

// InitializeSession rebuilds an existing session's zones from new columns
// or a new initial configuration. The session id is kept.
func (h *Handler) InitializeSession(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}
	cols, initial, ok := h.resolveSource(w, r, req)
	if !ok {
		return
	}

	view, err := h.sessions.Initialize(r.Context(), chi.URLParam(r, "session"), cols, initial)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapSessionViewToAPI(view))
}

// resolveSource turns a session body into source columns and an initial
// configuration. It writes the error response itself when ok is false.
func (h *Handler) resolveSource(
	w http.ResponseWriter,
	r *http.Request,
	req api.CreateSessionRequest,
) ([]string, domain.InitialConfig, bool) {
	ctx := r.Context()

	if req.Preset != "" && req.Initial != nil {
		writeError(w, r, http.StatusBadRequest, "preset and initial are mutually exclusive")
		return nil, domain.InitialConfig{}, false
	}
	if len(req.Columns) > 0 && req.Table != "" {
		writeError(w, r, http.StatusBadRequest, "columns and table are mutually exclusive")
		return nil, domain.InitialConfig{}, false
	}

	cols := req.Columns
	if req.Table != "" {
		if h.columns == nil {
			writeError(w, r, http.StatusBadRequest, "column source is not configured")
			return nil, domain.InitialConfig{}, false
		}
		discovered, err := h.columns.Columns(ctx, req.Table)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("table", req.Table).Msg("column discovery failed")
			writeError(w, r, http.StatusBadGateway, err.Error())
			return nil, domain.InitialConfig{}, false
		}
		cols = discovered
	}

	var initial domain.InitialConfig
	switch {
	case req.Initial != nil:
		initial = adapters.MapAPIInitialConfigToDomain(*req.Initial)
	case req.Preset != "":
		if h.presets == nil {
			writeError(w, r, http.StatusBadRequest, "presets are not configured")
			return nil, domain.InitialConfig{}, false
		}
		preset, err := h.presets.GetPreset(ctx, req.Preset)
		if err != nil {
			writeErr(w, r, err)
			return nil, domain.InitialConfig{}, false
		}
		initial = preset
	}
	return cols, initial, true
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	views := h.sessions.List(r.Context())
	response := make([]api.Session, 0, len(views))
	for _, v := range views {
		response = append(response, adapters.MapSessionViewToAPI(v))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapSessionViewToAPI(view))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "session")); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DragStart(w http.ResponseWriter, r *http.Request) {
	var req api.DragRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, pivot.Event{Type: pivot.EventDragStart, Item: req.Item})
}

func (h *Handler) DragOver(w http.ResponseWriter, r *http.Request) {
	var req api.DragRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, pivot.Event{Type: pivot.EventDragOver, Over: req.Over})
}

func (h *Handler) DragEnd(w http.ResponseWriter, r *http.Request) {
	var req api.DragRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, pivot.Event{Type: pivot.EventDragEnd, Item: req.Item, Over: req.Over})
}

func (h *Handler) DragCancel(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, pivot.Event{Type: pivot.EventDragCancel})
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req api.MoveRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, pivot.Event{
		Type:   pivot.EventMove,
		Item:   req.Item,
		From:   req.From,
		To:     req.To,
		Before: req.Before,
	})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req api.RemoveRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, pivot.Event{Type: pivot.EventRemove, Item: req.Item, Zone: req.Zone})
}

func (h *Handler) ChangeAggregation(w http.ResponseWriter, r *http.Request) {
	var req api.AggregationRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, pivot.Event{Type: pivot.EventAggregation, Item: req.Item, Aggregation: req.Aggregation})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, pivot.Event{Type: pivot.EventReset})
}

func (h *Handler) ListColumns(w http.ResponseWriter, r *http.Request) {
	if h.columns == nil {
		writeError(w, r, http.StatusNotFound, "column source is not configured")
		return
	}
	table := r.URL.Query().Get("table")
	if table == "" {
		writeError(w, r, http.StatusBadRequest, "missing 'table' query parameter")
		return
	}

	names, err := h.columns.Columns(r.Context(), table)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("table", table).Msg("column discovery failed")
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, r, http.StatusOK, names)
}

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	if h.presets == nil {
		writeJSON(w, r, http.StatusOK, []string{})
		return
	}
	presets, err := h.presets.GetPresets(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if presets == nil {
		presets = []string{}
	}
	writeJSON(w, r, http.StatusOK, presets)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, ev pivot.Event) {
	view, changed, err := h.sessions.Apply(r.Context(), chi.URLParam(r, "session"), ev)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.EventResponse{
		Changed: changed,
		Session: adapters.MapSessionViewToAPI(view),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, config.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, pivot.ErrDuplicateColumn),
		errors.Is(err, pivot.ErrEmptyColumn),
		errors.Is(err, pivot.ErrInvalidAggregation),
		errors.Is(err, pivot.ErrUnknownEvent):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeError(w, r, status, err.Error())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, api.Error{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}
