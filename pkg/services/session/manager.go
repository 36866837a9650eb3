package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/de-tools/pivot-atlas/pkg/models/domain"
	"github.com/de-tools/pivot-atlas/pkg/services/pivot"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("session not found")

// View is a point-in-time copy of a session, safe to hand to other goroutines.
type View struct {
	ID        string
	CreatedAt time.Time
	Zones     map[domain.ZoneID][]domain.PivotItem
	Config    domain.PivotConfiguration
	Drag      *pivot.DragPreview
	Revision  int // number of configurations emitted so far
}

// Manager keeps one pivot builder per editing session. The builder itself is
// single-threaded; every session serializes its events behind its own lock.
type Manager interface {
	Create(ctx context.Context, columns []string, initial domain.InitialConfig) (View, error)
	Get(ctx context.Context, id string) (View, error)
	List(ctx context.Context) []View
	Delete(ctx context.Context, id string) error
	Initialize(ctx context.Context, id string, columns []string, initial domain.InitialConfig) (View, error)
	Apply(ctx context.Context, id string, ev pivot.Event) (View, bool, error)
}

type Options struct {
	Strict bool
	// Logger is the base for every session's builder; each adds a session field.
	Logger zerolog.Logger
}

type entry struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	builder   *pivot.Builder
	config    domain.PivotConfiguration
	revision  int
}

type manager struct {
	opts     Options
	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewManager(opts Options) Manager {
	return &manager{
		opts:     opts,
		sessions: make(map[string]*entry),
	}
}

func (m *manager) Create(ctx context.Context, columns []string, initial domain.InitialConfig) (View, error) {
	id := uuid.NewString()
	logger := m.opts.Logger.With().Str("session", id).Logger()

	e := &entry{id: id, createdAt: time.Now().UTC()}
	e.builder = pivot.NewBuilder(pivot.Options{
		Logger: logger,
		Strict: m.opts.Strict,
		OnChange: func(config domain.PivotConfiguration) {
			e.config = config
			e.revision++
		},
	})

	if err := e.builder.Initialize(columns, initial); err != nil {
		return View{}, fmt.Errorf("failed to initialize session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = e
	m.mu.Unlock()

	zerolog.Ctx(ctx).Info().
		Str("session", id).
		Int("columns", len(columns)).
		Msg("pivot session created")
	return e.view(), nil
}

func (m *manager) Get(_ context.Context, id string) (View, error) {
	e, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

func (m *manager) List(_ context.Context) []View {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	views := make([]View, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		views = append(views, e.view())
		e.mu.Unlock()
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}

func (m *manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	zerolog.Ctx(ctx).Info().Str("session", id).Msg("pivot session deleted")
	return nil
}

// Initialize rebuilds an existing session, e.g. after the report's columns
// changed.
func (m *manager) Initialize(ctx context.Context, id string, columns []string, initial domain.InitialConfig) (View, error) {
	e, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.builder.Initialize(columns, initial); err != nil {
		return View{}, err
	}
	zerolog.Ctx(ctx).Info().
		Str("session", id).
		Int("columns", len(columns)).
		Msg("pivot session reinitialized")
	return e.view(), nil
}

func (m *manager) Apply(_ context.Context, id string, ev pivot.Event) (View, bool, error) {
	e, err := m.lookup(id)
	if err != nil {
		return View{}, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	changed, err := e.builder.Apply(ev)
	if err != nil {
		return View{}, false, err
	}
	return e.view(), changed, nil
}

func (m *manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

// view must be called with e.mu held.
func (e *entry) view() View {
	v := View{
		ID:        e.id,
		CreatedAt: e.createdAt,
		Zones:     e.builder.Zones(),
		Config:    e.config,
		Revision:  e.revision,
	}
	if preview, ok := e.builder.Drag(); ok {
		v.Drag = &preview
	}
	return v
}
