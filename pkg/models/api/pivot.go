package api

import "time"

type PivotItem struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Label       string `json:"label"`
	Aggregation string `json:"aggregation,omitempty"`
}

type PivotField struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Aggregation string `json:"aggregation,omitempty"`
}

type PivotConfiguration struct {
	Rows    []PivotField `json:"rows"`
	Columns []PivotField `json:"columns"`
	Values  []PivotField `json:"values"`
	Filters []PivotField `json:"filters"`
}

type InitialField struct {
	Key         string `json:"key"`
	Label       string `json:"label,omitempty"`
	Aggregation string `json:"aggregation,omitempty"`
}

type InitialConfig struct {
	Rows    []InitialField `json:"rows,omitempty"`
	Columns []InitialField `json:"columns,omitempty"`
	Values  []InitialField `json:"values,omitempty"`
	Filters []InitialField `json:"filters,omitempty"`
}

type DragPreview struct {
	Item   PivotItem `json:"item"`
	Origin string    `json:"origin"`
	Over   string    `json:"over,omitempty"`
}

type Session struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Revision  int                    `json:"revision"`
	Zones     map[string][]PivotItem `json:"zones"`
	Config    PivotConfiguration     `json:"config"`
	Drag      *DragPreview           `json:"drag,omitempty"`
}

type CreateSessionRequest struct {
	Columns []string       `json:"columns,omitempty"`
	Table   string         `json:"table,omitempty"`
	Preset  string         `json:"preset,omitempty"`
	Initial *InitialConfig `json:"initial,omitempty"`
}

type DragRequest struct {
	Item string `json:"item"`
	Over string `json:"over,omitempty"`
}

type MoveRequest struct {
	Item   string `json:"item"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Before string `json:"before,omitempty"`
}

type RemoveRequest struct {
	Item string `json:"item"`
	Zone string `json:"zone"`
}

type AggregationRequest struct {
	Item        string `json:"item"`
	Aggregation string `json:"aggregation"`
}

type EventResponse struct {
	Changed bool    `json:"changed"`
	Session Session `json:"session"`
}

type Error struct {
	Error string `json:"error"`
}
