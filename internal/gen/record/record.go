// Package record defines the append-only shape-record stream emitted by the
// rasterizer. Records are observational only: preview tooling reads them,
// generation stages never do.
package record

import "mapforge/internal/gen/geom"

type Record struct {
	Label  string         `json:"label"`
	Box    geom.Box       `json:"box"`
	Color  string         `json:"color,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Sink receives one record per fill that touched the grid.
type Sink interface {
	Emit(Record)
}

// Discard drops every record; the zero value is ready to use.
type Discard struct{}

func (Discard) Emit(Record) {}

// Memory keeps records in order for tests and in-process preview.
type Memory struct {
	Records []Record
}

func (m *Memory) Emit(r Record) {
	m.Records = append(m.Records, r)
}
