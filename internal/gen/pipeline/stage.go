// Package pipeline owns the generation contract: the stage interface, the
// per-step execution context, and the deterministic scheduler that replays
// any step byte-for-byte from the master seed.
package pipeline

import (
	"math/rand/v2"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/grid"
	"mapforge/internal/gen/raster"
	"mapforge/internal/gen/record"
	"mapforge/internal/gen/tuning"
)

type StepInfo struct {
	Name string
	Desc string
}

// Stage is one self-describing generation module. The scheduler addresses
// sub-steps only by index into Steps() and never interprets parameters; it
// persists whatever blob Params() returns and feeds it back via SetParams.
//
// Run must validate its own preconditions and return a descriptive error
// instead of panicking. Reset discards any cross-sub-step flag the stage
// remembered, so a full replay re-derives it from the seed.
type Stage interface {
	ID() string
	Steps() []StepInfo
	Run(ctx *Context, step int) error
	ParamSchema() []ParamSpec
	Params() map[string]any
	SetParams(map[string]any) error
	Reset()
}

// World holds the read-only dimensions stages carve within.
type World struct {
	W, H int
}

// Context is the transient aggregate handed to one sub-step: the mutable
// grid, a generator seeded for exactly this step, and the read-only
// collaborators. Stages never retain it.
type Context struct {
	Grid    *grid.Grid
	Rng     *rand.Rand
	World   World
	Tune    tuning.Tuning
	Regions *catalogs.Catalog
	Raster  *raster.Engine
	Records record.Sink
	Facts   *Facts
}

// Fill rasterizes unconditionally and emits a shape record.
func (c *Context) Fill(label string, s geom.Shape, id uint8) {
	c.Raster.Fill(c.Grid, s, id)
	c.emit(label, s, id)
}

// FillIf rasterizes gated on the current cell value and emits a shape record.
func (c *Context) FillIf(label string, s geom.Shape, id uint8, cond func(uint8) bool) {
	c.Raster.FillIf(c.Grid, s, id, cond)
	c.emit(label, s, id)
}

func (c *Context) emit(label string, s geom.Shape, id uint8) {
	c.Record(label, s.Bounds().ClipToGrid(c.Grid.W, c.Grid.H), id)
}

// Record emits a shape record directly, for mutations that bypass the
// rasterizer (the diffusion stage writes cell runs by hand).
func (c *Context) Record(label string, box geom.Box, id uint8) {
	if c.Records == nil {
		return
	}
	c.Records.Emit(record.Record{
		Label: label,
		Box:   box,
		Color: c.Regions.ColorByID(id),
	})
}

// LayerRows resolves a named band to absolute rows, [y0, y1).
func (c *Context) LayerRows(name string) (int, int, error) {
	l, err := c.Tune.LayerByName(name)
	if err != nil {
		return 0, 0, err
	}
	y0, y1 := l.RowBounds(c.World.H)
	return y0, y1, nil
}
