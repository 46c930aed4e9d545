package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Residual is the last stage: whatever no other stage claimed becomes plain
// stone. After it runs, no cell holds the unassigned sentinel.
type Residual struct {
	background uint8
}

func NewResidual(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("STONE")
	if err != nil {
		return nil, fmt.Errorf("residual: %w", err)
	}
	return &Residual{background: id}, nil
}

func (r *Residual) ID() string { return "residual" }

func (r *Residual) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "fill", Desc: "fill every unassigned cell with stone"},
	}
}

func (r *Residual) ParamSchema() []pipeline.ParamSpec { return nil }

func (r *Residual) Params() map[string]any { return map[string]any{} }

func (r *Residual) SetParams(map[string]any) error { return nil }

func (r *Residual) Reset() {}

func (r *Residual) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	world := geom.Rect{X0: 0, Y0: 0, X1: ctx.World.W - 1, Y1: ctx.World.H - 1}
	ctx.FillIf("residual stone", world, r.background, raster.IsUnassigned)
	return nil
}
