package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Jungle picks a world side at random, records the choice in the shared
// facts, and carves a deep elliptical jungle on that side spanning from the
// surface down through the underground band.
type Jungle struct {
	jungle uint8

	WidthPct float64 // ellipse x-radius as a percentage of world width
	EdgePct  float64 // ellipse center inset from the world edge, percent
}

func NewJungle(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("JUNGLE")
	if err != nil {
		return nil, fmt.Errorf("jungle: %w", err)
	}
	return &Jungle{jungle: id, WidthPct: 12, EdgePct: 22}, nil
}

func (j *Jungle) ID() string { return "jungle" }

func (j *Jungle) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "carve", Desc: "pick a side and carve the jungle ellipse"},
	}
}

func (j *Jungle) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "width_pct", Label: "Jungle width (% of world)", Type: pipeline.ParamFloat, Min: 4, Max: 30, Default: 12.0},
		{Key: "edge_pct", Label: "Center inset from edge (%)", Type: pipeline.ParamFloat, Min: 5, Max: 45, Default: 22.0},
	}
}

func (j *Jungle) Params() map[string]any {
	return map[string]any{"width_pct": j.WidthPct, "edge_pct": j.EdgePct}
}

func (j *Jungle) SetParams(m map[string]any) error {
	var err error
	if j.WidthPct, err = pipeline.FloatParam(m, "width_pct", j.WidthPct); err != nil {
		return err
	}
	if j.EdgePct, err = pipeline.FloatParam(m, "edge_pct", j.EdgePct); err != nil {
		return err
	}
	return nil
}

func (j *Jungle) Reset() {}

func (j *Jungle) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	side := pipeline.SideLeft
	if ctx.Rng.IntN(2) == 1 {
		side = pipeline.SideRight
	}
	ctx.Facts.JungleSide = side

	shape, err := sideBiomeEllipse(ctx, side, j.WidthPct, j.EdgePct)
	if err != nil {
		return err
	}
	ctx.FillIf("jungle", shape, j.jungle, raster.IsUnassigned)
	return nil
}

// sideBiomeEllipse builds the tall clipped ellipse both the jungle and the
// snowfield carve, on the requested world half, spanning the surface and
// underground bands.
func sideBiomeEllipse(ctx *pipeline.Context, side pipeline.Side, widthPct, edgePct float64) (geom.Shape, error) {
	sy0, _, err := ctx.LayerRows("surface")
	if err != nil {
		return nil, err
	}
	_, uy1, err := ctx.LayerRows("underground")
	if err != nil {
		return nil, err
	}

	w := ctx.World.W
	rx := int(float64(w) * widthPct / 100)
	inset := int(float64(w) * edgePct / 100)

	cx := inset
	half := geom.Rect{X0: 0, Y0: 0, X1: w/2 - 1, Y1: ctx.World.H - 1}
	if side == pipeline.SideRight {
		cx = w - 1 - inset
		half = geom.Rect{X0: w / 2, Y0: 0, X1: w - 1, Y1: ctx.World.H - 1}
	}

	e := geom.Ellipse{
		CX: cx,
		CY: (sy0 + uy1) / 2,
		RX: rx,
		RY: (uy1 - sy0) / 2,
	}
	band := geom.Rect{X0: 0, Y0: sy0, X1: w - 1, Y1: uy1 - 1}
	return geom.Intersect(geom.Intersect(e, band), half), nil
}
