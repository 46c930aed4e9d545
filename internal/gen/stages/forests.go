package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Forests runs in two sub-steps: drop seed ellipses along the surface band,
// then spread each seed outward with widening conditional fills that only
// claim cells still unassigned or already forest.
type Forests struct {
	forest uint8

	Count        int
	MinRadius    int
	MaxRadius    int
	SpreadPasses int

	// Carried between the seed and spread sub-steps of one run; Reset drops
	// it so a replay re-derives the centers from the step seed.
	seeds []geom.Ellipse
}

func NewForests(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("FOREST")
	if err != nil {
		return nil, fmt.Errorf("forests: %w", err)
	}
	return &Forests{forest: id, Count: 6, MinRadius: 12, MaxRadius: 40, SpreadPasses: 3}, nil
}

func (f *Forests) ID() string { return "forests" }

func (f *Forests) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "seed", Desc: "drop forest seed ellipses on the surface band"},
		{Name: "spread", Desc: "grow each seed into neighbouring empty ground"},
	}
}

func (f *Forests) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "count", Label: "Forest count", Type: pipeline.ParamInt, Min: 0, Max: 64, Default: 6},
		{Key: "min_radius", Label: "Min seed radius", Type: pipeline.ParamInt, Min: 2, Max: 200, Default: 12},
		{Key: "max_radius", Label: "Max seed radius", Type: pipeline.ParamInt, Min: 2, Max: 400, Default: 40},
		{Key: "spread_passes", Label: "Spread passes", Type: pipeline.ParamInt, Min: 0, Max: 10, Default: 3},
	}
}

func (f *Forests) Params() map[string]any {
	return map[string]any{
		"count":         f.Count,
		"min_radius":    f.MinRadius,
		"max_radius":    f.MaxRadius,
		"spread_passes": f.SpreadPasses,
	}
}

func (f *Forests) SetParams(m map[string]any) error {
	var err error
	if f.Count, err = pipeline.IntParam(m, "count", f.Count); err != nil {
		return err
	}
	if f.MinRadius, err = pipeline.IntParam(m, "min_radius", f.MinRadius); err != nil {
		return err
	}
	if f.MaxRadius, err = pipeline.IntParam(m, "max_radius", f.MaxRadius); err != nil {
		return err
	}
	if f.SpreadPasses, err = pipeline.IntParam(m, "spread_passes", f.SpreadPasses); err != nil {
		return err
	}
	if f.MaxRadius < f.MinRadius {
		return fmt.Errorf("max_radius %d below min_radius %d", f.MaxRadius, f.MinRadius)
	}
	return nil
}

func (f *Forests) Reset() {
	f.seeds = nil
}

func (f *Forests) Run(ctx *pipeline.Context, step int) error {
	switch step {
	case 0:
		return f.seed(ctx)
	case 1:
		return f.spread(ctx)
	default:
		return fmt.Errorf("unknown step %d", step)
	}
}

func (f *Forests) seed(ctx *pipeline.Context) error {
	y0, y1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}
	band := geom.Rect{X0: 0, Y0: y0, X1: ctx.World.W - 1, Y1: y1 - 1}

	// Non-nil even for count 0: spread distinguishes "seeded nothing" from
	// "never seeded".
	f.seeds = make([]geom.Ellipse, 0, f.Count)
	for i := 0; i < f.Count; i++ {
		rx := f.MinRadius
		if f.MaxRadius > f.MinRadius {
			rx += ctx.Rng.IntN(f.MaxRadius - f.MinRadius + 1)
		}
		cx := ctx.Rng.IntN(ctx.World.W)
		cy := y0 + (y1-y0)/2
		e := geom.Ellipse{CX: cx, CY: cy, RX: rx, RY: (y1 - y0) / 3}

		// Clip to the band so a seed never leaks above or below the surface.
		ctx.FillIf(fmt.Sprintf("forest seed %d", i), geom.Intersect(e, band), f.forest, raster.IsUnassigned)
		f.seeds = append(f.seeds, e)
	}
	return nil
}

func (f *Forests) spread(ctx *pipeline.Context) error {
	if f.seeds == nil {
		return fmt.Errorf("spread before seed: forest centers unknown")
	}
	y0, y1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}
	band := geom.Rect{X0: 0, Y0: y0, X1: ctx.World.W - 1, Y1: y1 - 1}

	for pass := 1; pass <= f.SpreadPasses; pass++ {
		for i, e := range f.seeds {
			grown := geom.Ellipse{
				CX: e.CX,
				CY: e.CY,
				RX: e.RX + pass*e.RX/2,
				RY: e.RY + pass,
			}
			ctx.FillIf(
				fmt.Sprintf("forest spread %d pass %d", i, pass),
				geom.Intersect(grown, band),
				f.forest,
				raster.UnassignedOr(f.forest),
			)
		}
	}
	return nil
}
