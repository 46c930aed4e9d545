package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Specials scatters the special regions over the surface band with the same
// constrained-placement loop as the deserts. Scarcity is expected: when the
// surface is already crowded the stage simply places fewer regions.
type Specials struct {
	special uint8

	Count        int
	MinWidth     int
	MaxWidth     int
	MinSpacing   int
	Stride       int
	AttemptsMult int
}

func NewSpecials(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("SPECIAL")
	if err != nil {
		return nil, fmt.Errorf("specials: %w", err)
	}
	return &Specials{
		special:      id,
		Count:        2,
		MinWidth:     40,
		MaxWidth:     90,
		MinSpacing:   80,
		Stride:       4,
		AttemptsMult: 10,
	}, nil
}

func (s *Specials) ID() string { return "specials" }

func (s *Specials) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "scatter", Desc: "scatter special regions with spacing"},
	}
}

func (s *Specials) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "count", Label: "Region count", Type: pipeline.ParamInt, Min: 0, Max: 16, Default: 2},
		{Key: "min_width", Label: "Min slot width", Type: pipeline.ParamInt, Min: 4, Max: 2000, Default: 40},
		{Key: "max_width", Label: "Max slot width", Type: pipeline.ParamInt, Min: 4, Max: 4000, Default: 90},
		{Key: "min_spacing", Label: "Min center spacing", Type: pipeline.ParamInt, Min: 0, Max: 2000, Default: 80},
		{Key: "stride", Label: "Footprint probe stride", Type: pipeline.ParamInt, Min: 1, Max: 16, Default: 4},
		{Key: "attempts_mult", Label: "Retry budget multiplier", Type: pipeline.ParamInt, Min: 1, Max: 100, Default: 10},
	}
}

func (s *Specials) Params() map[string]any {
	return map[string]any{
		"count":         s.Count,
		"min_width":     s.MinWidth,
		"max_width":     s.MaxWidth,
		"min_spacing":   s.MinSpacing,
		"stride":        s.Stride,
		"attempts_mult": s.AttemptsMult,
	}
}

func (s *Specials) SetParams(m map[string]any) error {
	var err error
	if s.Count, err = pipeline.IntParam(m, "count", s.Count); err != nil {
		return err
	}
	if s.MinWidth, err = pipeline.IntParam(m, "min_width", s.MinWidth); err != nil {
		return err
	}
	if s.MaxWidth, err = pipeline.IntParam(m, "max_width", s.MaxWidth); err != nil {
		return err
	}
	if s.MinSpacing, err = pipeline.IntParam(m, "min_spacing", s.MinSpacing); err != nil {
		return err
	}
	if s.Stride, err = pipeline.IntParam(m, "stride", s.Stride); err != nil {
		return err
	}
	if s.AttemptsMult, err = pipeline.IntParam(m, "attempts_mult", s.AttemptsMult); err != nil {
		return err
	}
	if s.MaxWidth < s.MinWidth {
		return fmt.Errorf("max_width %d below min_width %d", s.MaxWidth, s.MinWidth)
	}
	return nil
}

func (s *Specials) Reset() {}

func (s *Specials) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	y0, y1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}
	sampleY := (y0 + y1) / 2

	slots := scatterSlots(ctx, sampleY, scatterParams{
		count:        s.Count,
		minWidth:     s.MinWidth,
		maxWidth:     s.MaxWidth,
		minSpacing:   s.MinSpacing,
		attemptsMult: s.AttemptsMult,
	}, func(sl pipeline.Slot) bool {
		return ctx.Raster.AllMatch(ctx.Grid, slotRect(sl, y0, y1), s.Stride, raster.IsUnassigned)
	})

	for i, sl := range slots {
		shape := geom.Union(
			slotRect(sl, y0, y1),
			// A shallow cap above the slot, so the region reads as a mound
			// rather than a flat strip.
			geom.Intersect(
				geom.Ellipse{CX: sl.Center, CY: y0, RX: sl.Width / 2, RY: (y1 - y0) / 4},
				geom.Rect{X0: 0, Y0: 0, X1: ctx.World.W - 1, Y1: y1 - 1},
			),
		)
		ctx.FillIf(fmt.Sprintf("special region %d", i), shape, s.special, raster.IsUnassigned)
	}
	ctx.Facts.SpecialSlots = append(ctx.Facts.SpecialSlots, slots...)
	return nil
}
