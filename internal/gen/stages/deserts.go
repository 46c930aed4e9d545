package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Deserts scatters surface desert slots along the middle of the surface
// band, then places the deep desert: a single slot chosen closest to the
// world center whose underground ellipse must also be clear before it is
// accepted.
type Deserts struct {
	surface uint8
	deep    uint8

	Count        int
	MinWidth     int
	MaxWidth     int
	MinSpacing   int
	Stride       int
	AttemptsMult int
	DeepCount    int
}

func NewDeserts(cat *catalogs.Catalog) (pipeline.Stage, error) {
	surface, err := cat.IDByKey("DESERT_SURFACE")
	if err != nil {
		return nil, fmt.Errorf("deserts: %w", err)
	}
	deep, err := cat.IDByKey("DESERT_DEEP")
	if err != nil {
		return nil, fmt.Errorf("deserts: %w", err)
	}
	return &Deserts{
		surface:      surface,
		deep:         deep,
		Count:        5,
		MinWidth:     60,
		MaxWidth:     140,
		MinSpacing:   40,
		Stride:       4,
		AttemptsMult: 10,
		DeepCount:    1,
	}, nil
}

func (d *Deserts) ID() string { return "deserts" }

func (d *Deserts) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "scatter", Desc: "scatter surface desert slots with spacing"},
		{Name: "deep", Desc: "place the deep desert nearest the world center"},
	}
}

func (d *Deserts) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "count", Label: "Desert count", Type: pipeline.ParamInt, Min: 0, Max: 32, Default: 5},
		{Key: "min_width", Label: "Min slot width", Type: pipeline.ParamInt, Min: 4, Max: 2000, Default: 60},
		{Key: "max_width", Label: "Max slot width", Type: pipeline.ParamInt, Min: 4, Max: 4000, Default: 140},
		{Key: "min_spacing", Label: "Min center spacing", Type: pipeline.ParamInt, Min: 0, Max: 2000, Default: 40},
		{Key: "stride", Label: "Footprint probe stride", Type: pipeline.ParamInt, Min: 1, Max: 16, Default: 4},
		{Key: "attempts_mult", Label: "Retry budget multiplier", Type: pipeline.ParamInt, Min: 1, Max: 100, Default: 10},
		{Key: "deep_count", Label: "Deep desert count", Type: pipeline.ParamInt, Min: 0, Max: 4, Default: 1},
	}
}

func (d *Deserts) Params() map[string]any {
	return map[string]any{
		"count":         d.Count,
		"min_width":     d.MinWidth,
		"max_width":     d.MaxWidth,
		"min_spacing":   d.MinSpacing,
		"stride":        d.Stride,
		"attempts_mult": d.AttemptsMult,
		"deep_count":    d.DeepCount,
	}
}

func (d *Deserts) SetParams(m map[string]any) error {
	var err error
	if d.Count, err = pipeline.IntParam(m, "count", d.Count); err != nil {
		return err
	}
	if d.MinWidth, err = pipeline.IntParam(m, "min_width", d.MinWidth); err != nil {
		return err
	}
	if d.MaxWidth, err = pipeline.IntParam(m, "max_width", d.MaxWidth); err != nil {
		return err
	}
	if d.MinSpacing, err = pipeline.IntParam(m, "min_spacing", d.MinSpacing); err != nil {
		return err
	}
	if d.Stride, err = pipeline.IntParam(m, "stride", d.Stride); err != nil {
		return err
	}
	if d.AttemptsMult, err = pipeline.IntParam(m, "attempts_mult", d.AttemptsMult); err != nil {
		return err
	}
	if d.DeepCount, err = pipeline.IntParam(m, "deep_count", d.DeepCount); err != nil {
		return err
	}
	if d.MaxWidth < d.MinWidth {
		return fmt.Errorf("max_width %d below min_width %d", d.MaxWidth, d.MinWidth)
	}
	return nil
}

func (d *Deserts) Reset() {}

func (d *Deserts) Run(ctx *pipeline.Context, step int) error {
	switch step {
	case 0:
		return d.scatter(ctx)
	case 1:
		return d.placeDeep(ctx)
	default:
		return fmt.Errorf("unknown step %d", step)
	}
}

func (d *Deserts) scatter(ctx *pipeline.Context) error {
	y0, y1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}
	sampleY := (y0 + y1) / 2

	slots := scatterSlots(ctx, sampleY, scatterParams{
		count:        d.Count,
		minWidth:     d.MinWidth,
		maxWidth:     d.MaxWidth,
		minSpacing:   d.MinSpacing,
		attemptsMult: d.AttemptsMult,
	}, func(s pipeline.Slot) bool {
		return ctx.Raster.AllMatch(ctx.Grid, slotRect(s, y0, y1), d.Stride, raster.IsUnassigned)
	})

	for i, s := range slots {
		ctx.FillIf(fmt.Sprintf("desert %d", i), slotRect(s, y0, y1), d.surface, raster.IsUnassigned)
	}
	ctx.Facts.DesertSlots = append(ctx.Facts.DesertSlots, slots...)
	return nil
}

func (d *Deserts) placeDeep(ctx *pipeline.Context) error {
	sy0, sy1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}
	uy0, uy1, err := ctx.LayerRows("underground")
	if err != nil {
		return err
	}
	sampleY := (sy0 + sy1) / 2

	slots := scatterSlots(ctx, sampleY, scatterParams{
		count:        d.DeepCount,
		minWidth:     d.MinWidth,
		maxWidth:     d.MaxWidth,
		minSpacing:   d.MinSpacing,
		attemptsMult: d.AttemptsMult,
		centerFirst:  true,
	}, func(s pipeline.Slot) bool {
		if !ctx.Raster.AllMatch(ctx.Grid, slotRect(s, sy0, sy1), d.Stride, raster.IsUnassigned) {
			return false
		}
		// The underground body is wider than the visible slot; it too must be
		// clear or the surface slot would sit over someone else's region.
		return ctx.Raster.AllMatch(ctx.Grid, deepEllipse(s, uy0, uy1), d.Stride, raster.IsUnassigned)
	})

	for i, s := range slots {
		ctx.FillIf(fmt.Sprintf("deep desert slot %d", i), slotRect(s, sy0, sy1), d.surface, raster.IsUnassigned)
		ctx.FillIf(fmt.Sprintf("deep desert body %d", i), deepEllipse(s, uy0, uy1), d.deep, raster.IsUnassigned)
	}
	ctx.Facts.DesertSlots = append(ctx.Facts.DesertSlots, slots...)
	return nil
}

func slotRect(s pipeline.Slot, y0, y1 int) geom.Rect {
	half := s.Width / 2
	return geom.Rect{X0: s.Center - half, Y0: y0, X1: s.Center - half + s.Width - 1, Y1: y1 - 1}
}

func deepEllipse(s pipeline.Slot, y0, y1 int) geom.Ellipse {
	return geom.Ellipse{
		CX: s.Center,
		CY: (y0 + y1) / 2,
		RX: s.Width, // twice the surface half-width
		RY: (y1 - y0) / 2,
	}
}
