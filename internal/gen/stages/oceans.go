package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Oceans carves a tapering body of water into both vertical edges of the
// surface band: wide at the band's top row, narrowing toward its floor.
type Oceans struct {
	ocean uint8

	WidthPct float64 // top width of each ocean as a percentage of world width
	TaperPct float64 // bottom width as a percentage of the top width
}

func NewOceans(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("OCEAN")
	if err != nil {
		return nil, fmt.Errorf("oceans: %w", err)
	}
	return &Oceans{ocean: id, WidthPct: 8, TaperPct: 35}, nil
}

func (o *Oceans) ID() string { return "oceans" }

func (o *Oceans) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "carve", Desc: "carve tapered oceans into both world edges"},
	}
}

func (o *Oceans) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "width_pct", Label: "Edge width (% of world)", Type: pipeline.ParamFloat, Min: 1, Max: 25, Default: 8.0},
		{Key: "taper_pct", Label: "Floor taper (% of top width)", Type: pipeline.ParamFloat, Min: 0, Max: 100, Default: 35.0},
	}
}

func (o *Oceans) Params() map[string]any {
	return map[string]any{"width_pct": o.WidthPct, "taper_pct": o.TaperPct}
}

func (o *Oceans) SetParams(m map[string]any) error {
	var err error
	if o.WidthPct, err = pipeline.FloatParam(m, "width_pct", o.WidthPct); err != nil {
		return err
	}
	if o.TaperPct, err = pipeline.FloatParam(m, "taper_pct", o.TaperPct); err != nil {
		return err
	}
	return nil
}

func (o *Oceans) Reset() {}

func (o *Oceans) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	y0, y1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}

	top := int(float64(ctx.World.W) * o.WidthPct / 100)
	if top < 1 {
		top = 1
	}
	bot := top * int(o.TaperPct) / 100

	left := geom.Trapezoid{
		YTop: y0, YBot: y1,
		TopX0: 0, TopX1: top - 1,
		BotX0: 0, BotX1: bot,
	}
	right := geom.Trapezoid{
		YTop: y0, YBot: y1,
		TopX0: ctx.World.W - top, TopX1: ctx.World.W - 1,
		BotX0: ctx.World.W - 1 - bot, BotX1: ctx.World.W - 1,
	}

	ctx.FillIf("ocean west", left, o.ocean, raster.IsUnassigned)
	ctx.FillIf("ocean east", right, o.ocean, raster.IsUnassigned)
	return nil
}
