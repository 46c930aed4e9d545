package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Snow carves the snowfield on the side opposite the jungle. It reads the
// jungle's side from the shared facts and refuses to run before the jungle
// stage has recorded it.
type Snow struct {
	snow uint8

	WidthPct float64
	EdgePct  float64
}

func NewSnow(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("SNOW")
	if err != nil {
		return nil, fmt.Errorf("snow: %w", err)
	}
	return &Snow{snow: id, WidthPct: 10, EdgePct: 22}, nil
}

func (s *Snow) ID() string { return "snow" }

func (s *Snow) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "carve", Desc: "carve the snowfield opposite the jungle"},
	}
}

func (s *Snow) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "width_pct", Label: "Snow width (% of world)", Type: pipeline.ParamFloat, Min: 4, Max: 30, Default: 10.0},
		{Key: "edge_pct", Label: "Center inset from edge (%)", Type: pipeline.ParamFloat, Min: 5, Max: 45, Default: 22.0},
	}
}

func (s *Snow) Params() map[string]any {
	return map[string]any{"width_pct": s.WidthPct, "edge_pct": s.EdgePct}
}

func (s *Snow) SetParams(m map[string]any) error {
	var err error
	if s.WidthPct, err = pipeline.FloatParam(m, "width_pct", s.WidthPct); err != nil {
		return err
	}
	if s.EdgePct, err = pipeline.FloatParam(m, "edge_pct", s.EdgePct); err != nil {
		return err
	}
	return nil
}

func (s *Snow) Reset() {}

func (s *Snow) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	if ctx.Facts.JungleSide == pipeline.SideUnknown {
		return fmt.Errorf("jungle side not decided yet; run the jungle stage first")
	}

	shape, err := sideBiomeEllipse(ctx, ctx.Facts.JungleSide.Opposite(), s.WidthPct, s.EdgePct)
	if err != nil {
		return err
	}
	ctx.FillIf("snowfield", shape, s.snow, raster.IsUnassigned)
	return nil
}
