package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/mathx"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
)

// Minerals sprinkles small ore patches through the underground band using
// hashed cluster noise: each grid cell of a coarse lattice rolls for a
// cluster center, and cells within the cluster radius join the patch. The
// noise is a pure function of (salt, x, y), so the whole stage is a single
// conditional fill.
type Minerals struct {
	mineral uint8

	ClusterGrid  int
	Radius       int
	ProbPermille int
}

func NewMinerals(cat *catalogs.Catalog) (pipeline.Stage, error) {
	id, err := cat.IDByKey("MINERAL")
	if err != nil {
		return nil, fmt.Errorf("minerals: %w", err)
	}
	return &Minerals{mineral: id, ClusterGrid: 48, Radius: 4, ProbPermille: 350}, nil
}

func (m *Minerals) ID() string { return "minerals" }

func (m *Minerals) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "clusters", Desc: "sprinkle hashed mineral clusters underground"},
	}
}

func (m *Minerals) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "cluster_grid", Label: "Cluster lattice size", Type: pipeline.ParamInt, Min: 8, Max: 512, Default: 48},
		{Key: "radius", Label: "Cluster radius", Type: pipeline.ParamInt, Min: 1, Max: 32, Default: 4},
		{Key: "prob_permille", Label: "Cluster probability (permille)", Type: pipeline.ParamInt, Min: 0, Max: 1000, Default: 350},
	}
}

func (m *Minerals) Params() map[string]any {
	return map[string]any{
		"cluster_grid":  m.ClusterGrid,
		"radius":        m.Radius,
		"prob_permille": m.ProbPermille,
	}
}

func (m *Minerals) SetParams(p map[string]any) error {
	var err error
	if m.ClusterGrid, err = pipeline.IntParam(p, "cluster_grid", m.ClusterGrid); err != nil {
		return err
	}
	if m.Radius, err = pipeline.IntParam(p, "radius", m.Radius); err != nil {
		return err
	}
	if m.ProbPermille, err = pipeline.IntParam(p, "prob_permille", m.ProbPermille); err != nil {
		return err
	}
	return nil
}

func (m *Minerals) Reset() {}

func (m *Minerals) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	y0, y1, err := ctx.LayerRows("underground")
	if err != nil {
		return err
	}

	noise := clusterNoise{
		salt:         ctx.Rng.Int64(),
		grid:         m.ClusterGrid,
		radius:       m.Radius,
		probPermille: uint64(mathx.ClampInt(m.ProbPermille, 0, 1000)),
		band:         geom.Rect{X0: 0, Y0: y0, X1: ctx.World.W - 1, Y1: y1 - 1},
	}
	ctx.FillIf("mineral clusters", noise, m.mineral, raster.IsUnassigned)
	return nil
}

// clusterNoise is a Shape whose membership is hashed cluster noise clipped
// to a band.
type clusterNoise struct {
	salt         int64
	grid         int
	radius       int
	probPermille uint64
	band         geom.Rect
}

func (c clusterNoise) Bounds() geom.Box { return c.band.Bounds() }

func (c clusterNoise) Contains(x, y int) bool {
	if !c.band.Contains(x, y) {
		return false
	}
	if c.grid <= 0 || c.radius <= 0 || c.probPermille == 0 {
		return false
	}
	gx := mathx.FloorDiv(x, c.grid)
	gy := mathx.FloorDiv(y, c.grid)
	r2 := c.radius * c.radius

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cgx := gx + dx
			cgy := gy + dy
			h := mathx.Hash2(c.salt, cgx, cgy)
			if h%1000 >= c.probPermille {
				continue
			}

			// Deterministic center inside the lattice cell.
			ox := int((h >> 10) % uint64(c.grid))
			oy := int((h >> 20) % uint64(c.grid))
			cx := cgx*c.grid + ox
			cy := cgy*c.grid + oy

			ddx := x - cx
			ddy := y - cy
			if ddx*ddx+ddy*ddy <= r2 {
				return true
			}
		}
	}
	return false
}
