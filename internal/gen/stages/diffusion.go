package stages

import (
	"fmt"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/grid"
	"mapforge/internal/gen/pipeline"
)

// Diffusion closes narrow seams left between scattered regions. For every
// accepted slot it measures the unassigned gap on each side of the sample
// line; when a gap is narrower than the threshold the slot's region grows
// into it, row by row across the band, starting from the region's actual
// silhouette edge at that row rather than the sample-line edge. Growing from
// the true edge is what prevents jagged seams where the silhouette bulges
// away from the sample line.
type Diffusion struct {
	MaxGap int
}

func NewDiffusion(_ *catalogs.Catalog) (pipeline.Stage, error) {
	return &Diffusion{MaxGap: 24}, nil
}

func (d *Diffusion) ID() string { return "diffusion" }

func (d *Diffusion) Steps() []pipeline.StepInfo {
	return []pipeline.StepInfo{
		{Name: "grow", Desc: "grow scattered regions into narrow gaps"},
	}
}

func (d *Diffusion) ParamSchema() []pipeline.ParamSpec {
	return []pipeline.ParamSpec{
		{Key: "max_gap", Label: "Max gap to absorb", Type: pipeline.ParamInt, Min: 1, Max: 500, Default: 24},
	}
}

func (d *Diffusion) Params() map[string]any {
	return map[string]any{"max_gap": d.MaxGap}
}

func (d *Diffusion) SetParams(m map[string]any) error {
	var err error
	if d.MaxGap, err = pipeline.IntParam(m, "max_gap", d.MaxGap); err != nil {
		return err
	}
	return nil
}

func (d *Diffusion) Reset() {}

func (d *Diffusion) Run(ctx *pipeline.Context, step int) error {
	if step != 0 {
		return fmt.Errorf("unknown step %d", step)
	}
	y0, y1, err := ctx.LayerRows("surface")
	if err != nil {
		return err
	}
	sampleY := (y0 + y1) / 2

	slots := make([]pipeline.Slot, 0, len(ctx.Facts.DesertSlots)+len(ctx.Facts.SpecialSlots))
	slots = append(slots, ctx.Facts.DesertSlots...)
	slots = append(slots, ctx.Facts.SpecialSlots...)

	for _, slot := range slots {
		id := ctx.Grid.Get(slot.Center, sampleY)
		if id == grid.Unassigned {
			continue
		}
		for _, dir := range []int{-1, 1} {
			gap := gapWidth(ctx.Grid, slot, sampleY, dir)
			if gap == 0 || gap >= d.MaxGap {
				continue
			}
			d.growSide(ctx, slot, id, dir, y0, y1)
		}
	}
	return nil
}

// gapWidth counts unassigned cells on the sample line between the slot's
// edge and the next claimed cell (or the world edge).
func gapWidth(g *grid.Grid, slot pipeline.Slot, sampleY, dir int) int {
	half := slot.Width / 2
	x := slot.Center + dir*half
	// Step off the slot itself first: the scatter fill may not have reached
	// the nominal edge exactly.
	for x >= 0 && x < g.W && g.Get(x, sampleY) != grid.Unassigned {
		x += dir
	}
	n := 0
	for x >= 0 && x < g.W && g.Get(x, sampleY) == grid.Unassigned {
		n++
		x += dir
	}
	return n
}

// growSide extends the region sideways on every band row. Each row starts
// at the slot center, walks to the region's own edge, then claims unassigned
// cells until it meets any other region.
func (d *Diffusion) growSide(ctx *pipeline.Context, slot pipeline.Slot, id uint8, dir, y0, y1 int) {
	g := ctx.Grid
	minX, maxX := g.W, -1
	minY, maxY := y1, y0-1
	for y := y0; y < y1; y++ {
		if g.Get(slot.Center, y) != id {
			// Silhouette does not reach this row.
			continue
		}
		x := slot.Center
		for g.Get(x, y) == id {
			x += dir
		}
		for x >= 0 && x < g.W && g.Get(x, y) == grid.Unassigned {
			g.Set(x, y, id)
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			x += dir
		}
	}
	if maxX >= minX {
		ctx.Record(fmt.Sprintf("diffusion @%d dir %+d", slot.Center, dir), geom.Box{X0: minX, Y0: minY, X1: maxX, Y1: maxY}, id)
	}
}
