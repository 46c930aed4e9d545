// Package raster paints shapes onto a region grid. Every operation clips the
// shape's bounding box to the grid, measures the clipped area, and runs
// serially below the pixel threshold or row-parallel at or above it. The two
// paths are required to produce bit-identical results.
package raster

import (
	"sync/atomic"

	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/grid"
)

// DefaultThreshold is the clipped pixel count at which operations switch to
// the row-parallel path. Calibrate can replace it with a measured crossover.
const DefaultThreshold = 50000

type Engine struct {
	threshold int
	pool      *workerPool
}

func New(threshold int) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		threshold: threshold,
		pool:      newWorkerPool(0),
	}
}

func (e *Engine) Threshold() int { return e.threshold }

// SetThreshold overrides the serial/parallel crossover, mainly for tests
// that force one path or the other.
func (e *Engine) SetThreshold(t int) {
	if t > 0 {
		e.threshold = t
	}
}

func (e *Engine) Close() { e.pool.stop() }

// Fill writes id to every cell of g inside s.
func (e *Engine) Fill(g *grid.Grid, s geom.Shape, id uint8) {
	e.FillIf(g, s, id, nil)
}

// FillIf writes id to every cell of g inside s whose current value satisfies
// cond. A nil cond admits every cell.
func (e *Engine) FillIf(g *grid.Grid, s geom.Shape, id uint8, cond func(uint8) bool) {
	box := s.Bounds().ClipToGrid(g.W, g.H)
	if box.Empty() {
		return
	}
	fillRow := func(y int) {
		row := g.Row(y)
		for x := box.X0; x <= box.X1; x++ {
			if !s.Contains(x, y) {
				continue
			}
			if cond != nil && !cond(row[x]) {
				continue
			}
			row[x] = id
		}
	}
	if box.Area() < e.threshold {
		for y := box.Y0; y <= box.Y1; y++ {
			fillRow(y)
		}
		return
	}
	e.pool.forRows(box.Y0, box.Y1, fillRow)
}

// AllMatch reports whether every sampled cell of g inside s satisfies pred.
// A stride > 1 checks every stride-th cell in both axes, trading accuracy
// for speed; placement code uses it to probe footprints before committing.
// Both paths exit early on the first mismatch.
func (e *Engine) AllMatch(g *grid.Grid, s geom.Shape, stride int, pred func(uint8) bool) bool {
	if stride < 1 {
		stride = 1
	}
	box := s.Bounds().ClipToGrid(g.W, g.H)
	if box.Empty() {
		return true
	}
	rowMatches := func(y int) bool {
		row := g.Row(y)
		for x := box.X0; x <= box.X1; x += stride {
			if s.Contains(x, y) && !pred(row[x]) {
				return false
			}
		}
		return true
	}
	if box.Area() < e.threshold {
		for y := box.Y0; y <= box.Y1; y += stride {
			if !rowMatches(y) {
				return false
			}
		}
		return true
	}

	var failed atomic.Bool
	// Strided row visit under the pool: walk chunk rows but skip those not on
	// the stride lattice relative to box.Y0.
	e.pool.forRows(box.Y0, box.Y1, func(y int) {
		if (y-box.Y0)%stride != 0 {
			return
		}
		if failed.Load() {
			return
		}
		if !rowMatches(y) {
			failed.Store(true)
		}
	})
	return !failed.Load()
}

// Predicates shared by the placement stages.

func IsUnassigned(v uint8) bool { return v == grid.Unassigned }

// Is admits only cells currently holding id.
func Is(id uint8) func(uint8) bool {
	return func(v uint8) bool { return v == id }
}

// UnassignedOr admits unassigned cells plus cells holding id, the usual
// "still empty, or already ours" overwrite rule.
func UnassignedOr(id uint8) func(uint8) bool {
	return func(v uint8) bool { return v == grid.Unassigned || v == id }
}
