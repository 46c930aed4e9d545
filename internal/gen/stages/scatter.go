package stages

import (
	"mapforge/internal/gen/grid"
	"mapforge/internal/gen/mathx"
	"mapforge/internal/gen/pipeline"
)

// interval is a maximal run of unassigned cells on a sample line, inclusive.
type interval struct {
	x0, x1 int
}

func (iv interval) width() int { return iv.x1 - iv.x0 + 1 }

// emptyIntervals collapses the sample line's unassigned runs.
func emptyIntervals(g *grid.Grid, y int) []interval {
	var out []interval
	start := -1
	for x := 0; x < g.W; x++ {
		if g.Get(x, y) == grid.Unassigned {
			if start < 0 {
				start = x
			}
			continue
		}
		if start >= 0 {
			out = append(out, interval{x0: start, x1: x - 1})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, interval{x0: start, x1: g.W - 1})
	}
	return out
}

type scatterParams struct {
	count        int
	minWidth     int
	maxWidth     int
	minSpacing   int
	attemptsMult int  // retry budget = count * attemptsMult
	centerFirst  bool // prioritize intervals nearest the world center
}

// scatterSlots runs the shared constrained-placement loop on one sample
// line. Per attempt the draw order is fixed - width, interval, center - and
// must stay fixed: replays depend on the exact draw sequence, not just the
// seed. accept vetoes a candidate after the spacing check (footprint probes
// live there). Running out of attempts is an expected outcome; the caller
// gets however many slots fit.
func scatterSlots(ctx *pipeline.Context, sampleY int, p scatterParams, accept func(pipeline.Slot) bool) []pipeline.Slot {
	if p.count <= 0 || p.maxWidth < p.minWidth {
		return nil
	}
	if p.attemptsMult <= 0 {
		p.attemptsMult = 10
	}

	var placed []pipeline.Slot
	maxAttempts := p.count * p.attemptsMult
	for attempts := 0; len(placed) < p.count && attempts < maxAttempts; attempts++ {
		width := p.minWidth
		if p.maxWidth > p.minWidth {
			width += ctx.Rng.IntN(p.maxWidth - p.minWidth + 1)
		}

		candidates := wideEnough(emptyIntervals(ctx.Grid, sampleY), width)
		if len(candidates) == 0 {
			continue
		}

		var iv interval
		if p.centerFirst {
			iv = closestToCenter(candidates, ctx.World.W/2)
		} else {
			iv = candidates[ctx.Rng.IntN(len(candidates))]
		}

		half := width / 2
		lo := iv.x0 + half
		hi := iv.x1 - (width - half - 1)
		if hi < lo {
			continue
		}
		center := lo
		if hi > lo {
			center += ctx.Rng.IntN(hi - lo + 1)
		}

		if !spacedFrom(placed, center, width, p.minSpacing) {
			continue
		}
		slot := pipeline.Slot{Center: center, Width: width}
		if accept != nil && !accept(slot) {
			continue
		}
		placed = append(placed, slot)
	}
	return placed
}

func wideEnough(ivs []interval, width int) []interval {
	out := ivs[:0:0]
	for _, iv := range ivs {
		if iv.width() >= width {
			out = append(out, iv)
		}
	}
	return out
}

func closestToCenter(ivs []interval, cx int) interval {
	best := ivs[0]
	bestDist := centerDist(best, cx)
	for _, iv := range ivs[1:] {
		if d := centerDist(iv, cx); d < bestDist {
			best = iv
			bestDist = d
		}
	}
	return best
}

func centerDist(iv interval, cx int) int {
	return mathx.AbsInt((iv.x0+iv.x1)/2 - cx)
}

// spacedFrom enforces the spacing invariant: center distance at least the
// sum of half-widths plus the configured minimum.
func spacedFrom(placed []pipeline.Slot, center, width, minSpacing int) bool {
	for _, s := range placed {
		if mathx.AbsInt(center-s.Center) < (width+s.Width)/2+minSpacing {
			return false
		}
	}
	return true
}
