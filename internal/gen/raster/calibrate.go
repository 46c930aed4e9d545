package raster

import (
	"time"

	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/grid"
)

// Calibrate measures the serial and parallel fill paths on synthetic grids
// of increasing area and sets the threshold to the first area where the
// parallel path wins, padded by a safety margin so borderline areas stay
// serial. Returns the chosen threshold. Intended to run once at startup;
// callers that skip it keep DefaultThreshold.
func (e *Engine) Calibrate() int {
	const (
		side0  = 64
		sideN  = 1024
		margin = 5 // percent added on top of the crossover area
	)

	best := 0
	for side := side0; side <= sideN; side *= 2 {
		g := grid.New(side, side)
		s := geom.Rect{X0: 0, Y0: 0, X1: side - 1, Y1: side - 1}

		serial := e.timeFill(g, s, 1<<30) // threshold above area forces serial
		parallel := e.timeFill(g, s, 1)   // threshold below area forces parallel

		if parallel < serial {
			best = side * side
			break
		}
	}
	if best == 0 {
		// Parallel never won inside the probe range; leave effectively serial.
		best = sideN * sideN
	}
	e.threshold = best + best*margin/100
	return e.threshold
}

func (e *Engine) timeFill(g *grid.Grid, s geom.Shape, threshold int) time.Duration {
	saved := e.threshold
	e.threshold = threshold
	defer func() { e.threshold = saved }()

	const reps = 3
	start := time.Now()
	for i := 0; i < reps; i++ {
		e.Fill(g, s, 1)
	}
	return time.Since(start) / reps
}
