package raster

import (
	"testing"

	"mapforge/internal/gen/geom"
	"mapforge/internal/gen/grid"
)

const (
	forceSerial   = 1 << 30
	forceParallel = 1
)

func TestConditionalFillRectangle(t *testing.T) {
	e := New(forceSerial)
	defer e.Close()
	g := grid.New(100, 100)

	r := geom.Rect{X0: 10, Y0: 10, X1: 29, Y1: 29}
	e.FillIf(g, r, 5, IsUnassigned)

	count := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			v := g.Get(x, y)
			switch {
			case r.Contains(x, y):
				if v != 5 {
					t.Fatalf("(%d,%d) = %d, want 5", x, y, v)
				}
				count++
			case v != grid.Unassigned:
				t.Fatalf("(%d,%d) = %d, want sentinel", x, y, v)
			}
		}
	}
	if count != 400 {
		t.Fatalf("filled %d cells, want 400", count)
	}
}

func TestSerialParallelEquivalence(t *testing.T) {
	shapes := []geom.Shape{
		geom.Rect{X0: 5, Y0: 5, X1: 200, Y1: 120},
		geom.Ellipse{CX: 100, CY: 80, RX: 70, RY: 40},
		geom.Trapezoid{YTop: 10, YBot: 150, TopX0: 20, TopX1: 60, BotX0: 0, BotX1: 180},
		geom.Subtract(
			geom.Ellipse{CX: 100, CY: 80, RX: 80, RY: 60},
			geom.Rect{X0: 80, Y0: 60, X1: 120, Y1: 100},
		),
	}

	serial := New(forceSerial)
	parallel := New(forceParallel)
	defer serial.Close()
	defer parallel.Close()

	for i, s := range shapes {
		g1 := grid.New(256, 160)
		g2 := grid.New(256, 160)
		serial.Fill(g1, s, uint8(i+1))
		parallel.Fill(g2, s, uint8(i+1))
		if g1.Digest() != g2.Digest() {
			t.Fatalf("shape %d: serial and parallel fills differ", i)
		}

		for _, stride := range []int{1, 3} {
			q1 := serial.AllMatch(g1, s, stride, func(v uint8) bool { return v == uint8(i+1) })
			q2 := parallel.AllMatch(g2, s, stride, func(v uint8) bool { return v == uint8(i+1) })
			if q1 != q2 {
				t.Fatalf("shape %d stride %d: query results differ (%v vs %v)", i, stride, q1, q2)
			}
			if !q1 {
				t.Fatalf("shape %d stride %d: freshly filled footprint should match", i, stride)
			}
		}
	}
}

func TestFillIdempotentOnUnassignedOnly(t *testing.T) {
	e := New(forceSerial)
	defer e.Close()
	g := grid.New(64, 64)

	s := geom.Ellipse{CX: 30, CY: 30, RX: 20, RY: 15}
	e.FillIf(g, s, 3, IsUnassigned)
	first := g.Digest()
	e.FillIf(g, s, 3, IsUnassigned)
	if g.Digest() != first {
		t.Fatalf("second unassigned-only fill changed the grid")
	}
}

func TestAllMatchDetectsOccupiedCell(t *testing.T) {
	for _, threshold := range []int{forceSerial, forceParallel} {
		e := New(threshold)
		g := grid.New(64, 64)
		s := geom.Rect{X0: 0, Y0: 0, X1: 63, Y1: 63}

		if !e.AllMatch(g, s, 1, IsUnassigned) {
			t.Fatalf("threshold %d: empty grid should match", threshold)
		}
		g.Set(40, 17, 2)
		if e.AllMatch(g, s, 1, IsUnassigned) {
			t.Fatalf("threshold %d: occupied cell missed", threshold)
		}
		e.Close()
	}
}

func TestAllMatchStrideSkipsCells(t *testing.T) {
	e := New(forceSerial)
	defer e.Close()
	g := grid.New(32, 32)
	s := geom.Rect{X0: 0, Y0: 0, X1: 31, Y1: 31}

	// A single occupied cell off the stride-4 lattice is invisible at
	// stride 4 but caught at stride 1.
	g.Set(1, 1, 9)
	if !e.AllMatch(g, s, 4, IsUnassigned) {
		t.Fatalf("stride 4 should skip the off-lattice cell")
	}
	if e.AllMatch(g, s, 1, IsUnassigned) {
		t.Fatalf("stride 1 should see the occupied cell")
	}
}

func TestFillClipsToGrid(t *testing.T) {
	e := New(forceSerial)
	defer e.Close()
	g := grid.New(16, 16)

	e.Fill(g, geom.Rect{X0: -100, Y0: -100, X1: 100, Y1: 100}, 4)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if g.Get(x, y) != 4 {
				t.Fatalf("(%d,%d) not filled", x, y)
			}
		}
	}

	// A shape entirely off-grid is a no-op.
	g2 := grid.New(16, 16)
	e.Fill(g2, geom.Rect{X0: 100, Y0: 100, X1: 200, Y1: 200}, 4)
	if g2.Digest() != grid.New(16, 16).Digest() {
		t.Fatalf("off-grid fill touched the grid")
	}
}

func TestPredicates(t *testing.T) {
	if !IsUnassigned(grid.Unassigned) || IsUnassigned(3) {
		t.Fatalf("IsUnassigned wrong")
	}
	if !Is(7)(7) || Is(7)(8) {
		t.Fatalf("Is wrong")
	}
	p := UnassignedOr(7)
	if !p(grid.Unassigned) || !p(7) || p(8) {
		t.Fatalf("UnassignedOr wrong")
	}
}
