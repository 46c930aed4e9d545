package grid

import "testing"

func TestOutOfBoundsAccess(t *testing.T) {
	g := New(4, 3)
	g.Set(1, 1, 7)

	// OOB reads return the sentinel, never panic.
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		if got := g.Get(p[0], p[1]); got != Unassigned {
			t.Fatalf("Get(%d,%d) = %d, want sentinel", p[0], p[1], got)
		}
	}

	// OOB writes are dropped.
	before := g.Digest()
	g.Set(-1, 0, 9)
	g.Set(4, 2, 9)
	g.Set(0, 3, 9)
	if g.Digest() != before {
		t.Fatalf("out-of-bounds writes changed the grid")
	}
	if g.Get(1, 1) != 7 {
		t.Fatalf("in-bounds value lost")
	}
}

func TestClearAndDigest(t *testing.T) {
	g := New(8, 8)
	d0 := g.Digest()
	g.Set(3, 3, 5)
	if g.Digest() == d0 {
		t.Fatalf("digest did not change after write")
	}
	g.Clear()
	if g.Digest() != d0 {
		t.Fatalf("clear did not restore the empty digest")
	}
}

func TestRowAliasing(t *testing.T) {
	g := New(5, 2)
	row := g.Row(1)
	row[2] = 9
	if g.Get(2, 1) != 9 {
		t.Fatalf("Row slice must alias the backing storage")
	}
	if g.Get(2, 0) != Unassigned {
		t.Fatalf("write leaked into another row")
	}
}

func TestNewClampsDimensions(t *testing.T) {
	g := New(0, -3)
	if g.W != 1 || g.H != 1 {
		t.Fatalf("got %dx%d, want 1x1", g.W, g.H)
	}
}
