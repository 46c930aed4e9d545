package grid

import (
	"crypto/sha256"
	"encoding/hex"
)

// Unassigned is the reserved region id for cells no stage has claimed yet.
// It is pinned to palette index 0 by the region catalog loader.
const Unassigned uint8 = 0

// Grid stores one region id per world cell, row-major.
type Grid struct {
	W, H int
	data []uint8
}

func New(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]uint8, w*h)}
}

// Get returns the region id at (x, y), or Unassigned when out of bounds.
func (g *Grid) Get(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return Unassigned
	}
	return g.data[y*g.W+x]
}

// Set writes the region id at (x, y). Out-of-bounds writes are dropped.
func (g *Grid) Set(x, y int, id uint8) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.data[y*g.W+x] = id
}

// Row returns the backing slice for row y. Rows never alias, which is what
// makes the rasterizer's row-parallel path safe without locks.
func (g *Grid) Row(y int) []uint8 {
	return g.data[y*g.W : (y+1)*g.W]
}

// Cells exposes the backing slice for read-only full scans (preview, digest).
func (g *Grid) Cells() []uint8 { return g.data }

// Clear resets every cell to Unassigned.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = Unassigned
	}
}

// Digest returns the hex SHA-256 of the cell contents. Two runs are
// considered identical iff their digests match.
func (g *Grid) Digest() string {
	sum := sha256.Sum256(g.data)
	return hex.EncodeToString(sum[:])
}
