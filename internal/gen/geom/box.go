package geom

// Box is an inclusive axis-aligned bounding box over grid cells.
type Box struct {
	X0, Y0, X1, Y1 int
}

func (b Box) Empty() bool {
	return b.X1 < b.X0 || b.Y1 < b.Y0
}

// Area counts the cells covered by the box (0 when empty).
func (b Box) Area() int {
	if b.Empty() {
		return 0
	}
	return (b.X1 - b.X0 + 1) * (b.Y1 - b.Y0 + 1)
}

func (b Box) Contains(x, y int) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Union returns the smallest box covering both operands.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// Intersect returns the overlap of both operands (possibly empty).
func (b Box) Intersect(o Box) Box {
	return Box{
		X0: max(b.X0, o.X0),
		Y0: max(b.Y0, o.Y0),
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
	}
}

// ClipToGrid intersects the box with a w×h grid's cell range.
func (b Box) ClipToGrid(w, h int) Box {
	return b.Intersect(Box{X0: 0, Y0: 0, X1: w - 1, Y1: h - 1})
}
