package geom

// Shape is a pure predicate over grid coordinates plus a conservative
// bounding box. Implementations must be immutable: Contains is called
// concurrently from rasterizer workers.
type Shape interface {
	Contains(x, y int) bool
	Bounds() Box
}

// Rect covers the inclusive cell range (X0,Y0)-(X1,Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

func (r Rect) Bounds() Box {
	return Box{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
}

// Ellipse is the filled ellipse centered at (CX,CY) with radii RX, RY.
type Ellipse struct {
	CX, CY, RX, RY int
}

func (e Ellipse) Contains(x, y int) bool {
	if e.RX <= 0 || e.RY <= 0 {
		return false
	}
	dx := float64(x - e.CX)
	dy := float64(y - e.CY)
	rx := float64(e.RX)
	ry := float64(e.RY)
	return (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) <= 1.0
}

func (e Ellipse) Bounds() Box {
	return Box{X0: e.CX - e.RX, Y0: e.CY - e.RY, X1: e.CX + e.RX, Y1: e.CY + e.RY}
}

// Trapezoid spans rows [YTop, YBot) with left/right edges linearly
// interpolated between the top and bottom x ranges.
type Trapezoid struct {
	YTop, YBot     int
	TopX0, TopX1   int
	BotX0, BotX1   int
}

func (t Trapezoid) Contains(x, y int) bool {
	if y < t.YTop || y >= t.YBot {
		return false
	}
	span := t.YBot - t.YTop
	if span <= 0 {
		return false
	}
	f := float64(y-t.YTop) / float64(span)
	left := float64(t.TopX0) + f*float64(t.BotX0-t.TopX0)
	right := float64(t.TopX1) + f*float64(t.BotX1-t.TopX1)
	fx := float64(x)
	return fx >= left && fx <= right
}

func (t Trapezoid) Bounds() Box {
	return Box{
		X0: min(t.TopX0, t.BotX0),
		Y0: t.YTop,
		X1: max(t.TopX1, t.BotX1),
		Y1: t.YBot - 1,
	}
}

// Column is the single-cell-wide vertical run x ∈ {X}, y ∈ [Y0, Y1].
type Column struct {
	X, Y0, Y1 int
}

func (c Column) Contains(x, y int) bool {
	return x == c.X && y >= c.Y0 && y <= c.Y1
}

func (c Column) Bounds() Box {
	return Box{X0: c.X, Y0: c.Y0, X1: c.X, Y1: c.Y1}
}
