package geom

// Boolean combinators over any two shapes. Composite bounds follow the set
// operation on the operand boxes; Subtract keeps the left box since removal
// can only shrink coverage.

type union struct{ a, b Shape }

func Union(a, b Shape) Shape { return union{a: a, b: b} }

func (u union) Contains(x, y int) bool {
	return u.a.Contains(x, y) || u.b.Contains(x, y)
}

func (u union) Bounds() Box {
	return u.a.Bounds().Union(u.b.Bounds())
}

type intersect struct{ a, b Shape }

func Intersect(a, b Shape) Shape { return intersect{a: a, b: b} }

func (i intersect) Contains(x, y int) bool {
	return i.a.Contains(x, y) && i.b.Contains(x, y)
}

func (i intersect) Bounds() Box {
	return i.a.Bounds().Intersect(i.b.Bounds())
}

type subtract struct{ a, b Shape }

func Subtract(a, b Shape) Shape { return subtract{a: a, b: b} }

func (s subtract) Contains(x, y int) bool {
	return s.a.Contains(x, y) && !s.b.Contains(x, y)
}

func (s subtract) Bounds() Box {
	return s.a.Bounds()
}
