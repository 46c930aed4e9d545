package pipeline

// Side identifies a world half for the opposite-side placement rule.
type Side int

const (
	SideUnknown Side = iota
	SideLeft
	SideRight
)

func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideUnknown
	}
}

// Slot is one accepted placement on a stage's horizontal sample line.
type Slot struct {
	Center int
	Width  int
}

// Facts carries cross-step knowledge within a single generation run: which
// side got the jungle, which slots the scatter stages accepted. Stages write
// facts once and later stages read them; a pipeline reset clears everything.
type Facts struct {
	JungleSide   Side
	DesertSlots  []Slot
	SpecialSlots []Slot
}

func (f *Facts) Reset() {
	*f = Facts{}
}
