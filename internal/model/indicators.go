package model

// MAPoint is one moving-average entry. Defined is false while the trailing
// window is not yet full.
type MAPoint struct {
	Value   float64
	Defined bool
}

// MovingAverage is aligned index-for-index with the Series it was computed from.
type MovingAverage struct {
	Window int
	Points []MAPoint
}

// Last returns the final entry if it is defined.
func (m MovingAverage) Last() (float64, bool) {
	if len(m.Points) == 0 {
		return 0, false
	}
	p := m.Points[len(m.Points)-1]
	return p.Value, p.Defined
}

// DefinedCount reports how many entries carry a value.
func (m MovingAverage) DefinedCount() int {
	n := 0
	for _, p := range m.Points {
		if p.Defined {
			n++
		}
	}
	return n
}
