package transform

// Scale bounds. Out-of-range scales are clamped, never rejected: the image
// must not vanish or explode no matter what the gesture stream delivers.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// State is the user-applied transform for one crop session: translation in
// viewport pixels, uniform scale, and rotation in radians (clockwise positive
// in screen space, unbounded).
//
// A State value also serves as a delta for Apply. In a delta, X, Y and Angle
// are plain increments, while Scale carries "previous minus current" from the
// cumulative gesture stream and is therefore subtracted (see Accumulator).
type State struct {
	X     float64
	Y     float64
	Scale float64
	Angle float64
}

// Identity returns the initial session transform.
func Identity() State {
	return State{Scale: 1}
}

// Apply combines a delta into the state: translation and angle add, scale
// subtracts the delta's scale field, then the scale is clamped.
func (s *State) Apply(d State) {
	s.X += d.X
	s.Y += d.Y
	s.Angle += d.Angle
	s.Scale -= d.Scale
	s.clampScale()
}

// Replace overwrites all fields, then clamps the scale.
func (s *State) Replace(n State) {
	*s = n
	s.clampScale()
}

func (s *State) clampScale() {
	if s.Scale < MinScale {
		s.Scale = MinScale
	}
	if s.Scale > MaxScale {
		s.Scale = MaxScale
	}
}
