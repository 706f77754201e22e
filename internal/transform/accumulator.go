package transform

// phase tracks where a scale/rotate gesture session stands.
type phase int

const (
	// phaseIdle: no session open. An update arriving here starts an
	// implicit session instead of failing.
	phaseIdle phase = iota
	// phasePending: session started, baseline not yet recorded.
	phasePending
	// phaseActive: baseline recorded, deltas flow.
	phaseActive
)

// Accumulator converts raw gesture samples into State deltas.
//
// Pan samples are incremental {dx, dy} and apply directly. Scale/rotate
// samples are cumulative since gesture start, so the accumulator keeps the
// previous sample as a baseline and applies frame-to-frame differences
// ("previous minus current", which Apply folds in with the matching sign).
type Accumulator struct {
	state *State

	ph        phase
	prevScale float64
	prevAngle float64
}

// NewAccumulator wraps the session's state. The accumulator is the only
// writer; callers must keep all gesture delivery on one goroutine.
func NewAccumulator(state *State) *Accumulator {
	return &Accumulator{state: state}
}

// PanStart marks the beginning of a pan session. Pan samples carry their own
// increments, so there is no per-session baseline to reset.
func (a *Accumulator) PanStart() {}

// PanUpdate applies one incremental pan sample.
func (a *Accumulator) PanUpdate(dx, dy float64) {
	a.state.Apply(State{X: dx, Y: dy})
}

// ScaleRotateStart opens a scale/rotate session, discarding any previous
// baseline. Safe at any time, including mid-interaction restarts.
func (a *Accumulator) ScaleRotateStart() {
	a.ph = phasePending
}

// ScaleRotateUpdate consumes one cumulative {scale, angle} sample.
//
// The first sample of a session only records the baseline: a single-sample
// session changes nothing. An update with no open session opens one
// implicitly, never fails.
func (a *Accumulator) ScaleRotateUpdate(scale, angle float64) {
	switch a.ph {
	case phaseIdle, phasePending:
		a.prevScale = scale
		a.prevAngle = angle
		a.ph = phaseActive
	case phaseActive:
		a.state.Apply(State{
			Scale: a.prevScale - scale,
			Angle: a.prevAngle - angle,
		})
		a.prevScale = scale
		a.prevAngle = angle
	}
}

// ScaleRotateEnd closes the session. The next update starts a fresh one.
func (a *Accumulator) ScaleRotateEnd() {
	a.ph = phaseIdle
}
