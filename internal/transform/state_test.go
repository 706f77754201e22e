package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	s := Identity()
	require.Equal(t, State{X: 0, Y: 0, Scale: 1, Angle: 0}, s)
}

func TestApplyAdditiveComposition(t *testing.T) {
	// Applying d1 then d2 must equal applying d1+d2 on the additive
	// fields, as long as no clamping intervenes.
	d1 := State{X: 3, Y: -2, Angle: 0.25, Scale: -0.1}
	d2 := State{X: -1, Y: 7, Angle: -0.75, Scale: 0.05}

	a := Identity()
	a.Apply(d1)
	a.Apply(d2)

	b := Identity()
	b.Apply(State{
		X:     d1.X + d2.X,
		Y:     d1.Y + d2.Y,
		Angle: d1.Angle + d2.Angle,
		Scale: d1.Scale + d2.Scale,
	})

	require.InDelta(t, b.X, a.X, 1e-12)
	require.InDelta(t, b.Y, a.Y, 1e-12)
	require.InDelta(t, b.Angle, a.Angle, 1e-12)
	require.InDelta(t, b.Scale, a.Scale, 1e-12)
}

func TestApplyScaleDeltaSubtracts(t *testing.T) {
	s := Identity()
	// Delta scale carries "previous minus current": a pinch from 1.0 to
	// 1.5 arrives as -0.5 and must grow the state scale.
	s.Apply(State{Scale: -0.5})
	require.InDelta(t, 1.5, s.Scale, 1e-12)
}

func TestScaleAlwaysClamped(t *testing.T) {
	deltas := []State{
		{Scale: -100},  // would push scale to 101
		{Scale: 50},    // would push scale far below zero
		{Scale: -0.05}, // small nudge from the floor
		{Scale: 9999},
		{Scale: -9999},
	}

	s := Identity()
	for _, d := range deltas {
		s.Apply(d)
		require.GreaterOrEqual(t, s.Scale, MinScale)
		require.LessOrEqual(t, s.Scale, MaxScale)
	}
}

func TestReplaceClamps(t *testing.T) {
	s := Identity()

	s.Replace(State{X: 5, Y: 6, Scale: 99, Angle: 1})
	require.Equal(t, State{X: 5, Y: 6, Scale: MaxScale, Angle: 1}, s)

	s.Replace(State{Scale: -3})
	require.Equal(t, MinScale, s.Scale)

	s.Replace(State{Scale: 2.5})
	require.Equal(t, 2.5, s.Scale)
}
