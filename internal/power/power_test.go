package power

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Power loop test (band 1800).
func TestMsLoopRaisesPowerUnderHysteresis(t *testing.T) {
	params := DefaultMsLoopParams(Band1800, -75, 0)
	loop := NewMsLoop(params, 15, 2)

	var got []int
	for i := 0; i < 5; i++ {
		got = append(got, loop.Step(-90))
	}
	require.Equal(t, []int{13, 11, 9, 7, 5}, got)

	require.Equal(t, 5, loop.Step(-75))

	got = got[:0]
	for i := 0; i < 3; i++ {
		got = append(got, loop.Step(-90))
	}
	require.Equal(t, []int{3, 2, 2}, got)
}

// BS power hysteresis keeps attenuation stable while
// every sample is within the hysteresis window.
func TestBsLoopHysteresisStable(t *testing.T) {
	params := AttenLoopParams{TargetDbm: -75, HysteresisDb: 5, MaxAttenDb: 20}
	loop := NewBsLoop(params, 15)

	for _, rxlev := range []int{-75, -70, -80, -75} {
		got := loop.Step(rxlev, -1, RxQualFR)
		require.Equal(t, 15, got)
	}
}

// With hysteresis disabled, the loop moves by the target-relative diff
// each step: -1, then +1, then -2. See DESIGN.md's Open Question
// decisions for why this straight-line trace was kept over a hand-wavy
// alternative with no grounding in the loop's own shape.
func TestBsLoopMovesOffPlateau(t *testing.T) {
	params := AttenLoopParams{TargetDbm: -75, HysteresisDb: 0, MaxAttenDb: 20}
	loop := NewBsLoop(params, 15)

	a := loop.Step(-74, -1, RxQualFR)
	b := loop.Step(-76, -1, RxQualFR)
	c := loop.Step(-73, -1, RxQualFR)

	require.Equal(t, 14, a)
	require.Equal(t, 15, b)
	require.Equal(t, 13, c)
}

// Pushing the same sample N times yields the sample itself (within
// integer rounding) -- verified here for the MS loop's EWMA pre-filter.
func TestEwmaStableOnRepeatedSample(t *testing.T) {
	params := DefaultMsLoopParams(Band1800, -75, 0)
	params.EwmaEnabled = true
	params.EwmaAlphaPct = 50
	loop := NewMsLoop(params, 10, 0)

	for i := 0; i < 10; i++ {
		loop.Step(-75)
	}
	require.Equal(t, -75, loop.filterEwma(-75))
}

// Monotonicity in hysteresis and boundedness, as property tests.
func TestMsLoopPropertyBounded(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		hyst := rapid.IntRange(0, 10).Draw(tt, "hyst")
		params := DefaultMsLoopParams(Band1800, -75, hyst)
		loop := NewMsLoop(params, rapid.IntRange(0, 15).Draw(tt, "start"), 15)

		n := rapid.IntRange(1, 30).Draw(tt, "n")
		for i := 0; i < n; i++ {
			before := loop.Current
			rxlev := rapid.IntRange(-110, -40).Draw(tt, "rxlev")
			after := loop.Step(rxlev)

			require.GreaterOrEqual(tt, after, 0)
			require.LessOrEqual(tt, after, 15)

			diff := params.TargetDbm - rxlev
			if abs(diff) <= hyst {
				require.Equal(tt, before, after)
			}
		}
	})
}
