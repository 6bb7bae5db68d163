package lchan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Pushing the same sample N times yields that sample back.
func TestAverageBlockRepeatedSampleStable(t *testing.T) {
	block := make([]Sample, 8)
	for i := range block {
		block[i] = Sample{Ber10k: 50, RssiDbm: -80, Toa256: 10}
	}
	avg := AverageBlock(block, WindowOcto)
	require.Equal(t, -80, avg.RxLevDbm)
	require.Equal(t, 0, avg.ToaStdDev)
	require.Equal(t, 8, avg.NumMeas)
}

func TestAverageBlockEmptyIsWorstCase(t *testing.T) {
	avg := AverageBlock(nil, WindowOcto)
	require.Equal(t, -120, avg.RxLevDbm)
	require.Equal(t, uint8(7), avg.RxQual)
}

func TestBer10kToRxQualThresholds(t *testing.T) {
	require.Equal(t, uint8(0), ber10kToRxQual(10))
	require.Equal(t, uint8(1), ber10kToRxQual(30))
	require.Equal(t, uint8(7), ber10kToRxQual(100000))
}

func TestIsSubSacchAlwaysCounts(t *testing.T) {
	require.True(t, IsSub(TchF, 1, true, false))
}

func TestIsSubTchFFixedIndexList(t *testing.T) {
	require.True(t, IsSub(TchF, 52, false, false))
	require.False(t, IsSub(TchF, 0, false, false))
}

func TestCipherStepsMonotonic(t *testing.T) {
	l := &Lchan{RltLimit: 10}
	require.NoError(t, l.StepCipher(CipherRxReq))
	require.NoError(t, l.StepCipher(CipherRxConf))
	require.True(t, l.DlCipheringAllowed())
	require.Error(t, l.StepCipher(CipherRxReq))
}

func TestDlCipheringNeverBeforeRxConf(t *testing.T) {
	l := &Lchan{}
	require.False(t, l.DlCipheringAllowed())
	require.NoError(t, l.StepCipher(CipherRxReq))
	require.False(t, l.DlCipheringAllowed())
}

func TestPendingChanActivAtMostOne(t *testing.T) {
	l := &Lchan{}
	require.NoError(t, l.PendingActivStart())
	require.Error(t, l.PendingActivStart())
	l.PendingActivDone()
	require.NoError(t, l.PendingActivStart())
}

func TestRadioLinkTimeoutBounds(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		l := &Lchan{RltLimit: rapid.IntRange(1, 30).Draw(tt, "limit")}
		n := rapid.IntRange(0, 50).Draw(tt, "n")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(tt, "ok") {
				l.RecvBlock()
			} else {
				l.MissBlock()
			}
			require.GreaterOrEqual(tt, l.RadioLinkTimeout, 0)
			require.LessOrEqual(tt, l.RadioLinkTimeout, l.RltLimit)
		}
	})
}

func TestUlSidLatchTracksLastFrame(t *testing.T) {
	l := &Lchan{}
	l.LatchUlSid(true)
	require.True(t, l.UlSidLatched)
	l.LatchUlSid(false)
	require.False(t, l.UlSidLatched)
}
