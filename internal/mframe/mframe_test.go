package mframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The (chan, bid) at frame F is a pure function of F mod period, for
// every layout.
func TestLayoutsArePureFunctionsOfFnModPeriod(t *testing.T) {
	layouts := []Layout{
		LayoutCCCHComb(), LayoutSDCCH8(), LayoutTCHF(), LayoutTCHH(),
		LayoutCCCH(), LayoutPDCH(),
	}
	for _, l := range layouts {
		for fn := uint32(0); fn < uint32(l.Period)*3; fn++ {
			a := l.At(fn)
			b := l.At(fn + uint32(l.Period))
			require.Equal(t, a, b)
		}
	}
}

func TestBlockMask(t *testing.T) {
	require.Equal(t, uint8(0x0F), BlockMask(4))
	require.Equal(t, uint8(0xFF), BlockMask(8))
	require.Equal(t, uint8(0x3F), BlockMask(6))
}

func TestTchfLayoutHasSacchAndIdle(t *testing.T) {
	l := LayoutTCHF()
	require.Equal(t, SACCH0, l.Table[24].Dl)
	require.Equal(t, Idle, l.Table[25].Dl)
	for i := 0; i < 24; i++ {
		require.Equal(t, TCHF, l.Table[i].Dl)
	}
}
