package gsmtap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		h := Header{
			Arfcn:    uint16(rapid.IntRange(0, 0x3FFF).Draw(tt, "arfcn")),
			Uplink:   rapid.Bool().Draw(tt, "ul"),
			Timeslot: uint8(rapid.IntRange(0, 7).Draw(tt, "ts")),
			SubSlot:  uint8(rapid.IntRange(0, 7).Draw(tt, "ss")),
			ChanType: ChanType(rapid.IntRange(0, 10).Draw(tt, "ct")),
			FrameNr:  uint32(rapid.IntRange(0, 2715647).Draw(tt, "fn")),
		}
		payload := rapid.SliceOfN(rapid.Byte(), 0, 20).Draw(tt, "payload")

		pkt := Encode(h, payload)
		got, rest, ok := Decode(pkt)
		require.True(tt, ok)
		require.Equal(tt, h.Arfcn, got.Arfcn)
		require.Equal(tt, h.Uplink, got.Uplink)
		require.Equal(tt, h.Timeslot, got.Timeslot)
		require.Equal(tt, h.FrameNr, got.FrameNr)
		require.Equal(tt, payload, rest)
	})
}

func TestDecodeRejectsShortOrWrongVersion(t *testing.T) {
	_, _, ok := Decode([]byte{1, 2, 3})
	require.False(t, ok)

	bad := make([]byte, HeaderLen)
	bad[0] = 9
	_, _, ok = Decode(bad)
	require.False(t, ok)
}
