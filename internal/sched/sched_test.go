package sched

import (
	"testing"

	"github.com/osmo-go/btssched/internal/burst"
	"github.com/osmo-go/btssched/internal/l1sap"
	"github.com/osmo-go/btssched/internal/lchan"
	"github.com/osmo-go/btssched/internal/mframe"
	"github.com/osmo-go/btssched/internal/paging"
	"github.com/stretchr/testify/require"
)

func TestUplinkXcchBlockDecodesOnFourthBurst(t *testing.T) {
	layout := mframe.LayoutSDCCH8()
	s := NewScheduler(layout, 0x3f)

	payload := make([]byte, burst.XcchL2Bits/8)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	bursts := burst.XcchEncode(payload)

	var fn uint32
	for i := 0; i < layout.Period; i++ {
		e := layout.At(uint32(i))
		if e.Ul == mframe.SDCCH0 {
			fn = uint32(i) - uint32(e.Bid)
			break
		}
	}

	for bid := 0; bid < 4; bid++ {
		soft := burst.HardToSoft(bursts[bid][:])
		s.HandleUplinkBurst(fn+uint32(bid), 0x01, 0x00, soft, lchan.Sample{Fn: fn + uint32(bid)})
	}

	prim, ok := s.Prims.TryPop()
	require.True(t, ok)
	require.Equal(t, l1sap.PhDataInd, prim.Type)
	require.Equal(t, l1sap.PresenceFull, prim.Presence)
	require.Equal(t, payload, prim.L2)
}

func TestUplinkIncompleteBlockWithoutFirstBurstIsDropped(t *testing.T) {
	layout := mframe.LayoutSDCCH8()
	s := NewScheduler(layout, 0x3f)

	var fn uint32
	for i := 0; i < layout.Period; i++ {
		e := layout.At(uint32(i))
		if e.Ul == mframe.SDCCH0 && e.Bid == 0 {
			fn = uint32(i)
			break
		}
	}

	zero := make([]burst.Sbit, burst.XcchBurstBits)
	// Skip bid 0 entirely; only send bid 1..3.
	for bid := 1; bid < 4; bid++ {
		s.HandleUplinkBurst(fn+uint32(bid), 0x01, 0x00, zero, lchan.Sample{})
	}

	_, ok := s.Prims.TryPop()
	require.False(t, ok)
}

func TestDownlinkCcchServesQueuedPagingMessage(t *testing.T) {
	layout := mframe.LayoutCCCH()
	s := NewScheduler(layout, 0x3f)
	s.AgchQueue = paging.NewQueue()

	msg := &paging.Message{Payload: []byte{1, 2, 3, 4, 5}}
	s.AgchQueue.Enqueue(msg)

	var fn uint32
	for i := 0; i < layout.Period; i++ {
		e := layout.At(uint32(i))
		if e.Dl == mframe.CCCH && e.Bid == 0 {
			fn = uint32(i)
			break
		}
	}

	bits, ok := s.NextDownlinkBurst(fn)
	require.True(t, ok)
	require.Len(t, bits, burst.XcchBurstBits)
	require.Equal(t, 0, s.AgchQueue.Len())
}

func TestDownlinkCcchIdleWhenQueueEmpty(t *testing.T) {
	layout := mframe.LayoutCCCH()
	s := NewScheduler(layout, 0x3f)
	s.AgchQueue = paging.NewQueue()

	var fn uint32
	for i := 0; i < layout.Period; i++ {
		e := layout.At(uint32(i))
		if e.Dl == mframe.CCCH && e.Bid == 0 {
			fn = uint32(i)
			break
		}
	}

	bits, ok := s.NextDownlinkBurst(fn)
	require.True(t, ok)
	require.Len(t, bits, burst.XcchBurstBits)
}

func TestRachUplinkDetectsSynchSequence(t *testing.T) {
	layout := mframe.LayoutCCCHComb()
	s := NewScheduler(layout, 0x10)

	encoded := burst.RachEncode8(0x42, 0x10)
	// Pad to a full access burst: 8-bit tail + 41-bit synch seq + data.
	full := make([]burst.Ubit, 8+burst.RachSynchSeqLen+len(encoded))
	ref := "01001011011111111001100110101010001111000"
	for i, c := range ref {
		if c == '1' {
			full[8+i] = 1
		}
	}
	copy(full[8+burst.RachSynchSeqLen:], encoded)

	var fn uint32
	for i := 0; i < layout.Period; i++ {
		if layout.At(uint32(i)).Ul == mframe.RACH {
			fn = uint32(i)
			break
		}
	}

	s.HandleUplinkBurst(fn, 0x88, 0x00, burst.HardToSoft(full), lchan.Sample{})

	prim, ok := s.Prims.TryPop()
	require.True(t, ok)
	require.Equal(t, l1sap.PhRachInd, prim.Type)
	require.Equal(t, uint16(0x42), prim.Ra)
}

func TestIdleFramesProduceNoPrimitive(t *testing.T) {
	layout := mframe.LayoutSDCCH8()
	s := NewScheduler(layout, 0)

	for i := 0; i < layout.Period; i++ {
		if layout.At(uint32(i)).Ul == mframe.Idle {
			s.HandleUplinkBurst(uint32(i), 0, 0, make([]burst.Sbit, 10), lchan.Sample{})
		}
	}
	require.Equal(t, 0, s.Prims.Len())
}
