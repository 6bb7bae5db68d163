package cbch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// An 88-byte message submitted to the basic queue is collected
// across TB 0..3 (fn=0,51,102,153), its blocks concatenate back into the
// original message, and the fourth block carries lb=1.
func TestCbchBasicMessageFraming(t *testing.T) {
	s := NewScheduler()

	var msg Message
	for i := range msg.Payload {
		msg.Payload[i] = byte(i)
	}
	require.True(t, s.Basic.Enqueue(&msg))

	var reassembled []byte
	for i, fn := range []uint32{0, 51, 102, 153} {
		blk := s.NextBlock(fn)
		require.False(t, blk.Null)
		require.Equal(t, byte(i), blk.SeqNr)
		reassembled = append(reassembled, blk.Data[:]...)
		if i == 3 {
			require.True(t, blk.Lb)
		} else {
			require.False(t, blk.Lb)
		}
	}
	require.Equal(t, msg.Payload[:], reassembled)
}

// After a non-default message is fully transmitted it is not repeated.
func TestNonDefaultMessageConsumedOnce(t *testing.T) {
	s := NewScheduler()
	var msg Message
	msg.Payload[0] = 0xAA
	s.Basic.Enqueue(&msg)

	for _, fn := range []uint32{0, 51, 102, 153} {
		s.NextBlock(fn)
	}
	blk := s.NextBlock(408) // TB 0 again, block_nr 0: queue now empty
	require.True(t, blk.Null)
}

// A default message is retained and keeps being served once the pending
// queue drains, rather than being freed like a normal message.
func TestDefaultMessageRetained(t *testing.T) {
	s := NewScheduler()
	var def Message
	def.Payload[0] = 0x55
	s.Basic.SetDefault(&def)

	for round := 0; round < 2; round++ {
		for i, fn := range []uint32{0, 51, 102, 153} {
			blk := s.NextBlock(fn + uint32(round)*408)
			require.False(t, blk.Null)
			require.Equal(t, byte(i), blk.SeqNr)
		}
	}
}

// The extended queue is selected for TB 4..7 and is independent of basic.
func TestExtendedQueueIndependent(t *testing.T) {
	s := NewScheduler()
	var basicMsg, extMsg Message
	basicMsg.Payload[0] = 1
	extMsg.Payload[0] = 2
	s.Basic.Enqueue(&basicMsg)
	s.Extended.Enqueue(&extMsg)

	// TB = (fn/51) mod 8; fn=204 -> TB=4 -> extended, block_nr 0.
	blk := s.NextBlock(204)
	require.False(t, blk.Null)
	require.Equal(t, byte(2), blk.Data[0])

	// TB=0 still serves the basic queue's own message.
	blk = s.NextBlock(0)
	require.False(t, blk.Null)
	require.Equal(t, byte(1), blk.Data[0])
}

// Enqueue respects the configured maximum pending length.
func TestEnqueueRespectsMaxLen(t *testing.T) {
	q := NewQueue(1)
	var a, b Message
	require.True(t, q.Enqueue(&a))
	require.False(t, q.Enqueue(&b))
	require.Equal(t, 1, q.Len())
}

// With no pending messages and no default, blocks are NULL.
func TestEmptyQueueEmitsNull(t *testing.T) {
	q := NewQueue(4)
	blk := q.NextBlock(0)
	require.True(t, blk.Null)
}
