// Package sched walks the multiframe for one timeslot frame by frame,
// assembling uplink burst sets into complete blocks and handing complete
// blocks downlink, tying together mframe's layout tables, burst's
// codecs, lchan's per-channel state, power's control loops, cbch/paging's
// downlink queues and l1sap's primitive bus.
//
// Grounded on original_source/src/osmo-bts-trx/sched_lchan_xcch.c's
// rx_data_fn: bid==0 clears the burst buffer and records the block's
// first frame number, each bid ORs a bit into a reception mask, and
// bid==3 (the last burst of a 4-burst block) triggers decode regardless
// of whether every burst actually arrived (a partial block is still
// decoded, consistent with FIRE code / convolutional code error
// tolerance).
package sched

import "github.com/osmo-go/btssched/internal/burst"

// blockAssembly accumulates the soft bits of one channel-coding block
// across its constituent bursts.
type blockAssembly struct {
	nBursts  int
	burstLen int
	bursts   [][]burst.Sbit
	mask     uint8
	firstFn  uint32
}

func newBlockAssembly(nBursts, burstLen int) *blockAssembly {
	a := &blockAssembly{nBursts: nBursts, burstLen: burstLen}
	a.bursts = make([][]burst.Sbit, nBursts)
	for i := range a.bursts {
		a.bursts[i] = make([]burst.Sbit, burstLen)
	}
	return a
}

// Put stores one burst's soft bits at position bid. It clears the
// assembly first if bid==0, matching rx_data_fn's "clear burst & store
// frame number of first burst" step.
func (a *blockAssembly) Put(fn uint32, bid int, bits []burst.Sbit) {
	if bid == 0 {
		for i := range a.bursts {
			for j := range a.bursts[i] {
				a.bursts[i][j] = 0
			}
		}
		a.mask = 0
		a.firstFn = fn
	}
	if bid < 0 || bid >= a.nBursts {
		return
	}
	copy(a.bursts[bid], bits)
	a.mask |= 1 << uint(bid)
}

// Complete reports whether this was the block's last burst position
// (bid == nBursts-1), the point at which rx_data_fn always attempts a
// decode even on an incomplete mask.
func (a *blockAssembly) Complete(bid int) bool {
	return bid == a.nBursts-1
}

// FullyReceived reports whether every burst of the block actually
// arrived.
func (a *blockAssembly) FullyReceived() bool {
	full := byte(1<<uint(a.nBursts)) - 1
	return a.mask&full == full
}

// HaveFirst reports whether burst 0 of the block was received, the
// minimum rx_data_fn requires before even attempting a decode.
func (a *blockAssembly) HaveFirst() bool {
	return a.mask&1 != 0
}
