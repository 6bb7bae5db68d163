package sched

import (
	"github.com/osmo-go/btssched/internal/burst"
	"github.com/osmo-go/btssched/internal/cbch"
	"github.com/osmo-go/btssched/internal/l1sap"
	"github.com/osmo-go/btssched/internal/lchan"
	"github.com/osmo-go/btssched/internal/mframe"
	"github.com/osmo-go/btssched/internal/paging"
)

// blockShape describes the burst geometry of one logical channel kind:
// how many bursts make up a block and how many soft bits each burst
// contributes.
type blockShape struct {
	nBursts  int
	burstLen int
}

func shapeOf(ct mframe.ChanType) blockShape {
	switch ct {
	case mframe.TCHF, mframe.FACCHF, mframe.TCHH0, mframe.TCHH1, mframe.FACCHH0, mframe.FACCHH1:
		return blockShape{nBursts: 8, burstLen: 57}
	case mframe.RACH:
		return blockShape{nBursts: 1, burstLen: 36}
	case mframe.Idle, mframe.FCCH, mframe.SCH:
		return blockShape{nBursts: 1, burstLen: 0}
	default:
		// xCCH family: BCCH, CCCH, CBCH, all SDCCH/SACCH subchannels.
		return blockShape{nBursts: 4, burstLen: burst.XcchBurstBits}
	}
}

// isXcchFamily reports whether ct decodes through the xCCH FIRE-coded
// pipeline, as opposed to RACH or a speech channel.
func isXcchFamily(ct mframe.ChanType) bool {
	switch ct {
	case mframe.BCCH, mframe.CCCH, mframe.CBCH,
		mframe.SDCCH0, mframe.SDCCH1, mframe.SDCCH2, mframe.SDCCH3,
		mframe.SDCCH4, mframe.SDCCH5, mframe.SDCCH6, mframe.SDCCH7,
		mframe.SACCH0, mframe.SACCH1, mframe.SACCH2, mframe.SACCH3,
		mframe.SACCH4, mframe.SACCH5, mframe.SACCH6, mframe.SACCH7:
		return true
	}
	return false
}

func isSacch(ct mframe.ChanType) bool {
	switch ct {
	case mframe.SACCH0, mframe.SACCH1, mframe.SACCH2, mframe.SACCH3,
		mframe.SACCH4, mframe.SACCH5, mframe.SACCH6, mframe.SACCH7:
		return true
	}
	return false
}

// ChanBinding attaches the dynamic state behind one logical channel in a
// timeslot's layout: the lchan it belongs to (nil for CCCH/BCCH/RACH,
// which are not lchan-backed). The shared CCCH/CBCH downlink queues are
// held by the Scheduler (AgchQueue, CbchSched), not by a binding.
type ChanBinding struct {
	Lchan *lchan.Lchan
}

// Scheduler drives one timeslot's multiframe: on every TDMA frame it
// accepts at most one uplink burst and produces at most one downlink
// burst, assembling/disassembling blocks exactly at the burst positions
// mframe.Layout marks as block boundaries.
//
// Grounded on original_source/src/osmo-bts-trx/sched_lchan_xcch.c's
// rx_data_fn (uplink assembly+decode) and the sibling tx_data_fn pattern
// (downlink: pull one block's worth of L2 on bid==0, burst-map it out one
// chunk per frame).
type Scheduler struct {
	Layout mframe.Layout

	Bindings map[mframe.ChanType]*ChanBinding

	Bsic byte

	AgchQueue  *paging.Queue
	CbchSched  *cbch.Scheduler

	Prims *l1sap.Queue

	ulAssembly map[mframe.ChanType]*blockAssembly
	dlPending  map[mframe.ChanType]*dlBlock
}

// dlBlock is a block's worth of already burst-mapped downlink soft/hard
// bits, built once on bid==0 and drained one burst per frame.
type dlBlock struct {
	bursts [][]burst.Ubit
}

// NewScheduler creates a scheduler for one timeslot given its multiframe
// layout.
func NewScheduler(layout mframe.Layout, bsic byte) *Scheduler {
	return &Scheduler{
		Layout:     layout,
		Bindings:   make(map[mframe.ChanType]*ChanBinding),
		Bsic:       bsic,
		Prims:      l1sap.NewQueue(),
		ulAssembly: make(map[mframe.ChanType]*blockAssembly),
		dlPending:  make(map[mframe.ChanType]*dlBlock),
	}
}

// Bind attaches an lchan to one of the layout's logical channel slots
// (an SDCCH/SACCH/TCHF/TCHH subchannel). CCCH/BCCH/RACH slots are never
// bound: they are handled directly against AgchQueue/CbchSched/RACH
// classification.
func (s *Scheduler) Bind(ct mframe.ChanType, l *lchan.Lchan) {
	s.Bindings[ct] = &ChanBinding{Lchan: l}
}

func (s *Scheduler) assemblyFor(ct mframe.ChanType) *blockAssembly {
	a, ok := s.ulAssembly[ct]
	if !ok {
		shape := shapeOf(ct)
		a = newBlockAssembly(shape.nBursts, shape.burstLen)
		s.ulAssembly[ct] = a
	}
	return a
}

// HandleUplinkBurst processes one received uplink burst at frame fn.
// chanNr/linkID are the GSM 08.58 values the resulting PH-DATA.ind (or
// PH-RACH.ind) primitive is tagged with.
func (s *Scheduler) HandleUplinkBurst(fn uint32, chanNr, linkID uint8, bits []burst.Sbit, m lchan.Sample) {
	entry := s.Layout.At(fn)
	ct := entry.Ul

	if ct == mframe.RACH {
		s.handleRach(fn, chanNr, bits)
		return
	}
	if ct == mframe.Idle || ct == mframe.FCCH || ct == mframe.SCH {
		return
	}

	a := s.assemblyFor(ct)
	a.Put(fn, entry.Bid, bits)

	if b, ok := s.Bindings[ct]; ok && b.Lchan != nil {
		b.Lchan.MeasRing.Push(m)
	}

	if !a.Complete(entry.Bid) {
		return
	}
	if !a.HaveFirst() {
		return
	}

	l2, decodeOk := s.decodeBlock(ct, a)
	prim := l1sap.Prim{
		Type:   l1sap.PhDataInd,
		ChanNr: chanNr,
		LinkID: linkID,
		Fn:     a.firstFn,
		L2:     l2,
	}
	if decodeOk {
		prim.Presence = l1sap.PresenceFull
	} else {
		prim.Presence = l1sap.PresenceInvalid
		prim.L2 = nil
	}
	s.Prims.Push(prim)

	if b, bound := s.Bindings[ct]; bound && b.Lchan != nil {
		if decodeOk {
			b.Lchan.RecvBlock()
		} else {
			b.Lchan.MissBlock()
		}
	}

	if isSacch(ct) {
		s.Prims.Push(l1sap.Prim{Type: l1sap.MphInfoMeas, ChanNr: chanNr, Fn: a.firstFn})
	}
}

// rachGuardAndSyncLen is the access burst's 8-bit extended tail plus the
// 41-bit synch sequence window RachClassify correlates against; the
// parity+conv-coded RA payload begins right after it.
const rachGuardAndSyncLen = 8 + burst.RachSynchSeqLen

func (s *Scheduler) handleRach(fn uint32, chanNr uint8, bits []burst.Sbit) {
	seq, _ := burst.RachClassify(bits)
	if seq == burst.SynchSeqUnknown {
		return
	}
	if len(bits) < rachGuardAndSyncLen {
		return
	}
	coded := bits[rachGuardAndSyncLen:]
	ra, ok := burst.RachDecode8(coded, s.Bsic)
	if !ok {
		return
	}
	s.Prims.Push(l1sap.Prim{Type: l1sap.PhRachInd, ChanNr: chanNr, Fn: fn, Ra: uint16(ra), Presence: l1sap.PresenceFull})
}

func (s *Scheduler) decodeBlock(ct mframe.ChanType, a *blockAssembly) ([]byte, bool) {
	if !isXcchFamily(ct) {
		// TCH speech/FACCH blocks: decoded by the call-control layer
		// that owns the lchan's codec, not by the generic scheduler.
		return nil, false
	}
	var bursts [4][burst.XcchBurstBits]burst.Sbit
	for i := 0; i < 4; i++ {
		copy(bursts[i][:], a.bursts[i])
	}
	return burst.XcchDecode(bursts)
}

// NextDownlinkBurst returns the bits to transmit for frame fn, or ok=false
// if this slot's layout calls for an idle/FCCH/SCH burst (nothing from
// this scheduler's block logic to send).
func (s *Scheduler) NextDownlinkBurst(fn uint32) (bits []burst.Ubit, ok bool) {
	entry := s.Layout.At(fn)
	ct := entry.Dl
	if ct == mframe.Idle || ct == mframe.FCCH || ct == mframe.SCH {
		return nil, false
	}

	if entry.Bid == 0 {
		s.dlPending[ct] = s.buildDlBlock(fn, ct)
	}
	block := s.dlPending[ct]
	if block == nil || entry.Bid >= len(block.bursts) {
		return nil, false
	}
	return block.bursts[entry.Bid], true
}

func (s *Scheduler) buildDlBlock(fn uint32, ct mframe.ChanType) *dlBlock {
	switch {
	case ct == mframe.CCCH:
		msg := s.AgchQueue.Dequeue()
		if msg == nil {
			return pagingIdleBlock()
		}
		return xcchDlBlock(msg.Payload)
	case ct == mframe.CBCH:
		b := s.CbchSched.NextBlock(fn)
		var l2 [23]byte
		l2[0] = b.SeqNr
		copy(l2[1:], b.Data[:])
		return xcchDlBlock(l2[:])
	case isXcchFamily(ct):
		// SDCCH/SACCH downlink content is supplied by the lchan's own
		// signalling queue, which call control populates; absent that,
		// an idle-fill block keeps the burst positions occupied.
		return xcchDlBlock(nil)
	default:
		return nil
	}
}

func pagingIdleBlock() *dlBlock {
	return xcchDlBlock(nil)
}

func xcchDlBlock(l2 []byte) *dlBlock {
	payload := make([]byte, burst.XcchL2Bits/8)
	copy(payload, l2)
	bursts := burst.XcchEncode(payload)
	out := &dlBlock{bursts: make([][]burst.Ubit, 4)}
	for i := range bursts {
		out.bursts[i] = append([]burst.Ubit(nil), bursts[i][:]...)
	}
	return out
}
