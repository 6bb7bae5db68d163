// Package mframe owns the multiframe layout tables: for
// each physical channel configuration, a period-51/26/52 table mapping
// (frame number mod period, burst id) to a logical channel.
//
// Grounded on original_source/include/osmo-bts/scheduler.h (the
// trx_chan_type enum enumerating the logical channels a timeslot can
// carry) and sched_lchan_xcch.c / sched_lchan_tchf.c / sched_lchan_tchh.c
// (which all index their per-channel state by `fn % l1ts->mf_period`,
// the pattern captured here as Layout.At). The literal frame assignments
// are a simplified, internally-consistent rendition (TS 45.002's real
// tables interleave FCCH/SCH/idle frames in ways not required by this
// scheduler's contract) rather than a bit-exact transcription.
package mframe

// ChanType names one of the logical channel kinds multiplexed onto a
// timeslot, per the trx_chan_type enum.
type ChanType int

const (
	Idle ChanType = iota
	FCCH
	SCH
	BCCH
	RACH
	CCCH
	CBCH
	SDCCH0
	SDCCH1
	SDCCH2
	SDCCH3
	SDCCH4
	SDCCH5
	SDCCH6
	SDCCH7
	SACCH0
	SACCH1
	SACCH2
	SACCH3
	SACCH4
	SACCH5
	SACCH6
	SACCH7
	TCHF
	TCHH0
	TCHH1
	FACCHF
	FACCHH0
	FACCHH1
	PDTCH
	PTCCH
)

// Entry is one frame's scheduling directive for a timeslot: what to
// transmit downlink and expect uplink, and which burst (0-based) within
// the channel's block this frame carries.
type Entry struct {
	Dl, Ul ChanType
	Bid    int
}

// Layout is a complete multiframe table for one physical channel
// configuration.
type Layout struct {
	Period int
	Table  []Entry
}

// At returns the entry for frame number fn. It is a pure function of
// fn mod Period.
func (l Layout) At(fn uint32) Entry {
	return l.Table[int(fn)%l.Period]
}

// BlockMask is the full-reception bitmask for a channel whose block
// spans nBursts consecutive burst ids (0x0F for a 4-burst block, 0xFF
// for 8, 0x3F for 6).
func BlockMask(nBursts int) uint8 {
	if nBursts >= 8 {
		return 0xFF
	}
	return byte(1<<uint(nBursts)) - 1
}

// LayoutCCCHComb builds the SDCCH/4 + CCCH + BCCH combined layout (period
// 51): frames 0..3 carry BCCH, 4..11 CCCH (AGCH/PCH), 12..27 the 4 SDCCH
// subchannels one block each, 28..43 their 4 SACCH blocks, 44..50 idle.
// The uplink of every frame that is not SDCCH/SACCH is RACH.
func LayoutCCCHComb() Layout {
	const period = 51
	t := make([]Entry, period)
	for i := range t {
		t[i] = Entry{Dl: Idle, Ul: RACH}
	}
	for i := 0; i < 4; i++ {
		t[i] = Entry{Dl: BCCH, Ul: RACH, Bid: i}
	}
	for i := 4; i < 12; i++ {
		t[i] = Entry{Dl: CCCH, Ul: RACH, Bid: (i - 4) % 4}
	}
	sdcch := [4]ChanType{SDCCH0, SDCCH1, SDCCH2, SDCCH3}
	sacch := [4]ChanType{SACCH0, SACCH1, SACCH2, SACCH3}
	pos := 12
	for sub := 0; sub < 4; sub++ {
		for bid := 0; bid < 4; bid++ {
			t[pos] = Entry{Dl: sdcch[sub], Ul: sdcch[sub], Bid: bid}
			pos++
		}
	}
	for sub := 0; sub < 4; sub++ {
		for bid := 0; bid < 4; bid++ {
			t[pos] = Entry{Dl: sacch[sub], Ul: sacch[sub], Bid: bid}
			pos++
		}
	}
	return Layout{Period: period, Table: t}
}

// LayoutSDCCH8 builds the SDCCH/8 layout, period 51: frames 0..31 give
// the 8 SDCCH subchannels one 4-burst block each, 32..47 carry SACCH
// blocks for subchannels 0..3 only, and 48..50 are idle. The trailing
// CBCH block is placed only if 4 frames remain, which they do not, so the
// table has no CBCH entry and no SACCH for subchannels 4..7.
func LayoutSDCCH8() Layout {
	const period = 51
	t := make([]Entry, period)
	for i := range t {
		t[i] = Entry{Dl: Idle, Ul: Idle}
	}
	sdcch := [8]ChanType{SDCCH0, SDCCH1, SDCCH2, SDCCH3, SDCCH4, SDCCH5, SDCCH6, SDCCH7}
	sacch := [8]ChanType{SACCH0, SACCH1, SACCH2, SACCH3, SACCH4, SACCH5, SACCH6, SACCH7}
	pos := 0
	for sub := 0; sub < 8 && pos+4 <= period; sub++ {
		for bid := 0; bid < 4; bid++ {
			t[pos] = Entry{Dl: sdcch[sub], Ul: sdcch[sub], Bid: bid}
			pos++
		}
	}
	for sub := 0; sub < 4 && pos+4 <= period; sub++ {
		for bid := 0; bid < 4; bid++ {
			t[pos] = Entry{Dl: sacch[sub], Ul: sacch[sub], Bid: bid}
			pos++
		}
	}
	if pos+4 <= period {
		for bid := 0; bid < 4; bid++ {
			t[pos] = Entry{Dl: CBCH, Ul: Idle, Bid: bid}
			pos++
		}
	}
	return Layout{Period: period, Table: t}
}

// LayoutTCHF builds the TCH/F + FACCH/F + SACCH layout, period 26: 24
// frames of an 8-burst voice/FACCH block repeated 3x, 1 SACCH frame
// block, 1 idle frame.
func LayoutTCHF() Layout {
	const period = 26
	t := make([]Entry, period)
	for i := 0; i < 24; i++ {
		t[i] = Entry{Dl: TCHF, Ul: TCHF, Bid: i % 8}
	}
	for i := 0; i < 1; i++ {
		t[24+i] = Entry{Dl: SACCH0, Ul: SACCH0, Bid: i}
	}
	t[25] = Entry{Dl: Idle, Ul: Idle}
	return Layout{Period: period, Table: t}
}

// LayoutTCHH builds the TCH/H (2 subchannels) + SACCH layout, period 26:
// frames 0..23 alternate the two subchannels with burst ids 0..3, 24 and
// 25 carry SACCH0 and SACCH1. There are no separate FACCH/H entries.
func LayoutTCHH() Layout {
	const period = 26
	t := make([]Entry, period)
	for i := 0; i < 24; i++ {
		sub := i % 2
		bid := (i / 2) % 4
		if sub == 0 {
			t[i] = Entry{Dl: TCHH0, Ul: TCHH0, Bid: bid}
		} else {
			t[i] = Entry{Dl: TCHH1, Ul: TCHH1, Bid: bid}
		}
	}
	t[24] = Entry{Dl: SACCH0, Ul: SACCH0, Bid: 0}
	t[25] = Entry{Dl: SACCH1, Ul: SACCH1, Bid: 0}
	return Layout{Period: period, Table: t}
}

// LayoutCCCH builds a non-combined CCCH+BCCH layout (no SDCCH), period 51.
func LayoutCCCH() Layout {
	const period = 51
	t := make([]Entry, period)
	for i := range t {
		t[i] = Entry{Dl: Idle, Ul: RACH}
	}
	for i := 0; i < 4; i++ {
		t[i] = Entry{Dl: BCCH, Ul: RACH, Bid: i}
	}
	for i := 4; i < period-4; i++ {
		t[i] = Entry{Dl: CCCH, Ul: RACH, Bid: (i - 4) % 4}
	}
	return Layout{Period: period, Table: t}
}

// LayoutPDCH builds a 4-burst PDTCH block layout, period 52 (13 blocks
// of 4 bursts, the last reserved for PTCCH among the
// logical channels a PDCH timeslot carries).
func LayoutPDCH() Layout {
	const period = 52
	t := make([]Entry, period)
	for i := 0; i < 48; i++ {
		t[i] = Entry{Dl: PDTCH, Ul: PDTCH, Bid: i % 4}
	}
	for i := 48; i < period; i++ {
		t[i] = Entry{Dl: PTCCH, Ul: PTCCH, Bid: i - 48}
	}
	return Layout{Period: period, Table: t}
}
