// Package runtime implements the top-level Site/BTS/TRX/Timeslot/Lchan
// ownership tree as a typed-index arena, replacing cyclic pointer graphs
// (TRX<->TS<->lchan back-pointers, shadow peers) with arena slices and
// typed indices, so the graph cannot form a reference cycle.
//
// Grounded on original_source/include/osmo-bts/gsm_data.h's gsm_bts_trx /
// gsm_bts_trx_ts / gsm_lchan ownership layout (a BTS owns a trx_list, a
// TRX owns 8 ts[], a ts owns up to 8 lchan[]), re-expressed without
// pointers: every cross-reference is an integer ID resolved through the
// owning Runtime.
package runtime

import (
	"github.com/osmo-go/btssched/internal/fsm"
	"github.com/osmo-go/btssched/internal/lchan"
	"github.com/osmo-go/btssched/internal/mframe"
	"github.com/osmo-go/btssched/internal/power"
)

// Typed IDs index into the arena's slices below.
type SiteID uint32
type BtsID uint32
type TrxID uint32
type TsID uint32
type LchanID uint32

// PhysChanType is the timeslot physical channel configuration.
type PhysChanType int

const (
	PhysNone PhysChanType = iota
	PhysCCCHComb
	PhysCCCH
	PhysSDCCH8
	PhysTchF
	PhysTchH
	PhysPDCH
	PhysTchFPDCH
	PhysOsmoDyn
)

// Site owns one or more BTS.
type Site struct {
	Bts []BtsID
}

// Bts is one base transceiver station.
type Bts struct {
	Trx      []TrxID
	MO       *fsm.MO
	Shutdown fsm.Shutdown
}

// Trx is one transceiver: exactly 8 timeslots, plus its Radio-Carrier and
// Baseband-Transceiver managed objects.
type Trx struct {
	Ts          [8]TsID
	RadioCarrier *fsm.MO
	BbTransc     *fsm.MO
}

// Timeslot owns its layout and up to 8 logical channels. ShadowOf, if
// nonzero, names the primary timeslot this is a VAMOS shadow of; the
// shadow relationship is thus expressed as a one-way ID reference,
// queried with `Runtime.IsShadowOf(primary, shadow)`, never a mutual
// pointer pair.
type Timeslot struct {
	Phys     PhysChanType
	Layout   mframe.Layout
	Lchans   []LchanID
	ShadowOf TsID // 0 if this is not a shadow
	MO       *fsm.MO
}

// Runtime is the arena: every Site/Bts/Trx/Timeslot/Lchan lives in one of
// these slices, indexed by its typed ID (1-based; 0 is the nil ID).
type Runtime struct {
	sites     []Site
	bts       []Bts
	trxs      []Trx
	timeslots []Timeslot
	lchans    []*lchan.Lchan
	msLoops   map[LchanID]*power.MsLoop
	bsLoops   map[LchanID]*power.BsLoop
}

// New creates an empty Runtime.
func New() *Runtime {
	return &Runtime{
		sites:     []Site{{}},     // index 0 unused
		bts:       []Bts{{}},
		trxs:      []Trx{{}},
		timeslots: []Timeslot{{}},
		lchans:    []*lchan.Lchan{nil},
		msLoops:   map[LchanID]*power.MsLoop{},
		bsLoops:   map[LchanID]*power.BsLoop{},
	}
}

// NewSite allocates a Site and returns its ID.
func (r *Runtime) NewSite() SiteID {
	r.sites = append(r.sites, Site{})
	return SiteID(len(r.sites) - 1)
}

// NewBts allocates a BTS under site and returns its ID.
func (r *Runtime) NewBts(site SiteID) BtsID {
	r.bts = append(r.bts, Bts{MO: fsm.NewMO(false)})
	id := BtsID(len(r.bts) - 1)
	s := &r.sites[site]
	s.Bts = append(s.Bts, id)
	return id
}

// NewTrx allocates a TRX under bts and returns its ID.
func (r *Runtime) NewTrx(bts BtsID) TrxID {
	r.trxs = append(r.trxs, Trx{RadioCarrier: fsm.NewMO(false), BbTransc: fsm.NewMO(false)})
	id := TrxID(len(r.trxs) - 1)
	b := &r.bts[bts]
	b.Trx = append(b.Trx, id)
	return id
}

// NewTimeslot allocates timeslot tn (0..7) of trx with the given physical
// channel type and layout, and returns its ID.
func (r *Runtime) NewTimeslot(trx TrxID, tn int, phys PhysChanType, layout mframe.Layout) TsID {
	r.timeslots = append(r.timeslots, Timeslot{Phys: phys, Layout: layout, MO: fsm.NewMO(true)})
	id := TsID(len(r.timeslots) - 1)
	r.trxs[trx].Ts[tn] = id
	return id
}

// NewLchan allocates a logical channel on timeslot ts and returns its ID.
func (r *Runtime) NewLchan(ts TsID, typ lchan.ChanType) LchanID {
	r.lchans = append(r.lchans, &lchan.Lchan{Type: typ, RltLimit: -1})
	id := LchanID(len(r.lchans) - 1)
	t := &r.timeslots[ts]
	t.Lchans = append(t.Lchans, id)
	return id
}

// Lchan resolves a LchanID to its state.
func (r *Runtime) Lchan(id LchanID) *lchan.Lchan { return r.lchans[id] }

// Timeslot resolves a TsID.
func (r *Runtime) Timeslot(id TsID) *Timeslot { return &r.timeslots[id] }

// Trx resolves a TrxID.
func (r *Runtime) Trx(id TrxID) *Trx { return &r.trxs[id] }

// Bts resolves a BtsID.
func (r *Runtime) Bts(id BtsID) *Bts { return &r.bts[id] }

// SetMsLoop installs the MS uplink power loop for a logical channel.
func (r *Runtime) SetMsLoop(id LchanID, l *power.MsLoop) { r.msLoops[id] = l }

// MsLoop resolves a logical channel's MS uplink power loop, or nil.
func (r *Runtime) MsLoop(id LchanID) *power.MsLoop { return r.msLoops[id] }

// SetBsLoop installs the BS downlink power loop for a logical channel.
func (r *Runtime) SetBsLoop(id LchanID, l *power.BsLoop) { r.bsLoops[id] = l }

// BsLoop resolves a logical channel's BS downlink power loop, or nil.
func (r *Runtime) BsLoop(id LchanID) *power.BsLoop { return r.bsLoops[id] }

// ShadowPeer records primary as shadow's primary. The single edge
// shadow.ShadowOf == primary is the only link stored, with no mutual
// pointer pair; Runtime.IsShadowOf answers the query directly from the
// candidate timeslot's stored ShadowOf ID.
func (r *Runtime) ShadowPeer(shadow, primary TsID) {
	r.timeslots[shadow].ShadowOf = primary
}

// IsShadowOf reports whether candidate is configured as primary's shadow.
func (r *Runtime) IsShadowOf(primary, candidate TsID) bool {
	return r.timeslots[candidate].ShadowOf == primary
}
