// Package fsm implements Managed-Object finite-state machines: each
// Managed Object's operational state as explicit tagged-union state +
// (state, event) matches, replacing the macro-dispatched osmo_fsm
// callback tables.
//
// Grounded on original_source/src/common/nm_channel_fsm.c (the Channel
// MO's DISABLED_DEPENDENCY interlock on its parent Radio-Carrier/
// Baseband-Transceiver) and nm_bts_fsm.c / nm_bb_transc_fsm.c (the
// simpler three-state MOs).
package fsm

import "github.com/osmo-go/btssched/internal/btserr"

// OpState is the operational state shared by every Managed Object.
type OpState int

const (
	StNotInstalled OpState = iota
	StOffline
	StDependency // Channel/GPRS MOs only
	StEnabled
)

// Event is one of the admission-rule events an MO reacts to.
type Event int

const (
	EvSwActivated Event = iota
	EvSetAttrOk
	EvOpstartAck
	EvOpstartNack
	EvParentEnabled
	EvParentDisabled
	EvShutdownStart
	EvShutdownFinish
)

// MO is one Managed Object's FSM instance. HasDependency selects
// whether OFFLINE requires the parent to be ENABLED first (the Channel
// MO's "RChannel depends on RCarrier" flag); Notify, if set, is called on
// every committed state change (the NM notification fan-out).
type MO struct {
	State           OpState
	SetAttrSuccess  bool
	HasDependency   bool
	ParentEnabled   bool
	Notify          func(from, to OpState)
}

// NewMO creates a Managed Object starting in NOT_INSTALLED. hasDependency
// selects the Channel/GPRS three-state-plus-DEPENDENCY behavior.
func NewMO(hasDependency bool) *MO {
	return &MO{State: StNotInstalled, HasDependency: hasDependency}
}

func (m *MO) transition(to OpState) {
	from := m.State
	m.State = to
	if m.Notify != nil && from != to {
		m.Notify(from, to)
	}
}

// offlineOrDependency picks OFFLINE vs DEPENDENCY for MOs that gate on a
// parent, per ts_can_be_enabled in nm_channel_fsm.c.
func (m *MO) offlineOrDependency() OpState {
	if m.HasDependency && !m.ParentEnabled {
		return StDependency
	}
	return StOffline
}

// Handle applies one event, returning a btserr.ClassProgrammingInvariant
// error for any event not valid in the current state (the OSMO_ASSERT(0)
// default branches of nm_channel_fsm.c's per-state handlers).
func (m *MO) Handle(ev Event) error {
	switch m.State {
	case StNotInstalled:
		switch ev {
		case EvSwActivated:
			m.transition(m.offlineOrDependency())
			return nil
		case EvShutdownFinish:
			return nil
		}
	case StDependency:
		switch ev {
		case EvOpstartAck:
			// OPSTART is only valid from OFFLINE: a Channel MO can
			// never reach ENABLED while its parent Radio-Carrier is
			// still NOTINSTALLED/OFFLINE.
			return btserr.New(btserr.ClassProgrammingInvariant, "fsm.Handle", btserr.ErrInvariant)
		case EvOpstartNack:
			m.SetAttrSuccess = false
			return nil
		case EvParentEnabled:
			if !m.HasDependency || m.ParentEnabled {
				m.transition(StOffline)
			}
			return nil
		case EvParentDisabled:
			return nil
		case EvShutdownStart:
			m.transition(StNotInstalled)
			return nil
		}
	case StOffline:
		switch ev {
		case EvSetAttrOk:
			m.SetAttrSuccess = true
			return nil
		case EvOpstartAck:
			if !m.SetAttrSuccess {
				return btserr.New(btserr.ClassProgrammingInvariant, "fsm.Handle", btserr.ErrInvariant)
			}
			m.transition(StEnabled)
			return nil
		case EvOpstartNack:
			m.SetAttrSuccess = false
			return nil
		case EvParentDisabled:
			if m.HasDependency {
				m.transition(StDependency)
			}
			return nil
		case EvParentEnabled:
			return nil
		case EvShutdownStart:
			m.transition(StNotInstalled)
			return nil
		}
	case StEnabled:
		switch ev {
		case EvParentDisabled:
			if m.HasDependency {
				m.transition(StDependency)
			}
			return nil
		case EvShutdownStart:
			m.transition(StNotInstalled)
			return nil
		}
	}
	return btserr.New(btserr.ClassProgrammingInvariant, "fsm.Handle", btserr.ErrInvariant)
}

// SetParentEnabled updates ParentEnabled and feeds the corresponding
// Parent{Enabled,Disabled} event, matching nm_channel_fsm.c's
// NM_EV_{RCARRIER,BBTRANSC}_{ENABLED,DISABLED} handlers.
func (m *MO) SetParentEnabled(enabled bool) error {
	m.ParentEnabled = enabled
	if enabled {
		return m.Handle(EvParentEnabled)
	}
	return m.Handle(EvParentDisabled)
}
