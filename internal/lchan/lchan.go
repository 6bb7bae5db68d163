package lchan

import "github.com/osmo-go/btssched/internal/btserr"

// AdminState is the lchan administrative state.
type AdminState int

const (
	StateNone AdminState = iota
	StateActReq
	StateActive
	StateRelReq
	StateRelErr
	StateBroken
)

// CipherStep is the monotonic ciphering handshake state:
// NONE -> RX_REQ -> RX_CONF -> RXTX_REQ -> RXTX_CONF (or ..._RX_CONF_TX_REQ
// on out-of-order activation).
type CipherStep int

const (
	CipherNone CipherStep = iota
	CipherRxReq
	CipherRxConf
	CipherRxTxReq
	CipherRxConfTxReq
	CipherRxTxConf
)

// cipherTransitions enumerates every legal (from, to) edge; anything else
// is a programming invariant violation. RX_REQ may also jump straight to
// RX_CONF_TX_REQ on out-of-order activation (listed in the table below).
var cipherTransitions = map[CipherStep]map[CipherStep]bool{
	CipherNone:        {CipherRxReq: true},
	CipherRxReq:       {CipherRxConf: true, CipherRxConfTxReq: true},
	CipherRxConf:      {CipherRxTxReq: true},
	CipherRxTxReq:     {CipherRxTxConf: true},
	CipherRxConfTxReq: {CipherRxTxConf: true},
}

// CanStepCipher reports whether from->to is a legal ciphering transition.
func CanStepCipher(from, to CipherStep) bool {
	edges := cipherTransitions[from]
	return edges != nil && edges[to]
}

// StepCipher validates and applies a ciphering transition, returning a
// btserr.ClassProgrammingInvariant error on an illegal edge.
func (l *Lchan) StepCipher(to CipherStep) error {
	if !CanStepCipher(l.Cipher, to) {
		return btserr.New(btserr.ClassProgrammingInvariant, "lchan.StepCipher", btserr.ErrInvariant)
	}
	l.Cipher = to
	return nil
}

// DlCipheringAllowed reports whether downlink ciphering may be enabled
// (never before RX_CONF).
func (l *Lchan) DlCipheringAllowed() bool {
	switch l.Cipher {
	case CipherRxConf, CipherRxTxReq, CipherRxConfTxReq, CipherRxTxConf:
		return true
	default:
		return false
	}
}

// ChanType names the lchan's logical-channel kind.
type ChanType int

const (
	ChanSDCCH ChanType = iota
	ChanTchF
	ChanTchH
	ChanCCCH
)

// ChanMode is the RSL channel mode (signalling/speech/data).
type ChanMode int

const (
	ModeSignalling ChanMode = iota
	ModeSpeech
	ModeData
)

// Lchan is one logical channel's full per-user state.
type Lchan struct {
	Type   ChanType
	Mode   ChanMode
	State  AdminState
	Cipher CipherStep

	MeasRing MeasRing

	// RadioLinkTimeout counter `s`, in [0, limit] or -1 (disabled).
	RadioLinkTimeout int
	RltLimit         int

	// PendingChanActiv tracks whether an RSL CHAN ACTIV is in flight; at
	// most one may be pending at a time.
	PendingChanActiv bool

	// DTX state.
	UlSidLatched bool
}

// RecvBlock applies a normal (non-failed) received block to the radio
// link timeout counter: increments by 2, capped at RltLimit, unless
// disabled (-1).
func (l *Lchan) RecvBlock() {
	if l.RltLimit < 0 {
		return
	}
	l.RadioLinkTimeout += 2
	if l.RadioLinkTimeout > l.RltLimit {
		l.RadioLinkTimeout = l.RltLimit
	}
}

// MissBlock applies a lost block: decrements by 1; reaching 0 signals
// the caller (via the bool return) to emit CONNECTION FAILURE.
func (l *Lchan) MissBlock() (connectionFailure bool) {
	if l.RltLimit < 0 {
		return false
	}
	if l.RadioLinkTimeout > 0 {
		l.RadioLinkTimeout--
	}
	return l.RadioLinkTimeout == 0
}

// LatchUlSid implements DTX marker latching: a pure
// function of (prev latched, this frame is SID) -- latched true on a SID,
// cleared on the next non-SID (SPEECH) frame.
func (l *Lchan) LatchUlSid(thisIsSid bool) {
	if thisIsSid {
		l.UlSidLatched = true
		return
	}
	l.UlSidLatched = false
}

// PendingActivStart marks a CHAN ACTIV as in flight, enforcing the
// at-most-one invariant.
func (l *Lchan) PendingActivStart() error {
	if l.PendingChanActiv {
		return btserr.New(btserr.ClassProgrammingInvariant, "lchan.PendingActivStart", btserr.ErrInvariant)
	}
	l.PendingChanActiv = true
	return nil
}

// PendingActivDone clears the in-flight marker on ACK/NACK.
func (l *Lchan) PendingActivDone() { l.PendingChanActiv = false }
