package fsm

// ShutdownState is the Shutdown FSM's state set.
type ShutdownState int

const (
	ShutdownNone ShutdownState = iota
	ShutdownWaitRampDownCompl
	ShutdownWaitTrxClosed
	ShutdownExit
)

// ShutdownEvent is one input to the Shutdown FSM.
type ShutdownEvent int

const (
	ShutdownEvStart ShutdownEvent = iota
	ShutdownEvTrxRampCompl
	ShutdownEvTrxClosed
	ShutdownEvWatchdog
)

// TrxPowerRamp ramps one TRX's power down to BtsShutdownPowerRampTgtDbm,
// reporting completion via Done.
type TrxPowerRamp struct {
	Done bool
}

// BtsShutdownPowerRampTgtDbm is the ramp-down target of bts_shutdown_fsm.c.
const BtsShutdownPowerRampTgtDbm = -10

// Shutdown is the per-BTS graceful shutdown orchestrator. RampingTrx and
// ClosingTrx are counts of TRX still to report completion in their
// respective states; ExitFn is invoked once on reaching ShutdownExit.
type Shutdown struct {
	State      ShutdownState
	RampingTrx int
	ClosingTrx int
	ExitFn     func()
}

// Start begins shutdown: count operational TRX and go straight to
// WAIT_TRX_CLOSED if none are enabled (st_none / st_none's count==0
// branch), otherwise wait for each to ramp down first.
func (s *Shutdown) Start(operationalTrx int) {
	if s.State != ShutdownNone {
		// A second start while already shutting down does not
		// re-trigger (a started shutdown cannot be cancelled).
		return
	}
	if operationalTrx > 0 {
		s.RampingTrx = operationalTrx
		s.State = ShutdownWaitRampDownCompl
	} else {
		s.State = ShutdownWaitTrxClosed
	}
}

// TrxRampComplete reports one TRX finished its power ramp; once all have,
// the FSM advances to WAIT_TRX_CLOSED.
func (s *Shutdown) TrxRampComplete(totalTrx int) {
	if s.State != ShutdownWaitRampDownCompl {
		return
	}
	s.RampingTrx--
	if s.RampingTrx <= 0 {
		s.ClosingTrx = totalTrx
		s.State = ShutdownWaitTrxClosed
	}
}

// TrxClosed reports one TRX's transceiver link closed; once all have, the
// FSM advances to EXIT and fires ExitFn.
func (s *Shutdown) TrxClosed() {
	if s.State != ShutdownWaitTrxClosed {
		return
	}
	s.ClosingTrx--
	if s.ClosingTrx <= 0 {
		s.toExit()
	}
}

// Watchdog force-advances a hung state to EXIT without blocking process
// exit (the shutdown watchdog force-advance path).
func (s *Shutdown) Watchdog() {
	if s.State == ShutdownWaitRampDownCompl || s.State == ShutdownWaitTrxClosed {
		s.toExit()
	}
}

func (s *Shutdown) toExit() {
	s.State = ShutdownExit
	if s.ExitFn != nil {
		s.ExitFn()
	}
}
