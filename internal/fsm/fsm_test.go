package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A Channel MO (HasDependency=true) can never be ENABLED while its
// parent is disabled.
func TestChannelNeverEnabledWithoutParent(t *testing.T) {
	mo := NewMO(true)
	require.NoError(t, mo.Handle(EvSwActivated))
	require.Equal(t, StDependency, mo.State)

	require.Error(t, mo.Handle(EvOpstartAck))
	require.Equal(t, StDependency, mo.State)
}

func TestChannelEntersOfflineWhenParentEnabled(t *testing.T) {
	mo := NewMO(true)
	mo.ParentEnabled = true
	require.NoError(t, mo.Handle(EvSwActivated))
	require.Equal(t, StOffline, mo.State)

	require.NoError(t, mo.Handle(EvSetAttrOk))
	require.NoError(t, mo.Handle(EvOpstartAck))
	require.Equal(t, StEnabled, mo.State)
}

func TestChannelDropsToDependencyWhenParentDisables(t *testing.T) {
	mo := NewMO(true)
	mo.ParentEnabled = true
	mo.Handle(EvSwActivated)
	mo.Handle(EvSetAttrOk)
	mo.Handle(EvOpstartAck)
	require.Equal(t, StEnabled, mo.State)

	require.NoError(t, mo.SetParentEnabled(false))
	require.Equal(t, StDependency, mo.State)
}

func TestSimpleMoWithoutDependency(t *testing.T) {
	mo := NewMO(false)
	require.NoError(t, mo.Handle(EvSwActivated))
	require.Equal(t, StOffline, mo.State)
	require.NoError(t, mo.Handle(EvSetAttrOk))
	require.NoError(t, mo.Handle(EvOpstartAck))
	require.Equal(t, StEnabled, mo.State)
}

func TestInvalidEventIsProgrammingInvariant(t *testing.T) {
	mo := NewMO(false)
	err := mo.Handle(EvOpstartAck)
	require.Error(t, err)
}

func TestShutdownSkipsRampWhenNoTrxEnabled(t *testing.T) {
	s := &Shutdown{}
	s.Start(0)
	require.Equal(t, ShutdownWaitTrxClosed, s.State)
}

func TestShutdownRampsThenClosesThenExits(t *testing.T) {
	exited := false
	s := &Shutdown{ExitFn: func() { exited = true }}
	s.Start(2)
	require.Equal(t, ShutdownWaitRampDownCompl, s.State)
	s.TrxRampComplete(2)
	require.Equal(t, ShutdownWaitRampDownCompl, s.State)
	s.TrxRampComplete(2)
	require.Equal(t, ShutdownWaitTrxClosed, s.State)
	s.TrxClosed()
	require.Equal(t, ShutdownWaitTrxClosed, s.State)
	s.TrxClosed()
	require.Equal(t, ShutdownExit, s.State)
	require.True(t, exited)
}

func TestShutdownSecondStartIgnored(t *testing.T) {
	s := &Shutdown{}
	s.Start(1)
	s.Start(5)
	require.Equal(t, 1, s.RampingTrx)
}

func TestShutdownWatchdogForcesExit(t *testing.T) {
	s := &Shutdown{}
	s.Start(1)
	s.Watchdog()
	require.Equal(t, ShutdownExit, s.State)
}
