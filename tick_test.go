package kernel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTick_NonPositiveIntervalFails(t *testing.T) {
	k := New(WithTaskCapacity(2))
	k.tickInterval = 0

	err := k.startTick()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTickStart)
}

func TestStartStopTick_RunsAndHalts(t *testing.T) {
	k := New(WithTaskCapacity(2), WithTickInterval(time.Millisecond))
	require.NoError(t, k.startTick())
	time.Sleep(10 * time.Millisecond)
	k.stopTick()

	select {
	case <-k.tickDone:
	default:
		t.Fatal("stopTick must wait for the tick goroutine to exit")
	}
}

func TestRunTick_ExpiredCountdownTransitionsToWaitingAndDispatches(t *testing.T) {
	k := New(WithTaskCapacity(3))
	k.osState = OSRunning

	var tcb TCB
	k.TaskInit(&tcb, 256, func() {}, 1, "waiter")
	require.NoError(t, k.CreateTask(&tcb))

	tcb.state.Store(Suspended)
	tcb.blocking = true
	tcb.ticksRemaining = 1
	k.current = k.idle
	k.idle.state.Store(Running)

	k.runTick()

	assert.Equal(t, Running, tcb.State(), "the lone expired task must be dispatched immediately")
	assert.False(t, tcb.blocking)
	assert.Equal(t, 0, tcb.ticksRemaining)
}

func TestRunTick_NonExpiredCountdownJustDecrements(t *testing.T) {
	k := New(WithTaskCapacity(3))
	k.osState = OSRunning

	var tcb TCB
	k.TaskInit(&tcb, 256, func() {}, 1, "waiter")
	require.NoError(t, k.CreateTask(&tcb))

	tcb.state.Store(Suspended)
	tcb.blocking = true
	tcb.ticksRemaining = 3
	k.current = k.idle
	k.idle.state.Store(Running)

	k.runTick()

	assert.Equal(t, 2, tcb.ticksRemaining)
	assert.Equal(t, Suspended, tcb.State())
}

func TestRunTick_PlainTickDoesNotRebuildReadySetOrder(t *testing.T) {
	k := New(WithTaskCapacity(4))
	k.osState = OSRunning

	var a, b TCB
	k.TaskInit(&a, 256, func() {}, 1, "a")
	k.TaskInit(&b, 256, func() {}, 1, "b")
	require.NoError(t, k.CreateTask(&a))
	require.NoError(t, k.CreateTask(&b))
	a.state.Store(Waiting)
	b.state.Store(Waiting)

	k.rebuildReadySet()
	k.ensureStarted(&a)
	k.ensureStarted(&b)

	// Seed the ready set directly with a known order (b ahead of a) that
	// does not match table order, to prove a plain tick leaves ready-set
	// order alone rather than re-deriving it from the table.
	k.ready.reset()
	k.ready.enqueue(&b)
	k.ready.enqueue(&a)
	k.current = &a
	a.state.Store(Running)

	k.runTick()

	assert.Equal(t, &b, k.current, "dispatch must pick the existing FIFO head, not table order")
}
