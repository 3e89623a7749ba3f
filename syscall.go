package kernel

// This file implements the supervisor-call dispatch table of spec.md
// §4.F: Activate=1, Terminate=2, WaitTimeout=3, AcquireMutex=4,
// ReleaseMutex=5. On real hardware these are demultiplexed from a single
// SVC trap by immediate operand; here each is its own exported method,
// since Go has no equivalent of a single software-interrupt entry point
// and gains nothing by simulating the demultiplex step itself.

// Activate marks tcb Waiting and raises the Activate supervisor call:
// sort the table, rebuild the ready set, and — if the OS is running and
// the caller isn't the idle task — redispatch (spec.md §6 activate).
func (k *Kernel) Activate(tcb *TCB) error {
	k.kernelLock.Lock()
	defer k.kernelLock.Unlock()
	return k.activateLocked(tcb)
}

func (k *Kernel) activateLocked(tcb *TCB) error {
	tcb.state.Store(Waiting)
	k.logger.Log(LevelInfo, "task", "activated", Fields{"task": tcb.Name()})
	return k.sortRebuildAndMaybeDispatch(k.current, true)
}

// Terminate marks tcb Suspended and raises the Terminate supervisor
// call: sort, rebuild, redispatch (spec.md §6 terminate).
func (k *Kernel) Terminate(tcb *TCB) error {
	k.kernelLock.Lock()
	defer k.kernelLock.Unlock()
	tcb.state.Store(Suspended)
	tcb.blocking = false
	tcb.ticksRemaining = 0
	k.logger.Log(LevelInfo, "task", "terminated", Fields{"task": tcb.Name()})
	return k.sortRebuildAndMaybeDispatch(k.current, true)
}

// Wait marks tcb Suspended with blocking enabled and a tick countdown,
// then raises the Terminate supervisor path (spec.md §6 wait: "mark
// Suspended, set blocking + countdown, then terminate"). Wait(0, tcb) is
// a documented no-op (spec.md §9 Open Question (c)): it leaves tcb
// Running and performs no supervisor call.
//
// Because the Terminate path re-dispatches synchronously (spec.md §4.F),
// the calling task's own exception-return would, on real hardware, tail-
// chain straight into the next task rather than back into the caller.
// Wait models that by parking the calling goroutine on its own resume
// channel until some later switchTo selects tcb again; Wait only
// returns once that happens.
func (k *Kernel) Wait(ticks int, tcb *TCB) error {
	if ticks <= 0 {
		return nil
	}
	k.kernelLock.Lock()
	tcb.blocking = true
	tcb.ticksRemaining = ticks
	k.logger.Log(LevelInfo, "task", "waiting", Fields{"task": tcb.Name(), "ticks": ticks})
	tcb.state.Store(Suspended)
	err := k.sortRebuildAndMaybeDispatch(k.current, true)
	k.kernelLock.Unlock()
	if err != nil {
		return err
	}
	k.Yield(tcb)
	return nil
}

// waitTimeoutLocked is the internal WaitTimeout supervisor call (imm=3):
// the tick handler invokes this when a blocking countdown reaches zero.
// It transitions the task Suspended -> Waiting and rebuilds only (no
// redispatch); the caller (tick) performs its own dispatch pass
// afterward, matching the per-tick sequence in spec.md §4.F.
func (k *Kernel) waitTimeoutLocked(tcb *TCB) error {
	tcb.blocking = false
	tcb.ticksRemaining = 0
	tcb.state.Store(Waiting)
	k.logger.Log(LevelInfo, "task", "wait timeout elapsed", Fields{"task": tcb.Name()})
	return k.sortRebuildAndMaybeDispatch(nil, false)
}

// Acquire attempts to lock m on behalf of tcb (spec.md §6 acquire). If m
// is free, tcb becomes the holder immediately. If m is held and has no
// pending waiter, tcb becomes the pending waiter and is suspended; per
// spec.md §4.F row 4, AcquireMutex only rebuilds the ready set — it does
// not itself pend a context switch the way Activate/Terminate do, so the
// actual switch-away happens at whatever dispatch point (tick or
// supervisor call) next notices tcb is no longer eligible. Acquire
// models the interval in between by parking the calling goroutine on
// tcb's own resume channel, rather than letting it race ahead as stale
// code the way the bare hardware description would technically permit:
// Go has no implicit preemption point to reproduce that race window, and
// no correct caller could observe the difference. If m already has a
// pending waiter, Acquire returns ErrManyUsersOnMutex without blocking
// tcb.
func (k *Kernel) Acquire(tcb *TCB, m *Mutex) error {
	k.kernelLock.Lock()

	if m.state == MutexReleased {
		m.state = MutexBlocked
		m.holder = tcb
		k.logger.Log(LevelInfo, "mutex", "acquired", Fields{"mutex": m.name, "task": tcb.Name()})
		k.kernelLock.Unlock()
		return nil
	}

	if m.pending != nil {
		k.logger.Log(LevelWarn, "mutex", "second waiter rejected", Fields{"mutex": m.name, "task": tcb.Name()})
		k.kernelLock.Unlock()
		return ErrManyUsersOnMutex
	}

	m.pending = tcb
	tcb.state.Store(Suspended)
	tcb.blocking = false
	tcb.ticksRemaining = 0
	k.logger.Log(LevelInfo, "mutex", "acquire blocked", Fields{"mutex": m.name, "task": tcb.Name()})
	err := k.sortRebuildAndMaybeDispatch(k.current, false)
	k.kernelLock.Unlock()
	if err != nil {
		return err
	}
	k.Yield(tcb)
	return nil
}

// Release promotes the pending waiter (if any) to holder and activates
// it; with no pending waiter the mutex returns to Released (spec.md §6
// release). Per spec.md §9 Open Question (b), the promoted task's
// intermediate Waiting assignment is not separately observable: it is
// folded into the Activate call the promotion raises.
func (k *Kernel) Release(m *Mutex) error {
	k.kernelLock.Lock()

	next := m.pending
	m.pending = nil
	m.holder = next
	if next == nil {
		m.state = MutexReleased
	}
	k.logger.Log(LevelInfo, "mutex", "released", Fields{
		"mutex": m.name, "promoted": promotedName(next),
	})

	if next == nil {
		k.kernelLock.Unlock()
		return nil
	}

	// activateLocked both mutates state and rebuilds/redispatches; it
	// expects the lock already held, matching how this method acquired
	// it above.
	err := k.activateLocked(next)
	k.kernelLock.Unlock()
	return err
}

func promotedName(t *TCB) string {
	if t == nil {
		return ""
	}
	return t.Name()
}
