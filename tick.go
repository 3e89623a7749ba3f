package kernel

import "time"

// runTick implements spec.md §4.F's "Tick" paragraph: decrement every
// Suspended, blocking-enabled task's countdown; any that reach zero
// transition Suspended -> Waiting via the internal WaitTimeout path
// (which sorts and rebuilds the ready set, the same as Activate/
// Terminate); then run the dispatcher and pend a context switch against
// the ready set as it now stands. A plain tick with no expired
// countdowns does not touch the ready set's order at all — it is a
// FIFO that persists and rotates across ticks (spec.md §4.B, §4.D), not
// something re-derived from table order every tick.
func (k *Kernel) runTick() {
	k.kernelLock.Lock()

	expired := make([]*TCB, 0, 4)
	for i := 0; i < k.table.count(); i++ {
		t := k.table.at(i)
		if t.State() != Suspended || !t.blocking {
			continue
		}
		t.ticksRemaining--
		if t.ticksRemaining <= 0 {
			expired = append(expired, t)
		}
	}
	for _, t := range expired {
		_ = k.waitTimeoutLocked(t)
	}
	k.logger.Log(LevelDebug, "tick", "tick", Fields{"expired": len(expired)})

	if k.osState == OSRunning {
		k.dispatchAndSwitch()
	}

	k.kernelLock.Unlock()
}

// startTick launches the periodic tick goroutine. Returns
// ErrTickStart if the configured tick interval is non-positive
// (spec.md §6 error taxonomy includes TickStartError for this
// construction-time failure).
func (k *Kernel) startTick() error {
	if k.tickInterval <= 0 {
		return ErrTickStart
	}
	k.tickStop = make(chan struct{})
	k.tickDone = make(chan struct{})
	go func() {
		defer close(k.tickDone)
		ticker := time.NewTicker(k.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-k.tickStop:
				return
			case <-ticker.C:
				k.runTick()
			}
		}
	}()
	return nil
}

// stopTick halts the periodic tick goroutine. Intended for tests that
// need a deterministic shutdown; the reference RTOS has no equivalent
// since it never stops ticking once started.
func (k *Kernel) stopTick() {
	if k.tickStop == nil {
		return
	}
	close(k.tickStop)
	<-k.tickDone
}
