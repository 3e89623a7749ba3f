package kernel

// dispatchDecision is the dispatcher's output: the task that should run
// next, and whether the previously-current task was re-enqueued as part
// of round-robin rotation (informational, used by logging/tests only).
type dispatchDecision struct {
	next      *TCB
	requeued  bool
}

// decide implements spec.md §4.D: given the current task and the ready
// set, picks what runs next and mutates both the ready set and task
// states accordingly. current may be nil (no task running yet, e.g.
// before the idle task's first dispatch).
func decide(current *TCB, rs *readySet) dispatchDecision {
	if rs.empty() && current != nil && current.State() != Suspended {
		rs.enqueue(current)
		current.state.Store(Running)
		return dispatchDecision{next: current}
	}

	h := rs.dequeue()
	if h == nil {
		// Ready set empty and current is nil or Suspended: nothing
		// runnable. Callers must have the idle task always Waiting/
		// Ready so this never happens in practice once Start has run.
		return dispatchDecision{}
	}
	h.state.Store(Running)

	decision := dispatchDecision{next: h}
	if current != nil && current != h && current.priority == h.priority && current.State() != Suspended {
		rs.enqueue(current)
		current.state.Store(Ready)
		decision.requeued = true
	}
	return decision
}
