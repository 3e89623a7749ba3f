package kernel

// readySet is a bounded FIFO of task references, adapted from the ring
// buffer's head/tail-counter bookkeeping (see DESIGN.md, component C):
// fixed capacity instead of power-of-two growth, since capacity here is
// the task table capacity, fixed when the kernel is constructed, and the
// buffer is always fully
// drained (reset) before a rebuild, never grown or indexed into at an
// arbitrary position.
type readySet struct {
	s    []*TCB
	r, w uint
}

func newReadySet(capacity int) *readySet {
	return &readySet{s: make([]*TCB, capacity)}
}

// len returns the number of entries currently queued.
func (rs *readySet) len() int {
	return int(rs.w - rs.r)
}

func (rs *readySet) mask(v uint) uint {
	return v % uint(len(rs.s))
}

// reset drains the ready set completely (spec.md §4.C step 1).
func (rs *readySet) reset() {
	rs.r, rs.w = 0, 0
}

// enqueue appends t to the tail. The ready set's capacity equals the
// task table's, so a full buffer here indicates a kernel invariant
// violation rather than a condition to recover from.
func (rs *readySet) enqueue(t *TCB) {
	if rs.len() >= len(rs.s) {
		panic("kernel: ready set overflow: capacity equals task table capacity and must never be exceeded")
	}
	rs.s[rs.mask(rs.w)] = t
	rs.w++
}

// dequeue removes and returns the head, or nil if empty.
func (rs *readySet) dequeue() *TCB {
	if rs.len() == 0 {
		return nil
	}
	t := rs.s[rs.mask(rs.r)]
	rs.r++
	return t
}

// empty reports whether the ready set holds no entries.
func (rs *readySet) empty() bool {
	return rs.len() == 0
}

// rebuild implements spec.md §4.C's five-step algorithm: drain, then walk
// the sorted task table, enqueueing every non-Suspended task and marking
// it Ready, stopping once it is established that no more runnable tasks
// of any priority remain behind the current walk position.
func (rs *readySet) rebuild(tt *taskTable) error {
	rs.reset()
	n := tt.count()
	for i := 0; i < n; i++ {
		cur := tt.at(i)
		if cur.State() == Suspended {
			continue
		}
		rs.enqueue(cur)
		cur.state.Store(Ready)

		if i+1 >= n {
			// Open Question (a): never read past activeCount; treat
			// "no next" as "stop".
			break
		}
		nxt := tt.at(i + 1)
		switch {
		case nxt.State() == Suspended:
			return nil
		case cur.priority < nxt.priority:
			return nil
		case cur.priority == nxt.priority:
			continue
		default:
			return ErrBubbleSortInvariant
		}
	}
	return nil
}
