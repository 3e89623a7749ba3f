package kernel

// taskTable is a fixed-capacity, densely-packed slice of task references
// kept sorted in ascending priority order (smaller number = more
// important) after every mutation. Tasks are only ever appended, never
// removed, matching spec.md §3/§4.B: the whole task set is built before
// the kernel starts.
type taskTable struct {
	tasks       []*TCB
	capacity    int
	activeCount int
}

func newTaskTable(capacity int) *taskTable {
	return &taskTable{
		tasks:    make([]*TCB, capacity),
		capacity: capacity,
	}
}

// insert appends tcb into slot activeCount and increments the count. It
// does not sort; callers sort separately so several inserts can be
// followed by one sort.
func (tt *taskTable) insert(tcb *TCB) bool {
	if tt.activeCount >= tt.capacity {
		return false
	}
	tt.tasks[tt.activeCount] = tcb
	tt.activeCount++
	return true
}

// sort bubble-sorts the active slots by ascending priority using
// adjacent swaps only. Adjacent-swap bubble sort is stable: tasks of
// equal priority never change relative order across a sort, which is
// what preserves round-robin rotation order between scheduling events
// (spec.md §4.B).
func (tt *taskTable) sort() {
	n := tt.activeCount
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if tt.tasks[j].priority > tt.tasks[j+1].priority {
				tt.tasks[j], tt.tasks[j+1] = tt.tasks[j+1], tt.tasks[j]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
}

// at returns the task at sorted index i, or nil if i is out of
// [0, activeCount).
func (tt *taskTable) at(i int) *TCB {
	if i < 0 || i >= tt.activeCount {
		return nil
	}
	return tt.tasks[i]
}

// count returns the number of active (created) tasks.
func (tt *taskTable) count() int {
	return tt.activeCount
}
