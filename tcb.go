package kernel

// maxTaskNameLen bounds the task identity name, mirroring the source
// RTOS's fixed-capacity Task_Name field.
const maxTaskNameLen = 30

// IdlePriority is the priority value reserved for the idle task. Smaller
// priority numbers are more important; 255 is the least important value
// an 8-bit priority can hold.
const IdlePriority uint8 = 255

// TCB is a task control block: the identity, entry point, stack
// geometry, lifecycle state and timing fields of one schedulable task.
// A TCB is allocated and owned by the caller (typically as a package- or
// function-level static) and handed to the kernel by pointer; the kernel
// never copies or frees it. Do not copy a TCB after TaskInit.
type TCB struct {
	name     [maxTaskNameLen]byte
	nameLen  int
	priority uint8
	entry    func()

	// requestedStackSize is set by TaskInit and consumed once by
	// CreateTask, which turns it into the top/bottom pair below.
	requestedStackSize int

	// stack geometry, as byte offsets into the kernel's arena region:
	// bottom is the stack's lowest byte, top is one past its highest byte;
	// savedSP is defined iff state != Running.
	top     int
	bottom  int
	savedSP int

	state atomicTaskState

	// timing: blocking is true iff the task is time-blocked via Wait;
	// ticksRemaining counts down to zero, at which point the tick
	// handler transitions Suspended -> Waiting.
	blocking       bool
	ticksRemaining int

	// goroutine substrate: see doc.go's Hardware substrate note and
	// contextswitch.go. resumeCh is the baton this task's goroutine
	// blocks on between switches; started guards one-time goroutine
	// launch; done is closed when the task's entry function returns
	// (Terminate).
	resumeCh chan struct{}
	started  bool
	done     chan struct{}
}

// Name returns the task's identity name.
func (t *TCB) Name() string {
	return string(t.name[:t.nameLen])
}

// Priority returns the task's immutable priority number.
func (t *TCB) Priority() uint8 {
	return t.priority
}

// State returns the task's current lifecycle state. Safe to call
// concurrently with kernel operation; it loads the state atomically.
func (t *TCB) State() TaskState {
	return t.state.Load()
}

// SavedSP returns the task's saved stack pointer (valid only when the
// task is not Running), exposed for the stack-pointer-within-bounds
// property test (spec.md §8 invariant 3).
func (t *TCB) SavedSP() int {
	return t.savedSP
}

// Top returns the top address of the task's private stack: one past its
// highest byte.
func (t *TCB) Top() int { return t.top }

// Bottom returns the inclusive bottom address of the task's private
// stack.
func (t *TCB) Bottom() int { return t.bottom }

func setTaskName(t *TCB, name string) {
	n := copy(t.name[:], name)
	t.nameLen = n
}
