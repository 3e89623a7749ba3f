package kernel

import (
	"sync"
	"time"
)

// Kernel is the process-wide scheduling singleton (spec.md §3 "Kernel
// singleton"). Construct one with [New]; New folds together the source
// RTOS's MYRTOS_init (arena setup, idle task installation) into
// construction, which is the idiomatic Go equivalent of a package-level
// init-then-use two-step.
//
// A Kernel is not a singleton in the Go sense — nothing prevents
// constructing more than one — but only one should ever have [Start]
// called in a given process, matching the single-core hardware model
// this package generalizes.
type Kernel struct {
	kernelLock sync.Mutex

	arena *arena
	table *taskTable
	ready *readySet

	current *TCB
	idle    *TCB

	osState OSState

	tickInterval time.Duration
	tickStop     chan struct{}
	tickDone     chan struct{}

	logger Logger

	startOnce sync.Once
}

// New constructs a Kernel: it carves the task-stack arena, sizes the
// task table and ready set, and installs the idle task in Suspended
// state (to be activated by [Kernel.Start]). It returns a ready-to-use
// Kernel; callers add application tasks with [Kernel.TaskInit] and
// [Kernel.CreateTask] before calling [Kernel.Start].
func New(opts ...KernelOption) *Kernel {
	o := resolveKernelOptions(opts...)

	k := &Kernel{
		arena:        newArena(o.arenaSize),
		table:        newTaskTable(o.taskCapacity),
		ready:        newReadySet(o.taskCapacity),
		osState:      OSSuspended,
		tickInterval: o.tickInterval,
		logger:       o.logger,
	}

	k.idle = &TCB{}
	setTaskName(k.idle, "idle")
	k.idle.priority = IdlePriority
	k.idle.entry = o.idleEntry

	if err := k.createTaskLocked(k.idle); err != nil {
		// The idle task's stack is the first allocation into a
		// freshly-sized arena; only a caller-supplied WithArenaSize
		// smaller than any reasonable idle stack could fail here, and
		// that is a construction-time misconfiguration, not a
		// recoverable runtime condition (spec.md §7).
		panic(err)
	}

	k.logger.Log(LevelInfo, "kernel", "initialized", Fields{
		"task_capacity": o.taskCapacity,
		"arena_size":    o.arenaSize,
	})

	return k
}

// TaskInit populates a user-allocated TCB. It does not touch kernel
// state (spec.md §6 task_init): no arena allocation, no table insertion.
func (k *Kernel) TaskInit(tcb *TCB, stackSize int, entry func(), priority uint8, name string) {
	*tcb = TCB{}
	setTaskName(tcb, name)
	tcb.priority = priority
	tcb.entry = entry
	tcb.requestedStackSize = stackSize
}

// idleStackSize is the private stack reserved for the idle task, ported
// from the reference RTOS's IDLE_TASK configuration (300 bytes).
const idleStackSize = 300

// CreateTask allocates the task's private stack from the arena, lays
// down the synthetic initial exception frame, and appends it to the
// task table in Suspended state (spec.md §6 create_task). tcb must have
// already been populated by [Kernel.TaskInit].
func (k *Kernel) CreateTask(tcb *TCB) error {
	k.kernelLock.Lock()
	defer k.kernelLock.Unlock()
	return k.createTaskLocked(tcb)
}

func (k *Kernel) createTaskLocked(tcb *TCB) error {
	size := tcb.requestedStackSize
	if tcb == k.idle {
		size = idleStackSize
	}

	stack, base, err := k.arena.allocate(size)
	_ = stack
	if err != nil {
		k.logger.Log(LevelError, "task", "stack allocation failed", Fields{
			"task": tcb.Name(), "requested": size,
		})
		return err
	}

	tcb.top = base
	tcb.bottom = base - size
	tcb.savedSP = manufactureFrame(k.arena, base)
	tcb.state.Store(Suspended)

	if !k.table.insert(tcb) {
		return newKernelError(ReadyQueueInitError, "task table capacity exceeded")
	}
	k.table.sort()

	k.logger.Log(LevelInfo, "task", "created", Fields{
		"task": tcb.Name(), "priority": int(tcb.priority), "stack_size": size,
	})
	return nil
}

// rebuildReadySet re-sorts the task table and rebuilds the ready set from
// it (spec.md §4.C). It is the "sort, rebuild" half of the structural
// supervisor calls (Activate, Terminate, the internal WaitTimeout) —
// the calls that change which tasks are runnable. Must be called with
// kernelLock held.
func (k *Kernel) rebuildReadySet() {
	k.table.sort()
	if err := k.ready.rebuild(k.table); err != nil {
		k.logger.Log(LevelError, "kernel", "ready set rebuild failed", Fields{"error": err.Error()})
		// spec.md §7: an invariant-violation error indicates a kernel
		// bug and halts at the point of detection. Go has no "spin
		// forever" that doesn't also wedge the caller, which is the
		// intended effect here.
		panic(err)
	}
}

// dispatchAndSwitch runs the dispatcher against the ready set as it
// currently stands and performs the resulting context switch. Unlike
// rebuildReadySet, it never touches the task table or ready set's
// contents beyond what decide (spec.md §4.D) itself dequeues/requeues —
// this is what lets the ready set persist as a genuine FIFO and round-
// robin rotate across ticks (spec.md §4.B, §4.F) instead of being
// re-derived from table order every time. When decide finds nothing
// runnable, no switch happens and k.current is left as it is. Must be
// called with kernelLock held.
func (k *Kernel) dispatchAndSwitch() {
	decision := decide(k.current, k.ready)
	if decision.next == nil {
		return
	}
	from := k.current
	k.switchTo(from, decision.next)
}

// sortRebuildAndMaybeDispatch is the shared tail of every structural
// supervisor call (spec.md §4.F): it always rebuilds the ready set, and
// additionally dispatches when dispatch is true and the OS is running
// and the caller isn't the idle task. Must be called with kernelLock
// held.
func (k *Kernel) sortRebuildAndMaybeDispatch(caller *TCB, dispatch bool) error {
	k.rebuildReadySet()

	if !dispatch {
		return nil
	}
	if k.osState != OSRunning {
		return nil
	}
	if caller != nil && caller == k.idle {
		return nil
	}

	k.dispatchAndSwitch()
	return nil
}

// Start transitions the OS to Running, activates the idle task, performs
// the first dispatch (the highest-priority ready task, which is the idle
// task only if nothing else has been activated), and then starts the
// periodic tick (spec.md §6 start: "begin scheduling; does not return").
// Only the first call has any effect; subsequent calls return immediately.
//
// Unlike the reference RTOS, Start returns an error instead of halting
// silently if the tick fails to start (ErrTickStart) — the caller
// decides how a construction-time failure (spec.md §7) should surface.
// On success, Start blocks until the kernel's tick goroutine is asked to
// stop (see the unexported stopTick, used by tests); production callers
// never observe it returning.
func (k *Kernel) Start() error {
	var startErr error
	first := false
	k.startOnce.Do(func() {
		first = true
		k.kernelLock.Lock()
		k.osState = OSRunning
		// spec.md §4.F "Kernel start": current is set to the idle task
		// before the Activate supervisor call is raised on it, so the
		// "caller is the idle task" guard in sortRebuildAndMaybeDispatch
		// correctly suppresses this call's own re-dispatch — calling
		// through idle while the system is still warming up must not
		// context-switch. The actual first dispatch ("calls the idle
		// task's entry directly") happens explicitly afterward, and picks
		// whichever task is genuinely highest-priority-ready: idle itself
		// if nothing else has been activated yet, or an already-activated
		// real task otherwise.
		k.current = k.idle
		if err := k.activateLocked(k.idle); err != nil {
			k.kernelLock.Unlock()
			startErr = err
			return
		}
		k.dispatchAndSwitch()
		k.kernelLock.Unlock()

		if err := k.startTick(); err != nil {
			startErr = err
			return
		}
		k.logger.Log(LevelInfo, "kernel", "started", nil)
	})
	if !first {
		return nil
	}
	if startErr != nil {
		return startErr
	}
	<-k.tickDone
	return nil
}

// SetLogger installs l as the kernel's structured logger. Safe to call
// before Start; not safe to call concurrently with kernel operation
// after Start.
func (k *Kernel) SetLogger(l Logger) {
	if l == nil {
		l = NewNoOpLogger()
	}
	k.logger = l
}

// TaskSnapshot is a read-only diagnostic copy of one task table slot.
type TaskSnapshot struct {
	Name     string
	Priority uint8
	State    TaskState
	Top      int
	Bottom   int
	SavedSP  int
}

// Snapshot returns a read-only diagnostic copy of the current task table
// and ready set, for the property tests in spec.md §8. It takes the
// kernel lock for the duration of the copy; it is never called from the
// supervisor-call path.
func (k *Kernel) Snapshot() (tasks []TaskSnapshot, readyNames []string, current string) {
	k.kernelLock.Lock()
	defer k.kernelLock.Unlock()

	tasks = make([]TaskSnapshot, 0, k.table.count())
	for i := 0; i < k.table.count(); i++ {
		t := k.table.at(i)
		tasks = append(tasks, TaskSnapshot{
			Name:     t.Name(),
			Priority: t.priority,
			State:    t.State(),
			Top:      t.top,
			Bottom:   t.bottom,
			SavedSP:  t.savedSP,
		})
	}

	readyNames = make([]string, 0, k.ready.len())
	for i := 0; i < k.ready.len(); i++ {
		readyNames = append(readyNames, k.ready.s[(k.ready.r+uint(i))%uint(len(k.ready.s))].Name())
	}

	if k.current != nil {
		current = k.current.Name()
	}
	return tasks, readyNames, current
}
