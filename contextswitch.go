package kernel

// Frame offsets, in words, measured down from a task's stack top. These
// mirror MyRTOS_Create_Task_Stack's layout (spec.md §4.E) exactly: eight
// words the hardware exception-return sequence would pop automatically,
// then eight callee-saved registers maintained by the switch code itself.
const (
	frameWordXPSR = 1 // top - 1*wordSize
	frameWordPC   = 2
	frameWordLR   = 3
	frameWordR12  = 4
	frameWordR3   = 5
	frameWordR2   = 6
	frameWordR1   = 7
	frameWordR0   = 8
	frameWordR11  = 9
	frameWordR10  = 10
	frameWordR9   = 11
	frameWordR8   = 12
	frameWordR7   = 13
	frameWordR6   = 14
	frameWordR5   = 15
	frameWordR4   = 16

	frameWordCount = 16
)

// initialXPSR has the Thumb bit set; required on this architecture to
// avoid a usage fault on the task's first "return from exception".
const initialXPSR = 0x01000000

// initialLR is the EXC_RETURN code: thread mode, process stack, no
// floating-point context.
const initialLR = 0xFFFFFFFD

// entryTrampoline is stored at the manufactured PC slot; on real hardware
// this is the task's actual entry address. Here it exists only so the
// frame is fully populated per the spec table — the goroutine substrate
// (runTaskGoroutine) is what actually invokes tcb.entry.
const entryTrampoline = 0

// manufactureFrame writes the synthetic initial exception frame for a
// newly created task into its private stack region, and returns the
// saved stack pointer for the frame's base (spec.md §4.E "Initial frame
// synthesis"). top is the task's top address (an arena byte offset one
// past the stack's highest byte, as returned by arena.allocate); a is the
// arena backing the whole task-stack region.
func manufactureFrame(a *arena, top int) (savedSP int) {
	// top is the address one past the last pushed word; successive
	// words are written at decreasing addresses, matching the
	// reference implementation's top-down fill.
	a.putWord(top-frameWordXPSR*wordSize, initialXPSR)
	a.putWord(top-frameWordPC*wordSize, entryTrampoline)
	a.putWord(top-frameWordLR*wordSize, initialLR)
	a.putWord(top-frameWordR12*wordSize, 0)
	a.putWord(top-frameWordR3*wordSize, 0)
	a.putWord(top-frameWordR2*wordSize, 0)
	a.putWord(top-frameWordR1*wordSize, 0)
	a.putWord(top-frameWordR0*wordSize, 0)
	a.putWord(top-frameWordR11*wordSize, 0)
	a.putWord(top-frameWordR10*wordSize, 0)
	a.putWord(top-frameWordR9*wordSize, 0)
	a.putWord(top-frameWordR8*wordSize, 0)
	a.putWord(top-frameWordR7*wordSize, 0)
	a.putWord(top-frameWordR6*wordSize, 0)
	a.putWord(top-frameWordR5*wordSize, 0)
	a.putWord(top-frameWordR4*wordSize, 0)
	return top - frameWordCount*wordSize
}

// saveCalleeRegisters performs step 2 of the per-switch protocol
// (spec.md §4.E): push R4..R11 onto the outgoing task's stack,
// decrementing its saved stack pointer. The values pushed are not real
// CPU register contents (Go has no access to them at this level); the
// bookkeeping exists so the arena and savedSP remain a faithful model of
// the stack layout for the bounds invariants in spec.md §8.
func saveCalleeRegisters(a *arena, tcb *TCB) {
	sp := tcb.savedSP
	for i := 0; i < 8; i++ {
		sp -= wordSize
		a.putWord(sp, 0)
	}
	tcb.savedSP = sp
}

// restoreCalleeRegisters performs step 4: pop R11..R4 from the incoming
// task's saved stack pointer.
func restoreCalleeRegisters(a *arena, tcb *TCB) {
	sp := tcb.savedSP
	for i := 0; i < 8; i++ {
		_ = a.getWord(sp)
		sp += wordSize
	}
	tcb.savedSP = sp
}

// runTaskGoroutine is the body of every task's dedicated goroutine. It
// parks on resumeCh until the dispatcher first selects the task, runs
// the task's entry function to completion, then auto-terminates the
// task if the entry function ever returns on its own (without an
// explicit Terminate call).
func (k *Kernel) runTaskGoroutine(tcb *TCB) {
	<-tcb.resumeCh
	tcb.entry()
	k.Terminate(tcb)
	close(tcb.done)
}

// ensureStarted lazily launches a task's goroutine the first time it is
// selected to run. Must be called with kernelLock held.
func (k *Kernel) ensureStarted(tcb *TCB) {
	if tcb.started {
		return
	}
	tcb.started = true
	tcb.resumeCh = make(chan struct{}, 1)
	tcb.done = make(chan struct{})
	go k.runTaskGoroutine(tcb)
}

// switchTo performs the context switch from the previously-current task
// (from, which may be nil) to the newly-selected one (to, never nil).
// It must be called with kernelLock held: it updates k.current,
// manufactures the save/restore bookkeeping, starts to's goroutine if
// this is its first selection, and hands it the run-token baton. The
// baton is attempted even when from == to (the task was re-selected
// without an intervening switch away) — see [Kernel.Yield] for the
// cooperative yield point that relies on a token arriving at every
// selection that follows a drained one, to model one tick's worth of
// CPU time per turn. The send is non-blocking: to's resume channel has
// room for exactly one outstanding token, and a task re-selected several
// times before it next drains one (the default idle body never calls
// Yield at all) must not make this, a kernelLock-held call, block
// forever waiting on a goroutine that will never read it. One pending
// token is as good as several. See doc.go's Hardware substrate note for
// why this cooperative discipline stands in for true trap-driven
// preemption.
func (k *Kernel) switchTo(from, to *TCB) {
	if from != nil && from != to {
		saveCalleeRegisters(k.arena, from)
	}
	k.ensureStarted(to)
	if from != to {
		restoreCalleeRegisters(k.arena, to)
	}
	k.current = to
	k.logger.Log(LevelDebug, "switch", "context switch", Fields{
		"to": to.Name(),
	})
	select {
	case to.resumeCh <- struct{}{}:
	default:
	}
}

// Yield is the cooperative point a task's entry function calls once it
// has done one unit of work, to give tick-driven round-robin rotation
// (spec.md §4.D) somewhere to take the CPU away from it. It blocks until
// the scheduler selects tcb to run again — at the next tick if it is
// alone at the highest active priority, or at whatever future tick or
// supervisor call next dispatches it otherwise. A task that never calls
// Yield runs to completion without ever giving up the goroutine, which
// models a task that never reaches a trap boundary.
func (k *Kernel) Yield(tcb *TCB) {
	<-tcb.resumeCh
}
