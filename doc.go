// Package kernel implements the core of a small preemptive, priority-based
// real-time task kernel for a single-core 32-bit microcontroller: the task
// control block, the context-switch machinery, the priority-ordered ready
// set, the supervisor-call dispatch boundary between user code and kernel
// code, time-based blocking, and a single-holder mutex with one pending
// waiter.
//
// # Architecture
//
// A [Kernel] singleton owns six cooperating components, in dependency
// order: an [arena] that carves per-task stacks out of one linear region, a
// [taskTable] kept sorted by ascending priority number, a [readySet]
// rebuilt from the table on every scheduling event, a dispatcher that picks
// what runs next, a context-switch mechanism that manufactures initial
// task frames and hands control between tasks, and a supervisor-call
// dispatcher that demultiplexes Activate/Terminate/WaitTimeout/
// AcquireMutex/ReleaseMutex and the periodic tick.
//
// # Hardware substrate
//
// The reference RTOS this package generalizes runs on a Cortex-M core with
// two stack pointers and a nested vectored interrupt controller; its
// context-switch and supervisor-call traps are naked, assembly-level
// handlers. Go has no equivalent of a naked ISR, so those two traps are
// realized here as a goroutine-per-task substrate: each task runs on its
// own goroutine, and a context switch sends the selected task a resume
// token on that task's own channel. The substrate is cooperative: a task
// gives up the CPU only where it parks for its next token ([Kernel.Yield],
// [Kernel.Wait], or a blocking [Kernel.Acquire]), so a task that never
// parks keeps running on its goroutine after the scheduler has switched
// away from it. A kernel-wide lock stands in for "the context-switch trap
// runs at the lowest priority, so no other kernel work is outstanding" —
// table-sort, ready-set rebuild and dispatch decisions are atomic with
// respect to switches either way. There is no main-stack/process-stack
// split either: [MainStackSize] is a documented constant only, and task
// stacks are carved from the whole arena. See DESIGN.md for the full
// mapping.
//
// # Thread Safety
//
// [Kernel.Activate], [Kernel.Terminate], [Kernel.Wait], [Kernel.Acquire]
// and [Kernel.Release] are the only entry points that mutate scheduling
// state, and they serialize through the kernel's internal lock exactly as
// the supervisor-call trap would. Task entry functions run on their own
// goroutine and must not touch another task's control block directly.
//
// # Usage
//
//	k := kernel.New()
//	var t1 kernel.TCB
//	k.TaskInit(&t1, 512, myEntry, 1, "worker")
//	if err := k.CreateTask(&t1); err != nil {
//	    log.Fatal(err)
//	}
//	if err := k.Activate(&t1); err != nil {
//	    log.Fatal(err)
//	}
//	k.Start() // does not return
package kernel
