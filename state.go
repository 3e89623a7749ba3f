package kernel

import "sync/atomic"

// TaskState represents the lifecycle state of a task control block.
//
// State Machine:
//
//	Suspended -> Waiting   [Activate, or a tick countdown reaching zero]
//	Waiting   -> Ready     [ready-set rebuild]
//	Ready     -> Running   [dispatcher decide]
//	Running   -> Ready     [round-robin rotation, same priority as head]
//	*         -> Suspended [Terminate, Wait, blocking Acquire]
//
// NOTE: values are ordered to match the source RTOS's Task_State_t enum
// (Suspend_State=0, Waiting_State=1, Ready_State=2, Running_State=3), not
// for any Go-side reason.
type TaskState uint32

const (
	// Suspended means the task is not eligible to run and does not appear
	// in the ready set.
	Suspended TaskState = iota
	// Waiting means the task is eligible to run but has not yet been
	// placed in the ready set by a rebuild.
	Waiting
	// Ready means the task is in the ready set, waiting for the
	// dispatcher to select it.
	Ready
	// Running means the task currently holds the CPU (the run token).
	Running
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	switch s {
	case Suspended:
		return "Suspended"
	case Waiting:
		return "Waiting"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	default:
		return "Unknown"
	}
}

// OSState represents the run state of the kernel singleton.
type OSState uint32

const (
	// OSSuspended is the state before Start: the singleton is
	// initialized, but no task has been dispatched.
	OSSuspended OSState = iota
	// OSRunning is the state from Start onward.
	OSRunning
)

// String returns a human-readable representation of the OS state.
func (s OSState) String() string {
	switch s {
	case OSSuspended:
		return "Suspended"
	case OSRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// atomicTaskState is a lock-free holder for a TaskState, so that
// [TCB.State] can read a task's state without holding the kernel lock
// that serializes writes.
type atomicTaskState struct {
	v atomic.Uint32
}

func (s *atomicTaskState) Load() TaskState {
	return TaskState(s.v.Load())
}

func (s *atomicTaskState) Store(state TaskState) {
	s.v.Store(uint32(state))
}
