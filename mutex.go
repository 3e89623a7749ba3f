package kernel

// mutexState mirrors the reference RTOS's binary-semaphore state names.
type mutexState uint32

const (
	// MutexReleased means no task holds the mutex.
	MutexReleased mutexState = iota
	// MutexBlocked means a task holds the mutex.
	MutexBlocked
)

// Mutex is a single-holder lock over an opaque payload, with at most one
// pending waiter (spec.md §3 "Mutex"). The kernel never inspects
// Payload; it is carried purely for the caller's use.
type Mutex struct {
	Payload     any
	PayloadSize int
	name        string

	holder  *TCB
	pending *TCB
	state   mutexState
}

// MutexInit zeroes holder/pending and sets state Released (spec.md §6
// mutex_init).
func MutexInit(m *Mutex, payload any, size int, name string) {
	m.Payload = payload
	m.PayloadSize = size
	m.name = name
	m.holder = nil
	m.pending = nil
	m.state = MutexReleased
}

// Name returns the mutex's identity name.
func (m *Mutex) Name() string { return m.name }

// Holder returns the task currently holding the mutex, or nil.
func (m *Mutex) Holder() *TCB { return m.holder }

// Pending returns the task waiting to acquire the mutex, or nil.
func (m *Mutex) Pending() *TCB { return m.pending }

// State returns the mutex's current state.
func (m *Mutex) State() mutexState { return m.state }
