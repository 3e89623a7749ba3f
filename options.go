package kernel

import "time"

// DefaultTaskTableCapacity is the task table capacity used when
// WithTaskCapacity is not supplied. It includes the slot reserved for the
// idle task.
const DefaultTaskTableCapacity = 100

// DefaultTickInterval is the period of the system tick used when
// WithTickInterval is not supplied.
const DefaultTickInterval = time.Millisecond

// DefaultArenaSize is the size, in bytes, of the task-stack arena region
// used when WithArenaSize is not supplied.
const DefaultArenaSize = 64 * 1024

// kernelOptions collects the resolved configuration for a Kernel.
type kernelOptions struct {
	taskCapacity int
	tickInterval time.Duration
	arenaSize    int
	logger       Logger
	idleEntry    func()
}

// KernelOption configures a Kernel at construction time.
type KernelOption interface {
	apply(*kernelOptions)
}

type kernelOptionFunc func(*kernelOptions)

func (f kernelOptionFunc) apply(o *kernelOptions) { f(o) }

// WithTaskCapacity sets the maximum number of tasks the kernel's task
// table may hold, including the idle task. Overflow is reported by
// CreateTask (taskTable.insert refuses the task), not here; this only
// sizes the table.
func WithTaskCapacity(n int) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		if n > 0 {
			o.taskCapacity = n
		}
	})
}

// WithTickInterval sets the period of the periodic system tick that
// drives timed waits.
func WithTickInterval(d time.Duration) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		if d > 0 {
			o.tickInterval = d
		}
	})
}

// WithArenaSize sets the size, in bytes, of the region task stacks are
// carved from. MainStackSize is not reserved from this region or anywhere
// else (see doc.go's Hardware substrate note).
func WithArenaSize(n int) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		if n > 0 {
			o.arenaSize = n
		}
	})
}

// WithStructuredLogger installs a Logger the kernel uses for every
// scheduling-relevant event. The default is NewNoOpLogger.
func WithStructuredLogger(l Logger) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithIdleEntry overrides the body of the idle task, which otherwise
// parks forever once started. Use this to run diagnostics, enter a
// low-power wait, or return control for tests.
func WithIdleEntry(fn func()) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) {
		if fn != nil {
			o.idleEntry = fn
		}
	})
}

// resolveKernelOptions applies defaults, then opts in order, and returns
// the resolved configuration.
func resolveKernelOptions(opts ...KernelOption) *kernelOptions {
	o := &kernelOptions{
		taskCapacity: DefaultTaskTableCapacity,
		tickInterval: DefaultTickInterval,
		arenaSize:    DefaultArenaSize,
		logger:       NewNoOpLogger(),
		idleEntry:    func() { select {} },
	}
	for _, opt := range opts {
		opt.apply(o)
	}
	return o
}
