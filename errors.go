package kernel

import "fmt"

// ErrorCode enumerates the kernel's error taxonomy (spec.md §6/§7). It is
// an exit-code style classification, not a Go error wrapper hierarchy:
// construction-time errors are returned to the caller, invariant-violation
// errors indicate a kernel bug, and user-misuse errors are returned for
// the caller to retry or abort.
type ErrorCode int

const (
	// NoError indicates success. Kernel functions that return an error
	// never return a non-nil *KernelError with this code; it exists only
	// so ErrorCode's zero value is meaningful.
	NoError ErrorCode = iota
	// ReadyQueueInitError indicates the ready set failed to initialize.
	ReadyQueueInitError
	// TaskExceededStack indicates a requested task stack would cross the
	// arena's heap boundary.
	TaskExceededStack
	// BubbleSortError indicates the task table sort produced an
	// inversion the ready-set rebuild was not expecting: a kernel
	// invariant violation, unreachable in correct code.
	BubbleSortError
	// TickStartError indicates the periodic system tick failed to start.
	TickStartError
	// ManyUsersOnMutex indicates a second task attempted to acquire a
	// mutex that already has a pending waiter.
	ManyUsersOnMutex
)

// String returns the error code's name.
func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NoError"
	case ReadyQueueInitError:
		return "ReadyQueueInitError"
	case TaskExceededStack:
		return "TaskExceededStack"
	case BubbleSortError:
		return "BubbleSortError"
	case TickStartError:
		return "TickStartError"
	case ManyUsersOnMutex:
		return "ManyUsersOnMutex"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// KernelError is the concrete error type for every kernel-detected error
// condition. It implements Is so that callers can use errors.Is against
// the sentinel values below regardless of the Message carried.
type KernelError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("kernel: %s: %s", e.Code, e.Message)
}

// Is reports whether target is a *KernelError with the same Code,
// regardless of Message. This lets errors.Is(err, ErrTaskExceededStack)
// match any KernelError carrying that code.
func (e *KernelError) Is(target error) bool {
	t, ok := target.(*KernelError)
	return ok && t.Code == e.Code
}

func newKernelError(code ErrorCode, message string) *KernelError {
	return &KernelError{Code: code, Message: message}
}

// Sentinel errors, one per ErrorCode other than NoError, for use with
// errors.Is.
var (
	ErrReadyQueueInit      = newKernelError(ReadyQueueInitError, "ready set failed to initialize")
	ErrTaskExceededStack   = newKernelError(TaskExceededStack, "task stack exceeds arena capacity")
	ErrBubbleSortInvariant = newKernelError(BubbleSortError, "task table sort invariant violated")
	ErrTickStart           = newKernelError(TickStartError, "system tick failed to start")
	ErrManyUsersOnMutex    = newKernelError(ManyUsersOnMutex, "mutex already has a pending waiter")
)
