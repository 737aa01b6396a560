package actor

// Actor is the user-defined state bundle processed by a [Driver]. A is
// the concrete receiver type, typically a pointer type, satisfying its
// own constraint. Any type with these three methods is an actor; there is
// no registration step.
type Actor[A any] interface {
	// OnStart runs once, synchronously on the driver goroutine, before any
	// mailbox message is admitted.
	OnStart(ctx *Context[A])

	// OnStop runs once, synchronously on the driver goroutine, once no
	// concurrent or exclusive task remains in flight: after the mailbox is
	// drained for a graceful stop, or, for a forced stop, with anything
	// enqueued behind the stop request left undispatched (its reply slots
	// are failed with [ErrClosed] after OnStop returns).
	OnStop(ctx *Context[A])

	// SizeHint pre-sizes the concurrent task slab and the completion
	// queue. Returning 0 is always safe; the slab grows past the hint if
	// needed.
	SizeHint() int
}
