// Package actor implements an in-process actor runtime: a per-actor
// driver goroutine multiplexes a mailbox, delayed one-shot timers,
// attached streams and in-flight concurrent handlers, dispatching
// exclusive messages with full mutual exclusion.
//
// # Architecture
//
// An [Actor] is a user state bundle owned by exactly one [Driver]. Callers
// obtain an [Addr], through which they enqueue [Handler] (concurrent) or
// [WaitHandler] (exclusive) work via [Send], [Wait], [DoSend] and [DoWait].
// The driver goroutine admits concurrent work onto its own goroutines
// (which report completion back over a bounded queue), and runs exclusive
// work synchronously on the driver goroutine itself once any prior
// concurrent work has drained, giving exclusive handlers true mutual
// exclusion with every other handler of the same actor.
//
// # Platform Support
//
// Pure Go; no platform-specific files.
//
// # Thread Safety
//
// [Addr] and [WeakAddr] are safe for concurrent use from any goroutine.
// [Context] methods are safe to call from within a [Handler] or
// [WaitHandler] invocation, including from a concurrent handler's own
// goroutine: scheduling requests are funneled onto the driver goroutine
// through a buffered channel. Actor state itself is only ever mutated
// directly by the goroutine currently running the exclusive handler (or
// OnStart/OnStop); concurrent handlers must treat the actor as read-only
// -- a documented convention, not something the Go type system enforces.
//
// # Execution Model
//
//	addr := actor.Spawn[*Counter](&Counter{})
//	defer addr.Stop(true).Get(context.Background())
//
//	res, err := actor.Send[*Counter](context.Background(), addr, IncMsg{}).Get(context.Background())
//
// Lifecycle: Starting (OnStart) -> Running (mailbox + timers + streams +
// concurrent/exclusive dispatch) -> Stopping (drain + OnStop).
//
// # Error Types
//
// [ErrClosed], [SendTimeoutError] and [ReceiveTimeoutError] (aliased as
// [TimeoutError]) surface through [MessageRequest.Get].
package actor
