package actor

// Handler processes a concurrent message: by convention it must treat act
// as read-only -- multiple Handler invocations for the same actor may be
// in flight on separate goroutines at once. Go has no borrow checker, so
// this is documented convention rather than a compile-time guarantee.
type Handler[A any, R any] interface {
	Handle(ctx *Context[A], act A) R
}

// WaitHandler processes an exclusive message against the actor with full
// mutual exclusion: no other Handler or WaitHandler invocation for the
// same actor runs concurrently with it. [Wait] and [DoWait] accept only a
// WaitHandler; a message type that implements only Handler is still
// dispatchable exclusively via [Recipient.Wait]/[Recipient.DoWait] or
// [AddWaitStream], where the dispatch falls back to Handle, still under
// mutual exclusion.
type WaitHandler[A any, R any] interface {
	HandleWait(ctx *Context[A], act A) R
}

// envelopeKind tags a mailEnvelope's dispatch mode.
type envelopeKind int

const (
	envConcurrent envelopeKind = iota
	envExclusive
	envState
)

// mailEnvelope erases the concrete message type behind closures built at
// construction time (by [buildConcurrentEnvelope]/[buildExclusiveEnvelope]),
// carrying everything the driver needs to dispatch without knowing the
// result type.
type mailEnvelope[A any] struct {
	kind envelopeKind

	// run invokes the handler and fulfils its reply slot (if any). Only
	// set for envConcurrent/envExclusive.
	run func(ctx *Context[A], act A)

	// discard fails the reply slot (or stop confirmation) with ErrClosed.
	// Invoked instead of run for envelopes that will never be dispatched,
	// so the requester observes closed rather than blocking. May be nil.
	discard func()

	// target/confirm are only set for envState.
	target  ActorState
	confirm *oneshot[struct{}]
}

func buildConcurrentEnvelope[A any, R any](h Handler[A, R], reply *oneshot[R]) *mailEnvelope[A] {
	env := &mailEnvelope[A]{
		kind: envConcurrent,
		run: func(ctx *Context[A], act A) {
			r := h.Handle(ctx, act)
			if reply != nil {
				reply.send(r)
			}
		},
	}
	if reply != nil {
		env.discard = func() { reply.closeErr(ErrClosed) }
	}
	return env
}

// buildExclusiveEnvelope accepts any value and falls back to Handle when h
// does not implement WaitHandler.
func buildExclusiveEnvelope[A any, R any](h any, reply *oneshot[R]) *mailEnvelope[A] {
	env := &mailEnvelope[A]{
		kind: envExclusive,
		run: func(ctx *Context[A], act A) {
			var r R
			switch typed := h.(type) {
			case WaitHandler[A, R]:
				r = typed.HandleWait(ctx, act)
			case Handler[A, R]:
				r = typed.Handle(ctx, act)
			default:
				panic("actor: message implements neither WaitHandler nor Handler for this result type")
			}
			if reply != nil {
				reply.send(r)
			}
		},
	}
	if reply != nil {
		env.discard = func() { reply.closeErr(ErrClosed) }
	}
	return env
}

func buildStateEnvelope[A any](target ActorState, confirm *oneshot[struct{}]) *mailEnvelope[A] {
	env := &mailEnvelope[A]{kind: envState, target: target, confirm: confirm}
	if confirm != nil {
		env.discard = func() { confirm.closeErr(ErrClosed) }
	}
	return env
}
