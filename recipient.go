package actor

import "context"

// Recipient is an [Addr] narrowed to one message type M: callers holding a
// Recipient can send that message and nothing else, without naming
// Handler/WaitHandler themselves.
type Recipient[A any, M Handler[A, R], R any] struct {
	addr Addr[A]
}

// NewRecipient narrows addr to message type M.
func NewRecipient[A any, M Handler[A, R], R any](addr Addr[A]) Recipient[A, M, R] {
	return Recipient[A, M, R]{addr: addr}
}

func (r Recipient[A, M, R]) Send(ctx context.Context, msg M, opts ...RequestOption) *MessageRequest[R] {
	return Send[A, R](ctx, r.addr, msg, opts...)
}

func (r Recipient[A, M, R]) Wait(ctx context.Context, msg M, opts ...RequestOption) *MessageRequest[R] {
	if wh, ok := any(msg).(WaitHandler[A, R]); ok {
		return Wait[A, R](ctx, r.addr, wh, opts...)
	}
	return Wait[A, R](ctx, r.addr, handlerAsWaitHandler[A, M, R]{msg}, opts...)
}

func (r Recipient[A, M, R]) DoSend(msg M) {
	DoSend[A, R](r.addr, msg)
}

func (r Recipient[A, M, R]) DoWait(msg M) {
	if wh, ok := any(msg).(WaitHandler[A, R]); ok {
		DoWait[A, R](r.addr, wh)
		return
	}
	DoWait[A, R](r.addr, handlerAsWaitHandler[A, M, R]{msg})
}

// Downgrade returns a [RecipientWeak] sharing this Recipient's mailbox.
func (r Recipient[A, M, R]) Downgrade() RecipientWeak[A, M, R] {
	return RecipientWeak[A, M, R]{weak: r.addr.Downgrade()}
}

// handlerAsWaitHandler dispatches a message that only implements Handler
// under mutual exclusion anyway: exclusivity is a property of the
// dispatch, not of the message type.
type handlerAsWaitHandler[A any, M Handler[A, R], R any] struct{ msg M }

func (h handlerAsWaitHandler[A, M, R]) HandleWait(ctx *Context[A], act A) R {
	return h.msg.Handle(ctx, act)
}

// RecipientWeak is the downgraded form of [Recipient]. Send/Wait upgrade
// on each call and report [ErrClosed] if the strong side has vanished;
// DoSend/DoWait have no request through which to surface that failure, so
// they panic on a dead upgrade instead of silently dropping the message.
type RecipientWeak[A any, M Handler[A, R], R any] struct {
	weak WeakAddr[A]
}

func (r RecipientWeak[A, M, R]) Send(ctx context.Context, msg M, opts ...RequestOption) *MessageRequest[R] {
	addr, ok := r.weak.Upgrade()
	if !ok {
		reply := newOneshot[R]()
		reply.closeErr(ErrClosed)
		return newMessageRequest[R](func(context.Context) error { return nil }, reply)
	}
	return Send[A, R](ctx, addr, msg, opts...)
}

func (r RecipientWeak[A, M, R]) Wait(ctx context.Context, msg M, opts ...RequestOption) *MessageRequest[R] {
	addr, ok := r.weak.Upgrade()
	if !ok {
		reply := newOneshot[R]()
		reply.closeErr(ErrClosed)
		return newMessageRequest[R](func(context.Context) error { return nil }, reply)
	}
	return Recipient[A, M, R]{addr: addr}.Wait(ctx, msg, opts...)
}

func (r RecipientWeak[A, M, R]) DoSend(msg M) {
	addr, ok := r.weak.Upgrade()
	if !ok {
		panic("actor: DoSend on a RecipientWeak whose Addr is gone")
	}
	DoSend[A, R](addr, msg)
}

func (r RecipientWeak[A, M, R]) DoWait(msg M) {
	addr, ok := r.weak.Upgrade()
	if !ok {
		panic("actor: DoWait on a RecipientWeak whose Addr is gone")
	}
	Recipient[A, M, R]{addr: addr}.DoWait(msg)
}
