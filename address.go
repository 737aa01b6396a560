package actor

import (
	"context"
	"sync/atomic"
)

// addrShared is the mailbox sender state shared by every clone of an
// [Addr] and every [WeakAddr] derived from it.
//
// Go has no deterministic destructor, so there is no
// last-strong-handle-dropped trigger; an explicit [Addr.Stop] closes the
// mailbox instead. `accepting` is the single source of truth for both "is
// the mailbox still open" (checked by senders) and "can a WeakAddr still
// upgrade". `stopped` closes once the driver goroutine has fully ended,
// letting a racing sender discover its envelope will never be read.
type addrShared[A any] struct {
	mailbox   chan *mailEnvelope[A]
	stopped   chan struct{}
	accepting atomic.Bool
}

// Addr is a clonable strong handle to an actor's mailbox. The zero value
// is not usable; obtain one from [Spawn] or [WeakAddr.Upgrade].
type Addr[A any] struct {
	s *addrShared[A]
}

// Downgrade returns a [WeakAddr] sharing this Addr's mailbox.
func (a Addr[A]) Downgrade() WeakAddr[A] {
	return WeakAddr[A]{s: a.s}
}

// Stop asks the actor to stop: graceful=true drains everything already
// enqueued before running OnStop; graceful=false stops admitting new
// handlers immediately, letting only already-admitted work finish before
// OnStop runs. The returned request resolves once the driver has fully
// stopped. If a later Stop supersedes this one, this request observes
// [ErrClosed] instead.
func (a Addr[A]) Stop(graceful bool) *MessageRequest[struct{}] {
	target := StateStop
	if graceful {
		target = StateStopGraceful
	}
	confirm := newOneshot[struct{}]()
	env := buildStateEnvelope[A](target, confirm)
	send := func(ctx context.Context) error {
		return enqueue(ctx, a.s, env)
	}
	return newMessageRequest[struct{}](send, confirm)
}

func enqueue[A any](ctx context.Context, s *addrShared[A], env *mailEnvelope[A]) error {
	if !s.accepting.Load() {
		return ErrClosed
	}
	select {
	case s.mailbox <- env:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// The driver may have ended between the accepting check and the send,
	// leaving the envelope unread. Failing the reply slot here is
	// idempotent against a dispatch that did happen, so the requester
	// either gets the genuine result or observes closed -- never a hang.
	select {
	case <-s.stopped:
		if env.discard != nil {
			env.discard()
		}
	default:
	}
	return nil
}

// WeakAddr is the downgraded form of [Addr]: it does not keep the mailbox
// open, but can be upgraded back into a strong [Addr] while the mailbox is
// still accepting sends.
type WeakAddr[A any] struct {
	s *addrShared[A]
}

// Upgrade returns a strong [Addr], or false if the mailbox has stopped
// accepting sends.
func (w WeakAddr[A]) Upgrade() (Addr[A], bool) {
	if w.s == nil || !w.s.accepting.Load() {
		return Addr[A]{}, false
	}
	return Addr[A]{s: w.s}, true
}

// Send enqueues a concurrent message and returns a request for its result.
// The enqueue itself happens when the request is polled via
// [MessageRequest.Get].
func Send[A any, R any](ctx context.Context, addr Addr[A], h Handler[A, R], opts ...RequestOption) *MessageRequest[R] {
	reply := newOneshot[R]()
	env := buildConcurrentEnvelope[A, R](h, reply)
	send := func(ctx context.Context) error { return enqueue(ctx, addr.s, env) }
	return newMessageRequestWithOptions[R](send, reply, opts)
}

// Wait enqueues an exclusive message and returns a request for its result.
func Wait[A any, R any](ctx context.Context, addr Addr[A], h WaitHandler[A, R], opts ...RequestOption) *MessageRequest[R] {
	reply := newOneshot[R]()
	env := buildExclusiveEnvelope[A, R](h, reply)
	send := func(ctx context.Context) error { return enqueue(ctx, addr.s, env) }
	return newMessageRequestWithOptions[R](send, reply, opts)
}

// DoSend enqueues a concurrent message fire-and-forget style: the enqueue
// runs on a background goroutine so the caller never blocks, and any
// failure to enqueue, [ErrClosed] included, is silently dropped.
func DoSend[A any, R any](addr Addr[A], h Handler[A, R]) {
	env := buildConcurrentEnvelope[A, R](h, nil)
	spawn(func() { _ = enqueue(context.Background(), addr.s, env) })
}

// DoWait is the exclusive analogue of [DoSend].
func DoWait[A any, R any](addr Addr[A], h WaitHandler[A, R]) {
	env := buildExclusiveEnvelope[A, R](h, nil)
	spawn(func() { _ = enqueue(context.Background(), addr.s, env) })
}
