package actor

import (
	"context"
	"sync"
)

// oneshotResult carries either a value or an error through a oneshot
// channel.
type oneshotResult[T any] struct {
	val T
	err error
}

// oneshot is a single-fire reply slot: at most one value is ever
// delivered, and a receiver observes [ErrClosed] if the sending side was
// discarded without firing. A single buffered channel guarded by
// sync.Once gives exactly-once settlement without a state machine.
type oneshot[T any] struct {
	ch   chan oneshotResult[T]
	once sync.Once
}

func newOneshot[T any]() *oneshot[T] {
	return &oneshot[T]{ch: make(chan oneshotResult[T], 1)}
}

// send fulfils the reply slot with a value. Only the first call has any
// effect.
func (o *oneshot[T]) send(v T) {
	o.once.Do(func() {
		o.ch <- oneshotResult[T]{val: v}
		close(o.ch)
	})
}

// closeErr fulfils the reply slot with an error, e.g. [ErrClosed] when the
// actor stops before a handler produced a result. Only the first call has
// any effect.
func (o *oneshot[T]) closeErr(err error) {
	o.once.Do(func() {
		o.ch <- oneshotResult[T]{err: err}
		close(o.ch)
	})
}

// recv blocks until the slot is fulfilled or ctx is done.
func (o *oneshot[T]) recv(ctx context.Context) (T, error) {
	select {
	case r := <-o.ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
