package actor

import (
	"sync"
	"time"
)

// ContextJoinHandle cancels a scheduled timer, interval or attached
// stream. Cancellation is cooperative: the producing side observes it at
// its next iteration and stops producing further envelopes, never
// mid-dispatch.
type ContextJoinHandle struct {
	once   sync.Once
	cancel chan struct{}
	done   chan struct{}
}

func newJoinHandle() (*ContextJoinHandle, chan struct{}, chan struct{}) {
	h := &ContextJoinHandle{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	return h, h.cancel, h.done
}

// Cancel signals cancellation. Safe to call more than once or
// concurrently; only the first call has an effect.
func (h *ContextJoinHandle) Cancel() {
	h.once.Do(func() { close(h.cancel) })
}

// IsTerminated reports whether the scheduled work has stopped -- a
// one-shot fired, a stream's source closed, its cancellation was
// observed, or the actor stopped.
func (h *ContextJoinHandle) IsTerminated() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Context is the per-invocation facade handed to every [Handler],
// [WaitHandler] and lifecycle hook: it schedules timers, intervals and
// streams against the actor, and exposes the actor's own address and stop
// control.
//
// All scheduling methods are safe to call from a concurrent handler's own
// goroutine: they funnel the request onto the driver goroutine through a
// buffered channel rather than mutating driver-owned state directly.
type Context[A any] struct {
	driver *Driver[A]
}

// apply runs fn on the driver goroutine, blocking the caller until it has
// been enqueued (or the driver has shut down, in which case fn never
// runs). The driver goroutine is the only writer of its own caches, and
// ctxOps is the single channel through which any other goroutine may
// request a mutation.
func (c *Context[A]) apply(fn func(d *Driver[A])) {
	select {
	case c.driver.ctxOps <- fn:
	case <-c.driver.shared.stopped:
	}
}

// Stop closes the mailbox to new sends and transitions the actor to
// [StateStopGraceful]: everything already enqueued still drains before
// OnStop runs.
func (c *Context[A]) Stop() {
	c.apply(func(d *Driver[A]) { d.beginStopGraceful(nil) })
}

// Address upgrades the actor's own mailbox into a strong [Addr], or
// reports false if the mailbox has already stopped accepting sends.
func (c *Context[A]) Address() (Addr[A], bool) {
	if !c.driver.shared.accepting.Load() {
		return Addr[A]{}, false
	}
	return Addr[A]{s: c.driver.shared}, true
}

// RunLater schedules f to run once, as a concurrent handler, after dur.
func (c *Context[A]) RunLater(dur time.Duration, f func(ctx *Context[A], act A)) *ContextJoinHandle {
	return c.later(dur, buildConcurrentEnvelope[A, struct{}](funcHandler[A](f), nil))
}

// RunWaitLater schedules f to run once, exclusively, after dur.
func (c *Context[A]) RunWaitLater(dur time.Duration, f func(ctx *Context[A], act A)) *ContextJoinHandle {
	return c.later(dur, buildExclusiveEnvelope[A, struct{}](funcWaitHandler[A](f), nil))
}

func (c *Context[A]) later(dur time.Duration, env *mailEnvelope[A]) *ContextJoinHandle {
	handle, cancelCh, doneCh := newJoinHandle()
	entry := &timerEntry[A]{
		cancel: cancelCh,
		done:   doneCh,
		build:  func() *mailEnvelope[A] { return env },
	}
	c.apply(func(d *Driver[A]) {
		entry.deadline = d.now().Add(dur)
		entry.seq = d.nextTimerSeq()
		d.pushTimer(entry)
	})
	return handle
}

// RunInterval schedules f to run repeatedly, as a concurrent handler,
// every dur, until the returned handle is cancelled.
func (c *Context[A]) RunInterval(dur time.Duration, f func(ctx *Context[A], act A)) *ContextJoinHandle {
	return c.interval(dur, func() *mailEnvelope[A] {
		return buildConcurrentEnvelope[A, struct{}](funcHandler[A](f), nil)
	})
}

// RunWaitInterval schedules f to run repeatedly, exclusively, every dur,
// until the returned handle is cancelled.
func (c *Context[A]) RunWaitInterval(dur time.Duration, f func(ctx *Context[A], act A)) *ContextJoinHandle {
	return c.interval(dur, func() *mailEnvelope[A] {
		return buildExclusiveEnvelope[A, struct{}](funcWaitHandler[A](f), nil)
	})
}

// interval is modeled as a stream whose items are produced by a ticker:
// the adapter goroutine owns the ticker and hands envelope factories to
// the driver one at a time, so a slow actor never accumulates a backlog
// of ticks.
func (c *Context[A]) interval(dur time.Duration, build func() *mailEnvelope[A]) *ContextJoinHandle {
	handle, cancelCh, doneCh := newJoinHandle()
	next := make(chan func() *mailEnvelope[A])
	go func() {
		defer close(doneCh)
		defer close(next)
		ticker := newTicker(dur)
		defer ticker.Stop()
		for {
			select {
			case <-cancelCh:
				return
			case <-ticker.C():
				select {
				case next <- build:
				case <-cancelCh:
					return
				}
			}
		}
	}()
	entry := &streamEntry[A]{next: next, cancel: cancelCh, done: doneCh}
	c.apply(func(d *Driver[A]) { d.streams = append(d.streams, entry) })
	return handle
}

// AddStream attaches a channel of concurrent messages: each item received
// from src is dispatched as if sent via [Send], with its result discarded.
// The stream ends when src closes or the returned handle is cancelled.
func AddStream[A any, R any, T Handler[A, R]](ctx *Context[A], src <-chan T) *ContextJoinHandle {
	return attachStream[A, R](ctx, src, false)
}

// AddWaitStream attaches a channel of exclusive messages. Items are
// dispatched one at a time in channel order, each under full mutual
// exclusion.
func AddWaitStream[A any, R any, T Handler[A, R]](ctx *Context[A], src <-chan T) *ContextJoinHandle {
	return attachStream[A, R](ctx, src, true)
}

func attachStream[A any, R any, T Handler[A, R]](ctx *Context[A], src <-chan T, exclusive bool) *ContextJoinHandle {
	handle, cancelCh, doneCh := newJoinHandle()
	next := make(chan func() *mailEnvelope[A])
	go func() {
		defer close(doneCh)
		defer close(next)
		for {
			select {
			case <-cancelCh:
				return
			case item, ok := <-src:
				if !ok {
					return
				}
				captured := item
				var env func() *mailEnvelope[A]
				if exclusive {
					env = func() *mailEnvelope[A] { return buildExclusiveEnvelope[A, R](captured, nil) }
				} else {
					env = func() *mailEnvelope[A] { return buildConcurrentEnvelope[A, R](captured, nil) }
				}
				select {
				case next <- env:
				case <-cancelCh:
					return
				}
			}
		}
	}()
	entry := &streamEntry[A]{next: next, cancel: cancelCh, done: doneCh}
	ctx.apply(func(d *Driver[A]) { d.streams = append(d.streams, entry) })
	return handle
}

// funcHandler adapts a plain closure to [Handler], for RunLater/RunInterval.
type funcHandler[A any] func(ctx *Context[A], act A)

func (fn funcHandler[A]) Handle(ctx *Context[A], act A) struct{} {
	fn(ctx, act)
	return struct{}{}
}

// funcWaitHandler adapts a plain closure to [WaitHandler], for
// RunWaitLater/RunWaitInterval.
type funcWaitHandler[A any] func(ctx *Context[A], act A)

func (fn funcWaitHandler[A]) HandleWait(ctx *Context[A], act A) struct{} {
	fn(ctx, act)
	return struct{}{}
}
