package actor

import "sync"

// streamEntry is one attached stream, intervals included -- an interval
// is just a stream whose adapter owns a ticker (see Context.RunInterval).
//
// Each attached source gets its own adapter goroutine (started by
// AddStream/AddWaitStream/RunInterval/RunWaitInterval) that reads from the
// source and forwards ready-to-dispatch envelope factories onto `next`,
// unbuffered, so a slow actor exerts backpressure on the source rather
// than accumulating a backlog. The driver polls `next` non-blockingly,
// bounded to 16 items per stream per tick, so a single busy stream cannot
// starve the others, the mailbox, or timers. The adapter closes `next` on
// exit, which is how the driver learns to drop the entry.
type streamEntry[A any] struct {
	next   <-chan func() *mailEnvelope[A]
	cancel chan struct{}
	done   chan struct{}

	cancelOnce sync.Once
}

func (e *streamEntry[A]) stop() {
	e.cancelOnce.Do(func() { close(e.cancel) })
}
