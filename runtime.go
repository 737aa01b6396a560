package actor

import "time"

// Runtime shim. The rest of the package relies on exactly two primitives
// external to the scheduling core: spawning a task and a repeating timer.
// Go's goroutines and time.Ticker satisfy both without an abstraction
// layer; this file exists so driver.go and context.go have one place to
// reach for them. There is deliberately no pluggable executor interface --
// Go has one goroutine scheduler.

// spawn runs fn on a new goroutine.
func spawn(fn func()) {
	go fn()
}

// ticker is the minimal interface needed from a repeating timer, wrapping
// time.Ticker so Context.RunInterval/RunWaitInterval don't reach for
// time.NewTicker directly in more than one place.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func newTicker(d time.Duration) ticker {
	return stdTicker{t: time.NewTicker(d)}
}
