package actor

import "sync/atomic"

// ActorState is the actor's lifecycle state, observed by the driver and,
// through [Context], by handler code.
type ActorState uint32

const (
	// StateRunning is the only state in which timers and streams are polled
	// and new mailbox messages are admitted.
	StateRunning ActorState = iota
	// StateStopGraceful means the mailbox has stopped accepting sends and
	// the driver is draining whatever was already enqueued before it stops.
	StateStopGraceful
	// StateStop is a forced stop: no further enqueued-but-undispatched
	// message is handled.
	StateStop
)

// String returns a human-readable representation of the state.
func (s ActorState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopGraceful:
		return "StopGraceful"
	case StateStop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// atomicState is a lock-free wrapper around ActorState. The driver
// goroutine is the sole writer; handler goroutines only read.
type atomicState struct {
	v atomic.Uint32
}

func (s *atomicState) Load() ActorState {
	return ActorState(s.v.Load())
}

func (s *atomicState) Store(state ActorState) {
	s.v.Store(uint32(state))
}
