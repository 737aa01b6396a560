package actor

import "sync/atomic"

// DriverMetrics is an optional hook-based metrics surface: plain atomic
// counters, off by default (nil hooks, zero overhead). Install one via
// [WithDriverMetrics].
//
// All counters are safe for concurrent reads; increments happen only from
// the driver goroutine, ConcurrentTasksDone included, whether a completion
// is observed during a tick or during an idle wait.
type DriverMetrics struct {
	ConcurrentTasksSpawned  atomic.Int64
	ConcurrentTasksDone     atomic.Int64
	ExclusiveTasksRun       atomic.Int64
	TimersFired             atomic.Int64
	TimersCancelled         atomic.Int64
	StreamItemsDispatched   atomic.Int64
	MailboxMessagesAdmitted atomic.Int64
}

func (m *DriverMetrics) concurrentSpawned() {
	if m != nil {
		m.ConcurrentTasksSpawned.Add(1)
	}
}

func (m *DriverMetrics) concurrentDone() {
	if m != nil {
		m.ConcurrentTasksDone.Add(1)
	}
}

func (m *DriverMetrics) exclusiveRun() {
	if m != nil {
		m.ExclusiveTasksRun.Add(1)
	}
}

func (m *DriverMetrics) timerFired() {
	if m != nil {
		m.TimersFired.Add(1)
	}
}

func (m *DriverMetrics) timerCancelled() {
	if m != nil {
		m.TimersCancelled.Add(1)
	}
}

func (m *DriverMetrics) streamItem() {
	if m != nil {
		m.StreamItemsDispatched.Add(1)
	}
}

func (m *DriverMetrics) mailboxAdmitted() {
	if m != nil {
		m.MailboxMessagesAdmitted.Add(1)
	}
}
