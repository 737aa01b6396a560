package actor

import (
	"container/heap"
	"reflect"
	"time"
)

// Driver is the per-actor scheduler: one goroutine (run) owns the actor
// value exclusively and multiplexes its mailbox, delayed timers, attached
// streams and in-flight concurrent tasks. Exclusive work runs directly on
// the driver goroutine, which is what gives WaitHandler its mutual
// exclusion; concurrent work runs on short-lived goroutines that report
// completion back through a bounded queue (see wakeQueue).
type Driver[A any] struct {
	act A

	// hooks is act again, held as its lifecycle interface; every other
	// generic type in the package constrains A by `any` so the [Actor]
	// bound is only demanded once, at [Spawn].
	hooks Actor[A]

	shared *addrShared[A]
	state  atomicState

	ctxOps chan func(*Driver[A])

	tasks       *slab
	completions *wakeQueue

	exclusiveQueue []*mailEnvelope[A]

	timers   timerHeap[A]
	timerSeq uint64

	streams []*streamEntry[A]

	stopConfirm *oneshot[struct{}]

	logger  *Logger
	metrics *DriverMetrics
}

// Spawn starts act's driver goroutine and returns a strong [Addr] to it.
func Spawn[A Actor[A]](act A, opts ...DriverOption) Addr[A] {
	cfg := resolveDriverOptions(opts)

	hint := act.SizeHint()
	completionCap := hint
	if completionCap < 1 {
		completionCap = 1
	}

	d := &Driver[A]{
		act:   act,
		hooks: act,
		shared: &addrShared[A]{
			mailbox: make(chan *mailEnvelope[A], cfg.mailboxCapacity),
			stopped: make(chan struct{}),
		},
		ctxOps:      make(chan func(*Driver[A]), cfg.ctxOpsCapacity),
		tasks:       newSlab(hint),
		completions: newWakeQueue(completionCap),
		logger:      cfg.logger,
		metrics:     cfg.metrics,
	}
	d.shared.accepting.Store(true)
	d.state.Store(StateRunning)

	spawn(d.run)

	return Addr[A]{s: d.shared}
}

// run is the driver goroutine's entire lifetime: OnStart, the running
// loop, then drain-and-stop.
func (d *Driver[A]) run() {
	ctx := &Context[A]{driver: d}

	d.logger.Debug().Log("actor starting")
	d.hooks.OnStart(ctx)
	d.loop(ctx)

	for _, s := range d.streams {
		s.stop()
	}
	for d.timers.Len() > 0 {
		e := heap.Pop(&d.timers).(*timerEntry[A])
		close(e.done)
	}

	d.hooks.OnStop(ctx)
	d.shared.accepting.Store(false)
	close(d.shared.stopped)

	// Envelopes that landed after the stop decision will never be
	// dispatched; fail their reply slots so requesters observe closed
	// instead of blocking forever.
	discarded := 0
residual:
	for {
		select {
		case env := <-d.shared.mailbox:
			if env.discard != nil {
				env.discard()
			}
			discarded++
		default:
			break residual
		}
	}

	if d.stopConfirm != nil {
		d.stopConfirm.send(struct{}{})
	}
	d.logger.Debug().Int("discarded", discarded).Log("actor stopped")
}

// loop runs the Running phase. One pass below is one tick: reclaim
// completed concurrent tasks, run ready exclusive work, fire due timers,
// poll streams, apply pending Context requests, admit mailbox messages.
// It repeats immediately as long as any step did work, and otherwise
// blocks in idleWait until something becomes ready. It returns once the
// actor has been asked to stop and nothing remains in flight.
func (d *Driver[A]) loop(ctx *Context[A]) {
	for {
		didWork := false

		// Reclaim completed concurrent tasks' slab slots. Bounded by the
		// number currently in flight (at minimum 1) so a burst of
		// completions can't starve the rest of the tick; hitting the bound
		// forces another tick immediately instead of idling, so the
		// remainder is picked up without the mailbox or timers being
		// starved either.
		drainCap := d.tasks.Len()
		if drainCap < 1 {
			drainCap = 1
		}
		hitCap := d.completions.drain(drainCap, func(idx int) {
			d.tasks.remove(idx)
			d.metrics.concurrentDone()
			didWork = true
		})

		// Run ready exclusive work, one envelope at a time, only once no
		// concurrent task remains in flight.
		for len(d.exclusiveQueue) > 0 && d.tasks.Len() == 0 {
			env := d.exclusiveQueue[0]
			d.exclusiveQueue = d.exclusiveQueue[1:]
			d.metrics.exclusiveRun()
			env.run(ctx, d.act)
			didWork = true
		}

		// An exclusive envelope still waiting on in-flight concurrent
		// tasks blocks all further admission: no timers fire, no stream
		// items or mailbox messages are accepted, until it has run.
		waiting := len(d.exclusiveQueue) > 0

		state := d.state.Load()

		// Fire due timers, earliest deadline first, dropping any that were
		// cancelled. Skipped entirely once the actor is stopping; a forced
		// stop has already drained the heap.
		if state == StateRunning && !waiting {
			for d.timers.Len() > 0 {
				top := d.timers[0]
				select {
				case <-top.cancel:
					heap.Pop(&d.timers)
					close(top.done)
					d.metrics.timerCancelled()
					didWork = true
					continue
				default:
				}
				if top.deadline.After(d.now()) {
					break
				}
				heap.Pop(&d.timers)
				d.admit(top.build())
				close(top.done)
				d.metrics.timerFired()
				didWork = true
				if len(d.exclusiveQueue) > 0 {
					waiting = true
					break
				}
			}
		}

		// Poll each attached stream for up to 16 ready items per tick so a
		// single busy stream cannot starve the others, dropping any stream
		// whose source has closed. An exclusive item ends the sweep; it is
		// picked up at the top of the next tick.
		if state == StateRunning && !waiting && len(d.streams) > 0 {
			live := d.streams[:0]
			for si := 0; si < len(d.streams); si++ {
				e := d.streams[si]
				if waiting {
					live = append(live, e)
					continue
				}
				alive := true
			drainStream:
				for drained := 0; drained < 16; drained++ {
					select {
					case build, ok := <-e.next:
						if !ok {
							alive = false
							break drainStream
						}
						d.admit(build())
						d.metrics.streamItem()
						didWork = true
						if len(d.exclusiveQueue) > 0 {
							waiting = true
							break drainStream
						}
					default:
						break drainStream
					}
				}
				if alive {
					live = append(live, e)
				}
			}
			d.streams = live
		}

		// Apply whatever Context scheduling requests have queued up, e.g.
		// from concurrent handlers running on their own goroutines.
	ctxOps:
		for {
			select {
			case fn := <-d.ctxOps:
				fn(d)
				didWork = true
			default:
				break ctxOps
			}
		}

		// Admit whatever is already waiting on the mailbox. A forced stop
		// ends the drain at the stop envelope: anything behind it is never
		// dispatched. An admitted exclusive also ends the drain, since no
		// further messages may be accepted until it has run.
		if state != StateStop && !waiting {
		mailbox:
			for {
				select {
				case env := <-d.shared.mailbox:
					d.metrics.mailboxAdmitted()
					d.admit(env)
					didWork = true
					if len(d.exclusiveQueue) > 0 || d.state.Load() == StateStop {
						break mailbox
					}
				default:
					break mailbox
				}
			}
		}

		switch d.state.Load() {
		case StateStop:
			if d.tasks.Len() == 0 && len(d.exclusiveQueue) == 0 {
				return
			}
		case StateStopGraceful:
			if len(d.shared.mailbox) == 0 && d.tasks.Len() == 0 && len(d.exclusiveQueue) == 0 {
				return
			}
		}

		if didWork || hitCap {
			continue
		}

		d.idleWait()
	}
}

// admit installs a dispatched envelope: spawns a goroutine for concurrent
// work, queues exclusive work for the next mutual-exclusion window, or
// begins a state transition.
func (d *Driver[A]) admit(env *mailEnvelope[A]) {
	switch env.kind {
	case envConcurrent:
		idx := d.tasks.insert()
		d.metrics.concurrentSpawned()
		spawn(func() {
			ctx := &Context[A]{driver: d}
			env.run(ctx, d.act)
			d.completions.enqueue(idx)
		})
	case envExclusive:
		d.exclusiveQueue = append(d.exclusiveQueue, env)
	case envState:
		if env.target == StateStop {
			d.beginStopForce(env.confirm)
		} else {
			d.beginStopGraceful(env.confirm)
		}
	}
}

// beginStopGraceful stops admitting new sends and, if still Running, moves
// to StopGraceful: whatever is already enqueued still drains before OnStop
// runs.
func (d *Driver[A]) beginStopGraceful(confirm *oneshot[struct{}]) {
	d.shared.accepting.Store(false)
	if d.state.Load() == StateRunning {
		d.logger.Debug().Log("graceful stop requested")
		d.state.Store(StateStopGraceful)
	}
	d.saveConfirm(confirm)
}

// beginStopForce stops admitting new sends and moves straight to Stop,
// cancelling every pending timer and stream immediately: only
// already-admitted concurrent and exclusive work still finishes.
func (d *Driver[A]) beginStopForce(confirm *oneshot[struct{}]) {
	d.shared.accepting.Store(false)
	if d.state.Load() != StateStop {
		d.logger.Debug().Log("forced stop requested")
	}
	d.state.Store(StateStop)
	for _, s := range d.streams {
		s.stop()
	}
	for d.timers.Len() > 0 {
		e := heap.Pop(&d.timers).(*timerEntry[A])
		close(e.done)
	}
	d.saveConfirm(confirm)
}

// saveConfirm retains the most recently supplied stop confirmation slot;
// exactly one is notified when the actor finishes stopping. A superseded
// slot is failed immediately so its requester observes closed rather than
// blocking.
func (d *Driver[A]) saveConfirm(confirm *oneshot[struct{}]) {
	if confirm == nil {
		return
	}
	if d.stopConfirm != nil {
		d.stopConfirm.closeErr(ErrClosed)
	}
	d.stopConfirm = confirm
}

func (d *Driver[A]) now() time.Time { return time.Now() }

func (d *Driver[A]) nextTimerSeq() uint64 {
	d.timerSeq++
	return d.timerSeq
}

func (d *Driver[A]) pushTimer(e *timerEntry[A]) {
	heap.Push(&d.timers, e)
}

// selSource tags which logical channel a reflect.Select case in idleWait
// corresponds to, since the stream set is sized dynamically per actor.
type selSource int

const (
	selCompletion selSource = iota
	selCtxOp
	selMailbox
	selStream
	selTimer
)

// idleWait blocks until there is a reason to run another tick: a
// concurrent task completed, a Context scheduling request arrived, a
// mailbox message arrived, a stream produced an item (or closed), or the
// earliest timer's deadline passed. It performs at most one receive, then
// returns to let loop's ordinary bounded draining handle the rest --
// idleWait only decides when to wake up, it never drains.
//
// The case set mirrors loop's admission rules: while an exclusive
// envelope is queued, only task completions and Context requests can make
// progress, so only those are waited on.
func (d *Driver[A]) idleWait() {
	var cases []reflect.SelectCase
	var tags []selSource
	var streamIdx []int

	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(d.completions.ch)})
	tags = append(tags, selCompletion)
	streamIdx = append(streamIdx, -1)

	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(d.ctxOps)})
	tags = append(tags, selCtxOp)
	streamIdx = append(streamIdx, -1)

	state := d.state.Load()
	waiting := len(d.exclusiveQueue) > 0

	if state != StateStop && !waiting {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(d.shared.mailbox)})
		tags = append(tags, selMailbox)
		streamIdx = append(streamIdx, -1)
	}

	if state == StateRunning && !waiting {
		for i, s := range d.streams {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(s.next)})
			tags = append(tags, selStream)
			streamIdx = append(streamIdx, i)
		}
		if d.timers.Len() > 0 {
			wait := d.timers[0].deadline.Sub(d.now())
			if wait < 0 {
				wait = 0
			}
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(time.After(wait))})
			tags = append(tags, selTimer)
			streamIdx = append(streamIdx, -1)
		}
	}

	chosen, recv, recvOK := reflect.Select(cases)

	switch tags[chosen] {
	case selCompletion:
		if recvOK {
			idx := int(recv.Int())
			d.tasks.remove(idx)
			d.metrics.concurrentDone()
		}
	case selCtxOp:
		if recvOK {
			fn := recv.Interface().(func(*Driver[A]))
			fn(d)
		}
	case selMailbox:
		if recvOK {
			env := recv.Interface().(*mailEnvelope[A])
			d.metrics.mailboxAdmitted()
			d.admit(env)
		}
	case selStream:
		if recvOK {
			build := recv.Interface().(func() *mailEnvelope[A])
			d.admit(build())
			d.metrics.streamItem()
		} else {
			i := streamIdx[chosen]
			d.streams = append(d.streams[:i], d.streams[i+1:]...)
		}
	case selTimer:
		// No payload to act on; the next tick's timer step re-checks
		// deadlines and fires whatever is now due.
	}
}
