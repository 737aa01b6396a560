package actor

import (
	"context"
	"sync"
	"time"
)

// MessageRequest is a two-phase pending result: a sending phase (enqueue
// onto the mailbox, guarded by a send-phase timeout) followed by an
// awaiting phase (wait for the reply slot, guarded by an optional
// response-phase timeout). The two timeouts are separate because a stalled
// mailbox is a different failure mode from a slow handler. Both phases run
// inside [MessageRequest.Get]; nothing is enqueued until Get is called.
type MessageRequest[R any] struct {
	mu     sync.Mutex
	polled bool

	send  func(ctx context.Context) error
	reply *oneshot[R]

	sendTimeout        time.Duration
	responseTimeout    time.Duration
	responseTimeoutSet bool
}

func newMessageRequest[R any](send func(ctx context.Context) error, reply *oneshot[R]) *MessageRequest[R] {
	return &MessageRequest[R]{send: send, reply: reply, sendTimeout: DefaultSendTimeout}
}

func newMessageRequestWithOptions[R any](send func(ctx context.Context) error, reply *oneshot[R], opts []RequestOption) *MessageRequest[R] {
	cfg := resolveRequestOptions(opts)
	return &MessageRequest[R]{
		send:               send,
		reply:              reply,
		sendTimeout:        cfg.sendTimeout,
		responseTimeout:    cfg.responseTimeout,
		responseTimeoutSet: cfg.responseTimeoutSet,
	}
}

// Timeout overrides the send-phase timeout. Configuring it after the
// request has been polled (via [MessageRequest.Get]) is programmer error
// and panics rather than silently ignoring the call.
func (r *MessageRequest[R]) Timeout(d time.Duration) *MessageRequest[R] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.polled {
		panic("actor: Timeout configured on a MessageRequest after it was first polled")
	}
	r.sendTimeout = d
	return r
}

// TimeoutResponse arms the response-phase timeout. Same misuse rule as
// [MessageRequest.Timeout].
func (r *MessageRequest[R]) TimeoutResponse(d time.Duration) *MessageRequest[R] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.polled {
		panic("actor: TimeoutResponse configured on a MessageRequest after it was first polled")
	}
	r.responseTimeout = d
	r.responseTimeoutSet = true
	return r
}

// Get blocks until the request resolves: the enqueue completes and the
// reply arrives, or the request errors with [SendTimeoutError],
// [ReceiveTimeoutError] (== [TimeoutError]), [ErrClosed], or ctx's own
// error.
func (r *MessageRequest[R]) Get(ctx context.Context) (R, error) {
	r.mu.Lock()
	r.polled = true
	sendTimeout := r.sendTimeout
	responseTimeout := r.responseTimeout
	responseTimeoutSet := r.responseTimeoutSet
	r.mu.Unlock()

	var zero R

	sendCtx := ctx
	var cancelSend context.CancelFunc
	if sendTimeout > 0 {
		sendCtx, cancelSend = context.WithTimeout(ctx, sendTimeout)
	}
	err := r.send(sendCtx)
	if cancelSend != nil {
		cancelSend()
	}
	if err != nil {
		if ctx.Err() == nil && sendCtx.Err() != nil {
			return zero, &SendTimeoutError{}
		}
		return zero, err
	}

	recvCtx := ctx
	if responseTimeoutSet && responseTimeout > 0 {
		var cancelRecv context.CancelFunc
		recvCtx, cancelRecv = context.WithTimeout(ctx, responseTimeout)
		defer cancelRecv()
	}
	v, rerr := r.reply.recv(recvCtx)
	if rerr != nil {
		if ctx.Err() == nil && recvCtx.Err() != nil {
			return zero, &ReceiveTimeoutError{}
		}
		return zero, rerr
	}
	return v, nil
}
