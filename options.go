// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package actor

import "time"

// driverOptions holds configuration for [Spawn].
type driverOptions struct {
	logger          *Logger
	metrics         *DriverMetrics
	mailboxCapacity int
	ctxOpsCapacity  int
}

// DriverOption configures a [Driver] at [Spawn] time.
type DriverOption interface {
	applyDriver(*driverOptions)
}

type driverOptionFunc func(*driverOptions)

func (f driverOptionFunc) applyDriver(o *driverOptions) { f(o) }

// WithLogger installs a structured [Logger]. Without it, logging is a
// no-op.
func WithLogger(l *Logger) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.logger = l })
}

// WithDriverMetrics installs a [DriverMetrics] hook set.
func WithDriverMetrics(m *DriverMetrics) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.metrics = m })
}

// WithMailboxCapacity sets the mailbox channel's buffer size. The default
// is 16.
func WithMailboxCapacity(n int) DriverOption {
	return driverOptionFunc(func(o *driverOptions) {
		if n > 0 {
			o.mailboxCapacity = n
		}
	})
}

func resolveDriverOptions(opts []DriverOption) *driverOptions {
	cfg := &driverOptions{
		mailboxCapacity: 16,
		ctxOpsCapacity:  256,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyDriver(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = nopLogger()
	}
	return cfg
}

// requestOptions holds configuration for a [MessageRequest].
type requestOptions struct {
	sendTimeout        time.Duration
	responseTimeout    time.Duration
	responseTimeoutSet bool
}

// RequestOption configures a [MessageRequest] at construction time; both
// timeouts remain re-configurable via [MessageRequest.Timeout] and
// [MessageRequest.TimeoutResponse] until the request is first polled.
type RequestOption interface {
	applyRequest(*requestOptions)
}

type requestOptionFunc func(*requestOptions)

func (f requestOptionFunc) applyRequest(o *requestOptions) { f(o) }

// DefaultSendTimeout is the send-phase timeout applied when none is
// configured.
const DefaultSendTimeout = 10 * time.Second

// WithSendTimeout overrides the default 10s send-phase timeout.
func WithSendTimeout(d time.Duration) RequestOption {
	return requestOptionFunc(func(o *requestOptions) { o.sendTimeout = d })
}

// WithResponseTimeout arms a response-phase timeout.
func WithResponseTimeout(d time.Duration) RequestOption {
	return requestOptionFunc(func(o *requestOptions) {
		o.responseTimeout = d
		o.responseTimeoutSet = true
	})
}

func resolveRequestOptions(opts []RequestOption) *requestOptions {
	cfg := &requestOptions{sendTimeout: DefaultSendTimeout}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyRequest(cfg)
	}
	return cfg
}
