package actor

import (
	"io"
	"log/slog"

	"github.com/joeycumines/logiface"
	logifaceslog "github.com/joeycumines/logiface-slog"
)

// Logger is the structured logging facade used by the driver: the
// type-erased form of a [logiface.Logger], as produced by
// (*logiface.Logger[E]).Logger(). Any logiface backend works; pass one via
// [WithLogger].
type Logger = logiface.Logger[logiface.Event]

// NewSlogLogger builds a [Logger] backed by the standard library's
// log/slog, via the logiface-slog adapter, so callers can terminate actor
// logging on whatever slog handler they already have configured.
func NewSlogLogger(handler slog.Handler, opts ...logifaceslog.Option) *Logger {
	return logiface.New[*logifaceslog.Event](logifaceslog.NewLogger(handler, opts...)).Logger()
}

// nopLogger returns a Logger that discards everything, used when a
// [Driver] is constructed without [WithLogger].
func nopLogger() *Logger {
	return NewSlogLogger(slog.NewJSONHandler(io.Discard, nil))
}
