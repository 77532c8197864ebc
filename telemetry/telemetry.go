// Package telemetry provides a logger and counter context threaded by
// reference into the components that log (the graph builder and the
// command wiring), in place of process-global state.
//
// The original C++ implementation throttles repetitive warnings with
// process-wide sample-count atomics (see util/log/Log.h in the retrieved
// source). That pattern does not translate to a library meant to be
// embedded and run concurrently by callers who may want independent
// counters per run, so here a *Logger carries both the sink and the
// counters, and is passed explicitly to every constructor that needs it.
package telemetry

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Level is a severity scale from Error (most severe) to Debug (least).
type Level int8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger wraps a zerolog.Logger and a small set of named atomic counters
// used for sample-throttled warnings ("dropped N malformed ways so far").
type Logger struct {
	z        zerolog.Logger
	counters map[string]*atomic.Uint64
}

// New builds a Logger writing human-readable console output to w (or
// os.Stderr if w is nil). level sets the minimum emitted severity.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	z := zerolog.New(cw).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &Logger{z: z, counters: make(map[string]*atomic.Uint64)}
}

// Nop returns a Logger that discards all output; useful as a default for
// callers that do not care about diagnostics.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop(), counters: make(map[string]*atomic.Uint64)}
}

func toZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.z.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.z.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.z.Warn().Msgf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.z.Error().Msgf(format, args...) }

// Count increments the named counter and returns its new value. Callers use
// this to throttle a log line to, say, every 1000th occurrence of some
// locally-recoverable condition without resorting to a package-level atomic.
func (l *Logger) Count(name string) uint64 {
	c, ok := l.counters[name]
	if !ok {
		c = &atomic.Uint64{}
		l.counters[name] = c
	}
	return c.Add(1)
}

// CountValue returns the current value of the named counter without
// incrementing it.
func (l *Logger) CountValue(name string) uint64 {
	c, ok := l.counters[name]
	if !ok {
		return 0
	}
	return c.Load()
}

// WarnEvery logs msg via Warnf only when Count(name) is an exact multiple of
// every (every <= 0 disables throttling and always logs).
func (l *Logger) WarnEvery(name string, every uint64, format string, args ...interface{}) {
	n := l.Count(name)
	if every <= 0 || n%every == 0 {
		l.z.Warn().Msgf(format, args...)
	}
}
