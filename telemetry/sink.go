// Package telemetry mirrors JIT-compilation and guard-failure events to an
// external store, entirely off the interpreter's hot path. Nothing in
// package vm, trace, or module imports telemetry — among the engine packages
// the interpreter package is the only caller, and it defaults to Noop when no
// sink is configured; the cmd/tracevm CLI also opens sinks and tails them.
package telemetry

import (
	"fmt"
	"net/url"
	"strings"
)

// Event describes one trace-compilation or guard-failure occurrence.
type Event struct {
	RunID    string
	Function string
	PC       int
	Kind     EventKind
}

// EventKind distinguishes the two occurrences tracevm records.
type EventKind string

const (
	EventTraceCompiled EventKind = "trace_compiled"
	EventGuardFailure  EventKind = "guard_failure"
)

// Sink receives telemetry events. Implementations must tolerate being
// called from the interpreter's single goroutine synchronously — none of
// tracevm's call sites expect RecordTraceCompiled/RecordGuardFailure to be
// non-blocking, but none of them are called often enough (once per loop
// header, once per guard failure) for that to matter.
type Sink interface {
	RecordTraceCompiled(ev Event) error
	RecordGuardFailure(ev Event) error
	Close() error
}

// Open dispatches on a DSN's URL scheme to the matching backend: sqlite,
// mysql, or postgres. An empty dsn returns a Noop sink, so callers never
// have to special-case "telemetry not configured."
func Open(dsn string) (Sink, error) {
	if strings.TrimSpace(dsn) == "" {
		return Noop{}, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("telemetry: parse dsn: %w", err)
	}
	switch u.Scheme {
	case "sqlite":
		return openSQLite(u)
	case "mysql":
		return openMySQL(u)
	case "postgres", "postgresql":
		return openPostgres(u)
	default:
		return nil, fmt.Errorf("telemetry: unsupported dsn scheme %q", u.Scheme)
	}
}

// Tail opens dsn and returns its n most recently recorded events, newest
// first. It is a read path used by the CLI's "telemetry tail" subcommand,
// kept separate from Sink since nothing on the interpreter's hot path ever
// needs to read events back.
func Tail(dsn string, n int) ([]Event, error) {
	sink, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	sqlBacked, ok := sink.(*sqlSink)
	if !ok {
		return nil, fmt.Errorf("telemetry: %T has no tail support", sink)
	}
	return sqlBacked.tail(n)
}

// Noop discards every event. It is the default sink: telemetry is purely an
// ambient, opt-in layer above the interpreter core, which persists nothing
// on its own.
type Noop struct{}

func (Noop) RecordTraceCompiled(Event) error { return nil }
func (Noop) RecordGuardFailure(Event) error  { return nil }
func (Noop) Close() error                    { return nil }
