package telemetry

import (
	"database/sql"
	"fmt"
	"sync/atomic"
)

// sqlSink implements Sink over any database/sql driver that understands a
// simple events table. The three concrete backends (sink_sqlite.go,
// sink_mysql.go, sink_postgres.go) differ only in driver name, connection
// DSN, and placeholder syntax. seq is a process-local monotonic counter
// rather than a driver-specific autoincrement column, so the same create/
// insert shape works unchanged across sqlite, mysql, and postgres.
type sqlSink struct {
	db          *sql.DB
	insertQuery string
	tailQuery   string
	seq         int64
}

func newSQLSink(driverName, dataSourceName, insertQuery, tailSQL string) (*sqlSink, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: ping %s: %w", driverName, err)
	}
	if _, err := db.Exec(createEventsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: create events table: %w", err)
	}
	var maxSeq sql.NullInt64
	if err := db.QueryRow("SELECT MAX(seq) FROM tracevm_events").Scan(&maxSeq); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: read max seq: %w", err)
	}
	return &sqlSink{db: db, insertQuery: insertQuery, tailQuery: tailSQL, seq: maxSeq.Int64}, nil
}

const createEventsTableSQL = `
CREATE TABLE IF NOT EXISTS tracevm_events (
	seq      INTEGER NOT NULL,
	run_id   TEXT NOT NULL,
	function TEXT NOT NULL,
	pc       INTEGER NOT NULL,
	kind     TEXT NOT NULL
)`

const tailQuery = `
SELECT run_id, function, pc, kind FROM tracevm_events
ORDER BY seq DESC LIMIT ?`

func (s *sqlSink) record(ev Event) error {
	seq := atomic.AddInt64(&s.seq, 1)
	_, err := s.db.Exec(s.insertQuery, seq, ev.RunID, ev.Function, ev.PC, string(ev.Kind))
	return err
}

func (s *sqlSink) RecordTraceCompiled(ev Event) error {
	ev.Kind = EventTraceCompiled
	return s.record(ev)
}

func (s *sqlSink) RecordGuardFailure(ev Event) error {
	ev.Kind = EventGuardFailure
	return s.record(ev)
}

func (s *sqlSink) Close() error {
	return s.db.Close()
}

// tail returns the n most recently recorded events, newest first.
func (s *sqlSink) tail(n int) ([]Event, error) {
	rows, err := s.db.Query(s.tailQuery, n)
	if err != nil {
		return nil, fmt.Errorf("telemetry: tail: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var kind string
		if err := rows.Scan(&ev.RunID, &ev.Function, &ev.PC, &kind); err != nil {
			return nil, fmt.Errorf("telemetry: scan event: %w", err)
		}
		ev.Kind = EventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}
