package telemetry

import (
	"net/url"

	_ "modernc.org/sqlite"
)

const sqliteInsert = `INSERT INTO tracevm_events (seq, run_id, function, pc, kind) VALUES (?, ?, ?, ?, ?)`
const sqliteTail = tailQuery

// openSQLite backs a Sink with a local SQLite file, addressed as
// sqlite:path/to/file.db or sqlite::memory:. Pure-Go driver, no cgo.
func openSQLite(u *url.URL) (Sink, error) {
	path := u.Opaque
	if path == "" {
		path = u.Path
	}
	if path == "" {
		path = ":memory:"
	}
	return newSQLSink("sqlite", path, sqliteInsert, sqliteTail)
}
