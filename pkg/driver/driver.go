// Package driver defines the execution boundary of the compiler: a Driver
// interface each backend implements, a connection Config, and a registry
// keyed by backend name. Concrete drivers live in pkg/drivers/ and register
// themselves on import; the compiler core never links a database client.
package driver

import (
	"context"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
)

// Config carries the connection settings of one target. Path serves the
// embedded backends (SQLite, DuckDB) and Host/Port the networked ones;
// Options holds backend-specific keys passed through to the client
// library.
type Config struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// Driver executes compiled statements against one backend. Implementations
// pair a statement writer with a database client: Prepare renders through
// the writer, Exec and Query hand the result to the client.
type Driver interface {
	// Connect establishes the connection described by cfg. The driver is
	// unusable until Connect succeeds.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection. Closing an unconnected driver is a
	// no-op.
	Close() error

	// Prepare compiles the statement for this backend and returns a query
	// carrying its prepared form, ready for Bind.
	Prepare(s query.Statement) (*query.Query, error)

	// Exec runs a statement that returns no rows and reports whatever
	// side-effect counters the backend exposes.
	Exec(ctx context.Context, q *query.Query) (query.RowsAffected, error)

	// Query runs a statement and returns its rows in result order.
	Query(ctx context.Context, q *query.Query) ([]query.RowLabeled, error)

	// Writer returns the statement writer of this backend.
	Writer() writer.Writer
}
