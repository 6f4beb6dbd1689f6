// Package sqlite provides the SQLite driver, pairing the SQLite statement
// writer with a cgo-free database/sql connection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // sqlite driver

	dialect "github.com/TankHQ/tank/pkg/dialects/sqlite"
	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
)

// Driver executes statements against SQLite.
type Driver struct {
	driver.SQLBase
	writer *dialect.Writer
}

var _ driver.Driver = (*Driver)(nil)

// New creates a SQLite driver. A nil logger selects a discard logger.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		SQLBase: driver.SQLBase{Logger: logger},
		writer:  dialect.New(logger),
	}
}

// Connect opens the database file at cfg.Path. An empty path selects an
// in-memory database.
func (d *Driver) Connect(ctx context.Context, cfg driver.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// Prepare compiles the statement to SQLite SQL.
func (d *Driver) Prepare(s query.Statement) (*query.Query, error) {
	return driver.PrepareSQL(d.writer, s)
}

// Writer returns the SQLite statement writer.
func (d *Driver) Writer() writer.Writer { return d.writer }
