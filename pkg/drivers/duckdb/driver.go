// Package duckdb provides the DuckDB driver, pairing the DuckDB statement
// writer with an embedded database/sql connection.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	dialect "github.com/TankHQ/tank/pkg/dialects/duckdb"
	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
)

// Driver executes statements against DuckDB.
type Driver struct {
	driver.SQLBase
	writer *dialect.Writer
}

var _ driver.Driver = (*Driver)(nil)

// New creates a DuckDB driver. A nil logger selects a discard logger.
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

	d.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// Prepare compiles the statement to DuckDB SQL.
func (d *Driver) Prepare(s query.Statement) (*query.Query, error) {
	return driver.PrepareSQL(d.writer, s)
}

// Writer returns the DuckDB statement writer.
func (d *Driver) Writer() writer.Writer { return d.writer }
