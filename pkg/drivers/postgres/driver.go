// Package postgres provides the PostgreSQL driver, pairing the PostgreSQL
// statement writer with a pgx database/sql connection.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	dialect "github.com/TankHQ/tank/pkg/dialects/postgres"
	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
)

// Driver executes statements against PostgreSQL.
type Driver struct {
	driver.SQLBase
	writer *dialect.Writer
}

var _ driver.Driver = (*Driver)(nil)

// New creates a PostgreSQL driver. A nil logger selects a discard logger.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		SQLBase: driver.SQLBase{Logger: logger},
		writer:  dialect.New(logger),
	}
}

// Connect establishes a connection to PostgreSQL.
func (d *Driver) Connect(ctx context.Context, cfg driver.Config) error {
	dsn := buildDSN(cfg)

	d.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// Prepare compiles the statement to PostgreSQL SQL.
func (d *Driver) Prepare(s query.Statement) (*query.Query, error) {
	return driver.PrepareSQL(d.writer, s)
}

// Writer returns the PostgreSQL statement writer.
func (d *Driver) Writer() writer.Writer { return d.writer }

// buildDSN constructs a key=value connection string. sslmode defaults to
// disable unless overridden through Options.
func buildDSN(cfg driver.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if cfg.Schema != "" {
		dsn += fmt.Sprintf(" search_path=%s", cfg.Schema)
	}

	return dsn
}
