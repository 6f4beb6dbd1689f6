package commands

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/TankHQ/tank/pkg/dialects/duckdb"
	"github.com/TankHQ/tank/pkg/dialects/mongodb"
	"github.com/TankHQ/tank/pkg/dialects/mysql"
	"github.com/TankHQ/tank/pkg/dialects/postgres"
	"github.com/TankHQ/tank/pkg/dialects/scylladb"
	"github.com/TankHQ/tank/pkg/dialects/sqlite"
	"github.com/TankHQ/tank/pkg/writer"
)

// dialectWriters maps dialect names to writer constructors.
var dialectWriters = map[string]func(*slog.Logger) writer.Writer{
	"postgres": func(l *slog.Logger) writer.Writer { return postgres.New(l) },
	"mysql":    func(l *slog.Logger) writer.Writer { return mysql.New(l) },
	"sqlite":   func(l *slog.Logger) writer.Writer { return sqlite.New(l) },
	"duckdb":   func(l *slog.Logger) writer.Writer { return duckdb.New(l) },
	"scylladb": func(l *slog.Logger) writer.Writer { return scylladb.New(l) },
	"mongodb":  func(l *slog.Logger) writer.Writer { return mongodb.New(l) },
}

// NewDialectWriter returns the writer for the named dialect.
func NewDialectWriter(name string, logger *slog.Logger) (writer.Writer, error) {
	construct, ok := dialectWriters[name]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (available: %v)", name, DialectNames())
	}
	return construct(logger), nil
}

// DialectNames returns the supported dialect names in sorted order.
func DialectNames() []string {
	names := make([]string, 0, len(dialectWriters))
	for name := range dialectWriters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
