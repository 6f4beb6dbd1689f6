// Package config loads the CLI configuration from a YAML file,
// environment variables and flags, in rising precedence. Connection
// target types are shared with internal/config so non-CLI tooling can
// reuse them.
package config

import (
	intconfig "github.com/TankHQ/tank/internal/config"
)

// Default configuration values.
const (
	// DefaultDialect is the writer used by render and ddl when neither
	// the configuration nor the --dialect flag names one.
	DefaultDialect = "postgres"

	// DefaultTargetType is the connection target assumed when the
	// configuration declares none. An in-memory embedded database keeps
	// the query command usable without any setup.
	DefaultTargetType = "duckdb"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Dialect selects the statement writer for render and ddl.
	Dialect string `koanf:"dialect"`

	// Verbose enables debug logging on stderr.
	Verbose bool `koanf:"verbose"`

	// Target is the connection the query command executes against.
	Target *intconfig.Target `koanf:"target"`

	// Targets holds named connection targets selectable with --target.
	// A selected entry overlays Target field by field.
	Targets map[string]*intconfig.Target `koanf:"targets"`
}
