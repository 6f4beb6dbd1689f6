// Package config holds the shared target configuration consumed by the
// CLI and by anything else that opens connections through the driver
// registry. It is decoupled from flag and file loading, which live in
// internal/cli/config.
package config

import (
	"fmt"
	"strings"

	"github.com/TankHQ/tank/pkg/driver"
)

// Target describes one database connection target.
type Target struct {
	Type string `koanf:"type"` // postgres, duckdb, sqlite, mongodb

	// File-based backends (DuckDB, SQLite); for MongoDB a full
	// connection URI may be given here instead of host and port.
	Path string `koanf:"path"`

	// Network backends
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// DriverConfig converts the target into the driver connection config.
func (t *Target) DriverConfig() driver.Config {
	return driver.Config{
		Type:     strings.ToLower(t.Type),
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}

// Validate checks that the target names a registered driver. The driver
// registry is the single source of truth for which types are available.
func (t *Target) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !driver.IsRegistered(strings.ToLower(t.Type)) {
		return &driver.UnknownDriverError{
			Type:      t.Type,
			Available: driver.List(),
		}
	}
	return nil
}

// Merge overlays override on base field by field and returns the result.
// Zero-valued override fields keep the base value; option maps merge with
// override entries winning.
func Merge(base, override *Target) *Target {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	if len(override.Options) > 0 {
		opts := make(map[string]string, len(base.Options)+len(override.Options))
		for k, v := range base.Options {
			opts[k] = v
		}
		for k, v := range override.Options {
			opts[k] = v
		}
		merged.Options = opts
	}
	return &merged
}
