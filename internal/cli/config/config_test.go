package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import driver packages to ensure drivers are registered via init()
	_ "github.com/TankHQ/tank/pkg/drivers/duckdb"
	_ "github.com/TankHQ/tank/pkg/drivers/postgres"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()

	cfg, err := LoadConfigWithTarget(writeConfig(t, "{}\n"), "", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.False(t, cfg.Verbose)
	require.NotNil(t, cfg.Target)
	assert.Equal(t, DefaultTargetType, cfg.Target.Type)
	assert.Equal(t, ":memory:", cfg.Target.Path)
}

func TestLoadConfigFile(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, `dialect: scylladb
verbose: true
target:
  type: postgres
  host: db.internal
  database: trades
  user: app
`)
	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "scylladb", cfg.Dialect)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, "trades", cfg.Target.Database)
	assert.Equal(t, 5432, cfg.Target.Port, "default port applies")
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfigNamedTarget(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, `target:
  type: postgres
  host: localhost
  database: trades
targets:
  prod:
    host: db.prod.internal
    password: hunter2
  local:
    type: duckdb
    path: local.duckdb
`)

	t.Run("named target overlays base", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(cfgPath, "prod", nil)
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "db.prod.internal", cfg.Target.Host)
		assert.Equal(t, "trades", cfg.Target.Database)
		assert.Equal(t, "hunter2", cfg.Target.Password)
	})

	t.Run("named target can switch type", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(cfgPath, "local", nil)
		require.NoError(t, err)

		assert.Equal(t, "duckdb", cfg.Target.Type)
		assert.Equal(t, "local.duckdb", cfg.Target.Path)
	})

	t.Run("unknown target name errors", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfigWithTarget(cfgPath, "staging", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `target "staging" is not defined`)
	})
}

func TestLoadConfigInvalidTarget(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, "target:\n  type: oracle\n")
		_, err := LoadConfigWithTarget(cfgPath, "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid target configuration")
		assert.Contains(t, err.Error(), "oracle")
	})

	t.Run("unreadable file", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, "dialect: [broken\n")
		_, err := LoadConfigWithTarget(cfgPath, "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoadConfigEnvVarExpansion(t *testing.T) {
	ResetConfig()

	require.NoError(t, os.Setenv("TEST_DB_USER", "svc_tank"))
	require.NoError(t, os.Setenv("TEST_DB_PASSWORD", "secret123"))
	defer func() {
		_ = os.Unsetenv("TEST_DB_USER")
		_ = os.Unsetenv("TEST_DB_PASSWORD")
	}()

	cfgPath := writeConfig(t, `target:
  type: postgres
  host: localhost
  user: ${TEST_DB_USER}
  password: ${TEST_DB_PASSWORD}
`)
	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "svc_tank", cfg.Target.User)
	assert.Equal(t, "secret123", cfg.Target.Password)
}

func TestLoadConfigEnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "dialect: mysql\n")

	require.NoError(t, os.Setenv("TANK_DIALECT", "sqlite"))
	defer func() { _ = os.Unsetenv("TANK_DIALECT") }()

	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Dialect, "env var should override config file")
}

func TestLoadConfigFlagPrecedence(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "dialect: mysql\n")

	require.NoError(t, os.Setenv("TANK_DIALECT", "sqlite"))
	defer func() { _ = os.Unsetenv("TANK_DIALECT") }()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "statement dialect")
	require.NoError(t, flags.Set("dialect", "duckdb"))

	cfg, err := LoadConfigWithTarget(cfgPath, "", flags)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Dialect, "flag value should override config file and env var")
}

func TestLoadConfigFlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "dialect: mysql\n")

	require.NoError(t, os.Setenv("TANK_DIALECT", "sqlite"))
	defer func() { _ = os.Unsetenv("TANK_DIALECT") }()

	// Flag registered but never set, so Changed is false
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "statement dialect")

	cfg, err := LoadConfigWithTarget(cfgPath, "", flags)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Dialect, "env var should be used when flag is not set")
}

func TestExpandEnvVars(t *testing.T) {
	require.NoError(t, os.Setenv("TEST_VAR_ONE", "value_one"))
	defer func() { _ = os.Unsetenv("TEST_VAR_ONE") }()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "variable in uri", input: "mongodb://${TEST_VAR_ONE}:27017", expected: "mongodb://value_one:27017"},
		{name: "unset variable stays as-is", input: "${UNSET_VARIABLE}", expected: "${UNSET_VARIABLE}"},
		{name: "no variables", input: "plain string", expected: "plain string"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	logger := GetLogger(t.Context())
	require.NotNil(t, logger)
}
