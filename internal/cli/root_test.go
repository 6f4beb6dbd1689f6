package cli

import (
	"context"
	"testing"

	"github.com/TankHQ/tank/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "tanksql", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"version", "render", "ddl", "query", "dialects", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"config", "target", "dialect", "verbose"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing persistent flag %s", flag)
	}
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultDialect, cfg.Dialect)
}

func TestGetConfigFromContext(t *testing.T) {
	want := &config.Config{Dialect: "scylladb"}
	ctx := context.WithValue(context.Background(), configKey{}, want)
	assert.Same(t, want, GetConfig(ctx))
}
