package commands

import (
	"log/slog"
	"os"

	"github.com/TankHQ/tank/internal/cli/config"
	intconfig "github.com/TankHQ/tank/internal/config"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	dialect := getEnvOrDefault("TANK_DIALECT", config.DefaultDialect)
	verbose := os.Getenv("TANK_VERBOSE") == "true"

	target := &intconfig.Target{Type: config.DefaultTargetType}
	intconfig.ApplyTargetDefaults(target)

	return &config.Config{
		Dialect: dialect,
		Verbose: verbose,
		Target:  target,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
