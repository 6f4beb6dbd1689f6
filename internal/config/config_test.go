package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TankHQ/tank/pkg/driver"

	_ "github.com/TankHQ/tank/pkg/drivers/sqlite"
)

func TestDriverConfig(t *testing.T) {
	target := &Target{
		Type:     "Postgres",
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "orders",
		Schema:   "public",
		Options:  map[string]string{"sslmode": "require"},
	}

	cfg := target.DriverConfig()
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "app", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "orders", cfg.Database)
	assert.Equal(t, "public", cfg.Schema)
	assert.Equal(t, "require", cfg.Options["sslmode"])
}

func TestValidate(t *testing.T) {
	err := (&Target{Type: "sqlite"}).Validate()
	assert.NoError(t, err)

	err = (&Target{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target type is required")

	err = (&Target{Type: "oracle"}).Validate()
	require.Error(t, err)
	var unknown *driver.UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
}

func TestMerge(t *testing.T) {
	base := &Target{
		Type:    "postgres",
		Host:    "localhost",
		Port:    5432,
		User:    "dev",
		Options: map[string]string{"sslmode": "disable", "appname": "tank"},
	}
	override := &Target{
		Host:     "db.prod.internal",
		Password: "secret",
		Options:  map[string]string{"sslmode": "require"},
	}

	merged := Merge(base, override)
	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "db.prod.internal", merged.Host)
	assert.Equal(t, 5432, merged.Port)
	assert.Equal(t, "dev", merged.User)
	assert.Equal(t, "secret", merged.Password)
	assert.Equal(t, "require", merged.Options["sslmode"])
	assert.Equal(t, "tank", merged.Options["appname"])

	// base stays untouched
	assert.Equal(t, "localhost", base.Host)
	assert.Equal(t, "disable", base.Options["sslmode"])
}

func TestMergeNil(t *testing.T) {
	base := &Target{Type: "duckdb"}
	assert.Same(t, base, Merge(base, nil))
	assert.Same(t, base, Merge(nil, base))
	assert.Nil(t, Merge(nil, nil))
}

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name   string
		target *Target
		check  func(t *testing.T, target *Target)
	}{
		{
			name:   "postgres port",
			target: &Target{Type: "postgres"},
			check: func(t *testing.T, target *Target) {
				assert.Equal(t, DefaultPostgresPort, target.Port)
			},
		},
		{
			name:   "mongodb port",
			target: &Target{Type: "mongodb"},
			check: func(t *testing.T, target *Target) {
				assert.Equal(t, DefaultMongoPort, target.Port)
			},
		},
		{
			name:   "mongodb uri skips port",
			target: &Target{Type: "mongodb", Path: "mongodb://cluster.example.net"},
			check: func(t *testing.T, target *Target) {
				assert.Zero(t, target.Port)
			},
		},
		{
			name:   "duckdb in-memory path",
			target: &Target{Type: "duckdb"},
			check: func(t *testing.T, target *Target) {
				assert.Equal(t, DefaultMemoryPath, target.Path)
			},
		},
		{
			name:   "sqlite keeps explicit path",
			target: &Target{Type: "sqlite", Path: "data.db"},
			check: func(t *testing.T, target *Target) {
				assert.Equal(t, "data.db", target.Path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ApplyTargetDefaults(tt.target)
			tt.check(t, tt.target)
		})
	}
}
