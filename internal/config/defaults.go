package config

// Default ports for network backends.
const (
	DefaultPostgresPort = 5432
	DefaultMongoPort    = 27017
)

// DefaultMemoryPath is the in-memory database path used by the embedded
// backends when no file is configured.
const DefaultMemoryPath = ":memory:"

// ApplyTargetDefaults fills in type-specific defaults on a target.
func ApplyTargetDefaults(t *Target) {
	if t == nil {
		return
	}

	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = DefaultPostgresPort
		}
	case "mongodb":
		if t.Port == 0 && t.Path == "" {
			t.Port = DefaultMongoPort
		}
	case "duckdb", "sqlite":
		if t.Path == "" {
			t.Path = DefaultMemoryPath
		}
	}
}
