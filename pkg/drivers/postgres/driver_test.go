package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   driver.Config
		expected string
	}{
		{
			name: "basic connection",
			config: driver.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: driver.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: driver.Config{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
		{
			name: "with schema",
			config: driver.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				Username: "analyst",
				Schema:   "reporting",
			},
			expected: "host=db.example.com port=5433 dbname=analytics sslmode=disable user=analyst search_path=reporting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildDSN(tt.config))
		})
	}
}

func TestRegistered(t *testing.T) {
	assert.True(t, driver.IsRegistered("postgres"))

	d, err := driver.New(driver.Config{Type: "postgres"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Driver{}, d)
}

func TestPrepare(t *testing.T) {
	d := New(nil)
	q, err := d.Prepare(query.NewSelect(expr.Ident("name")).
		WithFrom(query.NewTableRef("users")).
		WithWhere(expr.Eq(expr.Ident("id"), expr.QuestionMark())))
	require.NoError(t, err)
	require.True(t, q.IsPrepared())

	st, ok := q.Prepared().(*driver.SQLStatement)
	require.True(t, ok)
	assert.Equal(t, "SELECT \"name\"\nFROM \"users\"\nWHERE \"id\" = $1;", st.Text)
}

func TestExecNotConnected(t *testing.T) {
	d := New(nil)
	q := query.NewRawQuery("SELECT 1", query.QueryMetadata{Type: query.QuerySelect})
	_, err := d.Exec(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}
