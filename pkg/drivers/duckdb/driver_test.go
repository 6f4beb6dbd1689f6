package duckdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
)

func TestRegistered(t *testing.T) {
	assert.True(t, driver.IsRegistered("duckdb"))

	d, err := driver.New(driver.Config{Type: "duckdb"}, nil)
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
	assert.Equal(t, "SELECT \"name\"\nFROM \"users\"\nWHERE \"id\" = ?;", st.Text)
}

func TestQueryNotConnected(t *testing.T) {
	d := New(nil)
	q := query.NewRawQuery("SELECT 1", query.QueryMetadata{Type: query.QuerySelect})
	_, err := d.Query(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}
