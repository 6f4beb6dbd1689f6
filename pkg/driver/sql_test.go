package driver

import (
	"context"
	"encoding/json"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TankHQ/tank/pkg/dialects/postgres"
	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
)

func TestPrepareSQL(t *testing.T) {
	s := query.NewSelect(expr.Ident("name")).
		WithFrom(query.NewTableRef("users")).
		WithWhere(expr.Eq(expr.Ident("id"), expr.QuestionMark()))

	q, err := PrepareSQL(postgres.New(nil), s)
	require.NoError(t, err)
	require.True(t, q.IsPrepared())

	st, ok := q.Prepared().(*SQLStatement)
	require.True(t, ok)
	assert.Equal(t, "SELECT \"name\"\nFROM \"users\"\nWHERE \"id\" = $1;", st.Text)
	assert.Equal(t, query.QuerySelect, q.Metadata().Type)
	assert.Equal(t, "users", q.Table().FullName())

	require.NoError(t, q.Bind(7))
	text, args, err := Resolve(q)
	require.NoError(t, err)
	assert.Equal(t, st.Text, text)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestResolveRaw(t *testing.T) {
	q := query.NewRawQuery("SELECT 1", query.QueryMetadata{Type: query.QuerySelect})
	text, args, err := Resolve(q)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", text)
	assert.Nil(t, args)
}

func TestResolveNil(t *testing.T) {
	_, _, err := Resolve(nil)
	assert.Error(t, err)
}

type foreignStatement struct {
	query.BoundStatement
}

func TestResolveForeignPrepared(t *testing.T) {
	q := query.NewPreparedQuery(&foreignStatement{})
	_, _, err := Resolve(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a SQL statement")
}

func TestNativeValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	id := uuid.MustParse("019223e8-a710-7ac2-923f-d05a78c91a1b")

	tests := []struct {
		name string
		in   value.Value
		want any
	}{
		{"null", value.Null{}, nil},
		{"invalid", value.Int32{}, nil},
		{"boolean", value.Boolean{Bool: true, Valid: true}, true},
		{"int8 widens", value.Int8{Int8: -4, Valid: true}, int64(-4)},
		{"int64", value.Int64{Int64: 42, Valid: true}, int64(42)},
		{"uint32 widens", value.Uint32{Uint32: 9, Valid: true}, int64(9)},
		{"uint64 in range", value.Uint64{Uint64: 7, Valid: true}, int64(7)},
		{"uint64 overflow as text", value.Uint64{Uint64: math.MaxUint64, Valid: true}, "18446744073709551615"},
		{"int128 as text", value.Int128{Big: big.NewInt(-5), Valid: true}, "-5"},
		{"uint128 as text", value.Uint128{Big: big.NewInt(12), Valid: true}, "12"},
		{"float32 widens", value.Float32{Float32: 1.5, Valid: true}, float64(1.5)},
		{"float64", value.Float64{Float64: -0.25, Valid: true}, float64(-0.25)},
		{"decimal as text", value.Decimal{Decimal: decimal.RequireFromString("12.34"), Valid: true}, "12.34"},
		{"char", value.Char{Char: 'é', Valid: true}, "é"},
		{"varchar", value.Varchar{String: "Ada", Valid: true}, "Ada"},
		{"blob", value.Blob{Bytes: []byte{1, 2}, Valid: true}, []byte{1, 2}},
		{"date as midnight", value.Date{Year: 2024, Month: 5, Day: 1, Valid: true}, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"time as clock text", value.Time{Duration: 14*time.Hour + 30*time.Minute, Valid: true}, "14:30:00.0"},
		{"timestamp", value.Timestamp{Time: ts, Valid: true}, ts},
		{"timestamptz", value.TimestampTZ{Time: ts, Valid: true}, ts},
		{"uuid as text", value.Uuid{UUID: id, Valid: true}, "019223e8-a710-7ac2-923f-d05a78c91a1b"},
		{"json as text", value.Json{Data: map[string]any{"a": json.Number("1"), "b": "x"}, Valid: true}, `{"a":1,"b":"x"}`},
		{"unknown passes through", value.Unknown{String: "raw", Valid: true}, "raw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nativeValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNativeValueUnsupported(t *testing.T) {
	containers := []value.Value{
		value.List{Values: []value.Value{value.Int32{Int32: 1, Valid: true}}, Elem: value.Int32{}, Valid: true},
		value.Interval{Months: 1, Valid: true},
		value.Map{Valid: true},
	}
	for _, v := range containers {
		_, err := nativeValue(v)
		var mismatch value.TypeMismatchError
		require.ErrorAs(t, err, &mismatch, "kind %s", v.Kind())
		assert.Equal(t, v.Kind(), mismatch.From)
	}
}

func TestSQLBaseExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(int64(7), "Ada").
		WillReturnResult(sqlmock.NewResult(3, 2))

	st := &SQLStatement{
		BoundStatement: query.NewBoundStatement(query.QueryMetadata{Type: query.QueryInsertInto}),
		Text:           "INSERT INTO users (id, name) VALUES ($1, $2)",
	}
	q := query.NewPreparedQuery(st)
	require.NoError(t, q.Bind(7, "Ada"))

	base := &SQLBase{DB: db}
	affected, err := base.Exec(context.Background(), q)
	require.NoError(t, err)
	require.NotNil(t, affected.Rows)
	assert.Equal(t, uint64(2), *affected.Rows)
	require.NotNil(t, affected.LastInsertID)
	assert.Equal(t, int64(3), *affected.LastInsertID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBaseExecNotConnected(t *testing.T) {
	base := &SQLBase{}
	q := query.NewRawQuery("CREATE TABLE t (id INT)", query.QueryMetadata{Type: query.QueryCreateTable})
	_, err := base.Exec(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}

func TestSQLBaseExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DROP TABLE").WillReturnError(assert.AnError)

	base := &SQLBase{DB: db}
	q := query.NewRawQuery("DROP TABLE missing", query.QueryMetadata{Type: query.QueryDropTable})
	_, err = base.Exec(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute statement")
}

func TestSQLBaseQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	joined := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "joined"}).
			AddRow(int64(1), "Ada", joined).
			AddRow(int64(2), nil, nil))

	base := &SQLBase{DB: db}
	q := query.NewRawQuery("SELECT id, name, joined FROM users", query.QueryMetadata{Type: query.QuerySelect})
	rows, err := base.Query(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, query.RowNames{"id", "name", "joined"}, rows[0].Labels)
	assert.Equal(t, query.Row{
		value.Int64{Int64: 1, Valid: true},
		value.Varchar{String: "Ada", Valid: true},
		value.TimestampTZ{Time: joined, Valid: true},
	}, rows[0].Values)

	name, ok := rows[1].Column("name")
	require.True(t, ok)
	assert.True(t, name.IsNull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBaseQueryBadBinding(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	st := &SQLStatement{
		BoundStatement: query.NewBoundStatement(query.QueryMetadata{Type: query.QuerySelect}),
		Text:           "SELECT * FROM t WHERE tags = $1",
	}
	q := query.NewPreparedQuery(st)
	st.Bind(value.List{Values: []value.Value{value.Int32{Int32: 1, Valid: true}}, Elem: value.Int32{}, Valid: true})

	base := &SQLBase{DB: db}
	_, err = base.Query(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding 0")
}
