package driver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// SQLStatement is the prepared form of a text-SQL backend: the rendered
// statement plus binding slots. The placeholder style inside Text is the
// writer's concern; bindings are always positional.
type SQLStatement struct {
	query.BoundStatement
	Text string
}

var _ query.Prepared = (*SQLStatement)(nil)

// PrepareSQL renders s through w and wraps the text in a prepared query.
func PrepareSQL(w writer.Writer, s query.Statement) (*query.Query, error) {
	raw := query.NewQuery()
	writer.WriteStatement(w, raw, s)
	st := &SQLStatement{
		BoundStatement: query.NewBoundStatement(*raw.Metadata()),
		Text:           raw.String(),
	}
	return query.NewPreparedQuery(st), nil
}

// Resolve extracts the statement text and native arguments of q. Raw
// queries resolve to their text with no arguments.
func Resolve(q *query.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("nil query")
	}
	if !q.IsPrepared() {
		return q.String(), nil, nil
	}
	st, ok := q.Prepared().(*SQLStatement)
	if !ok {
		return "", nil, fmt.Errorf("prepared statement %T is not a SQL statement", q.Prepared())
	}
	bindings := st.Bindings()
	if len(bindings) == 0 {
		return st.Text, nil, nil
	}
	args := make([]any, len(bindings))
	for i, v := range bindings {
		arg, err := nativeValue(v)
		if err != nil {
			return "", nil, fmt.Errorf("binding %d: %w", i, err)
		}
		args[i] = arg
	}
	return st.Text, args, nil
}

// nativeValue converts a bound value to a database/sql argument. Numbers
// wider than int64 and decimals travel as numeric text; containers have no
// portable argument form and fail.
func nativeValue(v value.Value) (any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	switch v := v.(type) {
	case value.Boolean:
		return v.Bool, nil
	case value.Int8:
		return int64(v.Int8), nil
	case value.Int16:
		return int64(v.Int16), nil
	case value.Int32:
		return int64(v.Int32), nil
	case value.Int64:
		return v.Int64, nil
	case value.Uint8:
		return int64(v.Uint8), nil
	case value.Uint16:
		return int64(v.Uint16), nil
	case value.Uint32:
		return int64(v.Uint32), nil
	case value.Uint64:
		if v.Uint64 > math.MaxInt64 {
			return strconv.FormatUint(v.Uint64, 10), nil
		}
		return int64(v.Uint64), nil
	case value.Int128:
		return v.Big.String(), nil
	case value.Uint128:
		return v.Big.String(), nil
	case value.Float32:
		return float64(v.Float32), nil
	case value.Float64:
		return v.Float64, nil
	case value.Decimal:
		return v.Decimal.String(), nil
	case value.Char:
		return string(v.Char), nil
	case value.Varchar:
		return v.String, nil
	case value.Blob:
		return v.Bytes, nil
	case value.Date:
		return v.Time(), nil
	case value.Time:
		h, m, s, ns := v.Clock()
		return value.ClockString(h, m, s, ns), nil
	case value.Timestamp:
		return v.Time, nil
	case value.TimestampTZ:
		return v.Time, nil
	case value.Uuid:
		return v.UUID.String(), nil
	case value.Json:
		b, err := json.Marshal(v.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json binding: %w", err)
		}
		return string(b), nil
	case value.Unknown:
		return v.String, nil
	}
	return nil, value.TypeMismatchError{From: v.Kind(), To: "sql argument"}
}

// ScanRows reads every row of a result set into labeled rows. The label
// slice is shared across rows.
func ScanRows(rows *sql.Rows) ([]query.RowLabeled, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}
	labels := query.RowNames(cols)
	var out []query.RowLabeled
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values := make(query.Row, len(cols))
		for i, cell := range raw {
			values[i] = value.Of(cell)
		}
		out = append(out, query.RowLabeled{Labels: labels, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// SQLBase provides the database/sql half of a text-SQL driver. Concrete
// drivers embed it and add Connect, Prepare and Writer.
type SQLBase struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *SQLBase) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected reports whether the connection is established.
func (b *SQLBase) IsConnected() bool {
	return b.DB != nil
}

// Exec runs a statement that returns no rows.
func (b *SQLBase) Exec(ctx context.Context, q *query.Query) (query.RowsAffected, error) {
	if b.DB == nil {
		return query.RowsAffected{}, fmt.Errorf("database connection not established")
	}
	text, args, err := Resolve(q)
	if err != nil {
		return query.RowsAffected{}, err
	}
	if b.Logger != nil {
		b.Logger.Debug("executing statement", "sql", text, "args", len(args))
	}
	res, err := b.DB.ExecContext(ctx, text, args...)
	if err != nil {
		return query.RowsAffected{}, fmt.Errorf("failed to execute statement: %w", err)
	}
	var affected query.RowsAffected
	if n, err := res.RowsAffected(); err == nil && n >= 0 {
		rows := uint64(n)
		affected.Rows = &rows
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		affected.LastInsertID = &id
	}
	return affected, nil
}

// Query runs a statement and returns its rows.
func (b *SQLBase) Query(ctx context.Context, q *query.Query) ([]query.RowLabeled, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	text, args, err := Resolve(q)
	if err != nil {
		return nil, err
	}
	if b.Logger != nil {
		b.Logger.Debug("executing query", "sql", text, "args", len(args))
	}
	rows, err := b.DB.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return ScanRows(rows)
}
