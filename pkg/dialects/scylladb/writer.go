// Package scylladb renders CQL for ScyllaDB and Cassandra. Schemas become
// keyspaces with a replication block, multi-row inserts become logged
// batches, unconditional deletes become TRUNCATE, composite primary keys
// split into partition and clustering parts, and durations use the
// compact 1y2mo3d syntax.
package scylladb

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"

	"github.com/google/uuid"
)

// Key under which columns declare a ScyllaDB type override.
var typeKeys = []string{"scylladb"}

type Writer struct {
	writer.Base
}

func New(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Writer{}
	w.Base = writer.Base{Dialect: w, Logger: logger}
	return w
}

var _ writer.Writer = (*Writer)(nil)

func (w *Writer) WriteColumnOverriddenType(out *strings.Builder, ctx *writer.Context, col *query.ColumnDef) {
	for _, key := range typeKeys {
		if t, ok := col.TypeOverride[key]; ok {
			out.WriteString(t)
			return
		}
	}
}

func (w *Writer) WriteColumnType(out *strings.Builder, ctx *writer.Context, v value.Value) {
	switch v := v.(type) {
	case value.Boolean:
		out.WriteString("BOOLEAN")
	case value.Int8:
		out.WriteString("TINYINT")
	case value.Int16:
		out.WriteString("SMALLINT")
	case value.Int32:
		out.WriteString("INT")
	case value.Int64:
		out.WriteString("BIGINT")
	case value.Int128:
		out.WriteString("VARINT")
	case value.Uint8:
		out.WriteString("SMALLINT")
	case value.Uint16:
		out.WriteString("INT")
	case value.Uint32:
		out.WriteString("BIGINT")
	case value.Uint64:
		out.WriteString("VARINT")
	case value.Uint128:
		out.WriteString("VARINT")
	case value.Float32:
		out.WriteString("FLOAT")
	case value.Float64:
		out.WriteString("DOUBLE")
	case value.Decimal:
		out.WriteString("DECIMAL")
	case value.Char:
		out.WriteString("ASCII")
	case value.Varchar:
		out.WriteString("TEXT")
	case value.Blob:
		out.WriteString("BLOB")
	case value.Date:
		out.WriteString("DATE")
	case value.Time:
		out.WriteString("TIME")
	case value.Timestamp:
		out.WriteString("TIMESTAMP")
	case value.TimestampTZ:
		out.WriteString("TIMESTAMP")
	case value.Interval:
		out.WriteString("DURATION")
	case value.Uuid:
		out.WriteString("UUID")
	case value.Array:
		// Character arrays are stored as ASCII text.
		if _, ok := v.Elem.(value.Char); ok {
			out.WriteString("ASCII")
			return
		}
		out.WriteString("VECTOR<")
		w.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteByte(',')
		out.WriteString(strconv.FormatUint(uint64(v.Size), 10))
		out.WriteByte('>')
	case value.List:
		out.WriteString("LIST<")
		w.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteByte('>')
	case value.Map:
		out.WriteString("MAP<")
		w.Dialect.WriteColumnType(out, ctx, v.Key)
		out.WriteByte(',')
		w.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteByte('>')
	case value.Json:
		out.WriteString("TEXT")
	case nil:
		w.Logger.Error("cannot derive a column type from a nil value")
	default:
		w.Logger.Error("ScyllaDB has no column type for value kind", slog.String("kind", v.Kind().String()))
	}
}

// CQL accepts the bare words Infinity and NaN as float literals.
func (w *Writer) WriteValueInfinity(out *strings.Builder, ctx *writer.Context, negative bool) {
	if negative {
		out.WriteByte('-')
	}
	out.WriteString("Infinity")
}

func (w *Writer) WriteValueNaN(out *strings.Builder, ctx *writer.Context) {
	out.WriteString("NaN")
}

// WriteValueTime truncates to millisecond resolution, the finest CQL time
// literals carry.
func (w *Writer) WriteValueTime(out *strings.Builder, ctx *writer.Context, v value.Time, timestamp bool) {
	h, m, s, ns := v.Clock()
	quote := ""
	switch {
	case ctx.Fragment == writer.FragmentJSON && !timestamp:
		quote = `"`
	case !timestamp:
		quote = "'"
	}
	writer.PrintTimer(out, quote, h, m, s, ns-ns%1_000_000)
}

func (w *Writer) WriteValueBlob(out *strings.Builder, ctx *writer.Context, v []byte) {
	delimiter := ""
	if ctx.Fragment == writer.FragmentJSON {
		delimiter = `"`
	}
	out.WriteString(delimiter)
	out.WriteString("0x")
	writer.WriteHex(out, v)
	out.WriteString(delimiter)
}

var intervalUnits = []writer.IntervalUnit{
	{Name: "d", Nanos: value.NanosInDay},
	{Name: "h", Nanos: 3_600_000_000_000},
	{Name: "m", Nanos: 60_000_000_000},
	{Name: "s", Nanos: 1_000_000_000},
	{Name: "us", Nanos: 1_000},
	{Name: "ns", Nanos: 1},
}

func (w *Writer) IntervalUnits() []writer.IntervalUnit {
	return intervalUnits
}

// WriteValueInterval writes the compact CQL duration syntax, years down to
// nanoseconds with no separators and no quotes.
func (w *Writer) WriteValueInterval(out *strings.Builder, ctx *writer.Context, v value.Interval) {
	if v.IsZero() {
		out.WriteString("0s")
		return
	}
	months := int64(v.Months)
	nanos := v.Nanos + int64(v.Days)*value.NanosInDay
	if months != 0 {
		if months > 48 || months%12 == 0 {
			out.WriteString(strconv.FormatInt(months/12, 10))
			out.WriteByte('y')
			months %= 12
		}
		if months != 0 {
			out.WriteString(strconv.FormatInt(months, 10))
			out.WriteString("mo")
		}
	}
	for _, unit := range w.Dialect.IntervalUnits() {
		rem := nanos % unit.Nanos
		// A unit is used only when the remainder below it is zero or less
		// than a millionth of the unit.
		if rem != 0 && unit.Nanos/rem <= 1_000_000 {
			continue
		}
		n := nanos / unit.Nanos
		if n == 0 {
			continue
		}
		out.WriteString(strconv.FormatInt(n, 10))
		out.WriteString(unit.Name)
		nanos = rem
		if nanos == 0 {
			break
		}
	}
}

func (w *Writer) WriteValueUUID(out *strings.Builder, ctx *writer.Context, v uuid.UUID) {
	if ctx.InsideJSON() {
		out.WriteByte('"')
		out.WriteString(v.String())
		out.WriteByte('"')
		return
	}
	out.WriteString(v.String())
}

func (w *Writer) WriteValueList(out *strings.Builder, ctx *writer.Context, values []value.Value, ty, elem value.Value) {
	if _, ok := ty.(value.Array); ok {
		// Character arrays are stored as ASCII text.
		if _, ok := elem.(value.Char); ok {
			var text strings.Builder
			for _, v := range values {
				if c, ok := v.(value.Char); ok && c.Valid {
					text.WriteRune(c.Char)
				}
			}
			w.Dialect.WriteValueString(out, ctx, text.String())
			return
		}
	}
	out.WriteByte('[')
	writer.SeparatedBy(out, values, func(out *strings.Builder, v value.Value) {
		w.Dialect.WriteValue(out, ctx, v)
	}, ",")
	out.WriteByte(']')
}

func (w *Writer) WriteCreateSchema(q *query.Query, s *query.CreateSchema) {
	out := q.Buffer()
	out.Grow(128 + len(s.Schema))
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := writer.NewContext(writer.FragmentSQLCreateSchema, false)
	out.WriteString("CREATE KEYSPACE ")
	if s.IfNotExists {
		out.WriteString("IF NOT EXISTS ")
	}
	w.Dialect.WriteIdentifier(out, ctx, s.Schema, true)
	out.WriteString("\nWITH replication = {\n" +
		"    'class': 'SimpleStrategy',\n" +
		"    'replication_factor': 1\n" +
		"};")
	*q.Metadata() = s.Metadata()
}

func (w *Writer) WriteDropSchema(q *query.Query, s *query.DropSchema) {
	out := q.Buffer()
	out.Grow(32 + len(s.Schema))
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := writer.NewContext(writer.FragmentSQLDropSchema, false)
	out.WriteString("DROP KEYSPACE ")
	if s.IfExists {
		out.WriteString("IF EXISTS ")
	}
	w.Dialect.WriteIdentifier(out, ctx, s.Schema, true)
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

// WriteCreateTableColumnFragment leaves out constraints CQL has no use
// for; only a single-column primary key rides inline.
func (w *Writer) WriteCreateTableColumnFragment(out *strings.Builder, ctx *writer.Context, col *query.ColumnDef) {
	w.Dialect.WriteIdentifier(out, ctx, col.Name(), true)
	out.WriteByte(' ')
	n := out.Len()
	w.Dialect.WriteColumnOverriddenType(out, ctx, col)
	if out.Len() == n {
		w.Dialect.WriteColumnType(out, ctx, col.Value)
	}
	if col.PrimaryKey == query.PrimaryKey {
		out.WriteString(" PRIMARY KEY")
	}
}

// WriteCreateTablePrimaryKeyFragment wraps the partition columns in an
// inner parenthesis when clustering columns follow them.
func (w *Writer) WriteCreateTablePrimaryKeyFragment(out *strings.Builder, ctx *writer.Context, pk []*query.ColumnDef) {
	out.WriteString(",\nPRIMARY KEY (")
	clustering := false
	for _, col := range pk {
		if col.ClusteringKey {
			clustering = true
			break
		}
	}
	if clustering {
		out.WriteByte('(')
	}
	restore := ctx.SwitchFragment(writer.FragmentSQLCreateTablePrimaryKey)
	closed := false
	for i, col := range pk {
		w.Dialect.WriteIdentifier(out, ctx, col.Name(), true)
		if i+1 < len(pk) {
			if pk[i+1].ClusteringKey && !closed {
				out.WriteByte(')')
				closed = true
			}
			out.WriteByte(',')
		}
	}
	restore()
	out.WriteByte(')')
}

// CQL has no comment syntax.
func (w *Writer) WriteColumnCommentsStatements(q *query.Query, table *query.TableDef) {
}

func (w *Writer) WriteInsert(q *query.Query, s *query.Insert) {
	out := q.Buffer()
	if len(s.Rows) > 0 && out.Len() > 0 {
		out.WriteByte('\n')
	}
	out.Grow(128 + len(s.Columns)*32)
	// CQL inserts already upsert, so the update flag changes nothing.
	multiple := len(s.Rows) > 1
	if multiple {
		out.WriteString("BEGIN BATCH")
	}
	ctx := writer.NewContext(writer.FragmentSQLInsertInto, false)
	for ri, row := range s.Rows {
		if multiple || ri > 0 {
			out.WriteByte('\n')
		}
		out.WriteString("INSERT INTO ")
		ref := s.Table.Ref
		w.Dialect.WriteTableRef(out, ctx, &ref)
		cols := rowColumns(s, row)
		out.WriteString(" (")
		writer.SeparatedBy(out, cols, func(out *strings.Builder, i int) {
			w.Dialect.WriteIdentifier(out, ctx, s.Columns[i].Name(), true)
		}, ", ")
		out.WriteString(")\nVALUES (")
		restore := ctx.SwitchFragment(writer.FragmentSQLInsertIntoValues)
		writer.SeparatedBy(out, cols, func(out *strings.Builder, i int) {
			var v value.Value = value.Null{}
			if i < len(row) && row[i] != nil {
				v = row[i]
			}
			w.Dialect.WriteValue(out, ctx, v)
		}, ", ")
		restore()
		out.WriteString(");")
	}
	if multiple {
		out.WriteString("\nAPPLY BATCH;")
	}
	*q.Metadata() = s.Metadata()
}

// rowColumns returns the indexes of the columns one row lists. Each row
// filters its own passive columns, so rows of one batch may differ.
func rowColumns(s *query.Insert, row []value.Value) []int {
	kept := make([]int, 0, len(s.Columns))
	for i := range s.Columns {
		if s.Columns[i].Passive && (i >= len(row) || row[i] == nil || row[i].IsNull()) {
			continue
		}
		kept = append(kept, i)
	}
	return kept
}

// WriteDelete turns an unconditional delete into TRUNCATE; CQL deletes
// require a condition.
func (w *Writer) WriteDelete(q *query.Query, s *query.Delete) {
	out := q.Buffer()
	truncate := s.Where == nil || s.Where.IsTrue()
	if truncate {
		out.Grow(128)
		out.WriteString("TRUNCATE ")
	} else {
		out.Grow(128 + len(s.From.Schema) + len(s.From.Name))
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString("DELETE FROM ")
	}
	ctx := writer.NewContext(writer.FragmentSQLDeleteFrom, false)
	from := s.From
	w.Dialect.WriteTableRef(out, ctx, &from)
	if !truncate {
		out.WriteString("\nWHERE ")
		restore := ctx.SwitchFragment(writer.FragmentSQLDeleteFromWhere)
		w.Dialect.WriteExpression(out, ctx, s.Where)
		restore()
	}
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}
