// Package postgres renders SQL in the PostgreSQL dialect: $N placeholders,
// '\x' blob literals, ::DATE/::TIME/::TIMESTAMP casts on temporal literals
// with BC notation for non-positive years, and typed ARRAY literals. It
// also provides the COPY FROM STDIN statement used for bulk loads.
package postgres

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// Keys under which columns declare a PostgreSQL type override.
var typeKeys = []string{"postgres", "postgresql"}

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

// WriteCopy renders a COPY ... FROM STDIN BINARY statement loading the
// given columns of table.
func (w *Writer) WriteCopy(q *query.Query, table query.TableRef, columns []query.ColumnDef) {
	out := q.Buffer()
	out.Grow(128)
	ctx := writer.NewContext(writer.FragmentNone, false)
	out.WriteString("COPY ")
	w.Dialect.WriteTableRef(out, ctx, &table)
	out.WriteString(" (")
	writer.SeparatedBy(out, columns, func(out *strings.Builder, col query.ColumnDef) {
		w.Dialect.WriteIdentifier(out, ctx, col.Name(), true)
	}, ", ")
	out.WriteString(") FROM STDIN BINARY;")
}

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
		out.WriteString("SMALLINT")
	case value.Int16:
		out.WriteString("SMALLINT")
	case value.Int32:
		out.WriteString("INTEGER")
	case value.Int64:
		out.WriteString("BIGINT")
	case value.Int128:
		out.WriteString("NUMERIC(39)")
	case value.Uint8:
		out.WriteString("SMALLINT")
	case value.Uint16:
		out.WriteString("INTEGER")
	case value.Uint32:
		out.WriteString("BIGINT")
	case value.Uint64:
		out.WriteString("NUMERIC(19)")
	case value.Uint128:
		out.WriteString("NUMERIC(39)")
	case value.Float32:
		out.WriteString("FLOAT4")
	case value.Float64:
		out.WriteString("FLOAT8")
	case value.Decimal:
		out.WriteString("NUMERIC")
		if v.Width != 0 || v.Scale != 0 {
			out.WriteByte('(')
			out.WriteString(strconv.Itoa(int(v.Width)))
			out.WriteByte(',')
			out.WriteString(strconv.Itoa(int(v.Scale)))
			out.WriteByte(')')
		}
	case value.Char:
		out.WriteString("CHAR(1)")
	case value.Varchar:
		out.WriteString("TEXT")
	case value.Blob:
		out.WriteString("BYTEA")
	case value.Date:
		out.WriteString("DATE")
	case value.Time:
		out.WriteString("TIME")
	case value.Timestamp:
		out.WriteString("TIMESTAMP")
	case value.TimestampTZ:
		out.WriteString("TIMESTAMP WITH TIME ZONE")
	case value.Interval:
		out.WriteString("INTERVAL")
	case value.Uuid:
		out.WriteString("UUID")
	case value.Array:
		w.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteByte('[')
		out.WriteString(strconv.FormatUint(uint64(v.Size), 10))
		out.WriteByte(']')
	case value.List:
		w.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteString("[]")
	case value.Map, value.Json, value.Struct:
		out.WriteString("JSON")
	case nil:
		w.Logger.Error("cannot derive a column type from a nil value")
	default:
		w.Logger.Error("PostgreSQL has no column type for value kind", slog.String("kind", v.Kind().String()))
	}
}

func (w *Writer) WriteValueBlob(out *strings.Builder, ctx *writer.Context, v []byte) {
	out.WriteString(`'\x`)
	writer.WriteHex(out, v)
	out.WriteByte('\'')
}

func (w *Writer) WriteValueDate(out *strings.Builder, ctx *writer.Context, v value.Date, timestamp bool) {
	year := v.Year
	suffix := ""
	if !timestamp && year <= 0 {
		// Year zero does not exist in PostgreSQL; the proleptic year 0 is
		// 1 BC.
		if year < 0 {
			year = -year
		}
		year++
		suffix = " BC"
	}
	if !timestamp {
		out.WriteByte('\'')
	}
	writer.PrintDate(out, "", year, v.Month, v.Day)
	out.WriteString(suffix)
	if !timestamp {
		out.WriteString("'::DATE")
	}
}

func (w *Writer) WriteValueTime(out *strings.Builder, ctx *writer.Context, v value.Time, timestamp bool) {
	h, m, s, ns := v.Clock()
	if timestamp {
		writer.PrintTimer(out, "", h, m, s, ns)
		return
	}
	out.WriteByte('\'')
	writer.PrintTimer(out, "", h, m, s, ns)
	out.WriteString("'::TIME")
}

func (w *Writer) WriteValueTimestamp(out *strings.Builder, ctx *writer.Context, v time.Time) {
	out.WriteByte('\'')
	w.Dialect.WriteValueDate(out, ctx, value.DateOf(v), true)
	out.WriteByte('T')
	w.Dialect.WriteValueTime(out, ctx, value.TimeOfDay(v), true)
	if v.Year() <= 0 {
		out.WriteString(" BC")
	}
	out.WriteString("'::TIMESTAMP")
}

func (w *Writer) WriteValueTimestampTZ(out *strings.Builder, ctx *writer.Context, v time.Time) {
	out.WriteByte('\'')
	w.Dialect.WriteValueDate(out, ctx, value.DateOf(v), true)
	out.WriteByte('T')
	w.Dialect.WriteValueTime(out, ctx, value.TimeOfDay(v), true)
	writer.WriteZoneOffset(out, v)
	if v.Year() <= 0 {
		out.WriteString(" BC")
	}
	out.WriteString("'::TIMESTAMPTZ")
}

func (w *Writer) WriteValueList(out *strings.Builder, ctx *writer.Context, values []value.Value, ty, _ value.Value) {
	out.WriteString("ARRAY[")
	writer.SeparatedBy(out, values, func(out *strings.Builder, v value.Value) {
		w.Dialect.WriteValue(out, ctx, v)
	}, ",")
	out.WriteString("]::")
	w.Dialect.WriteColumnType(out, ctx, ty)
}

func (w *Writer) WritePlaceholder(out *strings.Builder, ctx *writer.Context) {
	ctx.Counter++
	out.WriteByte('$')
	out.WriteString(strconv.FormatUint(uint64(ctx.Counter), 10))
}
