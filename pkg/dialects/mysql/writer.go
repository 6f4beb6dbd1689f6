// Package mysql renders SQL in the MySQL and MariaDB dialect: backtick
// identifier quoting, SIGNED/UNSIGNED cast type names, arrays and maps as
// quoted JSON literals, intervals stored as TIME(6) clocks, and ON
// DUPLICATE KEY UPDATE upserts. Floats that MySQL cannot store, infinities
// and NaN, degrade to NULL with a log entry.
package mysql

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// defaultPKVarcharType caps text primary keys; MySQL cannot index an
// unbounded TEXT column.
const defaultPKVarcharType = "VARCHAR(60)"

// Keys under which columns declare a MySQL type override.
var typeKeys = []string{"mysql", "mariadb"}

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

func (w *Writer) WriteIdentifierQuoted(out *strings.Builder, ctx *writer.Context, name string) {
	out.WriteByte('`')
	writer.WriteEscaped(out, name, '`', "``")
	out.WriteByte('`')
}

func (w *Writer) WriteColumnOverriddenType(out *strings.Builder, ctx *writer.Context, col *query.ColumnDef) {
	for _, key := range typeKeys {
		if t, ok := col.TypeOverride[key]; ok {
			out.WriteString(t)
			return
		}
	}
	if _, ok := col.Value.(value.Varchar); ok && col.PrimaryKey != query.NotPrimaryKey {
		out.WriteString(defaultPKVarcharType)
	}
}

func (w *Writer) WriteColumnType(out *strings.Builder, ctx *writer.Context, v value.Value) {
	if ctx.Fragment == writer.FragmentCasting {
		switch v.(type) {
		case value.Int8, value.Int16, value.Int32, value.Int64, value.Int128:
			out.WriteString("SIGNED")
			return
		case value.Uint8, value.Uint16, value.Uint32, value.Uint64, value.Uint128:
			out.WriteString("UNSIGNED")
			return
		}
	}
	switch v := v.(type) {
	case value.Boolean:
		out.WriteString("BOOLEAN")
	case value.Int8:
		out.WriteString("TINYINT")
	case value.Int16:
		out.WriteString("SMALLINT")
	case value.Int32:
		out.WriteString("INTEGER")
	case value.Int64:
		out.WriteString("BIGINT")
	case value.Int128:
		out.WriteString("NUMERIC(39)")
	case value.Uint8:
		out.WriteString("TINYINT UNSIGNED")
	case value.Uint16:
		out.WriteString("SMALLINT UNSIGNED")
	case value.Uint32:
		out.WriteString("INTEGER UNSIGNED")
	case value.Uint64:
		out.WriteString("BIGINT UNSIGNED")
	case value.Uint128:
		out.WriteString("NUMERIC(39) UNSIGNED")
	case value.Float32:
		out.WriteString("FLOAT")
	case value.Float64:
		out.WriteString("DOUBLE")
	case value.Decimal:
		out.WriteString("DECIMAL")
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
		out.WriteString("BLOB")
	case value.Date:
		out.WriteString("DATE")
	case value.Time:
		out.WriteString("TIME(6)")
	case value.Timestamp:
		out.WriteString("DATETIME")
	case value.TimestampTZ:
		out.WriteString("DATETIME")
	case value.Interval:
		out.WriteString("TIME(6)")
	case value.Uuid:
		out.WriteString("CHAR(36)")
	case value.Array, value.List, value.Map, value.Json:
		out.WriteString("JSON")
	case nil:
		w.Logger.Error("cannot derive a column type from a nil value")
	default:
		w.Logger.Error("MySQL has no column type for value kind", slog.String("kind", v.Kind().String()))
	}
}

func (w *Writer) WriteValueInfinity(out *strings.Builder, ctx *writer.Context, negative bool) {
	w.Logger.Error("MySQL does not support float infinity values, writing NULL instead")
	w.Dialect.WriteValueNull(out, ctx)
}

func (w *Writer) WriteValueNaN(out *strings.Builder, ctx *writer.Context) {
	w.Logger.Warn("MySQL does not support float NaN values, writing NULL instead")
	w.Dialect.WriteValueNull(out, ctx)
}

func (w *Writer) WriteValueInterval(out *strings.Builder, ctx *writer.Context, v value.Interval) {
	delimiter := "'"
	if ctx.InsideJSON() {
		delimiter = `"`
	}
	h, m, s, ns := hmsns(v)
	writer.PrintTimer(out, delimiter, h, m, s, ns)
}

// hmsns folds the whole interval onto a clock, counting a month as thirty
// days. The hour component carries the sign.
func hmsns(v value.Interval) (h, m, s, ns int64) {
	total := v.Nanos + (int64(v.Days)+int64(v.Months)*30)*value.NanosInDay
	h = total / 3_600_000_000_000
	rest := total - h*3_600_000_000_000
	if rest < 0 {
		rest = -rest
	}
	m = rest / 60_000_000_000
	rest -= m * 60_000_000_000
	s = rest / 1_000_000_000
	ns = rest - s*1_000_000_000
	return h, m, s, ns
}

func (w *Writer) WriteValueList(out *strings.Builder, ctx *writer.Context, values []value.Value, _, _ value.Value) {
	isJSON := ctx.InsideJSON()
	restore := ctx.SwitchFragment(writer.FragmentJSON)
	defer restore()
	if !isJSON {
		out.WriteByte('\'')
	}
	out.WriteByte('[')
	writer.SeparatedBy(out, values, func(out *strings.Builder, v value.Value) {
		w.Dialect.WriteValue(out, ctx, v)
	}, ",")
	out.WriteByte(']')
	if !isJSON {
		out.WriteByte('\'')
	}
}

func (w *Writer) WriteValueMap(out *strings.Builder, ctx *writer.Context, v value.Map) {
	insideString := ctx.Fragment == writer.FragmentJSON
	restore := ctx.SwitchFragment(writer.FragmentJSON)
	defer restore()
	if !insideString {
		out.WriteByte('\'')
	}
	out.WriteByte('{')
	writer.SeparatedBy(out, v.Entries, func(out *strings.Builder, e value.MapEntry) {
		keyRestore := ctx.SwitchFragment(writer.FragmentJSONKey)
		w.Dialect.WriteValue(out, ctx, e.Key)
		keyRestore()
		out.WriteByte(':')
		w.Dialect.WriteValue(out, ctx, e.Value)
	}, ",")
	out.WriteByte('}')
	if !insideString {
		out.WriteByte('\'')
	}
}

func (w *Writer) WriteColumnCommentInline(out *strings.Builder, ctx *writer.Context, col *query.ColumnDef) {
	out.WriteString(" COMMENT ")
	w.Dialect.WriteValueString(out, ctx, col.Comment)
}

// WriteColumnCommentsStatements writes nothing; MySQL comments ride inline
// on the column definitions.
func (w *Writer) WriteColumnCommentsStatements(q *query.Query, table *query.TableDef) {
}

func (w *Writer) WriteInsertUpdateFragment(out *strings.Builder, ctx *writer.Context, s *query.Insert) {
	pk := s.Table.PrimaryKeyColumns()
	if len(pk) == 0 {
		return
	}
	out.WriteString("\nON DUPLICATE KEY UPDATE ")
	update := make([]*query.ColumnDef, 0, len(s.Columns))
	for i := range s.Columns {
		if s.Columns[i].PrimaryKey == query.NotPrimaryKey {
			update = append(update, &s.Columns[i])
		}
	}
	if len(update) == 0 {
		// Touching a key column keeps the statement valid when every
		// column is part of the key.
		for i := range s.Columns {
			update = append(update, &s.Columns[i])
		}
	}
	writer.SeparatedBy(out, update, func(out *strings.Builder, c *query.ColumnDef) {
		w.Dialect.WriteIdentifierQuoted(out, ctx, c.Name())
		out.WriteString(" = VALUES(")
		w.Dialect.WriteIdentifierQuoted(out, ctx, c.Name())
		out.WriteByte(')')
	}, ",\n")
}
