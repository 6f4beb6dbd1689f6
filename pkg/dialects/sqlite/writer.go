// Package sqlite renders SQL in the SQLite dialect. Storage classes
// collapse the type map onto INTEGER, REAL, TEXT and BLOB, qualified
// references fold the schema into the table identifier, and the few
// constructs SQLite lacks, schemas and comment statements among them,
// render as nothing.
package sqlite

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// Key under which columns declare a SQLite type override.
var typeKeys = []string{"sqlite"}

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

// WriteColumnRef folds the schema and table into a single quoted prefix,
// "schema.table", since SQLite attaches databases rather than schemas.
func (w *Writer) WriteColumnRef(out *strings.Builder, ctx *writer.Context, col *expr.ColumnRef) {
	if ctx.QualifyColumns && col.Table != "" {
		out.WriteByte('"')
		if col.Schema != "" {
			writer.WriteEscaped(out, col.Schema, '"', `""`)
			out.WriteByte('.')
		}
		writer.WriteEscaped(out, col.Table, '"', `""`)
		out.WriteString(`".`)
	}
	w.Dialect.WriteIdentifier(out, ctx, col.Name, true)
}

func (w *Writer) WriteTableRef(out *strings.Builder, ctx *writer.Context, table *query.TableRef) {
	if w.Dialect.AliasDeclaration(ctx) || table.Alias == "" {
		out.WriteByte('"')
		if table.Schema != "" {
			writer.WriteEscaped(out, table.Schema, '"', `""`)
			out.WriteByte('.')
		}
		writer.WriteEscaped(out, table.Name, '"', `""`)
		out.WriteByte('"')
		if table.Alias != "" {
			out.WriteByte(' ')
			out.WriteString(table.Alias)
		}
		return
	}
	out.WriteString(table.Alias)
}

func (w *Writer) WriteColumnType(out *strings.Builder, ctx *writer.Context, v value.Value) {
	switch v := v.(type) {
	case value.Boolean, value.Int8, value.Int16, value.Int32, value.Int64,
		value.Uint8, value.Uint16, value.Uint32, value.Uint64:
		out.WriteString("INTEGER")
	case value.Float32, value.Float64:
		out.WriteString("REAL")
	case value.Decimal:
		out.WriteString("REAL")
		if v.Width != 0 || v.Scale != 0 {
			out.WriteByte('(')
			out.WriteString(strconv.FormatUint(uint64(v.Width), 10))
			out.WriteByte(',')
			out.WriteString(strconv.FormatUint(uint64(v.Scale), 10))
			out.WriteByte(')')
		}
	case value.Char, value.Varchar, value.Date, value.Time,
		value.Timestamp, value.TimestampTZ, value.Uuid:
		out.WriteString("TEXT")
	case value.Blob:
		out.WriteString("BLOB")
	case nil:
		w.Logger.Error("cannot derive a column type from a nil value")
	default:
		w.Logger.Error("SQLite has no column type for value kind", slog.String("kind", v.Kind().String()))
	}
}

// WriteValueInfinity writes 1.0e+10000, a literal that overflows into the
// IEEE infinity SQLite stores for it.
func (w *Writer) WriteValueInfinity(out *strings.Builder, ctx *writer.Context, negative bool) {
	if negative {
		out.WriteByte('-')
	}
	out.WriteString("1.0e+10000")
}

func (w *Writer) WriteValueNaN(out *strings.Builder, ctx *writer.Context) {
	w.Logger.Warn("SQLite cannot store a float NaN, writing NULL instead")
	w.Dialect.WriteValueNull(out, ctx)
}

// SQLite has no schemas; schema statements render as nothing.
func (w *Writer) WriteCreateSchema(q *query.Query, s *query.CreateSchema) {
}

func (w *Writer) WriteDropSchema(q *query.Query, s *query.DropSchema) {
}

// SQLite has no comment syntax.
func (w *Writer) WriteColumnCommentsStatements(q *query.Query, table *query.TableDef) {
}
