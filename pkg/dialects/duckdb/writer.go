// Package duckdb renders SQL in the DuckDB dialect. The portable writer
// already speaks DuckDB's type vocabulary, so the overrides are few:
// escaped blob literals, MAP display syntax, interval units floored at
// the microsecond, and epoch_ms for millisecond timestamps.
package duckdb

import (
	"log/slog"
	"strings"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// Key under which columns declare a DuckDB type override.
var typeKeys = []string{"duckdb"}

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

const hexDigits = "0123456789ABCDEF"

// WriteValueBlob writes each byte as an \xNN escape inside a string
// literal.
func (w *Writer) WriteValueBlob(out *strings.Builder, ctx *writer.Context, v []byte) {
	out.WriteByte('\'')
	for _, c := range v {
		out.WriteString(`\x`)
		out.WriteByte(hexDigits[c>>4])
		out.WriteByte(hexDigits[c&0x0f])
	}
	out.WriteByte('\'')
}

// DuckDB intervals resolve to the microsecond.
var intervalUnits = []writer.IntervalUnit{
	{Name: "DAY", Nanos: value.NanosInDay},
	{Name: "HOUR", Nanos: 3_600_000_000_000},
	{Name: "MINUTE", Nanos: 60_000_000_000},
	{Name: "SECOND", Nanos: 1_000_000_000},
	{Name: "MICROSECOND", Nanos: 1_000},
}

func (w *Writer) IntervalUnits() []writer.IntervalUnit {
	return intervalUnits
}

func (w *Writer) WriteValueMap(out *strings.Builder, ctx *writer.Context, v value.Map) {
	out.WriteString("MAP{")
	writer.SeparatedBy(out, v.Entries, func(out *strings.Builder, e value.MapEntry) {
		w.Dialect.WriteValue(out, ctx, e.Key)
		out.WriteByte(':')
		w.Dialect.WriteValue(out, ctx, e.Value)
	}, ",")
	out.WriteByte('}')
}

func (w *Writer) WriteCurrentTimestampMs(out *strings.Builder, ctx *writer.Context) {
	out.WriteString("epoch_ms(current_timestamp)")
}
