package query

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/TankHQ/tank/pkg/value"
)

// ErrRawBind is returned when bindings are applied to a query that only
// carries SQL text.
var ErrRawBind = errors.New("cannot bind a raw query")

// Query is a compiled statement: either raw SQL text under construction or
// a prepared statement with bindings. Writers append text through Buffer;
// appending to a prepared query discards the prepared form.
type Query struct {
	buf      strings.Builder
	meta     QueryMetadata
	prepared Prepared
	log      *slog.Logger
}

// NewQuery returns an empty raw query.
func NewQuery() *Query { return &Query{} }

// NewRawQuery returns a query holding the given SQL text.
func NewRawQuery(sql string, meta QueryMetadata) *Query {
	q := &Query{meta: meta}
	q.buf.WriteString(sql)
	return q
}

// NewPreparedQuery wraps a prepared statement.
func NewPreparedQuery(p Prepared) *Query {
	return &Query{prepared: p}
}

// WithLogger sets the logger used to report misuse. A nil logger selects
// the process default.
func (q *Query) WithLogger(log *slog.Logger) *Query {
	q.log = log
	return q
}

func (q *Query) logger() *slog.Logger {
	if q.log != nil {
		return q.log
	}
	return slog.Default()
}

// IsPrepared reports whether the query carries a prepared statement.
func (q *Query) IsPrepared() bool { return q.prepared != nil }

// Prepared returns the prepared statement, or nil for a raw query.
func (q *Query) Prepared() Prepared { return q.prepared }

// Buffer returns the SQL text buffer. Calling it on a prepared query is a
// compile bug: the prepared form is dropped, an error is logged, and an
// empty raw buffer is returned so rendering can proceed.
func (q *Query) Buffer() *strings.Builder {
	if q.prepared != nil {
		q.logger().Error("writing SQL text over a prepared query, discarding the prepared statement")
		q.meta = *q.prepared.Metadata()
		q.prepared = nil
		q.buf.Reset()
	}
	return &q.buf
}

// WriteString appends to the SQL text buffer.
func (q *Query) WriteString(s string) { q.Buffer().WriteString(s) }

// WriteByte appends a single byte to the SQL text buffer.
func (q *Query) WriteByte(b byte) { q.Buffer().WriteByte(b) }

// WriteRune appends a rune to the SQL text buffer.
func (q *Query) WriteRune(r rune) { q.Buffer().WriteRune(r) }

// String returns the SQL text. Prepared queries have no text.
func (q *Query) String() string {
	if q.prepared != nil {
		return ""
	}
	return q.buf.String()
}

// Len returns the SQL text length in bytes.
func (q *Query) Len() int {
	if q.prepared != nil {
		return 0
	}
	return q.buf.Len()
}

// Metadata returns the statement facts for reading or mutation. For a
// prepared query this is the prepared statement's metadata.
func (q *Query) Metadata() *QueryMetadata {
	if q.prepared != nil {
		return q.prepared.Metadata()
	}
	return &q.meta
}

// Limit returns the declared row cap, or nil.
func (q *Query) Limit() *uint32 { return q.Metadata().Limit }

// Table returns the table the statement targets.
func (q *Query) Table() TableRef { return q.Metadata().Table }

// WithTable replaces the target table.
func (q *Query) WithTable(table TableRef) *Query {
	q.Metadata().Table = table
	return q
}

// Bind converts each argument with value.Of and appends it to the next
// free slots. Raw queries cannot hold bindings.
func (q *Query) Bind(args ...any) error {
	if q.prepared == nil {
		return ErrRawBind
	}
	for _, arg := range args {
		q.prepared.Bind(value.Of(arg))
	}
	return nil
}

// BindAt sets the zero-based binding slot. Raw queries cannot hold
// bindings.
func (q *Query) BindAt(index uint64, arg any) error {
	if q.prepared == nil {
		return ErrRawBind
	}
	q.prepared.BindAt(index, value.Of(arg))
	return nil
}

// ClearBindings drops every bound value. Raw queries cannot hold
// bindings.
func (q *Query) ClearBindings() error {
	if q.prepared == nil {
		return ErrRawBind
	}
	q.prepared.ClearBindings()
	return nil
}
