package query

// QueryType classifies a statement so drivers can route execution without
// parsing SQL text.
type QueryType int

const (
	QueryUnknown QueryType = iota
	QuerySelect
	QueryInsertInto
	QueryDeleteFrom
	QueryCreateTable
	QueryDropTable
	QueryCreateSchema
	QueryDropSchema
)

func (t QueryType) String() string {
	switch t {
	case QuerySelect:
		return "SELECT"
	case QueryInsertInto:
		return "INSERT INTO"
	case QueryDeleteFrom:
		return "DELETE FROM"
	case QueryCreateTable:
		return "CREATE TABLE"
	case QueryDropTable:
		return "DROP TABLE"
	case QueryCreateSchema:
		return "CREATE SCHEMA"
	case QueryDropSchema:
		return "DROP SCHEMA"
	}
	return "UNKNOWN"
}

// Returns reports whether the statement produces rows.
func (t QueryType) Returns() bool { return t == QuerySelect }

// QueryMetadata carries statement facts that survive compilation to text,
// so executors can act on them without re-parsing.
type QueryMetadata struct {
	Table TableRef
	// Limit is the row cap when the statement declared one.
	Limit *uint32
	Type  QueryType
}

// WithTable returns a copy with the table replaced.
func (m QueryMetadata) WithTable(table TableRef) QueryMetadata {
	m.Table = table
	return m
}
