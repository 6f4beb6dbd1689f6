package query

import "github.com/TankHQ/tank/pkg/value"

// RowNames is an ordered set of column labels, shared across every row of
// a result set.
type RowNames []string

// Index returns the position of the named label, or -1.
func (n RowNames) Index(name string) int {
	for i, label := range n {
		if label == name {
			return i
		}
	}
	return -1
}

// Row is one tuple of values in label order.
type Row []value.Value

// RowLabeled pairs a row with its shared labels.
type RowLabeled struct {
	Labels RowNames
	Values Row
}

// Column returns the value under the given label. The second return is
// false when the label is absent.
func (r *RowLabeled) Column(name string) (value.Value, bool) {
	i := r.Labels.Index(name)
	if i < 0 || i >= len(r.Values) {
		return nil, false
	}
	return r.Values[i], true
}

// RowsAffected reports the side effects of a write statement. Fields are
// nil when the backend did not report them.
type RowsAffected struct {
	Rows         *uint64
	LastInsertID *int64
}

// Merge folds another result into this one. Row counts add when either
// side reports one; the latest insert id wins.
func (r *RowsAffected) Merge(other RowsAffected) {
	if other.Rows != nil {
		total := *other.Rows
		if r.Rows != nil {
			total += *r.Rows
		}
		r.Rows = &total
	}
	if other.LastInsertID != nil {
		id := *other.LastInsertID
		r.LastInsertID = &id
	}
}

// QueryResult is one unit of statement output: either a labeled row or an
// affected-rows report.
type QueryResult interface {
	queryResult()
}

func (RowLabeled) queryResult()   {}
func (RowsAffected) queryResult() {}
