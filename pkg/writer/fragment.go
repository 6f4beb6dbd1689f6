package writer

// Fragment identifies the position a writer is currently rendering into.
// Output for the same node can differ by position: a string is quoted one
// way as a SQL literal and another way inside a JSON document, a type name
// changes inside a cast, a placeholder style depends on the binding clause.
type Fragment int

const (
	FragmentNone Fragment = iota
	FragmentAliasing
	FragmentParameterBinding
	FragmentCasting
	FragmentJSON
	FragmentJSONKey
	FragmentSQLCommentOnColumn
	FragmentSQLCreateSchema
	FragmentSQLCreateTable
	FragmentSQLCreateTablePrimaryKey
	FragmentSQLCreateTableUnique
	FragmentSQLDeleteFrom
	FragmentSQLDeleteFromWhere
	FragmentSQLDropSchema
	FragmentSQLDropTable
	FragmentSQLInsertInto
	FragmentSQLInsertIntoOnConflict
	FragmentSQLInsertIntoValues
	FragmentSQLJoin
	FragmentSQLSelect
	FragmentSQLSelectFrom
	FragmentSQLSelectGroupBy
	FragmentSQLSelectHaving
	FragmentSQLSelectOrderBy
	FragmentSQLSelectWhere
	FragmentDocMatchCriteria
	FragmentDocMatchCriteriaKey
)

var fragmentNames = [...]string{
	"none",
	"aliasing",
	"parameter_binding",
	"casting",
	"json",
	"json_key",
	"sql_comment_on_column",
	"sql_create_schema",
	"sql_create_table",
	"sql_create_table_primary_key",
	"sql_create_table_unique",
	"sql_delete_from",
	"sql_delete_from_where",
	"sql_drop_schema",
	"sql_drop_table",
	"sql_insert_into",
	"sql_insert_into_on_conflict",
	"sql_insert_into_values",
	"sql_join",
	"sql_select",
	"sql_select_from",
	"sql_select_group_by",
	"sql_select_having",
	"sql_select_order_by",
	"sql_select_where",
	"doc_match_criteria",
	"doc_match_criteria_key",
}

func (f Fragment) String() string {
	if f >= 0 && int(f) < len(fragmentNames) {
		return fragmentNames[f]
	}
	return "unknown"
}
