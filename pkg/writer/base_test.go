package writer

import (
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
)

func renderStatement(t *testing.T, s query.Statement) string {
	t.Helper()
	w := NewGeneric(nil)
	q := query.NewQuery()
	WriteStatement(w, q, s)
	return q.String()
}

func renderExpression(e expr.Expression) string {
	w := NewGeneric(nil)
	var out strings.Builder
	w.WriteExpression(&out, FragmentContext(FragmentSQLSelectWhere), e)
	return out.String()
}

func renderValue(v value.Value) string {
	w := NewGeneric(nil)
	var out strings.Builder
	w.WriteValue(&out, FragmentContext(FragmentSQLInsertIntoValues), v)
	return out.String()
}

func TestWriteSelect(t *testing.T) {
	limit := func(n uint32) *uint32 { return &n }
	tests := []struct {
		name     string
		stmt     *query.Select
		expected string
	}{
		{
			name: "filtered and limited",
			stmt: &query.Select{
				Columns: []expr.Expression{expr.Ident("the_column"), expr.Ident("second_column")},
				From:    query.TableRef{Name: "my_table", Schema: "my_schema"},
				Where: expr.Or(
					expr.Like(expr.Ident("second_column"), expr.Str("So%")),
					expr.And(
						expr.Ge(expr.Ident("the_column"), expr.Int(0)),
						expr.Lt(expr.Ident("the_column"), expr.Int(10)),
					),
				),
				Limit: limit(100),
			},
			expected: "SELECT \"the_column\", \"second_column\"\n" +
				"FROM \"my_schema\".\"my_table\"\n" +
				"WHERE \"second_column\" LIKE 'So%' OR \"the_column\" >= 0 AND \"the_column\" < 10\n" +
				"LIMIT 100;",
		},
		{
			name: "no columns renders star",
			stmt: &query.Select{
				From: query.TableRef{Name: "empty_entity"},
			},
			expected: "SELECT *\nFROM \"empty_entity\";",
		},
		{
			name: "true condition is dropped",
			stmt: &query.Select{
				Columns: []expr.Expression{expr.Ident("id")},
				From:    query.TableRef{Name: "users"},
				Where:   expr.Bool(true),
			},
			expected: "SELECT \"id\"\nFROM \"users\";",
		},
		{
			name: "group having order",
			stmt: &query.Select{
				Columns: []expr.Expression{
					expr.Ident("city"),
					expr.Alias(expr.Call("COUNT", expr.Asterisk()), "n"),
				},
				From:    query.TableRef{Name: "users"},
				GroupBy: []expr.Expression{expr.Ident("city")},
				Having:  expr.Gt(expr.Call("COUNT", expr.Asterisk()), expr.Int(5)),
				OrderBy: []expr.Expression{expr.Descending(expr.Ident("n"))},
			},
			expected: "SELECT \"city\", COUNT(*) AS \"n\"\n" +
				"FROM \"users\"\n" +
				"GROUP BY \"city\"\n" +
				"HAVING COUNT(*) > 5\n" +
				"ORDER BY \"n\" DESC;",
		},
		{
			name: "qualified columns",
			stmt: &query.Select{
				Columns: []expr.Expression{expr.Field("trade", "id"), expr.Field("trade", "price")},
				From:    query.TableRef{Name: "trade", Schema: "finance"},
				Qualify: true,
			},
			expected: "SELECT \"trade\".\"id\", \"trade\".\"price\"\n" +
				"FROM \"finance\".\"trade\";",
		},
		{
			name: "aliased source declares the alias",
			stmt: &query.Select{
				Columns: []expr.Expression{expr.Ident("id")},
				From:    query.TableRef{Name: "trade", Schema: "finance", Alias: "t"},
			},
			expected: "SELECT \"id\"\nFROM \"finance\".\"trade\" t;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderStatement(t, tt.stmt))
		})
	}
}

func TestWriteSelectMetadata(t *testing.T) {
	w := NewGeneric(nil)
	q := query.NewQuery()
	stmt := query.NewSelect(expr.Ident("id")).
		WithFrom(query.TableRef{Name: "users"}).
		WithLimit(7)
	w.WriteSelect(q, stmt)

	assert.Equal(t, query.QuerySelect, q.Metadata().Type)
	assert.Equal(t, "users", q.Table().Name)
	require.NotNil(t, q.Limit())
	assert.Equal(t, uint32(7), *q.Limit())
}

func TestWriteInsert(t *testing.T) {
	users := query.TableDef{
		Ref: query.TableRef{Name: "users"},
		Columns: []query.ColumnDef{
			{Ref: expr.ColumnRef{Name: "id", Table: "users"}, Value: value.Int64{}, PrimaryKey: query.PrimaryKey},
			{Ref: expr.ColumnRef{Name: "name", Table: "users"}, Value: value.Varchar{}},
		},
	}

	t.Run("multiple rows", func(t *testing.T) {
		ins := query.NewInsert(users).
			WithColumns(users.Columns...).
			WithRow(value.Int64{Int64: 1, Valid: true}, value.Varchar{String: "Ada", Valid: true}).
			WithRow(value.Int64{Int64: 2, Valid: true}, value.Varchar{String: "Brian", Valid: true})
		expected := "INSERT INTO \"users\" (\"id\", \"name\") VALUES\n" +
			"(1, 'Ada'),\n" +
			"(2, 'Brian');"
		assert.Equal(t, expected, renderStatement(t, ins))
	})

	t.Run("no columns", func(t *testing.T) {
		empty := query.TableDef{Ref: query.TableRef{Name: "empty_entity"}}
		ins := query.NewInsert(empty).WithRow()
		assert.Equal(t, "INSERT INTO \"empty_entity\" () VALUES\n();", renderStatement(t, ins))
	})

	t.Run("missing trailing values become null", func(t *testing.T) {
		ins := query.NewInsert(users).
			WithColumns(users.Columns...).
			WithRow(value.Int64{Int64: 3, Valid: true})
		expected := "INSERT INTO \"users\" (\"id\", \"name\") VALUES\n(3, NULL);"
		assert.Equal(t, expected, renderStatement(t, ins))
	})

	t.Run("passive column without values is skipped", func(t *testing.T) {
		serial := query.TableDef{
			Ref: query.TableRef{Name: "events"},
			Columns: []query.ColumnDef{
				{Ref: expr.ColumnRef{Name: "id", Table: "events"}, Value: value.Int64{}, PrimaryKey: query.PrimaryKey, Passive: true},
				{Ref: expr.ColumnRef{Name: "kind", Table: "events"}, Value: value.Varchar{}},
			},
		}
		ins := query.NewInsert(serial).
			WithColumns(serial.Columns...).
			WithRow(value.Null{}, value.Varchar{String: "click", Valid: true})
		assert.Equal(t, "INSERT INTO \"events\" (\"kind\") VALUES\n('click');", renderStatement(t, ins))
	})

	t.Run("passive column with a value is kept", func(t *testing.T) {
		serial := query.TableDef{
			Ref: query.TableRef{Name: "events"},
			Columns: []query.ColumnDef{
				{Ref: expr.ColumnRef{Name: "id", Table: "events"}, Value: value.Int64{}, PrimaryKey: query.PrimaryKey, Passive: true},
				{Ref: expr.ColumnRef{Name: "kind", Table: "events"}, Value: value.Varchar{}},
			},
		}
		ins := query.NewInsert(serial).
			WithColumns(serial.Columns...).
			WithRow(value.Int64{Int64: 9, Valid: true}, value.Varchar{String: "click", Valid: true})
		assert.Equal(t, "INSERT INTO \"events\" (\"id\", \"kind\") VALUES\n(9, 'click');", renderStatement(t, ins))
	})
}

func TestWriteInsertUpsert(t *testing.T) {
	counters := query.TableDef{
		Ref: query.TableRef{Name: "counters"},
		Columns: []query.ColumnDef{
			{Ref: expr.ColumnRef{Name: "key", Table: "counters"}, Value: value.Varchar{}, PrimaryKey: query.PrimaryKey},
			{Ref: expr.ColumnRef{Name: "hits", Table: "counters"}, Value: value.Int64{}},
		},
	}

	t.Run("do update set", func(t *testing.T) {
		ins := query.NewInsert(counters).
			WithColumns(counters.Columns...).
			WithRow(value.Varchar{String: "home", Valid: true}, value.Int64{Int64: 1, Valid: true}).
			WithUpdate()
		expected := "INSERT INTO \"counters\" (\"key\", \"hits\") VALUES\n" +
			"('home', 1)\n" +
			"ON CONFLICT (\"key\") DO UPDATE SET \"hits\" = EXCLUDED.\"hits\";"
		assert.Equal(t, expected, renderStatement(t, ins))
	})

	t.Run("key only does nothing", func(t *testing.T) {
		keys := query.TableDef{
			Ref: query.TableRef{Name: "seen"},
			Columns: []query.ColumnDef{
				{Ref: expr.ColumnRef{Name: "id", Table: "seen"}, Value: value.Uuid{}, PrimaryKey: query.PrimaryKey},
			},
		}
		ins := query.NewInsert(keys).
			WithColumns(keys.Columns...).
			WithRow(value.Uuid{UUID: uuid.MustParse("67e55044-10b1-426f-9247-bb680e5fe0c8"), Valid: true}).
			WithUpdate()
		expected := "INSERT INTO \"seen\" (\"id\") VALUES\n" +
			"('67e55044-10b1-426f-9247-bb680e5fe0c8')\n" +
			"ON CONFLICT (\"id\") DO NOTHING;"
		assert.Equal(t, expected, renderStatement(t, ins))
	})

	t.Run("no primary key skips the clause", func(t *testing.T) {
		plain := query.TableDef{
			Ref: query.TableRef{Name: "log"},
			Columns: []query.ColumnDef{
				{Ref: expr.ColumnRef{Name: "line", Table: "log"}, Value: value.Varchar{}},
			},
		}
		ins := query.NewInsert(plain).
			WithColumns(plain.Columns...).
			WithRow(value.Varchar{String: "boot", Valid: true}).
			WithUpdate()
		assert.Equal(t, "INSERT INTO \"log\" (\"line\") VALUES\n('boot');", renderStatement(t, ins))
	})
}

func TestWriteDelete(t *testing.T) {
	tests := []struct {
		name     string
		stmt     *query.Delete
		expected string
	}{
		{
			name:     "false condition is written",
			stmt:     query.NewDelete(query.TableRef{Name: "empty_entity"}).WithWhere(expr.Bool(false)),
			expected: "DELETE FROM \"empty_entity\"\nWHERE false;",
		},
		{
			name:     "true condition deletes everything",
			stmt:     query.NewDelete(query.TableRef{Name: "users"}).WithWhere(expr.Bool(true)),
			expected: "DELETE FROM \"users\";",
		},
		{
			name:     "no condition",
			stmt:     query.NewDelete(query.TableRef{Name: "users", Schema: "app"}),
			expected: "DELETE FROM \"app\".\"users\";",
		},
		{
			name: "comparison",
			stmt: query.NewDelete(query.TableRef{Name: "users"}).
				WithWhere(expr.Eq(expr.Ident("id"), expr.Int(7))),
			expected: "DELETE FROM \"users\"\nWHERE \"id\" = 7;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderStatement(t, tt.stmt))
		})
	}
}

func TestWriteCreateTable(t *testing.T) {
	t.Run("no columns", func(t *testing.T) {
		stmt := &query.CreateTable{
			Table:       query.TableDef{Ref: query.TableRef{Name: "empty_entity"}},
			IfNotExists: true,
		}
		assert.Equal(t, "CREATE TABLE IF NOT EXISTS \"empty_entity\" (\n);", renderStatement(t, stmt))
	})

	t.Run("columns and constraints", func(t *testing.T) {
		stmt := &query.CreateTable{
			Table: query.TableDef{
				Ref: query.TableRef{Name: "trade", Schema: "finance"},
				Columns: []query.ColumnDef{
					{
						Ref:        expr.ColumnRef{Name: "id", Table: "trade"},
						Value:      value.Int64{},
						PrimaryKey: query.PrimaryKey,
					},
					{
						Ref:      expr.ColumnRef{Name: "label", Table: "trade"},
						Value:    value.Varchar{},
						Nullable: true,
						Unique:   true,
					},
					{
						Ref:   expr.ColumnRef{Name: "price", Table: "trade"},
						Value: value.Decimal{Width: 10, Scale: 2},
					},
					{
						Ref:     expr.ColumnRef{Name: "lots", Table: "trade"},
						Value:   value.Int32{},
						Default: expr.Int(1),
					},
					{
						Ref:        expr.ColumnRef{Name: "book_id", Table: "trade"},
						Value:      value.Int64{},
						References: &expr.ColumnRef{Name: "id", Table: "book"},
						OnDelete:   query.ActionCascade,
					},
				},
			},
		}
		expected := "CREATE TABLE \"finance\".\"trade\" (\n" +
			"\"id\" BIGINT NOT NULL PRIMARY KEY,\n" +
			"\"label\" VARCHAR UNIQUE,\n" +
			"\"price\" DECIMAL(10,2) NOT NULL,\n" +
			"\"lots\" INTEGER NOT NULL DEFAULT 1,\n" +
			"\"book_id\" BIGINT NOT NULL REFERENCES \"book\"(\"id\") ON DELETE CASCADE\n" +
			");"
		assert.Equal(t, expected, renderStatement(t, stmt))
	})

	t.Run("composite primary key", func(t *testing.T) {
		stmt := &query.CreateTable{
			Table: query.TableDef{
				Ref: query.TableRef{Name: "pairs"},
				Columns: []query.ColumnDef{
					{Ref: expr.ColumnRef{Name: "a", Table: "pairs"}, Value: value.Int32{}, PrimaryKey: query.PartOfPrimaryKey},
					{Ref: expr.ColumnRef{Name: "b", Table: "pairs"}, Value: value.Int32{}, PrimaryKey: query.PartOfPrimaryKey},
					{Ref: expr.ColumnRef{Name: "tag", Table: "pairs"}, Value: value.Varchar{}, Nullable: true},
				},
				UniqueSets: [][]string{{"tag"}},
			},
		}
		expected := "CREATE TABLE \"pairs\" (\n" +
			"\"a\" INTEGER NOT NULL,\n" +
			"\"b\" INTEGER NOT NULL,\n" +
			"\"tag\" VARCHAR,\n" +
			"PRIMARY KEY (\"a\", \"b\"),\n" +
			"UNIQUE (\"tag\")\n" +
			");"
		assert.Equal(t, expected, renderStatement(t, stmt))
	})

	t.Run("comments become statements", func(t *testing.T) {
		stmt := &query.CreateTable{
			Table: query.TableDef{
				Ref:     query.TableRef{Name: "trade", Schema: "finance"},
				Comment: "executed trades",
				Columns: []query.ColumnDef{
					{
						Ref:     expr.ColumnRef{Name: "label", Table: "trade"},
						Value:   value.Varchar{},
						Comment: "display label",
					},
				},
			},
		}
		expected := "CREATE TABLE \"finance\".\"trade\" (\n" +
			"\"label\" VARCHAR NOT NULL\n" +
			");\n" +
			"COMMENT ON TABLE \"finance\".\"trade\" IS 'executed trades';\n" +
			"COMMENT ON COLUMN \"finance\".\"trade\".\"label\" IS 'display label';"
		assert.Equal(t, expected, renderStatement(t, stmt))
	})
}

func TestWriteDropTable(t *testing.T) {
	stmt := &query.DropTable{Table: query.TableRef{Name: "empty_entity"}, IfExists: true}
	assert.Equal(t, "DROP TABLE IF EXISTS \"empty_entity\";", renderStatement(t, stmt))

	stmt = &query.DropTable{Table: query.TableRef{Name: "trade", Schema: "finance"}}
	assert.Equal(t, "DROP TABLE \"finance\".\"trade\";", renderStatement(t, stmt))
}

func TestWriteSchemas(t *testing.T) {
	create := &query.CreateSchema{Schema: "finance", IfNotExists: true}
	assert.Equal(t, "CREATE SCHEMA IF NOT EXISTS \"finance\";", renderStatement(t, create))

	drop := &query.DropSchema{Schema: "finance", IfExists: true}
	assert.Equal(t, "DROP SCHEMA IF EXISTS \"finance\";", renderStatement(t, drop))
}

func TestStatementsSeparatedByNewline(t *testing.T) {
	w := NewGeneric(nil)
	q := query.NewQuery()
	w.WriteDropTable(q, &query.DropTable{Table: query.TableRef{Name: "t"}, IfExists: true})
	w.WriteCreateTable(q, &query.CreateTable{Table: query.TableDef{Ref: query.TableRef{Name: "t"}}})
	assert.Equal(t, "DROP TABLE IF EXISTS \"t\";\nCREATE TABLE \"t\" (\n);", q.String())
}

func TestWriteExpressionPrecedence(t *testing.T) {
	a := expr.Ident("a")
	b := expr.Ident("b")
	c := expr.Ident("c")
	tests := []struct {
		name     string
		e        expr.Expression
		expected string
	}{
		{
			name:     "and binds tighter than or",
			e:        expr.Or(a, expr.And(b, c)),
			expected: `"a" OR "b" AND "c"`,
		},
		{
			name:     "or under and is parenthesized",
			e:        expr.And(expr.Or(a, b), c),
			expected: `("a" OR "b") AND "c"`,
		},
		{
			name:     "not over and",
			e:        expr.Not(expr.And(a, b)),
			expected: `NOT ("a" AND "b")`,
		},
		{
			name:     "not over comparison",
			e:        expr.Not(expr.Eq(a, b)),
			expected: `NOT "a" = "b"`,
		},
		{
			name:     "double negation stays split",
			e:        expr.Neg(expr.Neg(a)),
			expected: `-(-"a")`,
		},
		{
			name:     "negated sum",
			e:        expr.Neg(expr.Add(a, b)),
			expected: `-("a" + "b")`,
		},
		{
			name:     "left subtraction chain",
			e:        expr.Sub(expr.Sub(a, b), c),
			expected: `"a" - "b" - "c"`,
		},
		{
			name:     "right subtraction needs parentheses",
			e:        expr.Sub(a, expr.Sub(b, c)),
			expected: `"a" - ("b" - "c")`,
		},
		{
			name:     "right addition chains bare",
			e:        expr.Add(a, expr.Add(b, c)),
			expected: `"a" + "b" + "c"`,
		},
		{
			name:     "sum under product",
			e:        expr.Mul(expr.Add(a, b), c),
			expected: `("a" + "b") * "c"`,
		},
		{
			name:     "product under sum",
			e:        expr.Add(expr.Mul(a, b), c),
			expected: `"a" * "b" + "c"`,
		},
		{
			name:     "shift under bitwise and",
			e:        expr.BitAnd(expr.Shl(a, expr.Int(2)), b),
			expected: `"a" << 2 & "b"`,
		},
		{
			name:     "comparison operands",
			e:        expr.Ge(expr.Add(a, b), expr.Int(0)),
			expected: `"a" + "b" >= 0`,
		},
		{
			name:     "in tuple",
			e:        expr.In(a, expr.Tuple(expr.Int(1), expr.Int(2))),
			expected: `"a" IN (1, 2)`,
		},
		{
			name:     "is not null",
			e:        expr.IsNot(a, expr.Null()),
			expected: `"a" IS NOT NULL`,
		},
		{
			name:     "cast to type",
			e:        expr.Cast(a, value.Varchar{}),
			expected: `CAST("a" AS VARCHAR)`,
		},
		{
			name:     "indexing",
			e:        expr.Index(expr.Ident("tags"), expr.Int(0)),
			expected: `"tags"[0]`,
		},
		{
			name:     "alias keeps the expression bare",
			e:        expr.Alias(expr.Add(a, b), "s"),
			expected: `"a" + "b" AS "s"`,
		},
		{
			name:     "array literal",
			e:        expr.ArrayOf(expr.Int(1), expr.Int(2), expr.Int(3)),
			expected: `[1, 2, 3]`,
		},
		{
			name:     "call with mixed arguments",
			e:        expr.Call("ROUND", expr.Ident("price"), expr.Int(2)),
			expected: `ROUND("price", 2)`,
		},
		{
			name:     "float literal keeps a point",
			e:        expr.Sub(expr.Ident("total price"), expr.Float(100)),
			expected: `"total price" - 100.0`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderExpression(tt.e))
		})
	}
}

func TestWriteExpressionUnquotedLabels(t *testing.T) {
	// The empty context renders expressions as plain labels, the form used
	// to key aggregation results.
	w := NewGeneric(nil)
	var out strings.Builder
	e := expr.Call("MAX", expr.Call("ABS", expr.Sub(expr.Ident("total price"), expr.Float(100))))
	w.WriteExpression(&out, EmptyContext(), e)
	assert.Equal(t, "MAX(ABS(total price - 100.0))", out.String())
}

func TestWriteColumnRefQualification(t *testing.T) {
	w := NewGeneric(nil)
	ref := expr.ColumnRef{Name: "id", Table: "trade", Schema: "finance"}

	var out strings.Builder
	w.WriteColumnRef(&out, QualifyContext(true), &ref)
	assert.Equal(t, `"finance"."trade"."id"`, out.String())

	out.Reset()
	w.WriteColumnRef(&out, QualifyContext(false), &ref)
	assert.Equal(t, `"id"`, out.String())

	out.Reset()
	bare := expr.ColumnRef{Name: "id"}
	w.WriteColumnRef(&out, QualifyContext(true), &bare)
	assert.Equal(t, `"id"`, out.String())
}

func TestWriteTableRefAlias(t *testing.T) {
	w := NewGeneric(nil)
	table := query.TableRef{Name: "trade", Schema: "finance", Alias: "t"}

	// Declaring positions spell out the table and attach the alias.
	var out strings.Builder
	w.WriteTableRef(&out, FragmentContext(FragmentSQLSelectFrom), &table)
	assert.Equal(t, `"finance"."trade" t`, out.String())

	// Referring positions use the alias alone.
	out.Reset()
	w.WriteTableRef(&out, FragmentContext(FragmentSQLSelectWhere), &table)
	assert.Equal(t, "t", out.String())
}

func TestWriteIdentifierQuoting(t *testing.T) {
	w := NewGeneric(nil)

	var out strings.Builder
	w.WriteIdentifier(&out, FragmentContext(FragmentSQLSelect), `weird"name`, true)
	assert.Equal(t, `"weird""name"`, out.String())

	out.Reset()
	w.WriteIdentifier(&out, EmptyContext(), `weird"name`, true)
	assert.Equal(t, `weird"name`, out.String())

	out.Reset()
	w.WriteIdentifier(&out, FragmentContext(FragmentSQLSelect), "alias", false)
	assert.Equal(t, "alias", out.String())
}

func TestWritePlaceholder(t *testing.T) {
	w := NewGeneric(nil)
	var out strings.Builder
	ctx := FragmentContext(FragmentSQLSelectWhere)
	w.WriteExpression(&out, ctx, expr.And(
		expr.Eq(expr.Ident("a"), expr.QuestionMark()),
		expr.Eq(expr.Ident("b"), expr.QuestionMark()),
	))
	assert.Equal(t, `"a" = ? AND "b" = ?`, out.String())
	assert.Equal(t, uint32(2), ctx.Counter)
}

func TestWriteValues(t *testing.T) {
	bigPositive, ok := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	require.True(t, ok)
	tests := []struct {
		name     string
		v        value.Value
		expected string
	}{
		{"bool", value.Boolean{Bool: true, Valid: true}, "true"},
		{"int", value.Int32{Int32: -7, Valid: true}, "-7"},
		{"uint", value.Uint64{Uint64: 18446744073709551615, Valid: true}, "18446744073709551615"},
		{"int128", value.Int128{Big: bigPositive, Valid: true}, "170141183460469231731687303715884105727"},
		{"float keeps a point", value.Float64{Float64: 100, Valid: true}, "100.0"},
		{"float fraction", value.Float32{Float32: 0.25, Valid: true}, "0.25"},
		{"positive infinity", value.Float64{Float64: math.Inf(1), Valid: true}, "'Infinity'"},
		{"negative infinity", value.Float32{Float32: float32(math.Inf(-1)), Valid: true}, "'-Infinity'"},
		{"nan", value.Float64{Float64: math.NaN(), Valid: true}, "'NaN'"},
		{"decimal", value.Decimal{Decimal: decimal.RequireFromString("12.34"), Width: 10, Scale: 2, Valid: true}, "12.34"},
		{"char", value.Char{Char: 'A', Valid: true}, "'A'"},
		{"string quote doubling", value.Varchar{String: "it's", Valid: true}, "'it''s'"},
		{"blob", value.Blob{Bytes: []byte{0xca, 0xfe}, Valid: true}, "X'CAFE'"},
		{"date", value.Date{Year: 2024, Month: 3, Day: 9, Valid: true}, "'2024-03-09'"},
		{"time", value.Time{Duration: 14*time.Hour + 30*time.Minute, Valid: true}, "'14:30:00.0'"},
		{
			"timestamp",
			value.Timestamp{Time: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC), Valid: true},
			"'2024-03-09 14:30:00.0'",
		},
		{
			"timestamp with zone",
			value.TimestampTZ{Time: time.Date(2024, 3, 9, 14, 30, 0, 0, time.FixedZone("", 2*3600)), Valid: true},
			"'2024-03-09 14:30:00.0+02:00'",
		},
		{"uuid", value.Uuid{UUID: uuid.MustParse("67e55044-10b1-426f-9247-bb680e5fe0c8"), Valid: true}, "'67e55044-10b1-426f-9247-bb680e5fe0c8'"},
		{
			"list",
			value.List{
				Values: []value.Value{value.Int32{Int32: 1, Valid: true}, value.Int32{Int32: 2, Valid: true}},
				Elem:   value.Int32{},
				Valid:  true,
			},
			"[1,2]",
		},
		{
			"map",
			value.Map{
				Entries: []value.MapEntry{{
					Key:   value.Varchar{String: "a", Valid: true},
					Value: value.Int32{Int32: 1, Valid: true},
				}},
				Key:   value.Varchar{},
				Elem:  value.Int32{},
				Valid: true,
			},
			"{'a':1}",
		},
		{
			"struct as json document",
			value.Struct{
				Name:   "point",
				Fields: []value.StructField{{Name: "x", Value: value.Int32{Int32: 1, Valid: true}}},
				Valid:  true,
			},
			`'{"x":1}'`,
		},
		{
			"json document",
			value.Json{Data: map[string]any{"k": "v"}, Valid: true},
			`'{"k":"v"}'`,
		},
		{"null", value.Null{}, "NULL"},
		{"invalid value is null", value.Int64{}, "NULL"},
		{"unknown passes through", value.Unknown{String: "DEFAULT", Valid: true}, "DEFAULT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderValue(tt.v))
		})
	}
}

func TestWriteValueInterval(t *testing.T) {
	tests := []struct {
		name     string
		v        value.Interval
		expected string
	}{
		{"zero", value.Interval{Valid: true}, "INTERVAL '0 SECOND'"},
		{"months", value.Interval{Months: 14, Valid: true}, "INTERVAL '14 MONTH'"},
		{"whole days", value.Interval{Days: 3, Valid: true}, "INTERVAL '3 DAY'"},
		{
			// A day plus an hour does not divide a day, so the total
			// collapses into the hour unit.
			"day and hour collapse to hours",
			value.Interval{Days: 1, Nanos: int64(time.Hour), Valid: true},
			"INTERVAL '25 HOUR'",
		},
		{"milliseconds", value.Interval{Nanos: 90 * int64(time.Millisecond), Valid: true}, "INTERVAL '90 MILLISECOND'"},
		{"nanoseconds", value.Interval{Nanos: 1500, Valid: true}, "INTERVAL '1500 NANOSECOND'"},
		{
			"months and clock part",
			value.Interval{Months: 2, Nanos: 30 * int64(time.Minute), Valid: true},
			"INTERVAL '2 MONTH 30 MINUTE'",
		},
		{"negative minutes", value.Interval{Nanos: -90 * int64(time.Minute), Valid: true}, "INTERVAL '-90 MINUTE'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderValue(tt.v))
		})
	}
}

func TestWriteValueInsideJSON(t *testing.T) {
	w := NewGeneric(nil)
	ctx := FragmentContext(FragmentJSON)

	var out strings.Builder
	w.WriteValue(&out, ctx, value.Varchar{String: `say "hi"`, Valid: true})
	assert.Equal(t, `"say \"hi\""`, out.String())

	out.Reset()
	w.WriteValue(&out, ctx, value.Null{})
	assert.Equal(t, "null", out.String())

	out.Reset()
	w.WriteValue(&out, ctx, value.Date{Year: 2024, Month: 3, Day: 9, Valid: true})
	assert.Equal(t, `"2024-03-09"`, out.String())
}

func TestWriteColumnTypes(t *testing.T) {
	w := NewGeneric(nil)
	render := func(v value.Value) string {
		var out strings.Builder
		w.WriteColumnType(&out, FragmentContext(FragmentSQLCreateTable), v)
		return out.String()
	}

	assert.Equal(t, "BOOLEAN", render(value.Boolean{}))
	assert.Equal(t, "TINYINT", render(value.Int8{}))
	assert.Equal(t, "HUGEINT", render(value.Int128{}))
	assert.Equal(t, "UBIGINT", render(value.Uint64{}))
	assert.Equal(t, "DOUBLE", render(value.Float64{}))
	assert.Equal(t, "DECIMAL(10,2)", render(value.Decimal{Width: 10, Scale: 2}))
	assert.Equal(t, "DECIMAL", render(value.Decimal{}))
	assert.Equal(t, "VARCHAR", render(value.Varchar{}))
	assert.Equal(t, "TIMESTAMP WITH TIME ZONE", render(value.TimestampTZ{}))
	assert.Equal(t, "INTEGER[4]", render(value.Array{Elem: value.Int32{}, Size: 4}))
	assert.Equal(t, "VARCHAR[]", render(value.List{Elem: value.Varchar{}}))
	assert.Equal(t, "MAP(VARCHAR, BIGINT)", render(value.Map{Key: value.Varchar{}, Elem: value.Int64{}}))
	assert.Equal(t, `STRUCT("x" DOUBLE, "y" DOUBLE)`, render(value.Struct{Fields: []value.StructField{
		{Name: "x", Value: value.Float64{}},
		{Name: "y", Value: value.Float64{}},
	}}))
	assert.Equal(t, "JSON", render(value.Json{}))
}

func TestWriteCurrentTimestampMs(t *testing.T) {
	assert.Equal(t,
		"(EXTRACT(EPOCH FROM CURRENT_TIMESTAMP) * 1000)",
		renderExpression(expr.CurrentTimestampMs()))
}
