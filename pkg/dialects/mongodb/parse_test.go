package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
)

func TestParseVerb(t *testing.T) {
	verbs := []Verb{
		VerbFind, VerbAggregate, VerbInsert, VerbUpsert, VerbDelete,
		VerbCreateCollection, VerbDropCollection, VerbCreateDatabase, VerbDropDatabase,
	}
	for _, v := range verbs {
		got, ok := ParseVerb(v.String())
		require.True(t, ok, v.String())
		assert.Equal(t, v, got)
	}

	_, ok := ParseVerb("EXPLAIN")
	assert.False(t, ok)
}

func TestParseScriptRoundTrip(t *testing.T) {
	w := New(nil)
	q := query.NewQuery()
	w.WriteCreateSchema(q, &query.CreateSchema{Schema: "app"})
	w.WriteCreateTable(q, &query.CreateTable{Table: query.TableDef{Ref: query.NewTableRef("users")}})
	w.WriteDelete(q, query.NewDelete(query.NewTableRef("users")).
		WithWhere(expr.Eq(expr.Ident("name"), expr.Str("Ada"))))

	sts, err := ParseScript(q.String())
	require.NoError(t, err)
	require.Len(t, sts, 3)

	assert.Equal(t, VerbCreateDatabase, sts[0].Verb)
	assert.Equal(t, "app", sts[0].Collection.Name)
	assert.Empty(t, sts[0].Body)
	assert.Equal(t, query.QueryCreateSchema, sts[0].Metadata().Type)

	assert.Equal(t, VerbCreateCollection, sts[1].Verb)
	assert.Equal(t, "users", sts[1].Collection.Name)
	assert.Equal(t, query.QueryCreateTable, sts[1].Metadata().Type)

	assert.Equal(t, VerbDelete, sts[2].Verb)
	assert.Equal(t, bson.D{{Key: "filter", Value: bson.D{{Key: "name", Value: "Ada"}}}}, sts[2].Body)
	assert.Equal(t, query.QueryDeleteFrom, sts[2].Metadata().Type)
}

func TestParseScriptNumbersAndLimit(t *testing.T) {
	sts, err := ParseScript(`MONGO:FIND users {"filter":{"n":{"$numberLong":"5"}},"limit":10};`)
	require.NoError(t, err)
	require.Len(t, sts, 1)

	st := sts[0]
	assert.Equal(t, VerbFind, st.Verb)
	assert.Equal(t, bson.D{{Key: "n", Value: int64(5)}}, st.Body[0].Value)
	require.NotNil(t, st.Metadata().Limit)
	assert.Equal(t, uint32(10), *st.Metadata().Limit)
	assert.Equal(t, query.QuerySelect, st.Metadata().Type)
}

func TestParseScriptQualifiedCollection(t *testing.T) {
	sts, err := ParseScript(`MONGO:DROP_COLLECTION app.users {};`)
	require.NoError(t, err)
	require.Len(t, sts, 1)
	assert.Equal(t, query.TableRef{Schema: "app", Name: "users"}, sts[0].Collection)
}

func TestParseScriptParams(t *testing.T) {
	sts, err := ParseScript(`MONGO:FIND users {"filter":{"$expr":{"$and":[{"$eq":["$city","$$param_0"]},{"$gt":["$age","$$param_1"]}]}}};`)
	require.NoError(t, err)
	require.Len(t, sts, 1)
	assert.Equal(t, uint32(2), sts[0].Params)

	sts[0].Bind(value.Varchar{String: "Rome", Valid: true})
	assert.Len(t, sts[0].Bindings(), 1)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"missing prefix", `FIND users {};`},
		{"unknown verb", `MONGO:EXPLAIN users {};`},
		{"no collection", `MONGO:FIND`},
		{"no body", `MONGO:FIND users`},
		{"no terminator", `MONGO:FIND users {}`},
		{"invalid body", `MONGO:FIND users {not json};`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(tt.script)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseScriptSkipsBlankLines(t *testing.T) {
	sts, err := ParseScript("\nMONGO:DROP_DATABASE app {};\n\n")
	require.NoError(t, err)
	require.Len(t, sts, 1)
	assert.Equal(t, VerbDropDatabase, sts[0].Verb)
}
