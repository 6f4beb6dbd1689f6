package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableDefinition = `table:
  name: book
  schema: library
  if_not_exists: true
  columns:
    - name: id
      type: int64
      nullable: false
      primary_key: true
    - name: title
      type: varchar
      nullable: false
      unique: true
`

func runDDLCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewDDLCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestDDLCommand(t *testing.T) {
	t.Setenv("TANK_DIALECT", "postgres")
	path := writeDefinition(t, "book.yaml", tableDefinition)

	output := runDDLCommand(t, path)
	assert.Contains(t, output, `CREATE TABLE IF NOT EXISTS "library"."book"`)
	assert.Contains(t, output, `"id" BIGINT NOT NULL PRIMARY KEY`)
	assert.Contains(t, output, `"title" TEXT NOT NULL UNIQUE`)
	assert.NotContains(t, output, "CREATE SCHEMA")
}

func TestDDLCommandWithSchema(t *testing.T) {
	t.Setenv("TANK_DIALECT", "postgres")
	path := writeDefinition(t, "book.yaml", tableDefinition)

	output := runDDLCommand(t, path, "--with-schema")
	assert.Contains(t, output, `CREATE SCHEMA IF NOT EXISTS "library";`)
	schemaAt := strings.Index(output, "CREATE SCHEMA")
	tableAt := strings.Index(output, "CREATE TABLE")
	assert.Less(t, schemaAt, tableAt, "schema should be created before the table")
}

func TestDDLCommandDrop(t *testing.T) {
	t.Setenv("TANK_DIALECT", "postgres")
	path := writeDefinition(t, "book.yaml", tableDefinition)

	output := runDDLCommand(t, path, "--drop")
	assert.Contains(t, output, `DROP TABLE IF EXISTS "library"."book";`)
	assert.NotContains(t, output, "CREATE TABLE")
}

func TestDDLCommandDropWithSchema(t *testing.T) {
	t.Setenv("TANK_DIALECT", "postgres")
	path := writeDefinition(t, "book.yaml", tableDefinition)

	output := runDDLCommand(t, path, "--drop", "--with-schema")
	tableAt := strings.Index(output, "DROP TABLE")
	schemaAt := strings.Index(output, "DROP SCHEMA")
	require.GreaterOrEqual(t, tableAt, 0)
	require.GreaterOrEqual(t, schemaAt, 0)
	assert.Less(t, tableAt, schemaAt, "table should be dropped before its schema")
}

func TestDDLStatements(t *testing.T) {
	def := query.TableDef{Ref: query.TableRef{Schema: "library", Name: "book"}}

	t.Run("create", func(t *testing.T) {
		stmts := ddlStatements(def, true, &ddlOptions{})
		require.Len(t, stmts, 1)
		create, ok := stmts[0].(*query.CreateTable)
		require.True(t, ok)
		assert.True(t, create.IfNotExists)
	})

	t.Run("create with schema", func(t *testing.T) {
		stmts := ddlStatements(def, false, &ddlOptions{withSchema: true})
		require.Len(t, stmts, 2)
		schema, ok := stmts[0].(*query.CreateSchema)
		require.True(t, ok)
		assert.Equal(t, "library", schema.Schema)
		_, ok = stmts[1].(*query.CreateTable)
		require.True(t, ok)
	})

	t.Run("schema skipped for bare tables", func(t *testing.T) {
		bare := query.TableDef{Ref: query.NewTableRef("book")}
		stmts := ddlStatements(bare, false, &ddlOptions{withSchema: true})
		require.Len(t, stmts, 1)
	})

	t.Run("drop", func(t *testing.T) {
		stmts := ddlStatements(def, false, &ddlOptions{drop: true, withSchema: true})
		require.Len(t, stmts, 2)
		drop, ok := stmts[0].(*query.DropTable)
		require.True(t, ok)
		assert.True(t, drop.IfExists)
		_, ok = stmts[1].(*query.DropSchema)
		require.True(t, ok)
	})
}
