package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementFile(t *testing.T) {
	f, err := ParseStatementFile([]byte(`select:
  from: finance.trade
  columns:
    - column: symbol
    - column: price
      alias: unit_price
  where:
    - column: symbol
      op: eq
      value: AAPL
  limit: 10
`))
	require.NoError(t, err)
	require.NotNil(t, f.Select)
	assert.Equal(t, "finance.trade", f.Select.From)
	assert.Len(t, f.Select.Columns, 2)
	assert.Equal(t, "unit_price", f.Select.Columns[1].Alias)
	require.NotNil(t, f.Select.Limit)
	assert.Equal(t, uint32(10), *f.Select.Limit)
}

func TestParseStatementFileShape(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty document",
			input:   "{}\n",
			wantErr: "exactly one of",
		},
		{
			name: "two statements",
			input: `select:
  from: t
delete:
  from: t
`,
			wantErr: "exactly one of",
		},
		{
			name:    "broken yaml",
			input:   "select: [\n",
			wantErr: "invalid definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatementFile([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseTableFile(t *testing.T) {
	f, err := ParseTableFile([]byte(`table:
  name: trade
  schema: finance
  if_not_exists: true
  comment: executed trades
  columns:
    - name: id
      type: int64
      primary_key: true
      nullable: false
    - name: label
      type: varchar
      unique: true
    - name: price
      type: decimal
  unique:
    - [label, price]
`))
	require.NoError(t, err)
	require.NotNil(t, f.Table)
	assert.Equal(t, "trade", f.Table.Name)
	assert.Equal(t, "finance", f.Table.Schema)
	assert.True(t, f.Table.IfNotExists)
	assert.Len(t, f.Table.Columns, 3)
	require.NotNil(t, f.Table.Columns[0].Nullable)
	assert.False(t, *f.Table.Columns[0].Nullable)
	assert.Nil(t, f.Table.Columns[1].Nullable, "omitted nullable stays unset")
	assert.Equal(t, [][]string{{"label", "price"}}, f.Table.Unique)
}

func TestParseTableFileShape(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "no table", input: "{}\n", wantErr: "must contain a table"},
		{name: "no name", input: "table:\n  columns:\n    - name: id\n      type: int64\n", wantErr: "table name is required"},
		{name: "no columns", input: "table:\n  name: t\n", wantErr: "has no columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTableFile([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadStatementFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delete:\n  from: trade\n"), 0600))

	f, err := LoadStatementFile(path)
	require.NoError(t, err)
	require.NotNil(t, f.Delete)
	assert.Equal(t, "trade", f.Delete.From)

	_, err = LoadStatementFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read definition")
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  name: t\n  columns:\n    - name: id\n      type: int64\n"), 0600))

	f, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, "t", f.Table.Name)

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read definition")
}
