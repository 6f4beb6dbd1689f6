package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []query.RowLabeled {
	labels := query.RowNames{"id", "name", "note"}
	return []query.RowLabeled{
		{Labels: labels, Values: query.Row{value.Of(int64(1)), value.Of("Ada"), value.Of(nil)}},
		{Labels: labels, Values: query.Row{value.Of(int64(2)), value.Of("Grace"), value.Of("likes, commas")}},
	}
}

func TestRenderRowsTable(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderRows(buf, sampleRows(), "table"))

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "Ada")
	assert.Contains(t, output, "NULL")
	assert.Contains(t, output, "(2 rows)")
}

func TestRenderRowsTableEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderRows(buf, nil, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRenderRowsJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderRows(buf, sampleRows(), "json"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Ada", decoded[0]["name"])
	assert.Nil(t, decoded[0]["note"])
	assert.EqualValues(t, 2, decoded[1]["id"])
}

func TestRenderRowsCSV(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderRows(buf, sampleRows(), "csv"))

	assert.Equal(t, "id,name,note\n1,Ada,NULL\n2,Grace,\"likes, commas\"\n", buf.String())
}

func TestRenderRowsMarkdown(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, renderRows(buf, sampleRows(), "md"))

	output := buf.String()
	assert.Contains(t, output, "| id | name | note |")
	assert.Contains(t, output, "| --- | --- | --- |")
	assert.Contains(t, output, "| 1 | Ada | NULL |")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "7", formatValue(json.Number("7")))
	assert.Equal(t, "x", formatValue("x"))
}

func TestEscapeCSV(t *testing.T) {
	assert.Equal(t, "plain", escapeCSV("plain"))
	assert.Equal(t, `"a,b"`, escapeCSV("a,b"))
	assert.Equal(t, `"say ""hi"""`, escapeCSV(`say "hi"`))
}
