package commands

import (
	"github.com/TankHQ/tank/pkg/driver"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayNames maps dialect keys to the database product names.
var displayNames = map[string]string{
	"postgres": "PostgreSQL",
	"mysql":    "MySQL",
	"sqlite":   "SQLite",
	"duckdb":   "DuckDB",
	"scylladb": "ScyllaDB",
	"mongodb":  "MongoDB",
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported dialects",
		Long: `List every dialect statements can be rendered for, and whether a driver
is available to execute them against a live target.`,
		Run: func(cmd *cobra.Command, _ []string) {
			titleCaser := cases.Title(language.English)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Dialect", "Database", "Driver"})

			for _, name := range DialectNames() {
				status := "render only"
				if driver.IsRegistered(name) {
					status = "available"
				}
				t.AppendRow(table.Row{name, displayNames[name], titleCaser.String(status)})
			}
			t.Render()
		},
	}
}
