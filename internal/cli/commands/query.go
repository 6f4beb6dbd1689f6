package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TankHQ/tank/pkg/driver"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/spf13/cobra"

	// Driver packages register their backends on import.
	_ "github.com/TankHQ/tank/pkg/drivers/duckdb"
	_ "github.com/TankHQ/tank/pkg/drivers/mongodb"
	_ "github.com/TankHQ/tank/pkg/drivers/postgres"
	_ "github.com/TankHQ/tank/pkg/drivers/sqlite"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [statement]",
		Short: "Run a statement against the configured target",
		Long: `Run a statement against the configured target and print the result.

SQL targets take the target dialect's SQL text; MongoDB targets take the
MONGO:<VERB> script form that render produces. Statements that return
rows print in the chosen format, writes report their affected row count.`,
		Example: `  # Query the default in-memory DuckDB target
  tanksql query "SELECT 42 AS answer"

  # Run against a named target from tank.yaml
  tanksql query "SELECT * FROM trade" --target prod

  # Read the statement from a file, output JSON
  tanksql query --input report.sql --format json

  # Pipe a rendered statement in
  tanksql render trades.yaml --dialect duckdb | tanksql query --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the statement from a file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)

	text, err := resolveStatementText(args, opts.Input, os.Stdin)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no statement given (pass it as an argument, with --input, or on stdin)")
	}

	target := cmdCtx.Cfg.Target
	if target == nil {
		return fmt.Errorf("no target configured")
	}

	drv, err := driver.New(target.DriverConfig(), cmdCtx.Logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := drv.Connect(ctx, target.DriverConfig()); err != nil {
		return fmt.Errorf("failed to connect to %s target: %w", target.Type, err)
	}
	defer func() { _ = drv.Close() }()

	q := query.NewQuery()
	q.Buffer().WriteString(text)

	if returnsRows(text) {
		rows, err := drv.Query(ctx, q)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return renderRows(cmd.OutOrStdout(), rows, opts.Format)
	}

	affected, err := drv.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	printAffected(cmd.OutOrStdout(), affected)
	return nil
}

// resolveStatementText picks the statement source: arguments first, then
// the input file, then piped stdin.
func resolveStatementText(args []string, input string, stdin *os.File) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	case stdin != nil && !isTerminal(stdin):
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	}
	return "", nil
}

// returnsRows reports whether the statement text produces a result set.
// SELECT and WITH cover the SQL dialects; FIND and AGGREGATE cover the
// MongoDB script form.
func returnsRows(text string) bool {
	head := strings.ToUpper(strings.TrimSpace(text))
	for _, prefix := range []string{"SELECT", "WITH", "MONGO:FIND", "MONGO:AGGREGATE"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

func printAffected(w io.Writer, affected query.RowsAffected) {
	if affected.Rows != nil {
		_, _ = fmt.Fprintf(w, "(%d rows affected)\n", *affected.Rows)
	} else {
		_, _ = fmt.Fprintln(w, "OK")
	}
	if affected.LastInsertID != nil {
		_, _ = fmt.Fprintf(w, "(last insert id %d)\n", *affected.LastInsertID)
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
