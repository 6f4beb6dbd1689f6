package commands

import (
	"fmt"

	"github.com/TankHQ/tank/internal/definition"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
	"github.com/spf13/cobra"
)

type ddlOptions struct {
	drop       bool
	withSchema bool
}

// NewDDLCommand creates the ddl command.
func NewDDLCommand() *cobra.Command {
	opts := &ddlOptions{}

	cmd := &cobra.Command{
		Use:   "ddl <file>",
		Short: "Render table DDL from a table definition",
		Long: `Render CREATE TABLE (or DROP TABLE) statements from a YAML table
definition, using the configured dialect's types, quoting and comment
syntax.`,
		Example: `  # CREATE TABLE for the configured dialect
  tanksql ddl trade.yaml

  # DROP TABLE instead
  tanksql ddl trade.yaml --drop

  # Create the schema first
  tanksql ddl trade.yaml --with-schema --dialect postgres`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDDL(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.drop, "drop", false, "Render DROP TABLE instead of CREATE TABLE")
	cmd.Flags().BoolVar(&opts.withSchema, "with-schema", false, "Include the table's schema in the rendered DDL")

	return cmd
}

func runDDL(cmd *cobra.Command, path string, opts *ddlOptions) error {
	cmdCtx := NewCommandContext(cmd)

	file, err := definition.LoadTableFile(path)
	if err != nil {
		return err
	}

	def, err := file.Table.TableDef()
	if err != nil {
		return fmt.Errorf("failed to build table definition: %w", err)
	}

	w, err := NewDialectWriter(cmdCtx.Cfg.Dialect, cmdCtx.Logger)
	if err != nil {
		return err
	}

	q := query.NewQuery()
	for _, stmt := range ddlStatements(def, file.Table.IfNotExists, opts) {
		writer.WriteStatement(w, q, stmt)
	}

	fmt.Fprintln(cmd.OutOrStdout(), q.String())
	return nil
}

// ddlStatements assembles the statement sequence for the definition.
// Drops always carry IF EXISTS so the script can run against a clean
// database; schema statements are only emitted when the table names one.
func ddlStatements(def query.TableDef, ifNotExists bool, opts *ddlOptions) []query.Statement {
	var stmts []query.Statement

	if opts.drop {
		stmts = append(stmts, &query.DropTable{Table: def.Ref, IfExists: true})
		if opts.withSchema && def.Ref.Schema != "" {
			stmts = append(stmts, &query.DropSchema{Schema: def.Ref.Schema, IfExists: true})
		}
		return stmts
	}

	if opts.withSchema && def.Ref.Schema != "" {
		stmts = append(stmts, &query.CreateSchema{Schema: def.Ref.Schema, IfNotExists: ifNotExists})
	}
	stmts = append(stmts, &query.CreateTable{Table: def, IfNotExists: ifNotExists})
	return stmts
}
