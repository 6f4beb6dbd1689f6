package commands

import (
	"fmt"

	"github.com/TankHQ/tank/internal/definition"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/writer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type renderOptions struct {
	allDialects bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a statement definition as SQL",
		Long: `Render a YAML statement definition as SQL for one dialect, or for all
supported dialects at once.

This is useful for inspecting the exact text a backend will receive and
for comparing how dialects quote, cast and paginate.`,
		Example: `  # Render for the configured dialect
  tanksql render trades.yaml

  # Render for a specific dialect
  tanksql render trades.yaml --dialect scylladb

  # Render for every supported dialect
  tanksql render trades.yaml --all-dialects`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.allDialects, "all-dialects", false, "Render for every supported dialect")

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOptions) error {
	cmdCtx := NewCommandContext(cmd)

	file, err := definition.LoadStatementFile(path)
	if err != nil {
		return err
	}

	stmt, err := file.Statement()
	if err != nil {
		return fmt.Errorf("failed to build statement: %w", err)
	}

	if opts.allDialects {
		return renderAllDialects(cmd, cmdCtx, stmt)
	}

	w, err := NewDialectWriter(cmdCtx.Cfg.Dialect, cmdCtx.Logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderStatement(w, stmt))
	return nil
}

// renderAllDialects renders the statement once per dialect, concurrently,
// and prints the results in dialect name order.
func renderAllDialects(cmd *cobra.Command, cmdCtx *CommandContext, stmt query.Statement) error {
	names := DialectNames()
	outs := make([]string, len(names))

	eg, _ := errgroup.WithContext(cmd.Context())
	for i, name := range names {
		eg.Go(func() error {
			w, err := NewDialectWriter(name, cmdCtx.Logger)
			if err != nil {
				return err
			}
			outs[i] = renderStatement(w, stmt)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n%s\n", name, outs[i])
	}
	return nil
}

// renderStatement compiles a single statement into a fresh query and
// returns the produced text.
func renderStatement(w writer.Writer, stmt query.Statement) string {
	q := query.NewQuery()
	writer.WriteStatement(w, q, stmt)
	return q.String()
}
