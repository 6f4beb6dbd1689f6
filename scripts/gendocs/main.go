// Package main generates markdown reference documentation for the
// tanksql command-line interface from its Cobra command tree.
//
// Usage:
//
//	go run ./scripts/gendocs
//	go run ./scripts/gendocs -outdir=docs/cli
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/TankHQ/tank/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var outDirFlag = flag.String("outdir", "", "output directory (default: docs/cli under the project root)")

func main() {
	flag.Parse()

	outDir := *outDirFlag
	if outDir == "" {
		projectRoot, err := findProjectRoot()
		if err != nil {
			log.Fatalf("failed to find project root: %v", err)
		}
		outDir = filepath.Join(projectRoot, "docs", "cli")
	}

	if err := generateCLIDocs(outDir); err != nil {
		log.Fatalf("failed to generate CLI docs: %v", err)
	}
	log.Println("Done!")
}

// findProjectRoot walks up from the current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()

	if err := generateIndex(rootCmd, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		if err := generateCommandPage(cmd, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}

	return nil
}

// generateIndex writes the CLI overview page.
func generateIndex(rootCmd *cobra.Command, outDir string) error {
	w := newPage("CLI Reference", "Command-line interface reference for TankSQL")

	w.header(1, "CLI Reference")
	w.paragraph("TankSQL renders YAML statement and table definitions into dialect-specific SQL and executes queries against a configured backend.")

	w.header(2, "Installation")
	w.codeBlock("bash", "go install github.com/TankHQ/tank/cmd/tanksql@latest")

	w.header(2, "Basic Usage")
	w.codeBlock("bash", "tanksql <command> [options]")

	w.header(2, "Commands")
	var rows [][]string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		link := fmt.Sprintf("[%s](/cli/%s)", inlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.table([]string{"Command", "Description"}, rows)

	w.header(2, "Global Options")
	w.paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.header(2, "Environment Variables")
	w.paragraph("Any top-level configuration key can be set through the environment with a `TANK_` prefix. Flags take precedence over environment variables, which take precedence over the config file.")
	w.table([]string{"Variable", "Description"}, [][]string{
		{inlineCode("TANK_DIALECT"), "Default dialect for render and ddl"},
		{inlineCode("TANK_VERBOSE"), "Enable debug logging when set to `true`"},
	})
	w.paragraph("Target fields such as `password` and `host` may reference environment variables with `${VAR}` placeholders in the config file.")

	w.header(2, "Exit Codes")
	w.table([]string{"Code", "Meaning"}, [][]string{
		{inlineCode("0"), "Success"},
		{inlineCode("1"), "Error (check stderr for details)"},
	})

	w.header(2, "Getting Help")
	w.codeBlock("bash", `# General help
tanksql help
tanksql --help

# Command-specific help
tanksql render --help`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.bytes(), 0600)
}

// generateCommandPage writes the documentation for a single command.
func generateCommandPage(cmd *cobra.Command, outDir string) error {
	w := newPage(cmd.Name(), cmd.Short)

	w.header(1, cmd.Name())
	if cmd.Long != "" {
		w.paragraph(cmd.Long)
	} else {
		w.paragraph(cmd.Short)
	}

	w.header(2, "Usage")
	useLine := cmd.UseLine()
	if cmd.HasSubCommands() {
		useLine = fmt.Sprintf("tanksql %s <subcommand> [options]", cmd.Name())
	} else if !strings.HasPrefix(useLine, "tanksql") {
		useLine = "tanksql " + useLine
	}
	w.codeBlock("bash", useLine)

	if len(cmd.Aliases) > 0 {
		w.header(2, "Aliases")
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, inlineCode(alias))
		}
		w.bulletList(aliases)
	}

	if cmd.HasSubCommands() {
		w.header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.Hidden {
				continue
			}
			rows = append(rows, []string{inlineCode(sub.Name()), cleanDescription(sub.Short)})
		}
		w.table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasLocalFlags() {
		w.header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.HasInheritedFlags() {
		w.header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.header(2, "Examples")
		w.codeBlock("bash", cleanExample(cmd.Example))
	}

	return os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), w.bytes(), 0600)
}

func writeFlagsTable(w *page, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}

		defVal := f.DefValue
		if f.Value.Type() == "string" && defVal != "" {
			defVal = inlineCode(defVal)
		}

		rows = append(rows, []string{
			inlineCode("--" + f.Name),
			short,
			defVal,
			cleanDescription(f.Usage),
		})
	})
	w.table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// page builds a markdown document.
type page struct {
	b strings.Builder
}

func newPage(title, description string) *page {
	p := &page{}
	fmt.Fprintf(&p.b, "---\ntitle: %s\ndescription: %s\n---\n\n", title, description)
	p.b.WriteString("<!-- Generated by scripts/gendocs. DO NOT EDIT. -->\n\n")
	return p
}

func (p *page) header(level int, text string) {
	fmt.Fprintf(&p.b, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (p *page) paragraph(text string) {
	p.b.WriteString(strings.TrimSpace(text))
	p.b.WriteString("\n\n")
}

func (p *page) codeBlock(lang, code string) {
	fmt.Fprintf(&p.b, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

func (p *page) bulletList(items []string) {
	for _, item := range items {
		fmt.Fprintf(&p.b, "- %s\n", item)
	}
	p.b.WriteString("\n")
}

func (p *page) table(headers []string, rows [][]string) {
	p.b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	p.b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i, cell := range row {
			escaped[i] = strings.ReplaceAll(cell, "|", "\\|")
		}
		p.b.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	}
	p.b.WriteString("\n")
}

func (p *page) bytes() []byte {
	return []byte(p.b.String())
}

func inlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription normalizes a usage string for a table cell: single
// line, trimmed, without a trailing period.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSuffix(s, ".")
}

// cleanExample removes the common leading whitespace cobra examples
// usually carry.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}

	var result []string
	for _, line := range lines {
		if len(line) >= minIndent {
			result = append(result, line[minIndent:])
		} else {
			result = append(result, strings.TrimLeft(line, " \t"))
		}
	}
	return strings.TrimSpace(strings.Join(result, "\n"))
}
