package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/docconf/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format       string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet        bool     `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Requirements []string `short:"r" help:"Extra requirements files to lint in addition to the ones the manifest references"`

	Path string `arg:"" optional:"" help:"Manifest file or project directory to lint (defaults to the current directory)"`
}

// Run executes the lint command.
func (l *LintCmd) Run(_ *Global, _ *CLI) error {
	path := l.Path
	if path == "" {
		path = "."
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	linter := lint.NewLinter(&lint.Config{
		Quiet:  l.Quiet,
		Format: l.Format,
	})

	result, _, err := linter.LintPath(path, l.Requirements...)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	formatter := lint.NewFormatter(l.Format)
	if err := formatter.Format(os.Stdout, result, path); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Exit codes mirror build impact: errors would fail the docs build.
	if result.HasErrors() {
		os.Exit(2)
	}
	if result.HasWarnings() && !l.Quiet {
		os.Exit(1)
	}
	return nil
}
