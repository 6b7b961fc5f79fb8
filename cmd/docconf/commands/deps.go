package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docconf/internal/requirements"
)

// DepsCmd implements the 'deps' command: it resolves a requirements file
// into its effective install set and reports duplicate pins.
type DepsCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`

	Path string `arg:"" help:"Requirements file to inspect"`
}

type depsEntry struct {
	Name       string   `json:"name"`
	Normalized string   `json:"normalized"`
	Extras     []string `json:"extras,omitempty"`
	Constraint string   `json:"constraint,omitempty"`
	Marker     string   `json:"marker,omitempty"`
	Pinned     bool     `json:"pinned"`
	Version    string   `json:"version,omitempty"`
	Line       int      `json:"line"`
}

type depsConflict struct {
	Name        string `json:"name"`
	Conflicting bool   `json:"conflicting"`
	Lines       []int  `json:"lines"`
}

type depsReport struct {
	Path         string         `json:"path"`
	Requirements []depsEntry    `json:"requirements"`
	Conflicts    []depsConflict `json:"conflicts,omitempty"`
}

// Run executes the deps command.
func (d *DepsCmd) Run(_ *Global, _ *CLI) error {
	m, err := requirements.Load(d.Path)
	if err != nil {
		return fmt.Errorf("reading requirements: %w", err)
	}

	report := depsReport{Path: d.Path}
	for _, e := range m.Requirements() {
		report.Requirements = append(report.Requirements, depsEntry{
			Name:       e.Name,
			Normalized: requirements.NormalizeName(e.Name),
			Extras:     e.Extras,
			Constraint: e.Constraint,
			Marker:     e.Marker,
			Pinned:     e.Pinned(),
			Version:    e.PinnedVersion(),
			Line:       e.Line,
		})
	}

	hasConflictingPins := false
	for _, c := range m.Conflicts() {
		dc := depsConflict{Name: c.Name, Conflicting: c.Conflicting}
		for _, e := range c.Entries {
			dc.Lines = append(dc.Lines, e.Line)
		}
		report.Conflicts = append(report.Conflicts, dc)
		if c.Conflicting {
			hasConflictingPins = true
		}
	}

	if d.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
	} else {
		printDepsText(report)
	}

	if hasConflictingPins {
		os.Exit(2)
	}
	return nil
}

func printDepsText(report depsReport) {
	fmt.Printf("%s: %d requirement(s)\n\n", report.Path, len(report.Requirements))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCONSTRAINT\tEXTRAS\tMARKER")
	for _, e := range report.Requirements {
		constraint := e.Constraint
		if constraint == "" {
			constraint = "(any)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, constraint, strings.Join(e.Extras, ","), e.Marker)
	}
	_ = w.Flush()

	if len(report.Conflicts) == 0 {
		return
	}
	fmt.Println()
	for _, c := range report.Conflicts {
		label := "duplicate"
		if c.Conflicting {
			label = "CONFLICT"
		}
		lines := make([]string, 0, len(c.Lines))
		for _, n := range c.Lines {
			lines = append(lines, fmt.Sprintf("%d", n))
		}
		fmt.Printf("%s: %s declared on lines %s\n", label, c.Name, strings.Join(lines, ", "))
	}
}
