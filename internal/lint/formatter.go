package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, lintedPath string) error
}

// NewFormatter returns the formatter for the requested format ("text" or
// "json"); unknown formats fall back to text.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// Format outputs results grouped per file with a summary footer.
func (f *TextFormatter) Format(w io.Writer, result *Result, lintedPath string) error {
	if _, err := fmt.Fprintf(w, "Validating build configuration in: %s\n", lintedPath); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}

	var lastPath string
	for _, issue := range result.Issues {
		if issue.Path != lastPath {
			if _, err := fmt.Fprintf(w, "\n%s\n", issue.Path); err != nil {
				return err
			}
			lastPath = issue.Path
		}
		loc := ""
		if issue.Line > 0 {
			loc = fmt.Sprintf(":%d", issue.Line)
		}
		if _, err := fmt.Fprintf(w, "  %s%s [%s] %s\n", issue.Severity, loc, issue.Rule, issue.Message); err != nil {
			return err
		}
		if issue.Fix != "" {
			if _, err := fmt.Fprintf(w, "    fix: %s\n", issue.Fix); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", strings.Repeat("━", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Results:"); err != nil {
		return err
	}
	if errs := result.ErrorCount(); errs > 0 {
		if _, err := fmt.Fprintf(w, "  %d error%s (build would fail)\n", errs, pluralize(errs)); err != nil {
			return err
		}
	}
	if warns := result.WarningCount(); warns > 0 {
		if _, err := fmt.Fprintf(w, "  %d warning%s (should fix)\n", warns, pluralize(warns)); err != nil {
			return err
		}
	}
	if infos := result.InfoCount(); infos > 0 {
		if _, err := fmt.Fprintf(w, "  %d informational\n", infos); err != nil {
			return err
		}
	}
	if len(result.Issues) == 0 {
		if _, err := fmt.Fprintln(w, "  no issues found"); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats results as a JSON document for tooling.
type JSONFormatter struct{}

// jsonIssue is the wire shape of one issue.
type jsonIssue struct {
	Path     string `json:"path"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// jsonReport is the wire shape of a whole result.
type jsonReport struct {
	Path     string      `json:"path"`
	Issues   []jsonIssue `json:"issues"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Infos    int         `json:"infos"`
}

// Format outputs results as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, lintedPath string) error {
	report := jsonReport{
		Path:     lintedPath,
		Issues:   make([]jsonIssue, 0, len(result.Issues)),
		Errors:   result.ErrorCount(),
		Warnings: result.WarningCount(),
		Infos:    result.InfoCount(),
	}
	for _, issue := range result.Issues {
		report.Issues = append(report.Issues, jsonIssue{
			Path:     issue.Path,
			Line:     issue.Line,
			Severity: issue.Severity.String(),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Fix:      issue.Fix,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
