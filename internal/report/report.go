package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/docconf/internal/runstore"
)

// Markdown renders a validation summary for the given runs as markdown.
// Runs are expected newest first, as the run store returns them.
func Markdown(runs []runstore.Run, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Validation report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", generatedAt.Format(time.RFC3339))

	if len(runs) == 0 {
		b.WriteString("No validation runs recorded yet.\n")
		return b.String()
	}

	b.WriteString("| Repository | Outcome | Errors | Warnings | When |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, run := range runs {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
			run.Repo, run.Outcome, run.Errors, run.Warnings,
			run.StartedAt.Format(time.RFC3339))
	}

	for _, run := range runs {
		if len(run.Issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", run.Repo)
		for _, issue := range run.Issues {
			loc := issue.Path
			if issue.Line > 0 {
				loc = fmt.Sprintf("%s:%d", issue.Path, issue.Line)
			}
			fmt.Fprintf(&b, "- **%s** `%s` %s: %s\n", issue.Severity, issue.Rule, loc, issue.Message)
		}
	}

	return b.String()
}

// renderer converts report markdown to HTML. Table support is required
// for the summary table.
var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the markdown report into a standalone HTML page.
func HTML(runs []runstore.Run, generatedAt time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(runs, generatedAt)), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>docconf validation report</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
