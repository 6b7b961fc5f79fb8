package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docconf/internal/lint"
	"git.home.luguber.info/inful/docconf/internal/runstore"
)

func sampleRuns() []runstore.Run {
	return []runstore.Run{
		{
			ID:        "run-2",
			Repo:      "beta",
			StartedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
			Outcome:   "error",
			Errors:    1,
			Issues: []lint.Issue{
				{Path: ".readthedocs.yaml", Severity: lint.SeverityError, Rule: "formats", Message: `unknown output format "docx"`},
			},
		},
		{
			ID:        "run-1",
			Repo:      "alpha",
			StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Outcome:   "clean",
		},
	}
}

func TestMarkdownSummary(t *testing.T) {
	md := Markdown(sampleRuns(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	assert.Contains(t, md, "# Validation report")
	assert.Contains(t, md, "| beta | error | 1 | 0 |")
	assert.Contains(t, md, "| alpha | clean | 0 | 0 |")
	assert.Contains(t, md, "## beta")
	assert.Contains(t, md, "`formats`")
	// Clean runs get no issue section.
	assert.NotContains(t, md, "## alpha")
}

func TestMarkdownEmpty(t *testing.T) {
	md := Markdown(nil, time.Now())
	assert.Contains(t, md, "No validation runs recorded yet.")
}

// TestHTMLStructure parses the rendered page and asserts the summary
// table made it through goldmark's table extension.
func TestHTMLStructure(t *testing.T) {
	page, err := HTML(sampleRuns(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	doc, err := html.Parse(strings.NewReader(string(page)))
	require.NoError(t, err)

	var tables, h2s int
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				tables++
			case "h2":
				h2s++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, 1, tables)
	assert.Equal(t, 1, h2s)
	assert.Contains(t, string(page), "docconf validation report")
}
