package lint

import (
	"git.home.luguber.info/inful/docconf/internal/manifest"
	"git.home.luguber.info/inful/docconf/internal/requirements"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational findings.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but that the
	// hosted service would still build through.
	SeverityWarning
	// SeverityError indicates issues that break the documentation build.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single problem found in a build or requirements manifest.
type Issue struct {
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}

// Result contains all issues found while linting one project.
type Result struct {
	Issues []Issue `json:"issues"`
}

// Add appends issues to the result.
func (r *Result) Add(issues ...Issue) { r.Issues = append(r.Issues, issues...) }

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool { return r.count(SeverityError) > 0 }

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool { return r.count(SeverityWarning) > 0 }

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

// InfoCount returns the number of info-level issues.
func (r *Result) InfoCount() int { return r.count(SeverityInfo) }

func (r *Result) count(sev Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Project bundles everything the rules inspect: the build manifest, the
// requirements manifests it references (or that were passed explicitly),
// and the directory paths resolve against.
type Project struct {
	Root         string
	Manifest     *manifest.Manifest
	Requirements []*requirements.Manifest
}

// Rule defines one validation applied to a project.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// AppliesTo reports whether the rule has anything to inspect for the
	// given project.
	AppliesTo(p *Project) bool

	// Check validates the project and returns any issues found.
	Check(p *Project) []Issue
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings and info, only showing errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string
}
