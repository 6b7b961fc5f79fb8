package lint

import (
	"fmt"
	"strings"
)

// RequirementsConflictsRule reports duplicate package entries across each
// requirements manifest: conflicting pins are errors, repeated identical
// pins are warnings.
type RequirementsConflictsRule struct{}

// Name returns the rule identifier.
func (r *RequirementsConflictsRule) Name() string { return "requirements-conflicts" }

// AppliesTo returns true when requirements manifests were loaded.
func (r *RequirementsConflictsRule) AppliesTo(p *Project) bool {
	return len(p.Requirements) > 0
}

// Check validates each requirements manifest for duplicates.
func (r *RequirementsConflictsRule) Check(p *Project) []Issue {
	var issues []Issue
	for _, reqs := range p.Requirements {
		for _, c := range reqs.Conflicts() {
			lines := make([]string, 0, len(c.Entries))
			for _, e := range c.Entries {
				lines = append(lines, fmt.Sprintf("%d", e.Line))
			}
			if c.Conflicting {
				issues = append(issues, Issue{
					Path:     reqs.Path,
					Line:     c.Entries[1].Line,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message: fmt.Sprintf("package %q is pinned with conflicting versions (lines %s)",
						c.Name, strings.Join(lines, ", ")),
					Fix: "keep a single pin per package",
				})
			} else {
				issues = append(issues, Issue{
					Path:     reqs.Path,
					Line:     c.Entries[1].Line,
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Message: fmt.Sprintf("package %q is declared more than once (lines %s)",
						c.Name, strings.Join(lines, ", ")),
					Fix: "remove the duplicate entries",
				})
			}
		}
	}
	return issues
}

// RequirementsUnpinnedRule reports unpinned packages. Reproducible
// documentation builds want exact pins; unpinned Sphinx extensions are a
// common source of surprise breakage.
type RequirementsUnpinnedRule struct{}

// Name returns the rule identifier.
func (r *RequirementsUnpinnedRule) Name() string { return "requirements-unpinned" }

// AppliesTo returns true when requirements manifests were loaded.
func (r *RequirementsUnpinnedRule) AppliesTo(p *Project) bool {
	return len(p.Requirements) > 0
}

// Check reports entries without an exact pin.
func (r *RequirementsUnpinnedRule) Check(p *Project) []Issue {
	var issues []Issue
	for _, reqs := range p.Requirements {
		for _, e := range reqs.Requirements() {
			if e.Pinned() {
				continue
			}
			msg := fmt.Sprintf("package %q is not pinned to an exact version", e.Name)
			if e.Constraint != "" {
				msg = fmt.Sprintf("package %q uses range constraint %q instead of an exact pin", e.Name, e.Constraint)
			}
			issues = append(issues, Issue{
				Path:     reqs.Path,
				Line:     e.Line,
				Severity: SeverityInfo,
				Rule:     r.Name(),
				Message:  msg,
			})
		}
	}
	return issues
}
