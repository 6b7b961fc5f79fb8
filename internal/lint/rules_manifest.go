package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docconf/internal/manifest"
)

// SchemaVersionRule validates that the manifest declares schema version 2.
type SchemaVersionRule struct{}

// Name returns the rule identifier.
func (r *SchemaVersionRule) Name() string { return "schema-version" }

// AppliesTo returns true whenever a build manifest is present.
func (r *SchemaVersionRule) AppliesTo(p *Project) bool { return p.Manifest != nil }

// Check validates the schema version.
func (r *SchemaVersionRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue
	switch m.Version {
	case manifest.SchemaVersion:
		// ok
	case 0:
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "missing required key: version",
			Fix:      "add 'version: 2' at the top level",
		})
	default:
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("unsupported schema version %d (only version 2 is accepted)", m.Version),
			Fix:      "set 'version: 2' and migrate any v1 keys",
		})
	}
	for _, key := range m.UnknownKeys {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("unknown top-level key %q is ignored by the build service", key),
		})
	}
	return issues
}

// BuilderRule validates the sphinx/mkdocs sections and their exclusivity.
type BuilderRule struct{}

// Name returns the rule identifier.
func (r *BuilderRule) Name() string { return "builder" }

// AppliesTo returns true whenever a build manifest is present.
func (r *BuilderRule) AppliesTo(p *Project) bool { return p.Manifest != nil }

// Check validates builder configuration.
func (r *BuilderRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue

	if m.HasSphinx() && m.HasMkDocs() {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "sphinx and mkdocs sections are mutually exclusive",
			Fix:      "remove one of the two sections",
		})
	}

	if m.HasSphinx() {
		if norm := manifest.NormalizeSphinxBuilder(string(m.Sphinx.Builder)); norm == "" {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("unknown sphinx builder %q", m.Sphinx.Builder),
				Fix:      "use one of: html, dirhtml, singlehtml",
			})
		} else if norm != m.Sphinx.Builder {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("sphinx builder %q is a legacy spelling of %q", m.Sphinx.Builder, norm),
				Fix:      fmt.Sprintf("use 'builder: %s'", norm),
			})
		}
	}

	return issues
}

// FormatsRule validates the output artifact format list.
type FormatsRule struct{}

// Name returns the rule identifier.
func (r *FormatsRule) Name() string { return "formats" }

// AppliesTo returns true when the manifest lists output formats.
func (r *FormatsRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && len(p.Manifest.Formats) > 0
}

// Check validates each format and flags duplicates.
func (r *FormatsRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue
	seen := map[manifest.Format]bool{}
	for _, f := range m.Formats {
		if manifest.NormalizeFormat(string(f)) == "" {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("unknown output format %q", f),
				Fix:      "use pdf, epub, htmlzip, or the scalar 'all'",
			})
			continue
		}
		if seen[f] {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("duplicate output format %q", f),
			})
		}
		seen[f] = true
	}
	return issues
}

// knownBuildOS lists the OS images the build service offers.
var knownBuildOS = map[string]bool{
	"ubuntu-20.04":      true,
	"ubuntu-22.04":      true,
	"ubuntu-24.04":      true,
	"ubuntu-lts-latest": true,
}

// knownBuildTools lists the toolchains build.tools can select.
var knownBuildTools = map[string]bool{
	"python": true,
	"nodejs": true,
	"rust":   true,
	"golang": true,
}

// toolVersionRe accepts dotted numeric versions, "latest", and the
// miniconda/mambaforge python spellings.
var toolVersionRe = regexp.MustCompile(`^(\d+(\.\d+)*|latest|miniconda3-[\w.-]+|mambaforge-[\w.-]+)$`)

// BuildEnvironmentRule validates build.os and build.tools.
type BuildEnvironmentRule struct{}

// Name returns the rule identifier.
func (r *BuildEnvironmentRule) Name() string { return "build-environment" }

// AppliesTo returns true when a build section exists.
func (r *BuildEnvironmentRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.Build != nil
}

// Check validates the build environment section.
func (r *BuildEnvironmentRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue

	if m.Build.OS == "" {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "build.os is required when a build section is present",
			Fix:      "set build.os (e.g. ubuntu-22.04)",
		})
	} else if !knownBuildOS[m.Build.OS] {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("unknown build OS image %q", m.Build.OS),
			Fix:      "use one of: " + joinKeys(knownBuildOS),
		})
	}

	for tool, version := range m.Build.Tools {
		if !knownBuildTools[tool] {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("unknown build tool %q", tool),
				Fix:      "use one of: " + joinKeys(knownBuildTools),
			})
			continue
		}
		if !toolVersionRe.MatchString(version) {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("invalid %s version %q", tool, version),
				Fix:      "quote the version string, e.g. python: \"3.11\"",
			})
		}
	}

	return issues
}

// SubmodulesRule validates the submodules section.
type SubmodulesRule struct{}

// Name returns the rule identifier.
func (r *SubmodulesRule) Name() string { return "submodules" }

// AppliesTo returns true when a submodules section exists.
func (r *SubmodulesRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.Submodules != nil
}

// Check validates include/exclude exclusivity.
func (r *SubmodulesRule) Check(p *Project) []Issue {
	m := p.Manifest
	sub := m.Submodules
	var issues []Issue
	if !sub.Include.IsZero() && !sub.Exclude.IsZero() {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "submodules.include and submodules.exclude are mutually exclusive",
			Fix:      "keep either the include list or the exclude list",
		})
	}
	if sub.Exclude.All && sub.Recursive {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "submodules.recursive has no effect when all submodules are excluded",
		})
	}
	return issues
}

// joinKeys renders a sorted-ish comma list of the map's keys for fix hints.
func joinKeys(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	// Deterministic order keeps fix hints and golden output stable.
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
