package lint

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docconf/internal/manifest"
	"git.home.luguber.info/inful/docconf/internal/requirements"
)

// Linter runs validation rules over a documentation-build project.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// DefaultRules returns the standard rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		&SchemaVersionRule{},
		&BuilderRule{},
		&FormatsRule{},
		&BuildEnvironmentRule{},
		&SubmodulesRule{},
		&InstallStepsRule{},
		&SphinxConfigurationRule{},
		&CondaEnvironmentRule{},
		&SearchRankingRule{},
		&SearchIgnoreRule{},
		&RequirementsConflictsRule{},
		&RequirementsUnpinnedRule{},
	}
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	return &Linter{cfg: cfg, rules: DefaultRules()}
}

// LintPath lints the build manifest at path. A directory is searched for
// the manifest under its accepted names; a file is treated as the
// manifest itself. Requirements manifests referenced by python.install
// are loaded relative to the project root, plus any passed explicitly.
func (l *Linter) LintPath(path string, extraRequirements ...string) (*Result, *Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}

	var manifestPath, root string
	if info.IsDir() {
		root = path
		manifestPath = manifest.Locate(path)
		if manifestPath == "" {
			return nil, nil, fmt.Errorf("no build manifest found in %s (looked for %v)", path, manifest.FileNames)
		}
	} else {
		manifestPath = path
		root = filepath.Dir(path)
	}
	return l.LintManifest(root, manifestPath, extraRequirements...)
}

// LintManifest lints a specific manifest file with an explicit project
// root; relative requirements references resolve against root.
func (l *Linter) LintManifest(root, manifestPath string, extraRequirements ...string) (*Result, *Project, error) {
	result := &Result{}
	project := &Project{Root: root}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		// Malformed YAML is a lint error, not a crash: the hosted
		// service rejects the build the same way.
		result.Add(Issue{
			Path:     manifestPath,
			Severity: SeverityError,
			Rule:     "schema-version",
			Message:  fmt.Sprintf("manifest does not parse as YAML: %v", err),
		})
		return result, project, nil
	}
	project.Manifest = m

	refs := append(m.RequirementsRefs(), extraRequirements...)
	seen := map[string]bool{}
	for _, ref := range refs {
		full := ref
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, ref)
		}
		if seen[full] {
			continue
		}
		seen[full] = true
		if _, statErr := os.Stat(full); statErr != nil {
			// Missing references are InstallStepsRule's finding.
			continue
		}
		reqs, loadErr := requirements.Load(full)
		if loadErr != nil {
			result.Add(Issue{
				Path:     full,
				Severity: SeverityError,
				Rule:     "requirements-syntax",
				Message:  loadErr.Error(),
			})
			continue
		}
		project.Requirements = append(project.Requirements, reqs)
	}

	l.run(project, result)
	return result, project, nil
}

// LintProject runs the rule set over an already-assembled project.
func (l *Linter) LintProject(p *Project) *Result {
	result := &Result{}
	l.run(p, result)
	return result
}

func (l *Linter) run(p *Project, result *Result) {
	for _, rule := range l.rules {
		if !rule.AppliesTo(p) {
			continue
		}
		result.Add(rule.Check(p)...)
	}
	if l.cfg.Quiet {
		filtered := result.Issues[:0]
		for _, issue := range result.Issues {
			if issue.Severity == SeverityError {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
	}
}
