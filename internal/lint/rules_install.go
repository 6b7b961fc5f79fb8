package lint

import (
	"fmt"
	"os"
	"path/filepath"
)

// InstallStepsRule validates python.install: step shape and that every
// referenced file or path exists relative to the project root.
type InstallStepsRule struct{}

// Name returns the rule identifier.
func (r *InstallStepsRule) Name() string { return "install-steps" }

// AppliesTo returns true when a python section exists.
func (r *InstallStepsRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.Python != nil
}

// Check validates each install step.
func (r *InstallStepsRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue

	for i, step := range m.Python.Install {
		switch {
		case step.Requirements != "" && step.Path != "":
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("python.install[%d] sets both requirements and path", i),
				Fix:      "split into two install steps",
			})
		case step.Requirements == "" && step.Path == "":
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("python.install[%d] sets neither requirements nor path", i),
			})
		case step.Requirements != "":
			if p.Root != "" && !fileExists(filepath.Join(p.Root, step.Requirements)) {
				issues = append(issues, Issue{
					Path:     m.Path,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("requirements manifest %q not found in repository", step.Requirements),
				})
			}
		case step.Path != "":
			if step.Method != "" && step.Method != "pip" && step.Method != "setuptools" {
				issues = append(issues, Issue{
					Path:     m.Path,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("python.install[%d] has unknown method %q", i, step.Method),
					Fix:      "use pip or setuptools",
				})
			}
			if p.Root != "" && !dirExists(filepath.Join(p.Root, step.Path)) {
				issues = append(issues, Issue{
					Path:     m.Path,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("install path %q not found in repository", step.Path),
				})
			}
			if len(step.ExtraRequirements) > 0 && step.Method == "setuptools" {
				issues = append(issues, Issue{
					Path:     m.Path,
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("python.install[%d]: extra_requirements are ignored by the setuptools method", i),
				})
			}
		}
	}

	if m.HasSphinx() && len(m.Python.Install) == 0 && m.Conda == nil {
		issues = append(issues, Issue{
			Path:     m.Path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "sphinx build declared without any install step; the build will run with a bare environment",
		})
	}

	return issues
}

// SphinxConfigurationRule validates that the referenced Sphinx conf file
// exists in the repository.
type SphinxConfigurationRule struct{}

// Name returns the rule identifier.
func (r *SphinxConfigurationRule) Name() string { return "sphinx-configuration" }

// AppliesTo returns true for sphinx builds with a resolvable root.
func (r *SphinxConfigurationRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.HasSphinx() && p.Root != ""
}

// Check validates the conf file reference.
func (r *SphinxConfigurationRule) Check(p *Project) []Issue {
	m := p.Manifest
	if fileExists(filepath.Join(p.Root, m.Sphinx.Configuration)) {
		return nil
	}
	return []Issue{{
		Path:     m.Path,
		Severity: SeverityError,
		Rule:     r.Name(),
		Message:  fmt.Sprintf("sphinx configuration %q not found in repository", m.Sphinx.Configuration),
	}}
}

// CondaEnvironmentRule validates the conda environment file reference.
type CondaEnvironmentRule struct{}

// Name returns the rule identifier.
func (r *CondaEnvironmentRule) Name() string { return "conda-environment" }

// AppliesTo returns true for conda builds with a resolvable root.
func (r *CondaEnvironmentRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.Conda != nil && p.Root != ""
}

// Check validates the environment file reference.
func (r *CondaEnvironmentRule) Check(p *Project) []Issue {
	m := p.Manifest
	if m.Conda.Environment == "" {
		return []Issue{{
			Path:     m.Path,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "conda.environment is required when a conda section is present",
		}}
	}
	if fileExists(filepath.Join(p.Root, m.Conda.Environment)) {
		return nil
	}
	return []Issue{{
		Path:     m.Path,
		Severity: SeverityError,
		Rule:     r.Name(),
		Message:  fmt.Sprintf("conda environment file %q not found in repository", m.Conda.Environment),
	}}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
