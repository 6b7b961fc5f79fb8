package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	appcfg "git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/manifest"
)

// Project is one validatable documentation project found in a checkout:
// its build manifest plus any requirements manifests worth inspecting.
type Project struct {
	Repo         string // configured repository name (empty for local scans)
	Root         string // directory the manifest paths resolve against
	ManifestPath string
	// ExtraRequirements lists requirements manifests found next to the
	// docs sources that python.install does not reference, plus any paths
	// configured explicitly.
	ExtraRequirements []string
}

// isRequirementsFile matches the conventional requirements manifest file
// names (requirements.txt, requirements-docs.txt, ...).
func isRequirementsFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "requirements") && strings.HasSuffix(lower, ".txt")
}

// Scan locates the build manifest in a repository checkout and collects
// nearby requirements manifests. A repository without a build manifest
// returns (nil, nil): not every repository publishes documentation.
func Scan(root string, repo appcfg.Repository) (*Project, error) {
	manifestPath := ""
	if repo.ManifestPath != "" {
		candidate := filepath.Join(root, repo.ManifestPath)
		if _, err := os.Stat(candidate); err != nil {
			return nil, fmt.Errorf("configured manifest path %q not found in %s: %w", repo.ManifestPath, repo.Name, err)
		}
		manifestPath = candidate
	} else {
		manifestPath = manifest.Locate(root)
	}
	if manifestPath == "" {
		slog.Debug("No build manifest in repository", "repo", repo.Name)
		return nil, nil
	}

	project := &Project{
		Repo:         repo.Name,
		Root:         root,
		ManifestPath: manifestPath,
	}

	for _, rel := range repo.RequirementsPaths {
		project.ExtraRequirements = append(project.ExtraRequirements, filepath.Join(root, rel))
	}
	found, err := findRequirements(root)
	if err != nil {
		return nil, err
	}
	project.ExtraRequirements = appendMissing(project.ExtraRequirements, found)

	return project, nil
}

// findRequirements walks the checkout for conventional requirements
// manifests, skipping dot directories and typical vendored trees.
func findRequirements(root string) ([]string, error) {
	var out []string
	skip := map[string]bool{"node_modules": true, "vendor": true, ".git": true}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skip[d.Name()] || (strings.HasPrefix(d.Name(), ".") && path != root) {
				return fs.SkipDir
			}
			return nil
		}
		if isRequirementsFile(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}

func appendMissing(existing, candidates []string) []string {
	seen := map[string]bool{}
	for _, p := range existing {
		seen[p] = true
	}
	for _, p := range candidates {
		if !seen[p] {
			existing = append(existing, p)
			seen[p] = true
		}
	}
	return existing
}
