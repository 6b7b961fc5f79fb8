package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileNames lists the accepted manifest file names, in lookup order.
var FileNames = []string{
	".readthedocs.yaml",
	".readthedocs.yml",
	"readthedocs.yaml",
	"readthedocs.yml",
}

// knownTopLevelKeys is the set of keys schema version 2 defines.
var knownTopLevelKeys = map[string]bool{
	"version":    true,
	"formats":    true,
	"build":      true,
	"sphinx":     true,
	"mkdocs":     true,
	"python":     true,
	"conda":      true,
	"submodules": true,
	"search":     true,
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from discovery or the CLI
	if err != nil {
		return nil, fmt.Errorf("read build manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse build manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse unmarshals manifest YAML. Unknown top-level keys are collected on
// the result rather than rejected; malformed YAML is the only hard error.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	// A second pass over the raw document collects unknown keys in
	// declaration order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			for i := 0; i+1 < len(root.Content); i += 2 {
				key := root.Content[i].Value
				if !knownTopLevelKeys[key] {
					m.UnknownKeys = append(m.UnknownKeys, key)
				}
			}
		}
	}

	applyDefaults(&m)
	return &m, nil
}

// Locate finds the build manifest in dir, trying the accepted file names
// in order. Returns the full path, or "" when no manifest exists.
func Locate(dir string) string {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
