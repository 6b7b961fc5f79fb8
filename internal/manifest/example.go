package manifest

import (
	"fmt"
	"os"
)

// exampleManifest is the starter build manifest written by `docconf init
// --manifest`. It mirrors the layout the hosted service documents for a
// Sphinx project.
const exampleManifest = `version: 2

build:
  os: ubuntu-24.04
  tools:
    python: "3.12"

sphinx:
  builder: html
  configuration: docs/conf.py
  fail_on_warning: false

formats:
  - pdf
  - epub

python:
  install:
    - requirements: docs/requirements.txt

search:
  ranking:
    "api/*": -1
    "tutorials/*": 2
`

// WriteExample writes a starter build manifest to path.
func WriteExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("build manifest already exists: %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(exampleManifest), 0o644); err != nil {
		return fmt.Errorf("write build manifest: %w", err)
	}
	return nil
}
