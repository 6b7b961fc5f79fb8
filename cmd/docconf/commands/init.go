package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/manifest"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force    bool   `help:"Overwrite existing files"`
	Output   string `short:"o" name:"output" help:"Output directory for generated files"`
	Manifest bool   `help:"Scaffold a starter .readthedocs.yaml instead of the docconf configuration"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.Manifest {
		path := ".readthedocs.yaml"
		if i.Output != "" {
			path = filepath.Join(i.Output, path)
		}
		fmt.Printf("Writing build manifest to %s\n", path)
		return manifest.WriteExample(path, i.Force)
	}
	if i.Output != "" {
		return RunInit(filepath.Join(i.Output, "docconf.yaml"), i.Force)
	}
	return RunInit(root.Config, i.Force)
}

// RunInit writes an example configuration file.
func RunInit(configPath string, force bool) error {
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}
