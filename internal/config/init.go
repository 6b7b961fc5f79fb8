package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Repositories: []Repository{
			{
				URL:    "https://github.com/example/library.git",
				Name:   "library",
				Branch: "main",
			},
			{
				URL:    "https://github.com/example/private-docs.git",
				Name:   "private-docs",
				Branch: "main",
				Auth: &AuthConfig{
					Type:  AuthTypeToken,
					Token: "${GIT_TOKEN}",
				},
			},
		},
		Daemon: DaemonConfig{
			Listen:   defaultListenAddr,
			DataDir:  defaultDataDir,
			Interval: "15m",
			Metrics:  true,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
