package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the docconf tool configuration (config.yaml). It describes
// which repositories to scan and how the daemon behaves; it is unrelated
// to the build manifests being validated.
type Config struct {
	Repositories []Repository  `yaml:"repositories"`
	Daemon       DaemonConfig  `yaml:"daemon,omitempty"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
}

// Repository is one repository whose build manifest docconf validates.
type Repository struct {
	URL    string      `yaml:"url"`
	Name   string      `yaml:"name"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
	// ManifestPath overrides manifest discovery with an explicit path
	// relative to the repository root.
	ManifestPath string `yaml:"manifest_path,omitempty"`
	// RequirementsPaths lists extra requirements manifests to validate in
	// addition to the ones python.install references.
	RequirementsPaths []string `yaml:"requirements_paths,omitempty"`
}

// AuthType enumerates supported authentication methods (stringly for YAML compatibility).
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

// AuthConfig represents repository authentication configuration.
type AuthConfig struct {
	Type     AuthType `yaml:"type"` // token|basic|none
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty"`
}

// IsZero reports whether no auth method is specified.
func (a *AuthConfig) IsZero() bool { return a == nil || a.Type == "" || a.Type == AuthTypeNone }

// DaemonConfig tunes continuous validation mode.
type DaemonConfig struct {
	// Listen is the HTTP bind address for status, report and metrics.
	Listen string `yaml:"listen,omitempty"`
	// DataDir holds the run history database and the persistent workspace.
	DataDir string `yaml:"data_dir,omitempty"`
	// Interval is the rescan period as a duration string (default 15m).
	Interval string `yaml:"interval,omitempty"`
	// WatchPaths lists local directories whose manifests are re-linted on
	// file change.
	WatchPaths []string `yaml:"watch_paths,omitempty"`
	// Metrics toggles the Prometheus /metrics endpoint.
	Metrics bool       `yaml:"metrics,omitempty"`
	NATS    NATSConfig `yaml:"nats,omitempty"`
}

// NATSConfig configures validation event publication. Empty URL disables it.
type NATSConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingConfig selects log verbosity and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
	Format string `yaml:"format,omitempty"` // text|json
}

// RescanInterval parses Daemon.Interval, falling back to the default on
// empty or malformed values.
func (c *Config) RescanInterval() time.Duration {
	if c.Daemon.Interval == "" {
		return defaultRescanInterval
	}
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil || d <= 0 {
		return defaultRescanInterval
	}
	return d
}

// Load loads configuration from the specified file. A .env file next to
// the working directory is loaded first so ${VAR} expansion in the YAML
// can reference it.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 - path comes from the CLI
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the YAML content before unmarshal
	// so tokens can live in the environment rather than the file.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i, repo := range c.Repositories {
		if repo.URL == "" {
			return fmt.Errorf("repositories[%d]: url is required", i)
		}
		if repo.Name == "" {
			return fmt.Errorf("repositories[%d]: name is required", i)
		}
		if seen[repo.Name] {
			return fmt.Errorf("repositories[%d]: duplicate name %q", i, repo.Name)
		}
		seen[repo.Name] = true
		if repo.Auth != nil && !repo.Auth.IsZero() {
			switch repo.Auth.Type {
			case AuthTypeToken:
				if repo.Auth.Token == "" {
					return fmt.Errorf("repository %q: token auth requires a token", repo.Name)
				}
			case AuthTypeBasic:
				if repo.Auth.Username == "" || repo.Auth.Password == "" {
					return fmt.Errorf("repository %q: basic auth requires username and password", repo.Name)
				}
			default:
				return fmt.Errorf("repository %q: unknown auth type %q", repo.Name, repo.Auth.Type)
			}
		}
	}
	if c.Daemon.Interval != "" {
		if _, err := time.ParseDuration(c.Daemon.Interval); err != nil {
			return fmt.Errorf("daemon.interval: %w", err)
		}
	}
	return nil
}
