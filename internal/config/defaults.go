package config

import "time"

const (
	defaultListenAddr     = ":8085"
	defaultDataDir        = "./docconf-data"
	defaultBranch         = "main"
	defaultRescanInterval = 15 * time.Minute
	defaultNATSSubject    = "docconf.validation"
)

// applyDefaults fills zero values with sensible defaults after unmarshal.
func applyDefaults(cfg *Config) {
	for i := range cfg.Repositories {
		if cfg.Repositories[i].Branch == "" {
			cfg.Repositories[i].Branch = defaultBranch
		}
	}
	if cfg.Daemon.Listen == "" {
		cfg.Daemon.Listen = defaultListenAddr
	}
	if cfg.Daemon.DataDir == "" {
		cfg.Daemon.DataDir = defaultDataDir
	}
	if cfg.Daemon.NATS.URL != "" && cfg.Daemon.NATS.Subject == "" {
		cfg.Daemon.NATS.Subject = defaultNATSSubject
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
