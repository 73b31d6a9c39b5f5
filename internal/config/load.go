package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/utils"
	"github.com/MrSnakeDoc/gompa/internal/utils/pathutils"
	"github.com/caarlos0/env/v11"
)

const (
	configDir  = "gompa"
	configFile = "config.yml"
)

// DefaultPath returns $XDG_CONFIG_HOME/gompa/config.yml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, configDir, configFile), nil
}

// Load builds the configuration from defaults, the YAML file at path (a
// missing file is fine) and GOMPA_* environment variables, in that order.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	ok, err := utils.FileExists(path)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := utils.FileReader(path, utils.FileTypeYAML, &cfg); err != nil {
			return nil, err
		}
		logger.Debug("config: loaded %s", path)
	} else {
		logger.Debug("config: no file at %s, using defaults", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	dir, err := pathutils.ExpandHome(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	cfg.DataDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML, keeping the data dir in ~ form.
func Save(path string, cfg Config) error {
	cfg.DataDir = pathutils.ShortenHome(cfg.DataDir)
	return utils.CreateFile(path, cfg, utils.FileTypeYAML, 0o644)
}

func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("data_dir must not be empty")
	case c.StaleAfter < 0:
		return fmt.Errorf("stale_after must not be negative")
	case c.StepLatency < 0 || c.DownloadLatency < 0:
		return fmt.Errorf("latencies must not be negative")
	case c.MaxDownloadBytes < 0:
		return fmt.Errorf("max_download_bytes must not be negative")
	case c.Server.MaxBodyBytes < 0:
		return fmt.Errorf("server.max_body_bytes must not be negative")
	case c.Server.SearchDelay < 0 || c.Server.TranslateDelay < 0:
		return fmt.Errorf("server delays must not be negative")
	case c.Server.ListenPort < 0 || c.Server.ListenPort > 65535:
		return fmt.Errorf("server.listen_port %d out of range", c.Server.ListenPort)
	case !c.Reachability.Disabled && c.Reachability.Interval <= 0:
		return fmt.Errorf("reachability.interval must be positive")
	}
	return nil
}
