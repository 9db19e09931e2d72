// Package config loads the dashboard configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

var (
	// ErrConfigFileNotFound means an explicitly requested config file is missing.
	ErrConfigFileNotFound = errors.New("config file not found")

	// ErrConfigInvalid means a config file exists but cannot be parsed.
	ErrConfigInvalid = errors.New("invalid config file")

	errBaseURLEmpty = errors.New("base_url cannot be empty")
)

// ConfigFileName is the project-local config file name.
const ConfigFileName = ".biblio.json"

const defaultTimeoutSeconds = 15

// Config holds all configuration options. Config files are JSONC (JSON with
// comments), parsed via hujson.
type Config struct {
	// From config files (serialized)
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	SessionFile    string `json:"session_file,omitempty"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Timeout returns the configured request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the default configuration. The base URL matches the
// backend's development default.
func Default() Config {
	return Config{
		BaseURL:        "http://127.0.0.1:8000",
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// globalConfigPath returns $XDG_CONFIG_HOME/biblio/config.json, falling back
// to ~/.config/biblio/config.json. Empty when no home is known.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "biblio", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "biblio", "config.json")
	}

	return ""
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/biblio/config.json)
// 3. Project config file (.biblio.json in workDir, if present)
// 4. Explicit config file via configPath (if non-empty)
// 5. The baseURL CLI override.
func Load(workDir, configPath, baseURLOverride string, env map[string]string) (Config, error) {
	cfg := Default()

	if globalPath := globalConfigPath(env); globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, globalCfg)
			cfg.Sources.Global = globalPath
		}
	}

	projectFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		projectFile = configPath
		if !filepath.IsAbs(projectFile) {
			projectFile = filepath.Join(workDir, projectFile)
		}

		mustExist = true
	}

	projectCfg, loaded, err := loadFile(projectFile, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, projectCfg)
		cfg.Sources.Project = projectFile
	}

	if baseURLOverride != "" {
		cfg.BaseURL = baseURLOverride
	}

	if cfg.BaseURL == "" {
		return Config{}, errBaseURLEmpty
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}

	return cfg, nil
}

// loadFile reads one config file. Missing optional files return loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// merge overlays non-zero fields of overlay onto base.
func merge(base, overlay Config) Config {
	if overlay.BaseURL != "" {
		base.BaseURL = overlay.BaseURL
	}

	if overlay.TimeoutSeconds > 0 {
		base.TimeoutSeconds = overlay.TimeoutSeconds
	}

	if overlay.SessionFile != "" {
		base.SessionFile = overlay.SessionFile
	}

	return base
}
