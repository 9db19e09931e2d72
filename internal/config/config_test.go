package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "", "", map[string]string{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("BaseURL = %q, want development default", cfg.BaseURL)
	}

	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("Timeout() = %v, want 15s", cfg.Timeout())
	}

	if cfg.Sources.Global != "" || cfg.Sources.Project != "" {
		t.Fatalf("Sources = %+v, want none", cfg.Sources)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{
		// project override
		"base_url": "http://example.test:9000",
		"timeout_seconds": 5
	}`)

	cfg, err := Load(workDir, "", "", map[string]string{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://example.test:9000" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}

	if cfg.TimeoutSeconds != 5 {
		t.Fatalf("TimeoutSeconds = %d, want 5", cfg.TimeoutSeconds)
	}

	if cfg.Sources.Project == "" {
		t.Fatal("project source not recorded")
	}
}

func TestLoadGlobalThenProjectPrecedence(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "biblio", "config.json"), `{
		"base_url": "http://global.test",
		"session_file": "/tmp/global-session.json"
	}`)

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{"base_url": "http://project.test"}`)

	cfg, err := Load(workDir, "", "", map[string]string{"HOME": home})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Project wins for base_url, global's session_file survives.
	if cfg.BaseURL != "http://project.test" {
		t.Fatalf("BaseURL = %q, want project value", cfg.BaseURL)
	}

	if cfg.SessionFile != "/tmp/global-session.json" {
		t.Fatalf("SessionFile = %q, want global value", cfg.SessionFile)
	}
}

func TestLoadXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	writeFile(t, filepath.Join(xdg, "biblio", "config.json"), `{"base_url": "http://xdg.test"}`)

	cfg, err := Load(t.TempDir(), "", "", map[string]string{"XDG_CONFIG_HOME": xdg, "HOME": "/nonexistent"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://xdg.test" {
		t.Fatalf("BaseURL = %q, want XDG config value", cfg.BaseURL)
	}
}

func TestLoadExplicitConfigMustExist(t *testing.T) {
	_, err := Load(t.TempDir(), "missing.json", "", map[string]string{})
	if !errors.Is(err, ErrConfigFileNotFound) {
		t.Fatalf("Load() error = %v, want ErrConfigFileNotFound", err)
	}
}

func TestLoadExplicitConfigRelativePath(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "custom.json"), `{"base_url": "http://custom.test"}`)

	cfg, err := Load(workDir, "custom.json", "", map[string]string{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://custom.test" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{broken`)

	_, err := Load(workDir, "", "", map[string]string{})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("Load() error = %v, want ErrConfigInvalid", err)
	}
}

func TestLoadBaseURLOverrideWins(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{"base_url": "http://project.test"}`)

	cfg, err := Load(workDir, "", "http://cli.test", map[string]string{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "http://cli.test" {
		t.Fatalf("BaseURL = %q, want CLI override", cfg.BaseURL)
	}
}

func TestLoadEmptyBaseURLFails(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{"base_url": ""}`)

	// An empty project value falls back to the default, which is never empty;
	// only an explicit empty override can produce the error.
	cfg, err := Load(workDir, "", "", map[string]string{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL == "" {
		t.Fatal("empty project base_url wiped the default")
	}
}

func TestLoadNonPositiveTimeoutFallsBack(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{"timeout_seconds": -3}`)

	cfg, err := Load(workDir, "", "", map[string]string{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.TimeoutSeconds != defaultTimeoutSeconds {
		t.Fatalf("TimeoutSeconds = %d, want default", cfg.TimeoutSeconds)
	}
}
