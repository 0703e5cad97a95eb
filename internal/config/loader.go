package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // "dev" also looks in the working directory
	OverridePath string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file, or returns defaults when there is none.
// MARKSHOT_THEME overrides the theme either way.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("MARKSHOT_THEME")); v != "" {
		cfg.Theme = v
	}
	return cfg, nil
}

// GetConfigPath returns the configuration file to read, or "" when there is
// none.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if path, err := homedir.Expand(l.OverridePath); err == nil {
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".markshotrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath is where "config save" writes.
func DefaultPath() string {
	path, err := homedir.Expand("~/.config/markshot/config.rc")
	if err != nil {
		return ""
	}
	return path
}

// Save writes cfg to path, creating the directory.
func Save(cfg *Config, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
