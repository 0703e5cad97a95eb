package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Loader finds themes by name or path.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader with the standard search paths.
func NewLoader() *Loader {
	dir, err := homedir.Expand("~/.config/markshot/themes")
	if err != nil {
		dir = ""
	}
	return &Loader{
		ConfigDir: dir,
		SystemDir: "/usr/share/markshot/themes",
	}
}

// Load resolves name in order: a file path, the built-in Default and Dark
// themes, the embedded theme files, the config dir and the system dir.
func (l *Loader) Load(name string) (*Theme, error) {
	switch strings.ToLower(name) {
	case "", "default", "light":
		return Default(), nil
	case "dark":
		return Dark(), nil
	}

	if path, err := homedir.Expand(name); err == nil {
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
