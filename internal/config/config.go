// Package config reads the markshot rc file.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/markshot/internal/theme"
)

// Capture modes for the save and crop snapshots.
const (
	CaptureRender = "render" // re-render the canvas off screen
	CaptureScreen = "screen" // read the window's pixels off the display
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Delete bool
}

// Config holds the application configuration.
type Config struct {
	Theme       string
	Color       string
	Stroke      float64
	FontSize    float64
	Fill        bool
	SettleDelay time.Duration
	Capture     string
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Color:       "red",
		Stroke:      2,
		FontSize:    24,
		SettleDelay: 300 * time.Millisecond,
		Capture:     CaptureRender,
		Themes:      make(map[string]*theme.Theme),
	}
}

// String returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "color = %s\n", c.Color)
	fmt.Fprintf(&sb, "stroke = %g\n", c.Stroke)
	fmt.Fprintf(&sb, "font_size = %g\n", c.FontSize)
	fmt.Fprintf(&sb, "fill = %v\n", c.Fill)
	fmt.Fprintf(&sb, "settle_delay = %s\n", c.SettleDelay)
	fmt.Fprintf(&sb, "capture = %s\n", c.Capture)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "delete = %v\n", c.Notify.Delete)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		_ = theme.Write(&sb, c.Themes[name])
	}

	return sb.String()
}
