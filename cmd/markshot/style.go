package main

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/config"
	"github.com/example/markshot/internal/editor"
	"github.com/example/markshot/internal/theme"
)

// parseColor accepts a menu color name, an SVG color name or #RRGGBB[AA].
func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := editor.PaletteColor(spec); ok {
		return c, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") {
		c, err := theme.ParseColor(spec)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// styleFromConfig seeds the editor style from the rc file, falling back to
// the defaults for anything unusable.
func styleFromConfig(cfg *config.Config) (annotation.Style, error) {
	style := editor.DefaultStyle()
	if cfg == nil {
		return style, nil
	}
	if cfg.Color != "" {
		c, err := parseColor(cfg.Color)
		if err != nil {
			return style, fmt.Errorf("config color: %w", err)
		}
		style.Color = c
	}
	if cfg.Stroke > 0 {
		style.StrokeWidth = cfg.Stroke
	}
	if cfg.FontSize > 0 {
		style.FontSize = cfg.FontSize
	}
	style.Filled = cfg.Fill
	return style, nil
}
