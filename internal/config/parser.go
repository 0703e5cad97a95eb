package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/markshot/internal/theme"
)

// Parse reads configuration in rc format: root keys, a [notify] section and
// any number of [theme.NAME] sections.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := theme.SplitLine(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = theme.SetField(current, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			where := "root section"
			if section != "" {
				where = "section [" + section + "]"
			}
			return nil, fmt.Errorf("line %d in %s: %w", lineNo, where, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "color", "colour":
		cfg.Color = value
	case "stroke":
		f, err := positive(key, value)
		if err != nil {
			return err
		}
		cfg.Stroke = f
	case "font_size":
		f, err := positive(key, value)
		if err != nil {
			return err
		}
		cfg.FontSize = f
	case "fill":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		cfg.Fill = b
	case "settle_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		cfg.SettleDelay = d
	case "capture":
		v := strings.ToLower(value)
		if v != CaptureRender && v != CaptureScreen {
			return fmt.Errorf("capture must be %q or %q, got %q", CaptureRender, CaptureScreen, value)
		}
		cfg.Capture = v
	}
	return nil
}

func positive(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return f, nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "delete":
		n.Delete = b
	}
	return nil
}
