package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
color = #00FF00
stroke = 5
font_size = 32
fill = true
settle_delay = 150ms
capture = Screen

[notify]
save = true
copy = false
delete = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.Color != "#00FF00" {
		t.Errorf("Expected color '#00FF00', got '%s'", cfg.Color)
	}
	if cfg.Stroke != 5 || cfg.FontSize != 32 || !cfg.Fill {
		t.Errorf("Unexpected style settings: %+v", cfg)
	}
	if cfg.SettleDelay != 150*time.Millisecond {
		t.Errorf("Expected settle_delay 150ms, got %v", cfg.SettleDelay)
	}
	if cfg.Capture != CaptureScreen {
		t.Errorf("Expected capture 'screen', got %q", cfg.Capture)
	}
	if (cfg.Notify != Notify{Save: true, Delete: true}) {
		t.Errorf("Unexpected notify settings: %+v", cfg.Notify)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Color != "red" || cfg.Stroke != 2 || cfg.FontSize != 24 || cfg.Fill {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.SettleDelay != 300*time.Millisecond || cfg.Capture != CaptureRender {
		t.Errorf("Unexpected capture defaults: %v %q", cfg.SettleDelay, cfg.Capture)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"stroke = 0",
		"stroke = wide",
		"font_size = -4",
		"fill = maybe",
		"settle_delay = soon",
		"settle_delay = -1s",
		"capture = camera",
		"[notify]\nsave = sometimes",
		"[theme.x]\nBackground = blue",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q): expected error", input)
		}
	}
}

func TestErrorMentionsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("theme = dark\n\n[notify]\ncopy = nope\n"))
	if err == nil || !strings.Contains(err.Error(), "line 4 in section [notify]") {
		t.Fatalf("expected line context, got %v", err)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
color = Blue
stroke = 3
settle_delay = 1s

[notify]
save = true
copy = false
delete = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.Color != cfg2.Color || cfg.Stroke != cfg2.Stroke {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.SettleDelay != cfg2.SettleDelay {
		t.Errorf("SettleDelay mismatch: %v vs %v", cfg.SettleDelay, cfg2.SettleDelay)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverrideAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("theme = solarized\nstroke = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MARKSHOT_THEME", "")
	cfg, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "solarized" || cfg.Stroke != 3 {
		t.Errorf("override not read: %+v", cfg)
	}

	t.Setenv("MARKSHOT_THEME", "dark")
	cfg, err = NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("MARKSHOT_THEME ignored, got %q", cfg.Theme)
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.rc")
	cfg := New()
	cfg.Color = "yellow"
	cfg.Notify.Copy = true
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("MARKSHOT_THEME", "")
	got, err := NewLoader("", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Color != "yellow" || !got.Notify.Copy {
		t.Errorf("saved config not loaded: %+v", got)
	}
}
