package editor

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/markshot/internal/annotation"
)

// NamedColor is one entry of the color menu.
type NamedColor struct {
	Name  string
	Color color.RGBA
}

var palette = []NamedColor{
	{"Red", color.RGBA{255, 0, 0, 255}},
	{"Green", color.RGBA{0, 128, 0, 255}},
	{"Black", color.RGBA{0, 0, 0, 255}},
	{"White", color.RGBA{255, 255, 255, 255}},
	{"Aqua", color.RGBA{0, 255, 255, 255}},
	{"Blue", color.RGBA{0, 0, 255, 255}},
	{"Fuchsia", color.RGBA{255, 0, 255, 255}},
	{"Gray", color.RGBA{128, 128, 128, 255}},
	{"Maroon", color.RGBA{128, 0, 0, 255}},
	{"Yellow", color.RGBA{255, 255, 0, 255}},
	{"Silver", color.RGBA{192, 192, 192, 255}},
}

var strokeWidths = []float64{2, 3, 5}

const (
	minFontSize  = 20
	maxFontSize  = 72
	fontSizeStep = 4
)

// Palette returns a copy of the color menu.
func Palette() []NamedColor {
	out := make([]NamedColor, len(palette))
	copy(out, palette)
	return out
}

// PaletteColor looks a menu color up by name, ignoring case.
func PaletteColor(name string) (color.RGBA, bool) {
	for _, p := range palette {
		if strings.EqualFold(p.Name, name) {
			return p.Color, true
		}
	}
	return color.RGBA{}, false
}

// StrokeWidths returns the stroke menu in points.
func StrokeWidths() []float64 {
	return append([]float64(nil), strokeWidths...)
}

// FontSizes returns the font size menu.
func FontSizes() []float64 {
	var out []float64
	for s := minFontSize; s <= maxFontSize; s += fontSizeStep {
		out = append(out, float64(s))
	}
	return out
}

// DefaultStyle is red, 2pt strokes, 24pt text and no fill.
func DefaultStyle() annotation.Style {
	return annotation.Style{
		Color:       palette[0].Color,
		StrokeWidth: strokeWidths[0],
		FontSize:    24,
	}
}

// ColorLabel names c for the color menu. Colors not in the palette are shown
// as #RRGGBB.
func ColorLabel(c color.RGBA) string {
	for _, p := range palette {
		if p.Color == c {
			return p.Name
		}
	}
	return HexColor(c)
}

// HexColor formats c as #RRGGBB.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
