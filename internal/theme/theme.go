// Package theme holds the colours of the editor chrome.
package theme

import (
	"embed"
	"image/color"
)

//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colour palette for the editor window.
type Theme struct {
	Name string

	Background color.RGBA // behind the canvas
	Foreground color.RGBA

	ToolbarBackground color.RGBA
	StatusBackground  color.RGBA // shortcut bar and message overlay
	StatusText        color.RGBA

	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonSelected        color.RGBA // current tool, colour and width
	ButtonText            color.RGBA
	ButtonTextPress       color.RGBA
	ButtonBorder          color.RGBA

	// Shown under transparent pixels.
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	CropFill   color.RGBA
	CropBorder color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		StatusBackground:      color.RGBA{200, 200, 200, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonSelected:        color.RGBA{160, 190, 230, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextPress:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		CropFill:              color.RGBA{13, 13, 13, 13},
		CropBorder:            color.RGBA{128, 128, 128, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:                  "Dark",
		Background:            color.RGBA{40, 40, 40, 255},
		Foreground:            color.RGBA{230, 230, 230, 255},
		ToolbarBackground:     color.RGBA{50, 50, 50, 255},
		StatusBackground:      color.RGBA{30, 30, 30, 255},
		StatusText:            color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{70, 70, 70, 255},
		ButtonBackgroundHover: color.RGBA{90, 90, 90, 255},
		ButtonBackgroundPress: color.RGBA{110, 110, 110, 255},
		ButtonSelected:        color.RGBA{50, 90, 140, 255},
		ButtonText:            color.RGBA{230, 230, 230, 255},
		ButtonTextPress:       color.RGBA{255, 255, 255, 255},
		ButtonBorder:          color.RGBA{20, 20, 20, 255},
		CheckerLight:          color.RGBA{90, 90, 90, 255},
		CheckerDark:           color.RGBA{70, 70, 70, 255},
		CropFill:              color.RGBA{13, 13, 13, 13},
		CropBorder:            color.RGBA{128, 128, 128, 255},
	}
}
