// Package clipboard moves annotated images out to, and text in from, the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
)

var (
	// ErrNoText means the clipboard holds no text.
	ErrNoText = errors.New("clipboard does not contain text data")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
