//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"
	"image"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error

	read  = clipboard.Read
	write = func(f clipboard.Format, data []byte) { clipboard.Write(f, data) }
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	write(clipboard.FmtImage, data)
	return nil
}

// ReadText returns the UTF-8 text on the clipboard, or ErrNoText.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := read(clipboard.FmtText)
	if len(data) == 0 {
		return "", ErrNoText
	}
	return string(data), nil
}
