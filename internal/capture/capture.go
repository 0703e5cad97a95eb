// Package capture grabs pixels off the display for the screen capture mode
// and reports the monitor work area used to size the editor.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// CaptureOptions controls what the compositor includes in a screenshot.
type CaptureOptions struct {
	IncludeCursor bool
}

var errEmptyRegion = errors.New("region is empty")

var screenshotFn = portalScreenshot

// Screen captures a region of the markshot window as it appears on the
// display. The window is found by its title, so regions are relative to
// the window's top-left corner. With no title regions are in global screen
// coordinates.
type Screen struct {
	Title   string
	Options CaptureOptions
}

// NewScreen returns a Screen that looks for the window called title.
func NewScreen(title string) *Screen {
	return &Screen{Title: title}
}

// CaptureRegion returns the pixels inside r. It reads the window directly
// when the X server allows it and otherwise crops a desktop screenshot.
func (s *Screen) CaptureRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return nil, errEmptyRegion
	}
	if s.Title == "" {
		shot, err := screenshotFn(ctx, s.Options)
		if err != nil {
			return nil, err
		}
		return cropToRect(shot, r)
	}

	windows, err := ListWindows()
	if err != nil {
		return nil, fmt.Errorf("find window %q: %w", s.Title, err)
	}
	info, err := FindWindowByTitle(windows, s.Title)
	if err != nil {
		return nil, fmt.Errorf("find window %q: %w", s.Title, err)
	}
	img, directErr := captureWindowImage(info.ID)
	if directErr == nil {
		return cropToRect(img, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shot, err := screenshotFn(ctx, s.Options)
	if err != nil {
		return nil, fmt.Errorf("window capture: %v; fallback screenshot failed: %w", directErr, err)
	}
	img, err = cropToRect(shot, r.Add(info.Rect.Min))
	if err != nil {
		return nil, fmt.Errorf("window capture: %v; fallback crop failed: %w", directErr, err)
	}
	return img, nil
}

// WorkArea is the usable area of the primary monitor. It falls back to the
// whole primary monitor when the window manager does not publish one.
func WorkArea() (image.Rectangle, error) {
	if r, err := backend.WorkArea(); err == nil && !r.Empty() {
		return r, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return image.Rectangle{}, err
	}
	mon, err := FindMonitor(monitors, "primary")
	if err != nil {
		return image.Rectangle{}, err
	}
	return mon.Rect, nil
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
