package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	ListWindows() ([]WindowInfo, error)
	CaptureWindowImage(uint32) (*image.RGBA, error)
	WorkArea() (image.Rectangle, error)
}

var backend = newBackend()

var (
	errNoMonitors = errors.New("no monitors available")
	errNoWindows  = errors.New("no windows available")
)

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// WindowInfo describes a top-level window.
type WindowInfo struct {
	Index  int
	ID     uint32
	Title  string
	Rect   image.Rectangle
	Active bool
}

func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

func ListWindows() ([]WindowInfo, error) {
	return backend.ListWindows()
}

func captureWindowImage(id uint32) (*image.RGBA, error) {
	return backend.CaptureWindowImage(id)
}

// FindMonitor resolves a monitor selector: "primary", an index (optionally
// prefixed with #) or part of the output name. An empty selector picks the
// first monitor.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	lower := strings.ToLower(strings.TrimSpace(selector))
	switch {
	case lower == "":
		return monitors[0], nil
	case lower == "primary":
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(lower, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// FindWindowByTitle returns the window whose title is exactly title.
func FindWindowByTitle(windows []WindowInfo, title string) (WindowInfo, error) {
	if len(windows) == 0 {
		return WindowInfo{}, errNoWindows
	}
	for _, win := range windows {
		if win.Title == title {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window with title %q not found", title)
}
