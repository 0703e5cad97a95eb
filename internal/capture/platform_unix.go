//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend {
	return x11Backend{}
}

// withRoot connects to the X server for the duration of fn.
func withRoot(fn func(conn *xgb.Conn, setup *xproto.SetupInfo, root xproto.Window) error) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return fmt.Errorf("xproto screen unavailable")
	}
	return fn(conn, setup, screen.Root)
}

func (x11Backend) ListMonitors() ([]MonitorInfo, error) {
	var monitors []MonitorInfo
	err := withRoot(func(conn *xgb.Conn, _ *xproto.SetupInfo, root xproto.Window) error {
		var err error
		monitors, err = fetchMonitors(conn, root)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

func (x11Backend) ListWindows() ([]WindowInfo, error) {
	var windows []WindowInfo
	err := withRoot(func(conn *xgb.Conn, _ *xproto.SetupInfo, root xproto.Window) error {
		activeID, _ := fetchActiveWindow(conn, root)
		var err error
		windows, err = fetchWindows(conn, root, activeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, errNoWindows
	}
	return windows, nil
}

func (x11Backend) CaptureWindowImage(id uint32) (*image.RGBA, error) {
	var img *image.RGBA
	err := withRoot(func(conn *xgb.Conn, setup *xproto.SetupInfo, _ xproto.Window) error {
		geom, err := xproto.GetGeometry(conn, xproto.Drawable(id)).Reply()
		if err != nil {
			return fmt.Errorf("window geometry: %w", err)
		}
		if geom.Width == 0 || geom.Height == 0 {
			return fmt.Errorf("window has empty geometry")
		}
		reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(id), 0, 0, geom.Width, geom.Height, ^uint32(0)).Reply()
		if err != nil {
			return fmt.Errorf("window pixels: %w", err)
		}
		img, err = windowPixels(setup, reply, image.Pt(int(geom.Width), int(geom.Height)))
		return err
	})
	return img, err
}

// WorkArea reads _NET_WORKAREA for the current desktop.
func (x11Backend) WorkArea() (image.Rectangle, error) {
	var area image.Rectangle
	err := withRoot(func(conn *xgb.Conn, _ *xproto.SetupInfo, root xproto.Window) error {
		atom, err := internAtom(conn, "_NET_WORKAREA")
		if err != nil {
			return err
		}
		reply, err := xproto.GetProperty(conn, false, root, atom, xproto.AtomCardinal, 0, 4).Reply()
		if err != nil {
			return err
		}
		r, ok := workAreaFromProperty(reply.Format, reply.Value)
		if !ok {
			return fmt.Errorf("work area unavailable")
		}
		area = r
		return nil
	})
	return area, err
}

// workAreaFromProperty decodes the first x, y, width, height quadruple.
func workAreaFromProperty(format byte, value []byte) (image.Rectangle, bool) {
	if format != 32 || len(value) < 16 {
		return image.Rectangle{}, false
	}
	x := int(int32(xgb.Get32(value[0:])))
	y := int(int32(xgb.Get32(value[4:])))
	w := int(xgb.Get32(value[8:]))
	h := int(xgb.Get32(value[12:]))
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}

func fetchMonitors(conn *xgb.Conn, root xproto.Window) ([]MonitorInfo, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primaryOutput := randr.Output(0)
	if primary, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primaryOutput = primary.Output
	}
	monitors := make([]MonitorInfo, 0, len(res.Outputs))
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		monitors = append(monitors, MonitorInfo{
			Index:   len(monitors),
			Name:    strings.TrimSpace(string(info.Name)),
			Rect:    image.Rect(int(crtc.X), int(crtc.Y), int(crtc.X)+int(crtc.Width), int(crtc.Y)+int(crtc.Height)),
			Primary: output == primaryOutput,
		})
	}
	return monitors, nil
}

func fetchActiveWindow(conn *xgb.Conn, root xproto.Window) (uint32, error) {
	atom, err := internAtom(conn, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return 0, err
	}
	reply, err := xproto.GetProperty(conn, false, root, atom, xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return 0, err
	}
	if reply.Format != 32 || reply.ValueLen == 0 {
		return 0, fmt.Errorf("active window unavailable")
	}
	return xgb.Get32(reply.Value), nil
}

func fetchWindows(conn *xgb.Conn, root xproto.Window, activeID uint32) ([]WindowInfo, error) {
	listAtom, err := internAtom(conn, "_NET_CLIENT_LIST_STACKING")
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(conn, false, root, listAtom, xproto.AtomWindow, 0, 1<<16).Reply()
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		listAtom, err = internAtom(conn, "_NET_CLIENT_LIST")
		if err != nil {
			return nil, err
		}
		reply, err = xproto.GetProperty(conn, false, root, listAtom, xproto.AtomWindow, 0, 1<<16).Reply()
		if err != nil {
			return nil, err
		}
	}
	windows := make([]WindowInfo, 0, reply.ValueLen)
	for idx := int(reply.ValueLen) - 1; idx >= 0; idx-- {
		win := xproto.Window(xgb.Get32(reply.Value[idx*4:]))
		rect, err := windowRect(conn, root, win)
		if err != nil {
			continue
		}
		title := readTextProperty(conn, win, "_NET_WM_NAME", "UTF8_STRING")
		if title == "" {
			title = readTextProperty(conn, win, "WM_NAME", "")
		}
		windows = append(windows, WindowInfo{
			Index:  len(windows),
			ID:     uint32(win),
			Title:  title,
			Rect:   rect,
			Active: uint32(win) == activeID,
		})
	}
	return windows, nil
}

func windowRect(conn *xgb.Conn, root xproto.Window, win xproto.Window) (image.Rectangle, error) {
	geo, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	trans, err := xproto.TranslateCoordinates(conn, win, root, 0, 0).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	x, y := int(trans.DstX), int(trans.DstY)
	return image.Rect(x, y, x+int(geo.Width), y+int(geo.Height)), nil
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

// readTextProperty reads a string property of the given type. An empty
// typeName means STRING.
func readTextProperty(conn *xgb.Conn, win xproto.Window, name, typeName string) string {
	atom, err := internAtom(conn, name)
	if err != nil {
		return ""
	}
	var typ xproto.Atom = xproto.AtomString
	if typeName != "" {
		if typ, err = internAtom(conn, typeName); err != nil {
			return ""
		}
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, typ, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}
