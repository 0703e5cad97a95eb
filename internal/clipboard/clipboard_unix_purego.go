//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	owner    *x11Clipboard

	errTargetUnavailable = errors.New("clipboard target unavailable")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		clip := &x11Clipboard{}
		if err := clip.initialize(); err != nil {
			initErr = fmt.Errorf("connect to X server: %w", err)
			return
		}
		owner = clip
	})
	return initErr
}

// WriteImage publishes img to the clipboard as PNG. The data is served from
// this process for as long as it owns the selection.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return owner.writeImage(data)
}

// ReadText returns the UTF-8 text on the clipboard, or ErrNoText.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := owner.readSelection(owner.atoms.utf8)
	if errors.Is(err, errTargetUnavailable) {
		data, err = owner.readSelection(xproto.AtomString)
	}
	if errors.Is(err, errTargetUnavailable) {
		return "", ErrNoText
	}
	if err != nil {
		return "", err
	}
	return textFromSelection(data)
}

// textFromSelection drops the trailing NUL some owners append to STRING
// replies.
func textFromSelection(data []byte) (string, error) {
	if len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return "", ErrNoText
	}
	return string(data), nil
}

type x11Clipboard struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu        sync.RWMutex
	imageData []byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func (c *x11Clipboard) initialize() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{eventMask}).Check(); err != nil {
		conn.Close()
		return err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return err
	}
	c.conn = conn
	c.window = window
	c.atoms = atoms
	go c.eventLoop()
	return nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "image/png", "MARKSHOT_CLIPBOARD"}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[i] = reply.Atom
	}
	return atomSet{clipboard: atoms[0], targets: atoms[1], utf8: atoms[2], png: atoms[3], property: atoms[4]}, nil
}

func (c *x11Clipboard) writeImage(data []byte) error {
	c.mu.Lock()
	c.imageData = data
	c.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *x11Clipboard) eventLoop() {
	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.handleSelectionRequest(e)
		case xproto.SelectionClearEvent:
			c.mu.Lock()
			c.imageData = nil
			c.mu.Unlock()
		}
	}
}

// selectionPayload answers a request for target. Only TARGETS and PNG are
// offered; ok is false when the target cannot be served.
func (c *x11Clipboard) selectionPayload(target xproto.Atom) (typ xproto.Atom, format byte, payload []byte, ok bool) {
	c.mu.RLock()
	img := c.imageData
	c.mu.RUnlock()

	switch target {
	case c.atoms.targets:
		targets := []xproto.Atom{c.atoms.targets}
		if len(img) > 0 {
			targets = append(targets, c.atoms.png)
		}
		return xproto.AtomAtom, 32, atomsToBytes(targets), true
	case c.atoms.png:
		if len(img) == 0 {
			return 0, 0, nil, false
		}
		return c.atoms.png, 8, img, true
	}
	return 0, 0, nil, false
}

func (c *x11Clipboard) handleSelectionRequest(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	if typ, format, payload, ok := c.selectionPayload(e.Target); ok {
		length := uint32(len(payload)) / uint32(format/8)
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, length, payload)
	} else {
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// readSelection converts the clipboard to target on a private connection so
// the owner's event loop keeps serving requests, including our own.
func (c *x11Clipboard) readSelection(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, target, c.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, errTargetUnavailable
		}
		if e.Property != c.atoms.property {
			continue
		}
		reply, perr := xproto.GetProperty(conn, true, window, c.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return reply.Value, nil
	}
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}
