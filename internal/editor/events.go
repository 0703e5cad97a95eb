package editor

import (
	"context"
	"log"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/markshot/internal/annotation"
)

// PointerDown starts a gesture at p. For Crop it first waits for the canvas
// to settle and captures it, which blocks the caller.
func (e *Editor) PointerDown(ctx context.Context, p annotation.Point) {
	if e.pickingColor {
		return
	}
	if e.selection == annotation.ToolText && e.writingText {
		return
	}
	e.commitText()
	e.discardInProgress()

	a := annotation.New(e.selection, p, e.style, e.stack)
	if c, ok := a.(*annotation.Crop); ok {
		pre, err := e.captureCanvas(ctx)
		if err != nil {
			log.Printf("crop: %v", err)
			return
		}
		c.PreImage = pre
	}
	e.inProgress = a
	e.drawing = true
	e.changed()
}

// PointerMove extends the in-progress annotation while a drag is active.
func (e *Editor) PointerMove(p annotation.Point) {
	if !e.drawing || e.inProgress == nil {
		return
	}
	e.inProgress.Extend(p)
	e.changed()
}

// PointerUp finishes a gesture. In picking mode it samples the image
// instead.
func (e *Editor) PointerUp(p annotation.Point) {
	if e.pickingColor {
		e.pickAt(p)
		return
	}
	if !e.drawing || e.inProgress == nil {
		return
	}
	e.inProgress.Extend(p)
	e.drawing = false

	switch a := e.inProgress.(type) {
	case *annotation.Text:
		e.writingText = true
	case *annotation.Crop:
		e.inProgress = nil
		if err := e.commitCrop(a); err != nil {
			log.Printf("crop: %v", err)
		}
	default:
		e.history.Push(a)
		e.inProgress = nil
	}
	e.changed()
}

// KeyDown routes a key to the text being written. It reports whether the key
// was consumed; hosts use anything else as a shortcut.
func (e *Editor) KeyDown(ev key.Event) bool {
	if !e.writingText || ev.Direction == key.DirRelease {
		return false
	}
	t, ok := e.inProgress.(*annotation.Text)
	if !ok {
		e.writingText = false
		return false
	}
	switch ev.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		e.commitText()
		return true
	case key.CodeEscape:
		e.writingText = false
		e.inProgress = nil
		e.changed()
		return true
	case key.CodeDeleteBackspace:
		t.Backspace()
	case key.CodeLeftShift, key.CodeRightShift,
		key.CodeLeftAlt, key.CodeRightAlt,
		key.CodeLeftGUI, key.CodeRightGUI,
		key.CodeLeftControl, key.CodeRightControl,
		key.CodeTab, key.CodeCapsLock:
		return true
	default:
		if ev.Modifiers&(key.ModControl|key.ModMeta) != 0 {
			return false
		}
		if ev.Rune <= 0 || !unicode.IsPrint(ev.Rune) {
			return true
		}
		t.Type(ev.Rune)
	}
	t.Transform = e.stack.Clone()
	e.changed()
	return true
}

// Paste replaces the content of the text being written with s.
func (e *Editor) Paste(s string) error {
	if !e.writingText {
		return nil
	}
	if s == "" {
		return ErrClipboardUnavailable
	}
	t, ok := e.inProgress.(*annotation.Text)
	if !ok {
		return nil
	}
	t.Replace(s)
	t.Transform = e.stack.Clone()
	e.changed()
	return nil
}

// Blur handles focus loss. A pending text is committed; a drag in progress
// stays as it is until the next pointer event.
func (e *Editor) Blur() {
	e.commitText()
}

// discardInProgress drops a gesture that never saw its PointerUp.
func (e *Editor) discardInProgress() {
	if e.inProgress == nil {
		return
	}
	if c, ok := e.inProgress.(*annotation.Crop); ok {
		c.Release()
	}
	e.inProgress = nil
	e.drawing = false
}
