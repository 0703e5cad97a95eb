package editor

import (
	"context"
	"fmt"
)

// RequestSave marks the canvas for saving. The host calls CompleteSave once
// the next frame is on screen.
func (e *Editor) RequestSave() {
	e.commitText()
	e.saveRequested = true
	e.changed()
}

func (e *Editor) SaveRequested() bool { return e.saveRequested }

// CompleteSave waits for the canvas to settle, captures it and overwrites the
// document. The save request is cleared whether or not that works.
func (e *Editor) CompleteSave(ctx context.Context) error {
	defer func() { e.saveRequested = false }()
	if e.doc == nil {
		return ErrNoDocument
	}
	img, err := e.captureCanvas(ctx)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := e.doc.Save(img); err != nil {
		return fmt.Errorf("save %s: %w", e.doc.Path(), err)
	}
	return nil
}

// Delete removes the document from disk. The host closes the window
// afterwards.
func (e *Editor) Delete() error {
	if e.doc == nil {
		return ErrNoDocument
	}
	if err := e.doc.Remove(); err != nil {
		return fmt.Errorf("delete %s: %w", e.doc.Path(), err)
	}
	return nil
}
