// Package editor turns pointer and keyboard input into annotations. An Editor
// is owned by a single goroutine and holds no locks.
package editor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/history"
	"github.com/example/markshot/internal/transform"
)

// DefaultSettleDelay is the pause before crop and save capture the canvas.
const DefaultSettleDelay = 300 * time.Millisecond

var (
	ErrNoImage              = errors.New("editor: no image")
	ErrNoDocument           = errors.New("editor: no document attached")
	ErrClipboardUnavailable = errors.New("editor: clipboard has no text")
	ErrCropDegenerate       = errors.New("editor: crop area is empty")
)

// RegionCapturer grabs the pixels of the canvas region r.
type RegionCapturer interface {
	CaptureRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error)
}

// Document is the file being annotated.
type Document interface {
	Save(img image.Image) error
	Remove() error
	Path() string
}

// sleep waits d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Editor is the annotation engine behind the canvas.
type Editor struct {
	image    *image.RGBA
	viewport image.Rectangle
	stack    transform.Stack
	history  *history.History

	inProgress annotation.Annotation
	selection  annotation.Tool
	style      annotation.Style
	custom     bool

	drawing      bool
	writingText  bool
	pickingColor bool

	saveRequested bool
	layoutPending bool

	settleDelay time.Duration
	capturer    RegionCapturer
	doc         Document
	repaint     func()
}

// New creates an Editor over img. The image is owned by the editor from
// here on.
func New(img *image.RGBA, opts ...Option) (*Editor, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}
	e := &Editor{
		image:       img,
		viewport:    image.Rectangle{Max: img.Bounds().Size()},
		history:     history.New(),
		selection:   annotation.ToolPen,
		style:       DefaultStyle(),
		settleDelay: DefaultSettleDelay,
	}
	for _, o := range opts {
		o(e)
	}
	if e.capturer == nil {
		e.capturer = compositor.NewCapturer(e.Frame)
	}
	return e, nil
}

func (e *Editor) changed() {
	if e.repaint != nil {
		e.repaint()
	}
}

// Image returns the working image.
func (e *Editor) Image() *image.RGBA { return e.image }

// Document returns the attached file, if any.
func (e *Editor) Document() Document { return e.doc }

// Viewport returns the on-screen canvas rectangle.
func (e *Editor) Viewport() image.Rectangle { return e.viewport }

// SetViewport moves or resizes the canvas. Pointer positions are relative to
// r.Min.
func (e *Editor) SetViewport(r image.Rectangle) {
	if r == e.viewport {
		return
	}
	e.viewport = r
	e.changed()
}

// TakeLayout reports whether the image changed size since the last call.
func (e *Editor) TakeLayout() bool {
	l := e.layoutPending
	e.layoutPending = false
	return l
}

func (e *Editor) Selection() annotation.Tool { return e.selection }

// SetSelection switches tool. A pending text is committed first.
func (e *Editor) SetSelection(t annotation.Tool) {
	e.commitText()
	e.selection = t
	e.changed()
}

func (e *Editor) Style() annotation.Style { return e.style }

func (e *Editor) SetStyle(s annotation.Style) {
	e.style = s
	e.changed()
}

// Color returns the active color and whether it was picked from the image.
func (e *Editor) Color() (color.RGBA, bool) { return e.style.Color, e.custom }

func (e *Editor) SetColor(c color.RGBA) {
	e.style.Color = c
	e.custom = false
	e.changed()
}

func (e *Editor) SetStrokeWidth(w float64) {
	if w <= 0 {
		return
	}
	e.style.StrokeWidth = w
	e.changed()
}

func (e *Editor) SetFontSize(s float64) {
	if s <= 0 {
		return
	}
	e.style.FontSize = s
	e.changed()
}

func (e *Editor) SetFilled(f bool) {
	e.style.Filled = f
	e.changed()
}

func (e *Editor) IsDrawing() bool      { return e.drawing }
func (e *Editor) IsWritingText() bool  { return e.writingText }
func (e *Editor) IsPickingColor() bool { return e.pickingColor }

// InProgress returns the annotation being drawn or typed, or nil.
func (e *Editor) InProgress() annotation.Annotation { return e.inProgress }

// Stack returns a copy of the live flip stack.
func (e *Editor) Stack() transform.Stack { return e.stack.Clone() }

// Annotations returns the committed annotations oldest first.
func (e *Editor) Annotations() []annotation.Annotation { return e.history.Annotations() }

// Undo commits any pending text and then undoes the newest annotation.
func (e *Editor) Undo() {
	e.commitText()
	if _, ok := e.history.Undo(); ok {
		e.changed()
	}
}

// Redo commits any pending text and then restores the newest undone
// annotation.
func (e *Editor) Redo() {
	e.commitText()
	if _, ok := e.history.Redo(); ok {
		e.changed()
	}
}

func (e *Editor) CanUndo() bool     { return e.history.CanUndo() || e.writingText }
func (e *Editor) CanRedo() bool     { return e.history.CanRedo() }
func (e *Editor) UndoLabel() string { return e.history.UndoLabel() }
func (e *Editor) RedoLabel() string { return e.history.RedoLabel() }

// Flip appends f to the live stack. Flips are not part of the history.
func (e *Editor) Flip(f transform.Flip) {
	e.stack = e.stack.Append(f)
	e.changed()
}

// Frame returns a snapshot of everything the compositor needs. It shares the
// base image, which must not be retained past the frame.
func (e *Editor) Frame() compositor.Frame {
	f := compositor.Frame{
		Base:        e.image,
		Stack:       e.stack.Clone(),
		Annotations: e.history.Annotations(),
		Viewport:    e.viewport.Size(),
		Caret:       e.writingText,
	}
	if e.inProgress != nil {
		f.Active = e.inProgress.Clone()
	}
	return f
}

func (e *Editor) commitText() {
	if !e.writingText {
		return
	}
	e.writingText = false
	if e.inProgress != nil {
		e.history.Push(e.inProgress)
		e.inProgress = nil
	}
	e.changed()
}
