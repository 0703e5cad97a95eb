package editor

import (
	"image"
	"time"

	"github.com/example/markshot/internal/annotation"
)

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithRepaint registers the callback invoked after every state change.
func WithRepaint(fn func()) Option { return func(e *Editor) { e.repaint = fn } }

// WithSettleDelay sets how long crop and save wait before capturing.
func WithSettleDelay(d time.Duration) Option { return func(e *Editor) { e.settleDelay = d } }

// WithCapturer replaces the rendered-canvas capturer used by crop and save.
func WithCapturer(c RegionCapturer) Option { return func(e *Editor) { e.capturer = c } }

// WithDocument attaches the file the editor saves to and deletes.
func WithDocument(d Document) Option { return func(e *Editor) { e.doc = d } }

// WithViewport sets the on-screen canvas rectangle. It defaults to the image
// bounds.
func WithViewport(r image.Rectangle) Option { return func(e *Editor) { e.viewport = r } }

// WithStyle sets the initial drawing style.
func WithStyle(s annotation.Style) Option { return func(e *Editor) { e.style = s } }

// WithSelection sets the initially selected tool.
func WithSelection(t annotation.Tool) Option { return func(e *Editor) { e.selection = t } }
