// Package appstate hosts the editor in a shiny window: the toolbar, the
// shortcut bar and the event loop.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/capture"
	"github.com/example/markshot/internal/clipboard"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/config"
	"github.com/example/markshot/internal/editor"
	"github.com/example/markshot/internal/notify"
	"github.com/example/markshot/internal/theme"
	"github.com/example/markshot/internal/transform"
)

// AppState holds application configuration for the UI.
type AppState struct {
	Image       *image.RGBA
	Document    editor.Document
	Style       annotation.Style
	SettleDelay time.Duration
	Capture     string
	WorkArea    image.Rectangle
	Theme       *theme.Theme
	Notifier    *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the image being annotated.
func WithImage(img *image.RGBA) Option { return func(a *AppState) { a.Image = img } }

// WithDocument sets the file saves and deletes go to.
func WithDocument(doc editor.Document) Option { return func(a *AppState) { a.Document = doc } }

// WithStyle sets the initial color, stroke, font size and fill.
func WithStyle(s annotation.Style) Option { return func(a *AppState) { a.Style = s } }

// WithSettleDelay sets the pause before crop and save grab the canvas.
func WithSettleDelay(d time.Duration) Option { return func(a *AppState) { a.SettleDelay = d } }

// WithCapture selects config.CaptureRender or config.CaptureScreen.
func WithCapture(mode string) Option { return func(a *AppState) { a.Capture = mode } }

// WithWorkArea sets the monitor area the window has to fit in.
func WithWorkArea(r image.Rectangle) Option { return func(a *AppState) { a.WorkArea = r } }

// WithTheme sets the colors of the window chrome.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets where desktop notifications go.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Style:       editor.DefaultStyle(),
		SettleDelay: editor.DefaultSettleDelay,
		Capture:     config.CaptureRender,
		Theme:       theme.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) path() string {
	if a.Document == nil {
		return ""
	}
	return a.Document.Path()
}

// newEditor builds the editor for a canvas at rect. Screen capture reads
// the window called title off the display.
func (a *AppState) newEditor(rect image.Rectangle, title string, repaint func()) (*editor.Editor, error) {
	opts := []editor.Option{
		editor.WithViewport(rect),
		editor.WithStyle(a.Style),
		editor.WithSettleDelay(a.SettleDelay),
		editor.WithRepaint(repaint),
	}
	if a.Document != nil {
		opts = append(opts, editor.WithDocument(a.Document))
	}
	if a.Capture == config.CaptureScreen {
		opts = append(opts, editor.WithCapturer(capture.NewScreen(title)))
	}
	return editor.New(a.Image, opts...)
}

// renderImage renders f at the resolution of its base image.
func renderImage(f compositor.Frame) *image.RGBA {
	if f.Base == nil {
		return nil
	}
	dst := image.NewRGBA(image.Rectangle{Max: f.Base.Bounds().Size()})
	compositor.Render(dst, f)
	return dst
}

// stepFontSize moves cur one entry along the font size menu.
func stepFontSize(cur float64, dir int) float64 {
	sizes := editor.FontSizes()
	idx := 0
	for i, s := range sizes {
		if s <= cur {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sizes) {
		idx = len(sizes) - 1
	}
	return sizes[idx]
}

func (a *AppState) Main(s screen.Screen) {
	if a.Theme != nil {
		compositor.CropFill = color.NRGBAModel.Convert(a.Theme.CropFill).(color.NRGBA)
		compositor.CropBorder = color.NRGBAModel.Convert(a.Theme.CropBorder).(color.NRGBA)
	} else {
		a.Theme = theme.Default()
	}
	th := a.Theme
	toolbarWidth = fitToolbar()

	canvas := canvasRect(canvasSize(a.Image.Bounds().Size(), a.WorkArea.Size()))
	title := windowTitle(a.path())

	var w screen.Window
	repaint := func() {
		if w != nil {
			w.Send(paint.Event{})
		}
	}
	ed, err := a.newEditor(canvas, title, repaint)
	if err != nil {
		log.Printf("editor: %v", err)
		return
	}

	tbState := toolbarStateOf(ed)
	buttons := layoutToolbar(th, tbState)
	winSize := windowSize(canvas, toolbarBottom(buttons))
	width, height := winSize.X, winSize.Y
	w, err = s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	var message string
	var messageUntil time.Time
	var confirmDelete bool
	var dragging bool
	hoverButton, hoverShortcut := -1, -1
	shortcuts := layoutShortcuts(width, height, barMode{undo: ed.UndoLabel(), redo: ed.RedoLabel()})

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		bd := &backdrop{}
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, bd, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	say := func(msg string) {
		message = msg
		log.Print(message)
		messageUntil = time.Now().Add(messageDuration)
	}

	quit := false
	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	for _, t := range annotation.Tools() {
		t := t
		r := []rune(toolLabels[t])[0] + 'a' - 'A'
		register(toolAction(t), shortcutList{{Rune: r}}, func() { ed.SetSelection(t) })
	}
	for _, p := range editor.Palette() {
		c := p.Color
		register("color:"+p.Name, nil, func() { ed.SetColor(c) })
	}
	for _, sw := range editor.StrokeWidths() {
		sw := sw
		register(fmt.Sprintf("width:%g", sw), nil, func() { ed.SetStrokeWidth(sw) })
	}
	register("fill", shortcutList{{Rune: 'f'}}, func() { ed.SetFilled(!ed.Style().Filled) })
	register("font-", shortcutList{{Rune: '['}}, func() { ed.SetFontSize(stepFontSize(ed.Style().FontSize, -1)) })
	register("font+", shortcutList{{Rune: ']'}}, func() { ed.SetFontSize(stepFontSize(ed.Style().FontSize, 1)) })
	register("pick", shortcutList{{Rune: 'i'}}, func() { ed.PickColor() })
	register("flipv", shortcutList{{Rune: 'v'}}, func() { ed.Flip(transform.FlipVertical) })
	register("fliph", shortcutList{{Rune: 'h'}}, func() { ed.Flip(transform.FlipHorizontal) })
	register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() { ed.Undo() })
	register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() { ed.Redo() })
	register("textdone", nil, func() {
		ed.KeyDown(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress})
	})
	register("textcancel", nil, func() {
		ed.KeyDown(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	})

	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := clipboard.WriteImage(renderImage(ed.Frame())); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		say("image copied to clipboard")
		a.Notifier.Copy(filepath.Base(a.path()))
	})

	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, func() {
		if !ed.IsWritingText() {
			return
		}
		text, err := clipboard.ReadText()
		if err != nil && !errors.Is(err, clipboard.ErrNoText) {
			log.Printf("paste: %v", err)
			return
		}
		if err := ed.Paste(text); err != nil {
			say("clipboard has no text")
		}
	})

	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		if a.Document == nil {
			say("nothing to save to")
			return
		}
		ed.RequestSave()
	})

	register("delete", shortcutList{{Rune: 'd'}, {Code: key.CodeDeleteForward}}, func() {
		if err := ed.Delete(); err != nil {
			log.Printf("delete: %v", err)
			say("delete failed")
			return
		}
		fmt.Fprintf(os.Stderr, "deleted %s\n", a.path())
		a.Notifier.Delete(a.path())
		quit = true
	})

	register("quit", shortcutList{{Rune: 'q'}}, func() { quit = true })

	handleShortcut := func(action string) {
		if action == "delete" && !confirmDelete {
			confirmDelete = true
			say("press D again to delete")
			w.Send(paint.Event{})
			return
		}
		confirmDelete = false
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	// completeSave runs once the frame requested by RequestSave is queued.
	completeSave := func() {
		if err := ed.CompleteSave(context.Background()); err != nil {
			log.Printf("save: %v", err)
			say("save failed")
			return
		}
		path := a.path()
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
		say(fmt.Sprintf("saved %s", filepath.Base(path)))
		a.Notifier.Save(path, renderImage(ed.Frame()))
	}

	// relayout picks up a new canvas size after a crop and any change the
	// toolbar shows.
	relayout := func() {
		if ed.TakeLayout() {
			canvas = ed.Viewport()
		}
		if st := toolbarStateOf(ed); st != tbState {
			tbState = st
			buttons = layoutToolbar(th, tbState)
			hoverButton = -1
		}
		shortcuts = layoutShortcuts(width, height, barMode{
			writingText: ed.IsWritingText(),
			picking:     ed.IsPickingColor(),
			undo:        ed.UndoLabel(),
			redo:        ed.RedoLabel(),
		})
	}

	canvasPoint := func(x, y float32) annotation.Point {
		return annotation.Pt(float64(x)-float64(canvas.Min.X), float64(y)-float64(canvas.Min.Y))
	}

	for {
		if quit {
			ed.Blur()
			stopPaint()
			return
		}
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				ed.Blur()
			}
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			relayout()
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := paintState{
				width:         width,
				height:        height,
				title:         filepath.Base(a.path()),
				theme:         th,
				frame:         ed.Frame(),
				canvas:        canvas,
				toolbar:       tbState,
				buttons:       buttons,
				hoverButton:   hoverButton,
				shortcuts:     shortcuts,
				hoverShortcut: hoverShortcut,
				message:       message,
				messageUntil:  messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
			if ed.SaveRequested() {
				completeSave()
				w.Send(paint.Event{})
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			if !dragging && p.Y >= height-bottomHeight {
				hoverShortcut = -1
				for i, sc := range shortcuts {
					if p.In(sc.rect) && sc.action != "" {
						hoverShortcut = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							handleShortcut(sc.action)
						}
						break
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}
			if !dragging && p.X < toolbarWidth {
				idx := hitButton(buttons, p)
				if idx != hoverButton {
					hoverButton = idx
					w.Send(paint.Event{})
				}
				if idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					handleShortcut(buttons[idx].Action())
				}
				continue
			}
			if hoverButton != -1 || hoverShortcut != -1 {
				hoverButton, hoverShortcut = -1, -1
				w.Send(paint.Event{})
			}
			if e.Button != mouse.ButtonLeft && e.Direction != mouse.DirNone {
				continue
			}
			switch e.Direction {
			case mouse.DirPress:
				if !p.In(canvas) {
					continue
				}
				confirmDelete = false
				dragging = true
				ed.PointerDown(context.Background(), canvasPoint(e.X, e.Y))
			case mouse.DirNone:
				if dragging {
					ed.PointerMove(canvasPoint(e.X, e.Y))
				}
			case mouse.DirRelease:
				if dragging || ed.IsPickingColor() {
					dragging = false
					ed.PointerUp(canvasPoint(e.X, e.Y))
				}
			}
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if ed.KeyDown(e) {
				continue
			}
			handled := false
			for _, ks := range shortcutKeys(e) {
				if action, ok := keyboardAction[ks]; ok {
					handleShortcut(action)
					handled = true
					break
				}
			}
			if !handled {
				confirmDelete = false
				if e.Code == key.CodeEscape && !ed.IsDrawing() && !ed.IsPickingColor() {
					quit = true
				}
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}
