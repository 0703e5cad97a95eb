package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/editor"
	"github.com/example/markshot/internal/theme"
)

const (
	headerHeight = 24
	bottomHeight = 24
	buttonHeight = 20
	swatchSize   = 16
)

var toolbarWidth = 64

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// messageDuration is how long a status message stays over the canvas.
const messageDuration = 2 * time.Second

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

var toolLabels = map[annotation.Tool]string{
	annotation.ToolPen:         "P:Pen",
	annotation.ToolHighlighter: "M:Marker",
	annotation.ToolRectangle:   "R:Rect",
	annotation.ToolCircle:      "C:Circle",
	annotation.ToolEllipse:     "E:Ellipse",
	annotation.ToolArrow:       "A:Arrow",
	annotation.ToolText:        "T:Text",
	annotation.ToolCrop:        "X:Crop",
}

// toolAction is the action name that selects t.
func toolAction(t annotation.Tool) string { return "tool:" + strings.ToLower(t.String()) }

func strokeTool(t annotation.Tool) bool {
	switch t {
	case annotation.ToolPen, annotation.ToolHighlighter, annotation.ToolRectangle,
		annotation.ToolCircle, annotation.ToolEllipse, annotation.ToolArrow:
		return true
	}
	return false
}

func fillTool(t annotation.Tool) bool {
	return t == annotation.ToolRectangle || t == annotation.ToolCircle || t == annotation.ToolEllipse
}

// fitToolbar widens the toolbar so every label fits.
func fitToolbar() int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString("markshot").Ceil() + 8
	for _, lbl := range toolLabels {
		if lw := d.MeasureString(lbl).Ceil() + 8; lw > w {
			w = lw
		}
	}
	if w < toolbarWidth {
		return toolbarWidth
	}
	return w
}

// canvasSize picks the viewport for img so the whole window fits in the
// given work area. A zero work area keeps the image size.
func canvasSize(img, work image.Point) image.Point {
	if work.X <= 0 || work.Y <= 0 {
		return img
	}
	avail := image.Pt(work.X-toolbarWidth, work.Y-headerHeight-bottomHeight)
	if avail.X <= 0 || avail.Y <= 0 {
		return img
	}
	return editor.ViewportSize(img, avail)
}

// canvasRect anchors a canvas of size vp just below the header and right of
// the toolbar.
func canvasRect(vp image.Point) image.Rectangle {
	return image.Rectangle{Min: image.Pt(toolbarWidth, headerHeight), Max: image.Pt(toolbarWidth+vp.X, headerHeight+vp.Y)}
}

// windowSize is the window needed for canvas and a toolbar reaching down to
// toolbarBottom.
func windowSize(canvas image.Rectangle, toolbarBottom int) image.Point {
	h := canvas.Max.Y
	if toolbarBottom > h {
		h = toolbarBottom
	}
	return image.Pt(canvas.Max.X, h+bottomHeight)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			src := lu
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 != 0 {
				src = du
			}
			draw.Draw(dst, image.Rect(x, y, x+size, y+size).Intersect(rect), src, image.Point{}, draw.Src)
		}
	}
}

// backdrop caches the checkerboard shown under transparent canvas pixels.
// Only the paint goroutine touches it.
type backdrop struct {
	img *image.RGBA
}

func (b *backdrop) draw(dst *image.RGBA, r image.Rectangle, th *theme.Theme) {
	if b.img == nil || b.img.Bounds().Size() != r.Size() {
		b.img = image.NewRGBA(image.Rectangle{Max: r.Size()})
		drawCheckerboard(b.img, b.img.Bounds(), 8, th.CheckerLight, th.CheckerDark)
	}
	draw.Draw(dst, r, b.img, image.Point{}, draw.Src)
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// shortcutKeys lists the lookups tried for e: by rune, then by key code.
func shortcutKeys(e key.Event) []KeyShortcut {
	mods := e.Modifiers &^ key.ModShift
	r := e.Rune
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if e.Modifiers&key.ModShift != 0 && e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		mods |= key.ModShift
	}
	var out []KeyShortcut
	if r > 0 {
		out = append(out, KeyShortcut{Rune: r, Modifiers: mods})
	}
	out = append(out, KeyShortcut{Code: e.Code, Modifiers: mods})
	return out
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is a clickable element of the toolbar or shortcut bar. Buttons are
// laid out on the event goroutine and never moved afterwards.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	// Action names what a click triggers. Empty means the button is a label.
	Action() string
	Selected() bool
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func buttonFill(th *theme.Theme, state ButtonState, selected bool) color.RGBA {
	switch {
	case state == StatePressed:
		return th.ButtonBackgroundPress
	case selected:
		return th.ButtonSelected
	case state == StateHover:
		return th.ButtonBackgroundHover
	}
	return th.ButtonBackground
}

// LabelButton is a text button such as a tool or a toggle.
type LabelButton struct {
	label    string
	action   string
	rect     image.Rectangle
	selected bool
	theme    *theme.Theme
}

func (lb *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, lb.rect, image.NewUniform(buttonFill(lb.theme, state, lb.selected)), image.Point{}, draw.Src)
	txt := lb.theme.ButtonText
	if state == StatePressed {
		txt = lb.theme.ButtonTextPress
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(txt), Face: basicfont.Face7x13,
		Dot: fixed.P(lb.rect.Min.X+4, lb.rect.Min.Y+14)}
	d.DrawString(lb.label)
}

func (lb *LabelButton) Rect() image.Rectangle { return lb.rect }
func (lb *LabelButton) Action() string        { return lb.action }
func (lb *LabelButton) Selected() bool        { return lb.selected }

// SwatchButton picks a color from the menu.
type SwatchButton struct {
	color    color.RGBA
	action   string
	rect     image.Rectangle
	selected bool
	theme    *theme.Theme
}

func (sb *SwatchButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, sb.rect, image.NewUniform(sb.color), image.Point{}, draw.Src)
	if state == StateHover {
		draw.Draw(dst, sb.rect, image.NewUniform(color.RGBA{255, 255, 255, 80}), image.Point{}, draw.Over)
	}
	border := sb.theme.ButtonBorder
	if sb.selected {
		border = sb.theme.ButtonSelected
		drawRect(dst, sb.rect.Inset(1), border, 1)
	}
	drawRect(dst, sb.rect, border, 1)
}

func (sb *SwatchButton) Rect() image.Rectangle { return sb.rect }
func (sb *SwatchButton) Action() string        { return sb.action }
func (sb *SwatchButton) Selected() bool        { return sb.selected }

// WidthButton shows a stroke width with a sample line in the current color.
type WidthButton struct {
	width    float64
	color    color.RGBA
	action   string
	rect     image.Rectangle
	selected bool
	theme    *theme.Theme
}

func (wb *WidthButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, wb.rect, image.NewUniform(buttonFill(wb.theme, state, wb.selected)), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(wb.theme.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(wb.rect.Min.X+4, wb.rect.Min.Y+13)}
	d.DrawString(fmt.Sprintf("%g", wb.width))
	y := (wb.rect.Min.Y + wb.rect.Max.Y) / 2
	drawLine(dst, wb.rect.Min.X+24, y, wb.rect.Max.X-4, y, wb.color, int(math.Round(wb.width)))
}

func (wb *WidthButton) Rect() image.Rectangle { return wb.rect }
func (wb *WidthButton) Action() string        { return wb.action }
func (wb *WidthButton) Selected() bool        { return wb.selected }

// toolbarState is everything the toolbar shows. The toolbar is laid out
// again only when it changes.
type toolbarState struct {
	selection annotation.Tool
	style     annotation.Style
	custom    bool
	picking   bool
	canUndo   bool
	canRedo   bool
}

func toolbarStateOf(ed *editor.Editor) toolbarState {
	c, custom := ed.Color()
	st := ed.Style()
	st.Color = c
	return toolbarState{
		selection: ed.Selection(),
		style:     st,
		custom:    custom,
		picking:   ed.IsPickingColor(),
		canUndo:   ed.CanUndo(),
		canRedo:   ed.CanRedo(),
	}
}

// layoutToolbar stacks the tool buttons, the color menu, the options of the
// selected tool and the flip buttons down the left edge.
func layoutToolbar(th *theme.Theme, st toolbarState) []*CacheButton {
	var out []*CacheButton
	add := func(b Button) { out = append(out, &CacheButton{Button: b}) }
	row := func(y int) image.Rectangle { return image.Rect(0, y, toolbarWidth, y+buttonHeight) }

	y := headerHeight
	for _, t := range annotation.Tools() {
		add(&LabelButton{label: toolLabels[t], action: toolAction(t), rect: row(y), selected: t == st.selection, theme: th})
		y += buttonHeight
	}

	y += 4
	x := 4
	wrap := func() {
		x += swatchSize + 2
		if x+swatchSize > toolbarWidth {
			x = 4
			y += swatchSize + 2
		}
	}
	for _, p := range editor.Palette() {
		add(&SwatchButton{color: p.Color, action: "color:" + p.Name,
			rect:     image.Rect(x, y, x+swatchSize, y+swatchSize),
			selected: !st.custom && p.Color == st.style.Color, theme: th})
		wrap()
	}
	if st.custom {
		add(&SwatchButton{color: st.style.Color, rect: image.Rect(x, y, x+swatchSize, y+swatchSize), selected: true, theme: th})
		wrap()
	}
	if x != 4 {
		y += swatchSize + 2
	}
	add(&LabelButton{label: "I:Pick", action: "pick", rect: row(y), selected: st.picking, theme: th})
	y += buttonHeight

	if strokeTool(st.selection) {
		y += 4
		for _, w := range editor.StrokeWidths() {
			add(&WidthButton{width: w, color: st.style.Color, action: fmt.Sprintf("width:%g", w),
				rect: row(y), selected: w == st.style.StrokeWidth, theme: th})
			y += buttonHeight
		}
	}
	if fillTool(st.selection) {
		add(&LabelButton{label: "F:Fill", action: "fill", rect: row(y), selected: st.style.Filled, theme: th})
		y += buttonHeight
	}
	if st.selection == annotation.ToolText {
		y += 4
		add(&LabelButton{label: fmt.Sprintf("%gpt", st.style.FontSize), rect: row(y), theme: th})
		y += buttonHeight
		add(&LabelButton{label: "[:Smaller", action: "font-", rect: row(y), theme: th})
		y += buttonHeight
		add(&LabelButton{label: "]:Larger", action: "font+", rect: row(y), theme: th})
		y += buttonHeight
	}

	y += 4
	add(&LabelButton{label: "V:Flip V", action: "flipv", rect: row(y), theme: th})
	y += buttonHeight
	add(&LabelButton{label: "H:Flip H", action: "fliph", rect: row(y), theme: th})
	return out
}

func toolbarBottom(buttons []*CacheButton) int {
	bottom := headerHeight
	for _, b := range buttons {
		if b.Rect().Max.Y > bottom {
			bottom = b.Rect().Max.Y
		}
	}
	return bottom
}

// hitButton returns the index of the actionable button under p, or -1.
func hitButton(buttons []*CacheButton, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.Rect()) && b.Action() != "" {
			return i
		}
	}
	return -1
}

// Shortcut is an entry of the bottom bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

// barMode selects the entries of the bottom bar.
type barMode struct {
	writingText bool
	picking     bool
	undo, redo  string
}

// layoutShortcuts places the bottom bar entries for a window of the given
// size.
func layoutShortcuts(width, height int, m barMode) []Shortcut {
	var shortcuts []Shortcut
	switch {
	case m.writingText:
		shortcuts = []Shortcut{
			{label: "Enter:place", action: "textdone"},
			{label: "Esc:cancel", action: "textcancel"},
			{label: "^V:paste", action: "paste"},
		}
	case m.picking:
		shortcuts = []Shortcut{{label: "click:pick color"}}
	default:
		shortcuts = []Shortcut{
			{label: "^Z:" + m.undo, action: "undo"},
			{label: "^Y:" + m.redo, action: "redo"},
			{label: "^S:save", action: "save"},
			{label: "^C:copy", action: "copy"},
			{label: "D:delete", action: "delete"},
			{label: "Q:quit", action: "quit"},
		}
	}
	x := 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = sc.rect.Max.X + 8
	}
	return shortcuts
}

func drawShortcuts(dst *image.RGBA, th *theme.Theme, width, height int, shortcuts []Shortcut, hover int) {
	draw.Draw(dst, image.Rect(0, height-bottomHeight, width, height), image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	for i, sc := range shortcuts {
		state := StateDefault
		if i == hover && sc.action != "" {
			state = StateHover
		}
		draw.Draw(dst, sc.rect, image.NewUniform(buttonFill(th, state, false)), image.Point{}, draw.Src)
		drawRect(dst, sc.rect, th.ButtonBorder, 1)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
			Dot: fixed.P(sc.rect.Min.X+2, sc.rect.Min.Y+14)}
		d.DrawString(sc.label)
	}
}

// drawHeader shows the program name, the file and the current color.
func drawHeader(dst *image.RGBA, th *theme.Theme, width int, title string, st toolbarState) {
	draw.Draw(dst, image.Rect(0, 0, width, headerHeight), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13, Dot: fixed.P(4, 16)}
	d.DrawString("markshot")
	d.Dot = fixed.P(toolbarWidth+4, 16)
	if title != "" {
		d.DrawString(title + "  ")
	}
	d.DrawString(fmt.Sprintf("%s  %s  %gpx", st.selection, editor.ColorLabel(st.style.Color), st.style.StrokeWidth))
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// paintState is what the paint goroutine needs for one frame. It holds no
// reference to the editor.
type paintState struct {
	width, height int
	title         string
	theme         *theme.Theme
	frame         compositor.Frame
	canvas        image.Rectangle
	toolbar       toolbarState
	buttons       []*CacheButton
	hoverButton   int
	shortcuts     []Shortcut
	hoverShortcut int
	message       string
	messageUntil  time.Time
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, bd *backdrop, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !paintInto(ctx, b.RGBA(), bd, st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paintInto composes the window image. It reports false when ctx was
// canceled part way.
func paintInto(ctx context.Context, dst *image.RGBA, bd *backdrop, st paintState) bool {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	canvas := st.canvas.Intersect(dst.Bounds())
	switch {
	case canvas.Empty():
	case canvas == st.canvas:
		bd.draw(dst, canvas, th)
		if err := compositor.RenderContext(ctx, dst.SubImage(canvas).(*image.RGBA), st.frame); err != nil {
			return false
		}
	default:
		// The window is smaller than the canvas; render in full and clip.
		full := image.NewRGBA(st.canvas)
		bd.draw(full, st.canvas, th)
		if err := compositor.RenderContext(ctx, full, st.frame); err != nil {
			return false
		}
		draw.Draw(dst, canvas, full, canvas.Min, draw.Src)
	}
	if ctx.Err() != nil {
		return false
	}

	draw.Draw(dst, image.Rect(0, headerHeight, toolbarWidth, st.height-bottomHeight), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	for i, cb := range st.buttons {
		state := StateDefault
		if i == st.hoverButton {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
	drawHeader(dst, th, st.width, st.title, st.toolbar)
	drawShortcuts(dst, th, st.width, st.height, st.shortcuts, st.hoverShortcut)
	if ctx.Err() != nil {
		return false
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		bg := th.StatusBackground
		draw.Draw(dst, rect, image.NewUniform(color.NRGBA{bg.R, bg.G, bg.B, 230}), image.Point{}, draw.Over)
		drawRect(dst, rect, th.ButtonBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}
	return ctx.Err() == nil
}

// windowTitle is the title the window is created with. Screen capture looks
// the window up by it.
func windowTitle(path string) string {
	if path == "" {
		return "markshot"
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("markshot - [%s]", path)
}
