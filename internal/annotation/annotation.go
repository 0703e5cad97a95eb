// Package annotation models the marks a user draws over a screenshot.
package annotation

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/example/markshot/internal/transform"
)

// Point is a position in viewport space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Tool identifies the kind of annotation a gesture produces.
type Tool int

const (
	ToolPen Tool = iota
	ToolHighlighter
	ToolRectangle
	ToolCircle
	ToolEllipse
	ToolArrow
	ToolText
	ToolCrop
)

var toolNames = [...]string{"Pen", "Highlighter", "Rectangle", "Circle", "Ellipse", "Arrow", "Text", "Crop"}

// Tools lists every tool in menu order.
func Tools() []Tool {
	return []Tool{ToolPen, ToolHighlighter, ToolRectangle, ToolCircle, ToolEllipse, ToolArrow, ToolText, ToolCrop}
}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool resolves a tool by name, ignoring case.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Style holds the settings a new annotation is seeded with.
type Style struct {
	Color       color.RGBA
	StrokeWidth float64
	Filled      bool
	FontSize    float64
}

// Annotation is one drawable mark. The set of implementations is closed;
// callers switch on the concrete pointer types.
type Annotation interface {
	Tool() Tool
	// Snapshot is the transform stack captured when the annotation was
	// created. Crop has none.
	Snapshot() transform.Stack
	// Extend updates the geometry for a drag to p.
	Extend(p Point)
	Clone() Annotation
}

// New instantiates the annotation for tool at p, seeded with style and a
// copy of the live transform stack.
func New(tool Tool, p Point, style Style, live transform.Stack) Annotation {
	snap := live.Clone()
	switch tool {
	case ToolPen, ToolHighlighter:
		return &Stroke{Kind: tool, Transform: snap, Points: []Point{p}, Color: style.Color, Width: style.StrokeWidth}
	case ToolRectangle:
		return &Rectangle{Transform: snap, Corner1: p, Corner2: p, Color: style.Color, Filled: style.Filled, Width: style.StrokeWidth}
	case ToolCircle:
		return &Circle{Transform: snap, Center: p, Color: style.Color, Filled: style.Filled, Width: style.StrokeWidth}
	case ToolEllipse:
		return &Ellipse{Transform: snap, Corner1: p, Corner2: p, Color: style.Color, Filled: style.Filled, Width: style.StrokeWidth}
	case ToolArrow:
		return &Arrow{Transform: snap, Start: p, End: p, Color: style.Color, Width: style.StrokeWidth}
	case ToolText:
		return &Text{Transform: snap, Position: p, Color: style.Color, FontSize: style.FontSize}
	case ToolCrop:
		return &Crop{Start: p, End: p}
	}
	return nil
}

// Stroke is a freehand pen or highlighter line.
type Stroke struct {
	Kind      Tool
	Transform transform.Stack
	Points    []Point
	Color     color.RGBA
	Width     float64
}

func (s *Stroke) Tool() Tool                { return s.Kind }
func (s *Stroke) Snapshot() transform.Stack { return s.Transform }

func (s *Stroke) Extend(p Point) {
	if n := len(s.Points); n > 0 && s.Points[n-1] == p {
		return
	}
	s.Points = append(s.Points, p)
}

func (s *Stroke) Clone() Annotation {
	c := *s
	c.Transform = s.Transform.Clone()
	c.Points = append([]Point(nil), s.Points...)
	return &c
}

// Rectangle is a rectangle between two corners.
type Rectangle struct {
	Transform        transform.Stack
	Corner1, Corner2 Point
	Color            color.RGBA
	Filled           bool
	Width            float64
}

func (r *Rectangle) Tool() Tool                { return ToolRectangle }
func (r *Rectangle) Snapshot() transform.Stack { return r.Transform }
func (r *Rectangle) Extend(p Point)            { r.Corner2 = p }

func (r *Rectangle) Clone() Annotation {
	c := *r
	c.Transform = r.Transform.Clone()
	return &c
}

// Circle is a circle around a fixed center.
type Circle struct {
	Transform transform.Stack
	Center    Point
	Radius    float64
	Color     color.RGBA
	Filled    bool
	Width     float64
}

func (c *Circle) Tool() Tool                { return ToolCircle }
func (c *Circle) Snapshot() transform.Stack { return c.Transform }
func (c *Circle) Extend(p Point)            { c.Radius = c.Center.Dist(p) }

func (c *Circle) Clone() Annotation {
	n := *c
	n.Transform = c.Transform.Clone()
	return &n
}

// Ellipse is an ellipse inscribed in the box between two corners.
type Ellipse struct {
	Transform        transform.Stack
	Corner1, Corner2 Point
	Color            color.RGBA
	Filled           bool
	Width            float64
}

func (e *Ellipse) Tool() Tool                { return ToolEllipse }
func (e *Ellipse) Snapshot() transform.Stack { return e.Transform }
func (e *Ellipse) Extend(p Point)            { e.Corner2 = p }

func (e *Ellipse) Clone() Annotation {
	c := *e
	c.Transform = e.Transform.Clone()
	return &c
}

// Arrow is a straight arrow pointing at End.
type Arrow struct {
	Transform  transform.Stack
	Start, End Point
	Color      color.RGBA
	Width      float64
}

func (a *Arrow) Tool() Tool                { return ToolArrow }
func (a *Arrow) Snapshot() transform.Stack { return a.Transform }
func (a *Arrow) Extend(p Point)            { a.End = p }

func (a *Arrow) Clone() Annotation {
	c := *a
	c.Transform = a.Transform.Clone()
	return &c
}

// Text is a text annotation whose top-left corner sits at Position.
type Text struct {
	Transform transform.Stack
	Position  Point
	Content   string
	Color     color.RGBA
	FontSize  float64
}

func (t *Text) Tool() Tool                { return ToolText }
func (t *Text) Snapshot() transform.Stack { return t.Transform }

// Extend is a no-op: text stays where it was placed.
func (t *Text) Extend(Point) {}

func (t *Text) Clone() Annotation {
	c := *t
	c.Transform = t.Transform.Clone()
	return &c
}

// Type appends r to the content.
func (t *Text) Type(r rune) { t.Content += string(r) }

// Backspace removes the last rune, if any.
func (t *Text) Backspace() {
	if t.Content == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(t.Content)
	t.Content = t.Content[:len(t.Content)-size]
}

// Replace swaps the whole content for s.
func (t *Text) Replace(s string) { t.Content = s }

// Crop is the transient crop selection. It owns the snapshot of the
// canvas taken when the drag started.
type Crop struct {
	PreImage   *image.RGBA
	Start, End Point
}

func (c *Crop) Tool() Tool                { return ToolCrop }
func (c *Crop) Snapshot() transform.Stack { return nil }
func (c *Crop) Extend(p Point)            { c.End = p }

// Clone copies the geometry only; the pre-crop image is never shared.
func (c *Crop) Clone() Annotation {
	return &Crop{Start: c.Start, End: c.End}
}

// Bounds returns the selection with min and max corners ordered.
func (c *Crop) Bounds() (lo, hi Point) {
	lo = Pt(math.Min(c.Start.X, c.End.X), math.Min(c.Start.Y, c.End.Y))
	hi = Pt(math.Max(c.Start.X, c.End.X), math.Max(c.Start.Y, c.End.Y))
	return lo, hi
}

// Release drops the pre-crop image and returns it.
func (c *Crop) Release() *image.RGBA {
	img := c.PreImage
	c.PreImage = nil
	return img
}
