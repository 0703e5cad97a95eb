// Package compositor decides what is drawn, in what order and under which
// transform, and rasterizes the result.
package compositor

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/transform"
)

// Frame is a read-only snapshot of the editor taken for one paint. Base is
// borrowed and must not be kept past the paint.
type Frame struct {
	Base        *image.RGBA
	Stack       transform.Stack
	Annotations []annotation.Annotation
	Active      annotation.Annotation
	// Viewport is the canvas size annotations are expressed in.
	Viewport image.Point
	// Caret draws a text cursor after an active Text.
	Caret bool
}

func (f Frame) viewport() image.Point {
	if f.Viewport.X > 0 && f.Viewport.Y > 0 {
		return f.Viewport
	}
	if f.Base == nil {
		return image.Point{}
	}
	return f.Base.Bounds().Size()
}

type LayerKind int

const (
	LayerBase LayerKind = iota
	LayerAnnotation
	LayerOverlay
)

// Layer is one step of the paint sequence. Transform maps viewport space to
// viewport space.
type Layer struct {
	Kind       LayerKind
	Annotation annotation.Annotation
	Transform  f64.Aff3
	Caret      bool
}

// Plan lists the layers of f in paint order: the base image under the live
// stack, then every committed annotation oldest first under the live stack
// followed by its own snapshot, then the active annotation. An active crop is
// an overlay drawn without any flips.
func Plan(f Frame) []Layer {
	vp := f.viewport()
	w, h := float64(vp.X), float64(vp.Y)
	layers := make([]Layer, 0, len(f.Annotations)+2)
	layers = append(layers, Layer{Kind: LayerBase, Transform: f.Stack.Matrix(w, h)})
	for _, a := range f.Annotations {
		if a == nil || a.Tool() == annotation.ToolCrop {
			continue
		}
		layers = append(layers, Layer{
			Kind:       LayerAnnotation,
			Annotation: a,
			Transform:  transform.Compose(f.Stack, a.Snapshot(), w, h),
		})
	}
	if f.Active == nil {
		return layers
	}
	if f.Active.Tool() == annotation.ToolCrop {
		return append(layers, Layer{Kind: LayerOverlay, Annotation: f.Active, Transform: transform.Identity()})
	}
	return append(layers, Layer{
		Kind:       LayerAnnotation,
		Annotation: f.Active,
		Transform:  transform.Compose(f.Stack, f.Active.Snapshot(), w, h),
		Caret:      f.Caret,
	})
}

// Render paints f into dst, stretching the viewport over dst's bounds.
func Render(dst *image.RGBA, f Frame) {
	_ = RenderContext(context.Background(), dst, f)
}

// RenderContext is Render with cancellation checked between layers.
func RenderContext(ctx context.Context, dst *image.RGBA, f Frame) error {
	if f.Base == nil {
		return nil
	}
	vp := f.viewport()
	if vp.X <= 0 || vp.Y <= 0 || dst.Bounds().Empty() {
		return nil
	}
	view := viewToDst(dst.Bounds(), vp)
	for _, l := range Plan(f) {
		if err := ctx.Err(); err != nil {
			return err
		}
		m := transform.Mul(view, l.Transform)
		switch l.Kind {
		case LayerBase:
			drawBase(dst, f.Base, m, vp)
		case LayerAnnotation:
			drawAnnotation(dst, l.Annotation, m, l.Caret)
		case LayerOverlay:
			if c, ok := l.Annotation.(*annotation.Crop); ok {
				drawCropOverlay(dst, c, m)
			}
		}
	}
	return ctx.Err()
}

func viewToDst(b image.Rectangle, vp image.Point) f64.Aff3 {
	sx := float64(b.Dx()) / float64(vp.X)
	sy := float64(b.Dy()) / float64(vp.Y)
	return transform.Mul(transform.Translate(float64(b.Min.X), float64(b.Min.Y)), transform.Scale(sx, sy))
}

func drawBase(dst *image.RGBA, base *image.RGBA, m f64.Aff3, vp image.Point) {
	b := base.Bounds()
	if b.Empty() {
		return
	}
	fit := transform.Scale(float64(vp.X)/float64(b.Dx()), float64(vp.Y)/float64(b.Dy()))
	s2d := transform.Mul(m, transform.Mul(fit, transform.Translate(-float64(b.Min.X), -float64(b.Min.Y))))
	xdraw.ApproxBiLinear.Transform(dst, s2d, base, b, draw.Over, nil)
}

func drawAnnotation(dst *image.RGBA, a annotation.Annotation, m f64.Aff3, caret bool) {
	mask := image.NewAlpha(dst.Bounds())
	var col color.RGBA
	alpha := 1.0
	s := transform.LinearScale(m)
	switch a := a.(type) {
	case *annotation.Stroke:
		col = a.Color
		pts := make([]pt, len(a.Points))
		for i, p := range a.Points {
			pts[i] = apply(m, p)
		}
		w := a.Width * s
		if a.Kind == annotation.ToolHighlighter {
			alpha = 0.25
			if len(pts) == 1 {
				fillCircle(mask, pts[0], w*2)
				break
			}
			w *= 3
		} else if len(pts) == 1 {
			fillCircle(mask, pts[0], w/2)
			break
		}
		for i := 1; i < len(pts); i++ {
			strokeLine(mask, pts[i-1], pts[i], w)
		}
	case *annotation.Rectangle:
		col = a.Color
		p0, p1 := apply(m, a.Corner1), apply(m, a.Corner2)
		if a.Filled {
			fillRect(mask, p0, p1)
		} else {
			strokeRect(mask, p0, p1, a.Width*s)
		}
	case *annotation.Circle:
		col = a.Color
		c, r := apply(m, a.Center), a.Radius*s
		if a.Filled {
			fillCircle(mask, c, r)
		} else {
			strokeCircle(mask, c, r, a.Width*s)
		}
	case *annotation.Ellipse:
		col = a.Color
		p0, p1 := apply(m, a.Corner1), apply(m, a.Corner2)
		if a.Filled {
			fillEllipse(mask, p0, p1)
		} else {
			strokeEllipse(mask, p0, p1, a.Width*s)
		}
	case *annotation.Arrow:
		col = a.Color
		strokeArrow(mask, apply(m, a.Start), apply(m, a.End), a.Width*s)
	case *annotation.Text:
		col = a.Color
		content := a.Content
		if caret {
			content += "|"
		}
		drawText(mask, content, a.Position, a.FontSize, m)
	default:
		return
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(withAlpha(col, alpha)), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}

// withAlpha converts c to a straight-alpha color and scales its opacity.
func withAlpha(c color.RGBA, f float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*f + 0.5)
	return n
}

// CropFill and CropBorder style the crop selection.
var (
	CropFill   = color.NRGBA{255, 255, 255, 13}
	CropBorder = color.NRGBA{128, 128, 128, 255}
)

func drawCropOverlay(dst *image.RGBA, c *annotation.Crop, m f64.Aff3) {
	lo, hi := c.Bounds()
	p0, p1 := apply(m, lo), apply(m, hi)
	r := image.Rect(round(p0.x), round(p0.y), round(p1.x), round(p1.y)).Canon()
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(CropFill), image.Point{}, draw.Over)
	drawDashedRect(dst, r, 2, CropBorder)
}
