package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/transform"
)

// Shapes are filled as paths into an alpha mask with the vector
// rasterizer, which anti-aliases their edges. Every primitive is drawn
// with its own rasterizer so overlapping pieces of a stroke add up instead
// of cancelling by winding.

type pt struct{ x, y float64 }

func apply(m f64.Aff3, p annotation.Point) pt {
	x, y := transform.Apply(m, p.X, p.Y)
	return pt{x, y}
}

func round(v float64) int { return int(math.Round(v)) }

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

// fillPath rasterizes the subpaths added by path, clipped to the box lo..hi.
// path receives the box origin so it can emit coordinates relative to it.
func fillPath(mask *image.Alpha, lo, hi pt, path func(z *vector.Rasterizer, o pt)) {
	box := image.Rect(
		int(math.Floor(lo.x))-1, int(math.Floor(lo.y))-1,
		int(math.Ceil(hi.x))+1, int(math.Ceil(hi.y))+1,
	).Intersect(mask.Rect)
	if box.Empty() {
		return
	}
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	path(z, pt{float64(box.Min.X), float64(box.Min.Y)})
	z.Draw(mask, box, image.Opaque, image.Point{})
}

func moveTo(z *vector.Rasterizer, o pt, x, y float64) {
	z.MoveTo(float32(x-o.x), float32(y-o.y))
}

func lineTo(z *vector.Rasterizer, o pt, x, y float64) {
	z.LineTo(float32(x-o.x), float32(y-o.y))
}

// ellipsePath adds a closed ellipse. dir is 1 or -1 and picks the winding,
// so an inner ellipse with the other dir cuts a hole.
func ellipsePath(z *vector.Rasterizer, o, c pt, rx, ry, dir float64) {
	cx, cy := c.x-o.x, c.y-o.y
	ky := dir * ry
	f := func(v float64) float32 { return float32(v) }
	z.MoveTo(f(cx+rx), f(cy))
	z.CubeTo(f(cx+rx), f(cy+kappa*ky), f(cx+kappa*rx), f(cy+ky), f(cx), f(cy+ky))
	z.CubeTo(f(cx-kappa*rx), f(cy+ky), f(cx-rx), f(cy+kappa*ky), f(cx-rx), f(cy))
	z.CubeTo(f(cx-rx), f(cy-kappa*ky), f(cx-kappa*rx), f(cy-ky), f(cx), f(cy-ky))
	z.CubeTo(f(cx+kappa*rx), f(cy-ky), f(cx+rx), f(cy-kappa*ky), f(cx+rx), f(cy))
	z.ClosePath()
}

// rectPath adds a closed axis-aligned rectangle, wound by dir.
func rectPath(z *vector.Rasterizer, o pt, x0, y0, x1, y1, dir float64) {
	moveTo(z, o, x0, y0)
	if dir > 0 {
		lineTo(z, o, x1, y0)
		lineTo(z, o, x1, y1)
		lineTo(z, o, x0, y1)
	} else {
		lineTo(z, o, x0, y1)
		lineTo(z, o, x1, y1)
		lineTo(z, o, x1, y0)
	}
	z.ClosePath()
}

func fillEllipseAt(mask *image.Alpha, c pt, rx, ry float64) {
	fillPath(mask, pt{c.x - rx, c.y - ry}, pt{c.x + rx, c.y + ry}, func(z *vector.Rasterizer, o pt) {
		ellipsePath(z, o, c, rx, ry, 1)
	})
}

// ring fills the band between an outer and an inner ellipse. An inner
// radius of zero or less leaves the band solid.
func ring(mask *image.Alpha, c pt, orx, ory, irx, iry float64) {
	fillPath(mask, pt{c.x - orx, c.y - ory}, pt{c.x + orx, c.y + ory}, func(z *vector.Rasterizer, o pt) {
		ellipsePath(z, o, c, orx, ory, 1)
		if irx > 0 && iry > 0 {
			ellipsePath(z, o, c, irx, iry, -1)
		}
	})
}

func fillCircle(mask *image.Alpha, c pt, r float64) {
	if r < 0.5 {
		r = 0.5
	}
	fillEllipseAt(mask, c, r, r)
}

func strokeCircle(mask *image.Alpha, c pt, r, w float64) {
	hw := halfWidth(w)
	ring(mask, c, r+hw, r+hw, r-hw, r-hw)
}

// strokeLine fills the segment a-b widened to w with round caps, which also
// joins consecutive segments of a polyline.
func strokeLine(mask *image.Alpha, a, b pt, w float64) {
	hw := halfWidth(w)
	fillEllipseAt(mask, a, hw, hw)
	fillEllipseAt(mask, b, hw, hw)
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	lo := pt{math.Min(a.x, b.x) - hw, math.Min(a.y, b.y) - hw}
	hi := pt{math.Max(a.x, b.x) + hw, math.Max(a.y, b.y) + hw}
	fillPath(mask, lo, hi, func(z *vector.Rasterizer, o pt) {
		moveTo(z, o, a.x+nx, a.y+ny)
		lineTo(z, o, b.x+nx, b.y+ny)
		lineTo(z, o, b.x-nx, b.y-ny)
		lineTo(z, o, a.x-nx, a.y-ny)
		z.ClosePath()
	})
}

func fillRect(mask *image.Alpha, a, b pt) {
	lx, hx := math.Min(a.x, b.x), math.Max(a.x, b.x)
	ly, hy := math.Min(a.y, b.y), math.Max(a.y, b.y)
	fillPath(mask, pt{lx, ly}, pt{hx, hy}, func(z *vector.Rasterizer, o pt) {
		rectPath(z, o, lx, ly, hx, hy, 1)
	})
}

// strokeRect fills a band of width w centered on the rectangle's edges.
func strokeRect(mask *image.Alpha, a, b pt, w float64) {
	hw := halfWidth(w)
	lx, hx := math.Min(a.x, b.x), math.Max(a.x, b.x)
	ly, hy := math.Min(a.y, b.y), math.Max(a.y, b.y)
	fillPath(mask, pt{lx - hw, ly - hw}, pt{hx + hw, hy + hw}, func(z *vector.Rasterizer, o pt) {
		rectPath(z, o, lx-hw, ly-hw, hx+hw, hy+hw, 1)
		if hx-hw > lx+hw && hy-hw > ly+hw {
			rectPath(z, o, lx+hw, ly+hw, hx-hw, hy-hw, -1)
		}
	})
}

func fillEllipse(mask *image.Alpha, a, b pt) {
	c, rx, ry := ellipseOf(a, b)
	if rx < 0.5 || ry < 0.5 {
		strokeLine(mask, a, b, 1)
		return
	}
	fillEllipseAt(mask, c, rx, ry)
}

func strokeEllipse(mask *image.Alpha, a, b pt, w float64) {
	c, rx, ry := ellipseOf(a, b)
	hw := halfWidth(w)
	ring(mask, c, rx+hw, ry+hw, rx-hw, ry-hw)
}

func ellipseOf(a, b pt) (pt, float64, float64) {
	c := pt{(a.x + b.x) / 2, (a.y + b.y) / 2}
	return c, math.Abs(b.x-a.x) / 2, math.Abs(b.y-a.y) / 2
}

// strokeArrow draws the shaft and two head lines meeting at end. The head is
// a tenth of the shaft long and half that wide.
func strokeArrow(mask *image.Alpha, start, end pt, w float64) {
	strokeLine(mask, start, end, w)
	left, right, ok := arrowhead(start, end)
	if !ok {
		return
	}
	strokeLine(mask, left, end, w)
	strokeLine(mask, right, end, w)
}

func arrowhead(start, end pt) (left, right pt, ok bool) {
	dx, dy := end.x-start.x, end.y-start.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return pt{}, pt{}, false
	}
	length := l / 10
	width := l * 5 / 100
	ux, uy := dx/l, dy/l
	px, py := -uy*width/2, ux*width/2
	bx, by := end.x-ux*length, end.y-uy*length
	return pt{bx + px, by + py}, pt{bx - px, by - py}, true
}

func halfWidth(w float64) float64 {
	if w < 1 {
		return 0.5
	}
	return w / 2
}

func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash int, col color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	step := 1
	if length < 0 {
		length = -length
		step = -1
	}
	for i := 0; i <= length; i += dash * 2 {
		for j := 0; j < dash && i+j <= length; j++ {
			if horiz {
				img.Set(x0+step*(i+j), y0, col)
			} else {
				img.Set(x0, y0+step*(i+j), col)
			}
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash int, col color.Color) {
	if rect.Empty() {
		return
	}
	maxX, maxY := rect.Max.X-1, rect.Max.Y-1
	drawDashedLine(img, rect.Min.X, rect.Min.Y, maxX, rect.Min.Y, dash, col)
	drawDashedLine(img, maxX, rect.Min.Y, maxX, maxY, dash, col)
	drawDashedLine(img, maxX, maxY, rect.Min.X, maxY, dash, col)
	drawDashedLine(img, rect.Min.X, maxY, rect.Min.X, rect.Min.Y, dash, col)
}
