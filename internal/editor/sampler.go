package editor

import (
	"image"
	"image/color"
	"math"

	"github.com/example/markshot/internal/annotation"
)

// PickColor arms the sampler. The next PointerUp picks a color from the
// image instead of drawing.
func (e *Editor) PickColor() {
	e.commitText()
	e.discardInProgress()
	e.pickingColor = true
	e.changed()
}

func (e *Editor) pickAt(p annotation.Point) {
	e.pickingColor = false
	if c, ok := SampleAt(e.image, e.viewport.Size(), p); ok {
		e.style.Color = c
		e.custom = true
	}
	e.changed()
}

// SamplePoint maps viewport position p onto a pixel of an image of size img
// shown in a viewport of size vp. The result is clamped to the image.
func SamplePoint(img, vp image.Point, p annotation.Point) image.Point {
	x := clamp(math.Floor(float64(img.X)*p.X/float64(vp.X)), img.X-1)
	y := clamp(math.Floor(float64(img.Y)*p.Y/float64(vp.Y)), img.Y-1)
	return image.Pt(x, y)
}

// SampleAt returns the color of img under viewport position p.
func SampleAt(img *image.RGBA, vp image.Point, p annotation.Point) (color.RGBA, bool) {
	if img == nil || vp.X <= 0 || vp.Y <= 0 {
		return color.RGBA{}, false
	}
	b := img.Bounds()
	if b.Empty() {
		return color.RGBA{}, false
	}
	at := SamplePoint(b.Size(), vp, p).Add(b.Min)
	return img.RGBAAt(at.X, at.Y), true
}

// clamp limits v to [0, hi] before converting, so huge or NaN positions
// cannot overflow the int conversion.
func clamp(v float64, hi int) int {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > float64(hi):
		return hi
	}
	return int(v)
}
