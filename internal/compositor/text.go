package compositor

import (
	"image"
	"image/draw"
	"log"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/transform"
)

var goregularFont *sfnt.Font

var textFaces sync.Map // map[float64]font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	goregularFont = f
}

// faceForSize returns a Go Regular face of the given pixel size. Sizes are
// rounded to a quarter pixel so faces can be shared between frames.
func faceForSize(size float64) (font.Face, error) {
	if size < 1 {
		size = 1
	}
	size = math.Round(size*4) / 4
	if face, ok := textFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(goregularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	textFaces.Store(size, face)
	return face, nil
}

// MeasureText returns the size of s at the given font size and the offset of
// the baseline from the top.
func MeasureText(s string, size float64) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	d := &font.Drawer{Face: face}
	width = d.MeasureString(s).Ceil()
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return width, height, baseline, nil
}

// drawText covers the glyphs of s with its top-left corner at pos in
// viewport space. The glyphs are rendered at output resolution and then
// mapped through m, so flips mirror the text.
func drawText(mask *image.Alpha, s string, pos annotation.Point, size float64, m f64.Aff3) {
	if s == "" {
		return
	}
	scale := transform.LinearScale(m)
	if scale <= 0 {
		return
	}
	w, h, baseline, err := MeasureText(s, size*scale)
	if err != nil {
		log.Printf("text: %v", err)
		return
	}
	if w <= 0 || h <= 0 {
		return
	}
	face, _ := faceForSize(size * scale)
	glyphs := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{Dst: glyphs, Src: image.Opaque, Face: face, Dot: fixed.P(0, baseline)}
	d.DrawString(s)

	place := transform.Mul(transform.Translate(pos.X, pos.Y), transform.Scale(1/scale, 1/scale))
	s2d := transform.Mul(m, place)
	xdraw.ApproxBiLinear.Transform(mask, s2d, glyphs, glyphs.Bounds(), draw.Over, nil)
}
