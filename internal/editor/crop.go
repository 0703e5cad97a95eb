package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	bildtransform "github.com/anthonynsimon/bild/transform"

	"github.com/example/markshot/internal/annotation"
)

// captureCanvas waits for the canvas to settle and grabs it.
func (e *Editor) captureCanvas(ctx context.Context) (*image.RGBA, error) {
	if err := sleep(ctx, e.settleDelay); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	img, err := e.capturer.CaptureRegion(ctx, e.viewport)
	if err != nil {
		return nil, fmt.Errorf("capture region: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("capture region: empty image")
	}
	return img, nil
}

// commitCrop replaces the working image with the selected part of the
// crop's pre-image. Everything drawn so far is baked into that image, so the
// history and the flip stack start over.
func (e *Editor) commitCrop(c *annotation.Crop) error {
	pre := c.Release()
	if pre == nil {
		return errors.New("no pre-crop image")
	}
	lo, hi := c.Bounds()
	if lo.X == hi.X || lo.Y == hi.Y {
		return ErrCropDegenerate
	}
	pb := pre.Bounds()
	vp := e.viewport.Size()
	if vp.X <= 0 || vp.Y <= 0 {
		return ErrCropDegenerate
	}
	r := CropRect(lo, hi, pb.Size(), vp).Add(pb.Min).Intersect(pb)
	if r.Empty() {
		return ErrCropDegenerate
	}

	cropped := rebase(bildtransform.Crop(pre, r))
	e.image = cropped
	e.history.Clear()
	e.stack = nil
	e.selection = annotation.ToolPen

	sx := float64(pb.Dx()) / float64(vp.X)
	sy := float64(pb.Dy()) / float64(vp.Y)
	size := image.Pt(
		max(1, int(math.Round(float64(r.Dx())/sx))),
		max(1, int(math.Round(float64(r.Dy())/sy))),
	)
	e.viewport = image.Rectangle{Min: e.viewport.Min, Max: e.viewport.Min.Add(size)}
	e.layoutPending = true
	return nil
}

// CropRect maps the viewport selection lo..hi onto an image of size img
// shown in a viewport of size vp. The origin is floored and the far corner
// ceiled.
func CropRect(lo, hi annotation.Point, img, vp image.Point) image.Rectangle {
	sx := float64(img.X) / float64(vp.X)
	sy := float64(img.Y) / float64(vp.Y)
	return image.Rect(
		int(math.Floor(lo.X*sx)),
		int(math.Floor(lo.Y*sy)),
		int(math.Ceil(hi.X*sx)),
		int(math.Ceil(hi.Y*sy)),
	)
}

// rebase moves img so its bounds start at the origin without copying.
func rebase(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	out := *img
	out.Rect = img.Rect.Sub(img.Rect.Min)
	return &out
}

// ViewportSize sizes the canvas for an image on a monitor with the given
// work area. The longer image side is divided by dim/monitor + 0.5 and the
// other side follows the aspect ratio.
func ViewportSize(img, monitor image.Point) image.Point {
	if img.X <= 0 || img.Y <= 0 || monitor.X <= 0 || monitor.Y <= 0 {
		return img
	}
	w, h := float64(img.X), float64(img.Y)
	var vw, vh float64
	if w > h {
		scale := w/float64(monitor.X) + 0.5
		vw = w / scale
		vh = h * vw / w
	} else {
		scale := h/float64(monitor.Y) + 0.5
		vh = h / scale
		vw = w * vh / h
	}
	return image.Pt(int(math.Round(vw)), int(math.Round(vh)))
}
