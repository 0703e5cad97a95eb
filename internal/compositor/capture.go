package compositor

import (
	"context"
	"errors"
	"image"
)

// Capturer grabs the canvas by rendering the current frame at the base
// image's resolution, so nothing else on screen can end up in the result.
type Capturer struct {
	frame func() Frame
}

// NewCapturer returns a Capturer that renders whatever frame returns.
func NewCapturer(frame func() Frame) *Capturer {
	return &Capturer{frame: frame}
}

// CaptureRegion renders the whole canvas. The region only says where the
// canvas sits on screen, which does not matter here.
func (c *Capturer) CaptureRegion(ctx context.Context, _ image.Rectangle) (*image.RGBA, error) {
	f := c.frame()
	if f.Base == nil {
		return nil, errors.New("capture: no image")
	}
	dst := image.NewRGBA(image.Rectangle{Max: f.Base.Bounds().Size()})
	if err := RenderContext(ctx, dst, f); err != nil {
		return nil, err
	}
	return dst, nil
}
