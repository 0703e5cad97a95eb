//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// bitsPerPixel finds the pixmap format the server uses for depth.
func bitsPerPixel(formats []xproto.Format, depth byte) int {
	for _, f := range formats {
		if f.Depth == depth {
			return int(f.BitsPerPixel)
		}
	}
	return 0
}

// decodeZPixmap converts little-endian BGR(X) rows into an opaque RGBA
// image of the given size. Window contents carry no usable alpha, so the
// padding byte is ignored.
func decodeZPixmap(data []byte, bpp int, size image.Point) (*image.RGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.New("empty geometry")
	}
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}
	step := bpp / 8
	if step < 3 {
		return nil, fmt.Errorf("unsupported pixel format %d bpp", bpp)
	}
	stride := len(data) / size.Y
	if stride*size.Y != len(data) || stride < size.X*step {
		return nil, fmt.Errorf("unexpected stride for %d bytes", len(data))
	}

	img := image.NewRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		src := data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < size.X; x++ {
			s, d := x*step, x*4
			dst[d+0] = src[s+2]
			dst[d+1] = src[s+1]
			dst[d+2] = src[s+0]
			dst[d+3] = 0xff
		}
	}
	return img, nil
}

func windowPixels(setup *xproto.SetupInfo, reply *xproto.GetImageReply, size image.Point) (*image.RGBA, error) {
	if setup == nil {
		return nil, errors.New("xproto setup unavailable")
	}
	if reply == nil {
		return nil, errors.New("window pixels: missing reply")
	}
	bpp := bitsPerPixel(setup.PixmapFormats, reply.Depth)
	if bpp == 0 {
		return nil, fmt.Errorf("unsupported window depth %d", reply.Depth)
	}
	img, err := decodeZPixmap(reply.Data, bpp, size)
	if err != nil {
		return nil, fmt.Errorf("window pixels: %w", err)
	}
	return img, nil
}
