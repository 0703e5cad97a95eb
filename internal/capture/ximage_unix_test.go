//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestDecodeZPixmap(t *testing.T) {
	// 2x1 at 32bpp with 4 bytes of row padding.
	data := []byte{
		0x30, 0x20, 0x10, 0x00,
		0x03, 0x02, 0x01, 0x00,
		0xaa, 0xaa, 0xaa, 0xaa,
	}
	img, err := decodeZPixmap(data, 32, image.Pt(2, 1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Fatalf("pixel 0 = %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{0x01, 0x02, 0x03, 0xff}) {
		t.Fatalf("pixel 1 = %v", got)
	}
}

func TestDecodeZPixmapErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		bpp  int
		size image.Point
	}{
		{"empty size", []byte{1, 2, 3}, 24, image.Point{}},
		{"no data", nil, 32, image.Pt(1, 1)},
		{"16bpp", []byte{1, 2}, 16, image.Pt(1, 1)},
		{"short rows", []byte{1, 2, 3, 4}, 32, image.Pt(2, 1)},
		{"ragged", []byte{1, 2, 3, 4, 5}, 32, image.Pt(1, 2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeZPixmap(tc.data, tc.bpp, tc.size); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBitsPerPixel(t *testing.T) {
	formats := []xproto.Format{{Depth: 24, BitsPerPixel: 32}, {Depth: 16, BitsPerPixel: 16}}
	if got := bitsPerPixel(formats, 24); got != 32 {
		t.Fatalf("depth 24 = %d", got)
	}
	if got := bitsPerPixel(formats, 8); got != 0 {
		t.Fatalf("unknown depth = %d", got)
	}
	if _, err := windowPixels(nil, nil, image.Pt(1, 1)); err == nil {
		t.Fatalf("expected error without setup")
	}
}
