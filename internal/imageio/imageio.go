// Package imageio opens screenshots and writes them back in place.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format is an image encoding markshot can read and write.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

// HasAlpha reports whether the encoding keeps transparency.
func (f Format) HasAlpha() bool { return f == PNG || f == TIFF }

var extensions = map[string]Format{
	"png":  PNG,
	"jpeg": JPEG,
	"jpg":  JPEG,
	"tiff": TIFF,
	"tif":  TIFF,
	"bmp":  BMP,
}

// FormatOf picks the format from the file extension, ignoring case.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return f, nil
}

// File is an image on disk together with the format it is written in.
type File struct {
	path   string
	format Format
}

// Open decodes the image at path. The extension decides the format the file
// is saved in; the content decides the decoder, so mislabeled files still
// open.
func Open(path string) (*image.RGBA, *File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", abs, ErrFileNotFound)
		}
		return nil, nil, fmt.Errorf("read %s: %w", abs, err)
	}
	format, err := FormatOf(abs)
	if err != nil {
		return nil, nil, err
	}
	img, err := decode(data, sniff(data, format))
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", abs, err)
	}
	return img, &File{path: abs, format: format}, nil
}

// NewFile describes path without reading it, for images that come from
// somewhere else.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	format, err := FormatOf(abs)
	if err != nil {
		return nil, err
	}
	return &File{path: abs, format: format}, nil
}

func (f *File) Path() string   { return f.path }
func (f *File) Format() Format { return f.format }

// sniff returns the format the content actually has, falling back to the
// one the extension claims.
func sniff(data []byte, fallback Format) Format {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return fallback
	}
	if f, ok := extensions[kind.Extension]; ok {
		return f
	}
	return fallback
}

func decode(data []byte, format Format) (*image.RGBA, error) {
	r := bytes.NewReader(data)
	var (
		img image.Image
		err error
	)
	switch format {
	case PNG:
		img, err = png.Decode(r)
	case JPEG:
		img, err = jpeg.Decode(r)
	case TIFF:
		img, err = tiff.Decode(r)
	case BMP:
		img, err = bmp.Decode(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	out := clone.AsRGBA(img)
	if out.Rect.Min != (image.Point{}) {
		out.Rect = out.Rect.Sub(out.Rect.Min)
	}
	return out, nil
}

// Save overwrites the file with img. The data goes to a temporary file in
// the same directory first and is renamed over the original.
func (f *File) Save(img image.Image) error {
	dir := filepath.Dir(f.path)
	tmp := filepath.Join(dir, "."+filepath.Base(f.path)+"."+uuid.NewString()+".tmp")
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := Encode(out, img, f.format); err != nil {
		if cerr := out.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if st, err := os.Stat(f.path); err == nil {
		_ = os.Chmod(tmp, st.Mode().Perm())
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Remove deletes the file.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", f.path, ErrFileNotFound)
		}
		return err
	}
	return nil
}

// Encode writes img in format. Formats without alpha get the image
// flattened onto white first.
func Encode(w io.Writer, img image.Image, format Format) error {
	if !format.HasAlpha() {
		img = Flatten(img, color.White)
	}
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return ErrUnsupportedFormat
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// Flatten composites img over an opaque background.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
