package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 60), uint8(y * 80), 9, 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.png":  PNG,
		"a.JPG":  JPEG,
		"a.jpeg": JPEG,
		"a.tiff": TIFF,
		"a.bmp":  BMP,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("a.gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatOf("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenMissing(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o600))
	_, _, err := Open(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"shot.png", "shot.tiff", "shot.bmp"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			writePNG(t, path, sample())

			img, f, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, sample().Pix, img.Pix)

			require.NoError(t, f.Save(img))
			again, _, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, sample().Pix, again.Pix)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file left behind")
		})
	}
}

func TestMislabeledFileOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.jpg")
	writePNG(t, path, sample())
	img, f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, JPEG, f.Format())
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestSaveFlattensAlphaForJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.jpg")
	f, err := NewFile(path)
	require.NoError(t, err)
	blank := image.NewRGBA(image.Rect(0, 0, 8, 8))
	require.NoError(t, f.Save(blank))

	img, _, err := Open(path)
	require.NoError(t, err)
	c := img.RGBAAt(4, 4)
	assert.Equal(t, uint8(255), c.A)
	assert.Greater(t, c.R, uint8(240))
}

func TestSaveKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	writePNG(t, path, sample())
	require.NoError(t, os.Chmod(path, 0o640))
	img, f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Save(img))
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), st.Mode().Perm())
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	writePNG(t, path, sample())
	_, f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, f.Remove(), ErrFileNotFound)
}

func TestFlatten(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 128, 128})
	out := Flatten(img, color.White)
	assert.Equal(t, color.RGBA{127, 127, 255, 255}, out.RGBAAt(0, 0))
}
