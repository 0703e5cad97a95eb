package annotation

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/markshot/internal/transform"
)

var red = color.RGBA{255, 0, 0, 255}

func style() Style {
	return Style{Color: red, StrokeWidth: 2, FontSize: 24}
}

func TestNewSeedsEveryTool(t *testing.T) {
	live := transform.Stack{transform.FlipVertical}
	for _, tool := range Tools() {
		t.Run(tool.String(), func(t *testing.T) {
			a := New(tool, Pt(1, 2), style(), live)
			require.NotNil(t, a)
			assert.Equal(t, tool, a.Tool())
			if tool == ToolCrop {
				assert.Nil(t, a.Snapshot())
				return
			}
			assert.Equal(t, live, a.Snapshot())
		})
	}
}

func TestSnapshotIsCopied(t *testing.T) {
	live := transform.Stack{transform.FlipVertical}
	a := New(ToolArrow, Pt(0, 0), style(), live)
	live[0] = transform.FlipHorizontal
	assert.Equal(t, transform.Stack{transform.FlipVertical}, a.Snapshot())
}

func TestExtend(t *testing.T) {
	s := New(ToolPen, Pt(10, 10), style(), nil).(*Stroke)
	s.Extend(Pt(20, 20))
	s.Extend(Pt(20, 20))
	assert.Equal(t, []Point{Pt(10, 10), Pt(20, 20)}, s.Points)

	c := New(ToolCircle, Pt(0, 0), style(), nil).(*Circle)
	c.Extend(Pt(3, 4))
	assert.Equal(t, 5.0, c.Radius)

	r := New(ToolRectangle, Pt(1, 1), style(), nil).(*Rectangle)
	r.Extend(Pt(5, 6))
	assert.Equal(t, Pt(1, 1), r.Corner1)
	assert.Equal(t, Pt(5, 6), r.Corner2)

	a := New(ToolArrow, Pt(1, 1), style(), nil).(*Arrow)
	a.Extend(Pt(9, 9))
	assert.Equal(t, Pt(9, 9), a.End)

	txt := New(ToolText, Pt(5, 5), style(), nil).(*Text)
	txt.Extend(Pt(50, 50))
	assert.Equal(t, Pt(5, 5), txt.Position)
}

func TestTextEditing(t *testing.T) {
	txt := New(ToolText, Pt(5, 5), style(), nil).(*Text)
	txt.Type('H')
	txt.Type('é')
	txt.Backspace()
	assert.Equal(t, "H", txt.Content)
	txt.Replace("pasted")
	assert.Equal(t, "pasted", txt.Content)
	txt.Replace("")
	txt.Backspace()
	assert.Equal(t, "", txt.Content)
}

func TestCloneIsDeep(t *testing.T) {
	s := New(ToolHighlighter, Pt(1, 1), style(), transform.Stack{transform.FlipHorizontal}).(*Stroke)
	s.Extend(Pt(2, 2))
	c := s.Clone().(*Stroke)
	assert.Equal(t, s, c)
	c.Points[0] = Pt(9, 9)
	c.Transform[0] = transform.FlipVertical
	assert.Equal(t, Pt(1, 1), s.Points[0])
	assert.Equal(t, transform.FlipHorizontal, s.Transform[0])
}

func TestCropBoundsAndRelease(t *testing.T) {
	c := New(ToolCrop, Pt(100, 75), style(), nil).(*Crop)
	c.PreImage = image.NewRGBA(image.Rect(0, 0, 4, 4))
	c.Extend(Pt(50, 25))
	lo, hi := c.Bounds()
	assert.Equal(t, Pt(50, 25), lo)
	assert.Equal(t, Pt(100, 75), hi)
	assert.Nil(t, c.Clone().(*Crop).PreImage)
	require.NotNil(t, c.Release())
	assert.Nil(t, c.PreImage)
}

func TestParseTool(t *testing.T) {
	tool, err := ParseTool("highlighter")
	require.NoError(t, err)
	assert.Equal(t, ToolHighlighter, tool)
	_, err = ParseTool("lasso")
	assert.Error(t, err)
	assert.Equal(t, "Tool(42)", Tool(42).String())
}
