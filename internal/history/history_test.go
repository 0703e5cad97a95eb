package history

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/transform"
)

func mark(tool annotation.Tool, x float64) annotation.Annotation {
	st := annotation.Style{Color: color.RGBA{255, 0, 0, 255}, StrokeWidth: 2, FontSize: 24}
	a := annotation.New(tool, annotation.Pt(x, x), st, transform.Stack{transform.FlipVertical})
	a.Extend(annotation.Pt(x+10, x+5))
	return a
}

func TestUndoAllMovesEverythingToRedo(t *testing.T) {
	h := New()
	var pushed []annotation.Annotation
	for i, tool := range []annotation.Tool{annotation.ToolPen, annotation.ToolRectangle, annotation.ToolArrow, annotation.ToolText} {
		a := mark(tool, float64(i))
		pushed = append(pushed, a)
		h.Push(a)
	}
	for range pushed {
		_, ok := h.Undo()
		require.True(t, ok)
	}
	assert.False(t, h.CanUndo())
	assert.Empty(t, h.Annotations())
	// LIFO: the first pushed is the last to be redone.
	undone := h.Undone()
	require.Len(t, undone, len(pushed))
	for i := range pushed {
		assert.Same(t, pushed[i], undone[len(undone)-1-i])
	}
	_, ok := h.Undo()
	assert.False(t, ok)
}

func TestRedoRestoresSameValue(t *testing.T) {
	h := New()
	a := mark(annotation.ToolEllipse, 3)
	want := a.Clone()
	h.Push(a)
	h.Undo()
	got, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, []annotation.Annotation{want}, h.Annotations())
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestPushClearsRedo(t *testing.T) {
	h := New()
	h.Push(mark(annotation.ToolPen, 1))
	h.Undo()
	require.True(t, h.CanRedo())
	h.Push(mark(annotation.ToolCircle, 2))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 1, h.Len())
}

func TestClear(t *testing.T) {
	h := New()
	h.Push(mark(annotation.ToolPen, 1))
	h.Push(mark(annotation.ToolPen, 2))
	h.Undo()
	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestLabels(t *testing.T) {
	var h History
	assert.Equal(t, "Undo", h.UndoLabel())
	assert.Equal(t, "Redo", h.RedoLabel())

	h.Push(mark(annotation.ToolHighlighter, 1))
	h.Push(mark(annotation.ToolRectangle, 2))
	assert.Equal(t, "Undo Rectangle", h.UndoLabel())
	h.Undo()
	assert.Equal(t, "Undo Highlighter", h.UndoLabel())
	assert.Equal(t, "Redo Rectangle", h.RedoLabel())

	h.Push(annotation.New(annotation.ToolCrop, annotation.Pt(0, 0), annotation.Style{}, nil))
	assert.Equal(t, "Undo", h.UndoLabel())
}

func TestPushNilIgnored(t *testing.T) {
	h := New()
	h.Push(nil)
	assert.False(t, h.CanUndo())
}
