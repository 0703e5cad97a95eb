// Package history keeps the undo and redo stacks of annotations.
package history

import (
	"github.com/example/markshot/internal/annotation"
)

// History is the undo/redo pair. The zero value is ready to use.
type History struct {
	undo []annotation.Annotation
	redo []annotation.Annotation
}

// New returns an empty History.
func New() *History { return &History{} }

// Push records a finished annotation. A new edit invalidates whatever was
// waiting to be redone.
func (h *History) Push(a annotation.Annotation) {
	if a == nil {
		return
	}
	h.undo = append(h.undo, a)
	h.redo = nil
}

// Undo moves the newest annotation onto the redo stack.
func (h *History) Undo() (annotation.Annotation, bool) {
	a, ok := pop(&h.undo)
	if !ok {
		return nil, false
	}
	h.redo = append(h.redo, a)
	return a, true
}

// Redo moves the newest undone annotation back onto the undo stack.
func (h *History) Redo() (annotation.Annotation, bool) {
	a, ok := pop(&h.redo)
	if !ok {
		return nil, false
	}
	h.undo = append(h.undo, a)
	return a, true
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len reports the size of the undo stack.
func (h *History) Len() int { return len(h.undo) }

// Annotations returns the undo stack oldest first. The slice is a copy.
func (h *History) Annotations() []annotation.Annotation {
	return append([]annotation.Annotation(nil), h.undo...)
}

// Undone returns the redo stack, next-to-redo last. The slice is a copy.
func (h *History) Undone() []annotation.Annotation {
	return append([]annotation.Annotation(nil), h.redo...)
}

// UndoLabel is the menu text for the undo action, e.g. "Undo Pen".
func (h *History) UndoLabel() string { return label("Undo", h.undo) }

// RedoLabel is the menu text for the redo action, e.g. "Redo Rectangle".
func (h *History) RedoLabel() string { return label("Redo", h.redo) }

func label(verb string, stack []annotation.Annotation) string {
	if len(stack) == 0 {
		return verb
	}
	tool := stack[len(stack)-1].Tool()
	if tool == annotation.ToolCrop {
		return verb
	}
	return verb + " " + tool.String()
}

func pop(stack *[]annotation.Annotation) (annotation.Annotation, bool) {
	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	a := s[len(s)-1]
	s[len(s)-1] = nil
	*stack = s[:len(s)-1]
	return a, true
}
