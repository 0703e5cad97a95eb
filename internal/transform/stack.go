// Package transform holds the canvas-wide flip stack and the affine helpers
// used to replay it at paint time.
package transform

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/f64"
)

// Flip is a single canvas-wide mirror operation.
type Flip int

const (
	FlipVertical Flip = iota
	FlipHorizontal
)

func (f Flip) String() string {
	switch f {
	case FlipVertical:
		return "vertical"
	case FlipHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Flip(%d)", int(f))
	}
}

// ParseFlip accepts "vertical"/"v" and "horizontal"/"h".
func ParseFlip(s string) (Flip, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v", "y":
		return FlipVertical, nil
	case "horizontal", "h", "x":
		return FlipHorizontal, nil
	}
	return 0, fmt.Errorf("unknown flip %q", s)
}

// Stack is the ordered list of flips applied to the canvas. Entries are
// never simplified: two opposite flips both stay on the stack.
type Stack []Flip

// Append returns the stack with f added at the end.
func (s Stack) Append(f Flip) Stack {
	return append(s, f)
}

// Clone returns a copy that shares no storage with s.
func (s Stack) Clone() Stack {
	if len(s) == 0 {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// Matrix composes every entry in order. Each flip is immediately followed by
// the translation that keeps a w by h canvas anchored to its viewport.
func (s Stack) Matrix(w, h float64) f64.Aff3 {
	m := Identity()
	for _, f := range s {
		m = Mul(m, f.matrix(w, h))
	}
	return m
}

func (f Flip) matrix(w, h float64) f64.Aff3 {
	switch f {
	case FlipVertical:
		return Mul(Scale(1, -1), Translate(0, -h))
	case FlipHorizontal:
		return Mul(Scale(-1, 1), Translate(-w, 0))
	}
	return Identity()
}

// Compose returns the transform an annotation is painted under: the whole
// live stack first, then the annotation's own snapshot.
func Compose(live, snapshot Stack, w, h float64) f64.Aff3 {
	m := composeStack(live, w, h)
	return composeSnapshot(m, snapshot, w, h)
}

func composeStack(live Stack, w, h float64) f64.Aff3 {
	return live.Matrix(w, h)
}

func composeSnapshot(m f64.Aff3, snapshot Stack, w, h float64) f64.Aff3 {
	return Mul(m, snapshot.Matrix(w, h))
}
