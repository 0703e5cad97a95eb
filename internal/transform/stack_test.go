package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipAnchorsCanvas(t *testing.T) {
	tests := []struct {
		name   string
		stack  Stack
		x, y   float64
		wx, wy float64
	}{
		{"empty", nil, 10, 20, 10, 20},
		{"vertical", Stack{FlipVertical}, 10, 20, 10, 80},
		{"horizontal", Stack{FlipHorizontal}, 10, 20, 190, 20},
		{"both", Stack{FlipVertical, FlipHorizontal}, 10, 20, 190, 80},
		{"vertical twice", Stack{FlipVertical, FlipVertical}, 10, 20, 10, 20},
		{"opposite pair", Stack{FlipHorizontal, FlipVertical, FlipVertical, FlipHorizontal}, 3, 4, 3, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := Apply(tc.stack.Matrix(200, 100), tc.x, tc.y)
			assert.InDelta(t, tc.wx, x, 1e-9)
			assert.InDelta(t, tc.wy, y, 1e-9)
		})
	}
}

func TestOppositeFlipsPersist(t *testing.T) {
	var s Stack
	s = s.Append(FlipVertical)
	s = s.Append(FlipVertical)
	require.Len(t, s, 2)
	assert.Equal(t, Identity(), s.Matrix(640, 480))
}

func TestCloneIsIndependent(t *testing.T) {
	s := Stack{FlipVertical}
	c := s.Clone()
	c = c.Append(FlipHorizontal)
	c[0] = FlipHorizontal
	assert.Equal(t, Stack{FlipVertical}, s)
	assert.Nil(t, Stack(nil).Clone())
}

func TestComposeAppliesLiveThenSnapshot(t *testing.T) {
	live := Stack{FlipVertical}
	snap := Stack{FlipVertical}
	// Both copies are applied, so an annotation authored after the flip
	// lands back where the pointer was.
	x, y := Apply(Compose(live, snap, 200, 100), 30, 10)
	assert.InDelta(t, 30.0, x, 1e-9)
	assert.InDelta(t, 10.0, y, 1e-9)

	x, y = Apply(Compose(live, nil, 200, 100), 30, 10)
	assert.InDelta(t, 30.0, x, 1e-9)
	assert.InDelta(t, 90.0, y, 1e-9)
}

func TestMulOrder(t *testing.T) {
	m := Mul(Translate(5, 0), Scale(2, 2))
	x, y := Apply(m, 1, 1)
	assert.Equal(t, 7.0, x)
	assert.Equal(t, 2.0, y)
	assert.Equal(t, 2.0, LinearScale(m))
}

func TestParseFlip(t *testing.T) {
	f, err := ParseFlip("Horizontal")
	require.NoError(t, err)
	assert.Equal(t, FlipHorizontal, f)
	_, err = ParseFlip("diagonal")
	assert.Error(t, err)
}
