package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2FloorDiv(t *testing.T) {
	cases := []struct {
		in   Vec2
		want Vec2
	}{
		{Vec2{X: 0, Y: 0}, Vec2{X: 0, Y: 0}},
		{Vec2{X: 15, Y: 16}, Vec2{X: 0, Y: 1}},
		{Vec2{X: -1, Y: -16}, Vec2{X: -1, Y: -1}},
		{Vec2{X: -17, Y: -15}, Vec2{X: -2, Y: -1}},
		{Vec2{X: 33, Y: -32}, Vec2{X: 2, Y: -2}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.FloorDiv(16), "FloorDiv(%v, 16)", tc.in)
	}
}

func TestVec2FloatFloor(t *testing.T) {
	assert.Equal(t, Vec2{X: -1, Y: 0}, Vec2Float{X: -0.5, Y: 0.99}.Floor())
	assert.Equal(t, Vec2{X: 3, Y: -4}, Vec2Float{X: 3.0, Y: -3.01}.Floor())
}

func TestVec2FloatNormalized(t *testing.T) {
	n := Vec2Float{X: 3, Y: 4}.Normalized()
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Y, 1e-9)

	// Нулевой вектор не должен давать NaN
	assert.Equal(t, Vec2Float{}, Vec2Float{}.Normalized())
}
