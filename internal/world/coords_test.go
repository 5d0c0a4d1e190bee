package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annel0/tilecraft/internal/vec"
)

func TestChunkCoordOf(t *testing.T) {
	tests := []struct {
		block vec.Vec2
		chunk vec.Vec2
	}{
		{vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 0, Y: 0}},
		{vec.Vec2{X: 15, Y: 15}, vec.Vec2{X: 0, Y: 0}},
		{vec.Vec2{X: 16, Y: 0}, vec.Vec2{X: 1, Y: 0}},
		{vec.Vec2{X: -1, Y: -1}, vec.Vec2{X: -1, Y: -1}},
		{vec.Vec2{X: -16, Y: -17}, vec.Vec2{X: -1, Y: -2}},
		{vec.Vec2{X: 33, Y: -32}, vec.Vec2{X: 2, Y: -2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.chunk, ChunkCoordOf(tt.block), "блок %v", tt.block)
	}
}

func TestRelativeRoundTrip(t *testing.T) {
	for y := -40; y <= 40; y += 3 {
		for x := -40; x <= 40; x += 7 {
			pos := vec.Vec2{X: x, Y: y}
			chunk := ChunkCoordOf(pos)
			rel := RelativeOf(pos, chunk)

			assert.GreaterOrEqual(t, rel.X, 0)
			assert.Less(t, rel.X, ChunkWidth)
			assert.GreaterOrEqual(t, rel.Y, 0)
			assert.Less(t, rel.Y, ChunkWidth)

			assert.Equal(t, pos, chunk.Scale(ChunkWidth).Add(rel), "блок %v", pos)
			assert.Equal(t, pos, BlockOf(chunk, IndexOf(rel)))
		}
	}
}

func TestRelativeOfPanicsOutsideChunk(t *testing.T) {
	assert.Panics(t, func() {
		RelativeOf(vec.Vec2{X: 16, Y: 0}, vec.Vec2{X: 0, Y: 0})
	})
	assert.Panics(t, func() {
		RelativeOf(vec.Vec2{X: -1, Y: 0}, vec.Vec2{X: 0, Y: 0})
	})
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 0, IndexOf(vec.Vec2{X: 0, Y: 0}))
	assert.Equal(t, 15, IndexOf(vec.Vec2{X: 15, Y: 0}))
	assert.Equal(t, 16, IndexOf(vec.Vec2{X: 0, Y: 1}))
	assert.Equal(t, ChunkArea-1, IndexOf(vec.Vec2{X: 15, Y: 15}))
}

func TestChunkCoordOfWorld(t *testing.T) {
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, ChunkCoordOfWorld(vec.Vec2Float{X: 0, Y: 511.9}))
	assert.Equal(t, vec.Vec2{X: 1, Y: -1}, ChunkCoordOfWorld(vec.Vec2Float{X: 512, Y: -0.1}))
}
