package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	var fg, bg [ChunkArea]block.BlockID
	fg[3] = block.StoneBlockID
	bg[3] = block.DirtBlockID

	chunk := NewChunk(vec.Vec2{X: 5, Y: 10}, fg, bg)

	assert.Equal(t, vec.Vec2{X: 5, Y: 10}, chunk.Coords())
	assert.Equal(t, block.StoneBlockID, chunk.Block(block.LayerForeground, 3))
	assert.Equal(t, block.DirtBlockID, chunk.Block(block.LayerBackground, 3))
	assert.Equal(t, block.AirBlockID, chunk.Block(block.LayerForeground, 4))
}

func TestChunkBounds(t *testing.T) {
	chunk := NewChunk(vec.Vec2{X: -1, Y: 2}, [ChunkArea]block.BlockID{}, [ChunkArea]block.BlockID{})
	bounds := chunk.Bounds()

	assert.Equal(t, vec.Vec2Float{X: -256, Y: 1280}, bounds.Center)
	assert.Equal(t, vec.Vec2Float{X: 512, Y: 512}, bounds.Size)
	assert.Equal(t, vec.Vec2Float{X: -512, Y: 1024}, bounds.Min())
	assert.Equal(t, vec.Vec2Float{X: 0, Y: 1536}, bounds.Max())
}

func TestChunkRevision(t *testing.T) {
	chunk := NewChunk(vec.Vec2{}, [ChunkArea]block.BlockID{}, [ChunkArea]block.BlockID{})
	assert.True(t, chunk.NeedsRemesh(), "Новый чанк ещё не построен")

	chunk.markMeshed()
	assert.False(t, chunk.NeedsRemesh())

	assert.False(t, chunk.SetBlock(block.LayerForeground, 0, block.AirBlockID), "Запись того же значения ничего не меняет")
	assert.False(t, chunk.NeedsRemesh())

	assert.True(t, chunk.SetBlock(block.LayerBackground, 0, block.StoneBlockID))
	assert.True(t, chunk.NeedsRemesh(), "SetBlock на чанке не перестраивает геометрию")
	assert.Equal(t, block.AirBlockID, chunk.Block(block.LayerForeground, 0), "Слои независимы")
}
