package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world"
	"github.com/annel0/tilecraft/internal/world/block"
)

func TestToolPlaceAndRemove(t *testing.T) {
	g := grid{}
	tool := NewTool(block.DirtBlockID)

	target := vec.Vec2{X: 3, Y: 4}
	require.True(t, tool.Use(g, target, true))
	assert.Equal(t, block.DirtBlockID, g.GetBlock(target, block.LayerForeground))

	require.True(t, tool.Use(g, target, false))
	assert.Equal(t, block.AirBlockID, g.GetBlock(target, block.LayerForeground))
}

func TestToolFlipLayer(t *testing.T) {
	g := grid{}
	tool := NewTool(block.StoneBlockID)
	tool.FlipLayer()
	require.Equal(t, block.LayerBackground, tool.Layer)

	tool.Use(g, vec.Vec2{}, true)
	assert.Equal(t, block.StoneBlockID, g.GetBlock(vec.Vec2{}, block.LayerBackground))
	assert.Equal(t, block.AirBlockID, g.GetBlock(vec.Vec2{}, block.LayerForeground))

	tool.FlipLayer()
	assert.Equal(t, block.LayerForeground, tool.Layer)
}

func TestToolSelect(t *testing.T) {
	tool := NewTool(block.DirtBlockID)
	assert.False(t, tool.Select(block.AirBlockID))
	assert.False(t, tool.Select(block.BlockID(999)))
	assert.True(t, tool.Select(block.GrassBlockID))
	assert.Equal(t, block.GrassBlockID, tool.Block)
}

func TestToolAim(t *testing.T) {
	g := solid(vec.Vec2{X: 5, Y: 0})
	tool := NewTool(block.DirtBlockID)

	eye := vec.Vec2Float{X: 16, Y: 16}
	hit, before, ok := tool.Aim(g, eye, vec.Vec2Float{X: 400, Y: 16}, 10)
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 5, Y: 0}, hit)
	assert.Equal(t, vec.Vec2{X: 4, Y: 0}, before)

	_, _, ok = tool.Aim(g, eye, vec.Vec2Float{X: 400, Y: 16}, 3)
	assert.False(t, ok, "Блок дальше дистанции")
}

func TestToolOnUnloadedChunk(t *testing.T) {
	cm := world.NewChunkManager(world.FlatGenerator{})
	tool := NewTool(block.StoneBlockID)
	assert.False(t, tool.Use(cm, vec.Vec2{X: 100, Y: 100}, true), "Запись в незагруженный чанк отбрасывается")
}
