package entity

import (
	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Смещение вдоль луча, чтобы точка попадания однозначно попала в клетку
const aimNudge = 1e-3

// BlockEditor изменяет блоки мира
type BlockEditor interface {
	SetBlock(pos vec.Vec2, layer block.Layer, id block.BlockID) bool
}

// Tool инструмент установки и удаления блоков
type Tool struct {
	Block block.BlockID
	Layer block.Layer
}

// NewTool создаёт инструмент для переднего слоя
func NewTool(id block.BlockID) *Tool {
	return &Tool{Block: id, Layer: block.LayerForeground}
}

// FlipLayer переключает слой, с которым работает инструмент
func (t *Tool) FlipLayer() {
	t.Layer = t.Layer.Flip()
}

// Select выбирает блок для установки. Воздух и неизвестные блоки не выбираются.
func (t *Tool) Select(id block.BlockID) bool {
	if id.IsAir() || !block.IsValidBlockID(id) {
		return false
	}
	t.Block = id
	return true
}

// Use ставит выбранный блок (place) или удаляет блок в позиции target
func (t *Tool) Use(world BlockEditor, target vec.Vec2, place bool) bool {
	id := block.AirBlockID
	if place {
		id = t.Block
	}
	return world.SetBlock(target, t.Layer, id)
}

// Aim ищет блок под прицелом в мировых координатах: луч от eye к cursor длиной reach.
// hit - первый непустой блок слоя инструмента, before - клетка перед ним (куда ставить).
func (t *Tool) Aim(blocks physics.BlockReader, eye, cursor vec.Vec2Float, reach float64) (hit, before vec.Vec2, ok bool) {
	point, ok := physics.CastWorld(blocks, eye, cursor, reach, t.Layer)
	if !ok {
		return vec.Vec2{}, vec.Vec2{}, false
	}
	dir := cursor.Sub(eye).Normalized().Mul(aimNudge)
	return physics.WorldToBlock(point.Add(dir)), physics.WorldToBlock(point.Sub(dir)), true
}
