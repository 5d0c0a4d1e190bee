package world

import (
	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Chunk представляет участок мира размером 16x16 блоков в двух слоях.
// Чанк не синхронизирован сам по себе: доступ идёт через ChunkManager.
type Chunk struct {
	coords vec.Vec2

	// blocks[layer][x + y*ChunkWidth]
	blocks [block.LayerCount][ChunkArea]block.BlockID

	bounds physics.AxisAlignedRectangle

	revision       uint64 // Увеличивается при каждом изменении блоков
	meshedRevision uint64 // Ревизия, для которой построена геометрия
}

// NewChunk создаёт чанк с готовыми данными обоих слоёв
func NewChunk(coords vec.Vec2, foreground, background [ChunkArea]block.BlockID) *Chunk {
	c := &Chunk{
		coords:   coords,
		revision: 1,
	}
	c.blocks[block.LayerForeground] = foreground
	c.blocks[block.LayerBackground] = background

	origin := vec.FromVec2(coords.Scale(ChunkPixelSize))
	half := float64(ChunkPixelSize) / 2
	c.bounds = physics.NewAxisAlignedRectangle(
		origin.Add(vec.Vec2Float{X: half, Y: half}),
		vec.Vec2Float{X: ChunkPixelSize, Y: ChunkPixelSize},
	)
	return c
}

// Coords возвращает координаты чанка
func (c *Chunk) Coords() vec.Vec2 {
	return c.coords
}

// Bounds возвращает прямоугольник чанка в мировых единицах
func (c *Chunk) Bounds() physics.AxisAlignedRectangle {
	return c.bounds
}

// Block возвращает блок слоя по индексу
func (c *Chunk) Block(layer block.Layer, index int) block.BlockID {
	return c.blocks[layer][index]
}

// SetBlock записывает блок. Геометрия при этом не перестраивается.
// Возвращает true, если значение изменилось.
func (c *Chunk) SetBlock(layer block.Layer, index int, id block.BlockID) bool {
	if c.blocks[layer][index] == id {
		return false
	}
	c.blocks[layer][index] = id
	c.revision++
	return true
}

// Layer возвращает копию всех блоков слоя
func (c *Chunk) Layer(layer block.Layer) [ChunkArea]block.BlockID {
	return c.blocks[layer]
}

// Revision возвращает текущую ревизию данных
func (c *Chunk) Revision() uint64 {
	return c.revision
}

// MeshedRevision возвращает ревизию, для которой построена геометрия
func (c *Chunk) MeshedRevision() uint64 {
	return c.meshedRevision
}

// NeedsRemesh сообщает, что геометрия устарела
func (c *Chunk) NeedsRemesh() bool {
	return c.meshedRevision != c.revision
}

func (c *Chunk) markMeshed() {
	c.meshedRevision = c.revision
}
