package world

import (
	"fmt"

	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

const (
	ChunkWidth     = 16                          // Ширина чанка в блоках
	ChunkArea      = ChunkWidth * ChunkWidth     // Количество блоков в одном слое чанка
	ChunkPixelSize = ChunkWidth * block.TileSize // Ширина чанка в мировых единицах
)

// ChunkCoordOf возвращает координаты чанка, содержащего блок.
// Деление с округлением к минус бесконечности: блок -1 лежит в чанке -1.
func ChunkCoordOf(pos vec.Vec2) vec.Vec2 {
	return pos.FloorDiv(ChunkWidth)
}

// ChunkCoordOfWorld возвращает координаты чанка, содержащего точку мира
func ChunkCoordOfWorld(p vec.Vec2Float) vec.Vec2 {
	return p.Div(ChunkPixelSize).Floor()
}

// RelativeOf возвращает координаты блока внутри указанного чанка.
// Паникует, если блок не принадлежит чанку.
func RelativeOf(pos, chunk vec.Vec2) vec.Vec2 {
	rel := pos.Sub(chunk.Scale(ChunkWidth))
	if rel.X < 0 || rel.X >= ChunkWidth || rel.Y < 0 || rel.Y >= ChunkWidth {
		panic(fmt.Sprintf("world: блок %v вне чанка %v (относительные %v)", pos, chunk, rel))
	}
	return rel
}

// IndexOf переводит относительные координаты в индекс массива блоков
func IndexOf(rel vec.Vec2) int {
	return rel.X + rel.Y*ChunkWidth
}

// BlockOf восстанавливает глобальные координаты блока по чанку и индексу
func BlockOf(chunk vec.Vec2, index int) vec.Vec2 {
	return vec.Vec2{
		X: chunk.X*ChunkWidth + index%ChunkWidth,
		Y: chunk.Y*ChunkWidth + index/ChunkWidth,
	}
}
