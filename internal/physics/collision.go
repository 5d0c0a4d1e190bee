package physics

import (
	"math"

	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// BlockReader предоставляет чтение блоков по глобальным координатам блока.
// Незагруженные области должны возвращать воздух.
type BlockReader interface {
	GetBlock(pos vec.Vec2, layer block.Layer) block.BlockID
}

// CornerProbe описывает угол хитбокса, проверяемый на столкновение
type CornerProbe struct {
	Offset vec.Vec2Float // Смещение угла от центра хитбокса
	AddX   bool          // Граница блока по X берётся справа (угол смотрит влево)
	AddY   bool          // Граница блока по Y берётся сверху (угол смотрит вниз)
}

// CornerProbes возвращает углы в фиксированном порядке обработки:
// левый нижний, правый нижний, правый верхний, левый верхний.
func CornerProbes(halfSize vec.Vec2Float) [4]CornerProbe {
	return [4]CornerProbe{
		{Offset: vec.Vec2Float{X: -halfSize.X, Y: -halfSize.Y}, AddX: true, AddY: true},
		{Offset: vec.Vec2Float{X: halfSize.X, Y: -halfSize.Y}, AddX: false, AddY: true},
		{Offset: vec.Vec2Float{X: halfSize.X, Y: halfSize.Y}, AddX: false, AddY: false},
		{Offset: vec.Vec2Float{X: -halfSize.X, Y: halfSize.Y}, AddX: true, AddY: false},
	}
}

// WorldToBlock переводит мировые координаты в координаты блока
func WorldToBlock(p vec.Vec2Float) vec.Vec2 {
	return vec.Vec2{
		X: int(math.Floor(p.X / block.TileSize)),
		Y: int(math.Floor(p.Y / block.TileSize)),
	}
}

// BlockBoundary возвращает мировую координату грани блока по одной оси.
// far == true выбирает дальнюю (правую/верхнюю) грань.
func BlockBoundary(blockCoord int, far bool) float64 {
	edge := float64(blockCoord) * block.TileSize
	if far {
		edge += block.TileSize
	}
	return edge
}
