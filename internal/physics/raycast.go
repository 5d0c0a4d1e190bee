package physics

import (
	"math"

	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Cast выпускает луч из origin в сторону end (в координатах блоков) и обходит
// сетку клетка за клеткой (Amanatides–Woo). Возвращает точку входа в первую
// твёрдую клетку указанного слоя, если она ближе maxDistance.
// Луч нулевой длины, NaN и бесконечности во входных данных ничего не находят.
func Cast(blocks BlockReader, origin, end vec.Vec2Float, maxDistance float64, layer block.Layer) (vec.Vec2Float, bool) {
	if !isFinite(maxDistance) || !origin.IsFinite() || !end.IsFinite() {
		return vec.Vec2Float{}, false
	}
	delta := end.Sub(origin)
	if delta.Length() == 0 || maxDistance < 0 {
		return vec.Vec2Float{}, false
	}
	dir := delta.Normalized()

	cell := origin.Floor()
	if blocks.GetBlock(cell, layer).IsSolid() {
		return origin, true
	}

	// Длина луча, необходимая для пересечения одной клетки по каждой оси
	stepSize := vec.Vec2Float{X: unitStep(dir.X), Y: unitStep(dir.Y)}

	var step vec.Vec2
	var rayLength vec.Vec2Float
	step.X, rayLength.X = axisStart(origin.X, cell.X, dir.X, stepSize.X)
	step.Y, rayLength.Y = axisStart(origin.Y, cell.Y, dir.Y, stepSize.Y)

	for {
		var distance float64
		if rayLength.X < rayLength.Y {
			cell.X += step.X
			distance = rayLength.X
			rayLength.X += stepSize.X
		} else {
			cell.Y += step.Y
			distance = rayLength.Y
			rayLength.Y += stepSize.Y
		}

		if distance > maxDistance {
			return vec.Vec2Float{}, false
		}
		if blocks.GetBlock(cell, layer).IsSolid() {
			return origin.Add(dir.Mul(distance)), true
		}
	}
}

// CastWorld выполняет Cast для точек в мировых координатах.
// maxDistance задаётся в блоках, результат возвращается в мировых координатах.
func CastWorld(blocks BlockReader, origin, end vec.Vec2Float, maxDistance float64, layer block.Layer) (vec.Vec2Float, bool) {
	hit, ok := Cast(blocks, origin.Div(block.TileSize), end.Div(block.TileSize), maxDistance, layer)
	if !ok {
		return vec.Vec2Float{}, false
	}
	return hit.Mul(block.TileSize), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unitStep(d float64) float64 {
	if d == 0 {
		return math.Inf(1)
	}
	return math.Abs(1 / d)
}

// axisStart возвращает направление шага и длину луча до первой грани клетки
func axisStart(origin float64, cell int, dir, stepSize float64) (int, float64) {
	switch {
	case dir < 0:
		return -1, (origin - float64(cell)) * stepSize
	case dir > 0:
		return 1, (float64(cell+1) - origin) * stepSize
	default:
		return 0, math.Inf(1)
	}
}
