package physics

import (
	"github.com/annel0/tilecraft/internal/vec"
)

// AxisAlignedRectangle представляет прямоугольник, заданный центром и размером.
// Используется и для отсечения чанков по области видимости, и для физики.
type AxisAlignedRectangle struct {
	Center vec.Vec2Float // Центр в мировых координатах
	Size   vec.Vec2Float // Полный размер, всегда неотрицательный
}

// Corners содержит углы прямоугольника
type Corners struct {
	BottomLeft  vec.Vec2Float
	BottomRight vec.Vec2Float
	TopRight    vec.Vec2Float
	TopLeft     vec.Vec2Float
}

// NewAxisAlignedRectangle создаёт прямоугольник; отрицательный размер берётся по модулю
func NewAxisAlignedRectangle(center, size vec.Vec2Float) AxisAlignedRectangle {
	return AxisAlignedRectangle{Center: center, Size: size.Abs()}
}

// HalfSize возвращает половину размера
func (r AxisAlignedRectangle) HalfSize() vec.Vec2Float {
	return r.Size.Mul(0.5)
}

// Min возвращает левый нижний угол
func (r AxisAlignedRectangle) Min() vec.Vec2Float {
	return r.Center.Sub(r.HalfSize())
}

// Max возвращает правый верхний угол
func (r AxisAlignedRectangle) Max() vec.Vec2Float {
	return r.Center.Add(r.HalfSize())
}

// Corners возвращает все четыре угла
func (r AxisAlignedRectangle) Corners() Corners {
	lo, hi := r.Min(), r.Max()
	return Corners{
		BottomLeft:  lo,
		BottomRight: vec.Vec2Float{X: hi.X, Y: lo.Y},
		TopRight:    hi,
		TopLeft:     vec.Vec2Float{X: lo.X, Y: hi.Y},
	}
}

// Expand возвращает прямоугольник, расширенный на margin с каждой стороны
func (r AxisAlignedRectangle) Expand(margin float64) AxisAlignedRectangle {
	return NewAxisAlignedRectangle(r.Center, r.Size.Add(vec.Vec2Float{X: 2 * margin, Y: 2 * margin}))
}

// Intersects проверяет пересечение с другим прямоугольником.
// Интервалы замкнутые: касание рёбрами считается пересечением.
func (r AxisAlignedRectangle) Intersects(other AxisAlignedRectangle) bool {
	return Intersects(r, other)
}

// Intersects проверяет пересечение проекций a и b на обе оси
func Intersects(a, b AxisAlignedRectangle) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()

	collisionX := aMin.X <= bMax.X && bMin.X <= aMax.X
	collisionY := aMin.Y <= bMax.Y && bMin.Y <= aMax.Y
	return collisionX && collisionY
}
