package vec

// Vec2 представляет 2D целочисленные координаты (блоки, чанки)
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale умножает обе компоненты на целое
func (v Vec2) Scale(k int) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// FloorDiv делит покомпонентно с округлением к минус бесконечности.
// В отличие от оператора "/" для отрицательных координат даёт -1, а не 0:
// FloorDiv({-1, 15}, 16) == {-1, 0}.
func (v Vec2) FloorDiv(d int) Vec2 {
	return Vec2{X: floorDiv(v.X, d), Y: floorDiv(v.Y, d)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
