package util

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// CellularNoise клеточный шум (Worley) на плоскости.
// В каждой клетке решётки лежит одна опорная точка, положение которой
// детерминированно выводится из сида и координат клетки.
type CellularNoise struct {
	seed      uint64
	frequency float64
}

// NewCellularNoise создаёт клеточный шум
func NewCellularNoise(seed int64, frequency float64) *CellularNoise {
	return &CellularNoise{seed: uint64(seed), frequency: frequency}
}

// Distances возвращает расстояния до ближайшей (f1) и второй (f2) опорной точки
func (c *CellularNoise) Distances(x, y float64) (f1, f2 float64) {
	px, py := x*c.frequency, y*c.frequency
	cx, cy := int64(math.Floor(px)), int64(math.Floor(py))

	f1, f2 = math.Inf(1), math.Inf(1)
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			ox, oy := c.featureOffset(cx+dx, cy+dy)
			fx := float64(cx+dx) + ox - px
			fy := float64(cy+dy) + oy - py
			d := math.Sqrt(fx*fx + fy*fy)

			switch {
			case d < f1:
				f2 = f1
				f1 = d
			case d < f2:
				f2 = d
			}
		}
	}
	return f1, f2
}

// Edge возвращает f2-f1: близко к нулю на границах клеток.
// Порог по этому значению даёт сеть извилистых тоннелей.
func (c *CellularNoise) Edge(x, y float64) float64 {
	f1, f2 := c.Distances(x, y)
	return f2 - f1
}

// featureOffset смещение опорной точки внутри клетки, [0, 1) по каждой оси
func (c *CellularNoise) featureOffset(cx, cy int64) (float64, float64) {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], c.seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(cx))
	binary.LittleEndian.PutUint64(buf[16:], uint64(cy))
	h := xxhash.Sum64(buf[:])

	const scale = 1.0 / (1 << 32)
	return float64(h&0xFFFFFFFF) * scale, float64(h>>32) * scale
}
