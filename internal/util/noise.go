package util

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// FractalConfig задаёт параметры фрактального шума
type FractalConfig struct {
	Frequency  float64 // Частота первой октавы
	Lacunarity float64 // Множитель частоты между октавами
	Gain       float64 // Множитель амплитуды между октавами
	Octaves    int     // Количество октав
}

// DefaultFractalConfig возвращает настройки рельефа по умолчанию
func DefaultFractalConfig() FractalConfig {
	return FractalConfig{
		Frequency:  0.01,
		Lacunarity: 2.0,
		Gain:       0.5,
		Octaves:    4,
	}
}

// RidgedNoise ridged-фрактал поверх шума Перлина.
// Экземпляр неизменяем после создания и безопасен для параллельного чтения.
type RidgedNoise struct {
	base *perlin.Perlin
	cfg  FractalConfig
}

// NewRidgedNoise создаёт генератор с указанным сидом
func NewRidgedNoise(seed int64, cfg FractalConfig) *RidgedNoise {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	// Одна октава: октавы складываем сами, чтобы применить ridged-преобразование к каждой
	return &RidgedNoise{
		base: perlin.NewPerlin(2, 2, 1, seed),
		cfg:  cfg,
	}
}

// Sample3D возвращает значение шума в диапазоне [0, 1]
func (n *RidgedNoise) Sample3D(x, y, z float64) float64 {
	freq := n.cfg.Frequency
	amp := 1.0
	var sum, norm float64

	for i := 0; i < n.cfg.Octaves; i++ {
		v := 1 - math.Abs(n.base.Noise3D(x*freq, y*freq, z*freq))
		v *= v
		sum += v * amp
		norm += amp

		freq *= n.cfg.Lacunarity
		amp *= n.cfg.Gain
	}

	if norm == 0 {
		return 0
	}
	return clamp01(sum / norm)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
