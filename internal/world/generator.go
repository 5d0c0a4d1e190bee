package world

import (
	"math"

	"github.com/annel0/tilecraft/internal/util"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Generator заполняет блоки нового чанка.
// Реализация обязана быть чистой функцией координат: её вызывают из нескольких горутин.
type Generator interface {
	Generate(coords vec.Vec2) (foreground, background [ChunkArea]block.BlockID)
}

// GeneratorConfig параметры процедурного рельефа
type GeneratorConfig struct {
	Seed    int64
	Terrain util.FractalConfig

	BaseHeight int     // Высота поверхности при нулевом шуме, в блоках
	Amplitude  float64 // Максимальный подъём поверхности над BaseHeight
	DirtDepth  int     // Толщина слоя земли под травой

	CaveFrequency      float64 // Частота клеточного шума пещер
	CaveThreshold      float64 // Блок вырезается, если f2-f1 меньше порога
	CaveChunkThreshold int     // Пещеры только в чанках с Y меньше этого значения
}

// DefaultGeneratorConfig возвращает настройки генерации по умолчанию
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{
		Seed:               seed,
		Terrain:            util.DefaultFractalConfig(),
		BaseHeight:         16,
		Amplitude:          48,
		DirtDepth:          25,
		CaveFrequency:      0.06,
		CaveThreshold:      0.12,
		CaveChunkThreshold: -1,
	}
}

// TerrainGenerator генерирует ландшафт: поверхность по ridged-шуму,
// трава, земля и камень под ней, пещеры в глубоких чанках.
type TerrainGenerator struct {
	cfg    GeneratorConfig
	height *util.RidgedNoise
	caves  *util.CellularNoise
}

// NewTerrainGenerator создаёт генератор мира
func NewTerrainGenerator(cfg GeneratorConfig) *TerrainGenerator {
	return &TerrainGenerator{
		cfg:    cfg,
		height: util.NewRidgedNoise(cfg.Seed, cfg.Terrain),
		// Отдельный сид, чтобы пещеры не повторяли рисунок рельефа
		caves: util.NewCellularNoise(cfg.Seed^0x5DEECE66D, cfg.CaveFrequency),
	}
}

// Config возвращает параметры генератора
func (g *TerrainGenerator) Config() GeneratorConfig {
	return g.cfg
}

// SurfaceHeight возвращает высоту поверхности (блок травы) в колонке x.
// Шум сэмплируется с глобальным x во всех трёх каналах.
func (g *TerrainGenerator) SurfaceHeight(x int) int {
	fx := float64(x)
	n := g.height.Sample3D(fx, fx, fx)
	return g.cfg.BaseHeight + int(math.Floor(n*g.cfg.Amplitude))
}

// Generate генерирует блоки чанка по его координатам
func (g *TerrainGenerator) Generate(coords vec.Vec2) (foreground, background [ChunkArea]block.BlockID) {
	var surface [ChunkWidth]int
	for x := 0; x < ChunkWidth; x++ {
		surface[x] = g.SurfaceHeight(coords.X*ChunkWidth + x)
	}

	carve := coords.Y < g.cfg.CaveChunkThreshold

	for y := 0; y < ChunkWidth; y++ {
		globalY := coords.Y*ChunkWidth + y
		for x := 0; x < ChunkWidth; x++ {
			id := g.column(globalY, surface[x])
			index := IndexOf(vec.Vec2{X: x, Y: y})

			background[index] = id
			foreground[index] = id

			if carve && id != block.AirBlockID {
				globalX := coords.X*ChunkWidth + x
				if g.caves.Edge(float64(globalX), float64(globalY)) < g.cfg.CaveThreshold {
					foreground[index] = block.AirBlockID
				}
			}
		}
	}
	return foreground, background
}

// column выбирает блок по высоте относительно поверхности
func (g *TerrainGenerator) column(y, surface int) block.BlockID {
	switch {
	case y > surface:
		return block.AirBlockID
	case y == surface:
		return block.GrassBlockID
	case y >= surface-g.cfg.DirtDepth:
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}

// SurfaceFinder знает высоту поверхности в колонке, используется для точки появления
type SurfaceFinder interface {
	SurfaceHeight(x int) int
}

// FlatGenerator плоский мир: всё ниже Surface заполнено Fill, сверху трава
type FlatGenerator struct {
	Surface int
	Fill    block.BlockID
}

// Generate генерирует плоский чанк
func (g FlatGenerator) Generate(coords vec.Vec2) (foreground, background [ChunkArea]block.BlockID) {
	for index := 0; index < ChunkArea; index++ {
		y := BlockOf(coords, index).Y
		var id block.BlockID
		switch {
		case y == g.Surface:
			id = block.GrassBlockID
		case y < g.Surface:
			id = g.Fill
		}
		foreground[index] = id
		background[index] = id
	}
	return foreground, background
}

// SurfaceHeight возвращает высоту поверхности плоского мира
func (g FlatGenerator) SurfaceHeight(int) int {
	return g.Surface
}
