package world

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/annel0/tilecraft/internal/logging"
	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Mesher строит производную геометрию чанка для отрисовки
type Mesher interface {
	Remesh(c *Chunk)
	Release(coords vec.Vec2)
}

// Observer получает события менеджера чанков (метрики)
type Observer interface {
	ChunkGenerated(elapsed time.Duration)
	ChunksEvicted(n int)
	LoadedChunks(n int)
	EditDropped(layer block.Layer)
}

type nopMesher struct{}

func (nopMesher) Remesh(*Chunk) {}
func (nopMesher) Release(vec.Vec2) {}

type nopObserver struct{}

func (nopObserver) ChunkGenerated(time.Duration) {}
func (nopObserver) ChunksEvicted(int) {}
func (nopObserver) LoadedChunks(int) {}
func (nopObserver) EditDropped(block.Layer) {}

// Карта пересоздаётся, когда число чанков падает ниже четверти пика
const shrinkMinPeak = 64

// StreamStats итог одного прохода LoadVisible
type StreamStats struct {
	Generated int
	Evicted   int
	Loaded    int
}

// ChunkManager хранит загруженные чанки и подгружает их по области видимости.
// Симуляция работает в одном потоке; блокировка нужна для читателей из HTTP.
type ChunkManager struct {
	mu     sync.RWMutex
	chunks map[vec.Vec2]*Chunk
	peak   int

	generator Generator
	mesher    Mesher
	observer  Observer
	workers   int

	logger *logging.Logger
	tracer trace.Tracer
}

// Option настраивает ChunkManager
type Option func(*ChunkManager)

// WithMesher подключает построитель геометрии
func WithMesher(m Mesher) Option {
	return func(cm *ChunkManager) {
		if m != nil {
			cm.mesher = m
		}
	}
}

// WithObserver подключает получателя метрик
func WithObserver(o Observer) Option {
	return func(cm *ChunkManager) {
		if o != nil {
			cm.observer = o
		}
	}
}

// WithWorkers задаёт число горутин генерации; 1 и меньше - последовательно
func WithWorkers(n int) Option {
	return func(cm *ChunkManager) {
		cm.workers = n
	}
}

// NewChunkManager создаёт пустой менеджер чанков
func NewChunkManager(gen Generator, opts ...Option) *ChunkManager {
	cm := &ChunkManager{
		chunks:    make(map[vec.Vec2]*Chunk),
		generator: gen,
		mesher:    nopMesher{},
		observer:  nopObserver{},
		workers:   1,
		logger:    logging.GetWorldLogger(),
		tracer:    otel.Tracer("tilecraft/world"),
	}
	for _, opt := range opts {
		opt(cm)
	}
	return cm
}

// GetBlock возвращает блок по глобальным координатам. Незагруженные области - воздух.
func (cm *ChunkManager) GetBlock(pos vec.Vec2, layer block.Layer) block.BlockID {
	if !layer.IsValid() {
		return block.AirBlockID
	}
	coords := ChunkCoordOf(pos)

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	c, ok := cm.chunks[coords]
	if !ok {
		return block.AirBlockID
	}
	return c.Block(layer, IndexOf(RelativeOf(pos, coords)))
}

// SetBlock записывает блок и сразу перестраивает геометрию чанка.
// Запись в незагруженный чанк отбрасывается, результат false.
func (cm *ChunkManager) SetBlock(pos vec.Vec2, layer block.Layer, id block.BlockID) bool {
	if !layer.IsValid() {
		return false
	}
	coords := ChunkCoordOf(pos)

	cm.mu.Lock()
	c, ok := cm.chunks[coords]
	if !ok {
		cm.mu.Unlock()
		cm.logger.Debug("Запись %s в %v (%s) отброшена: чанк %v не загружен", id, pos, layer, coords)
		cm.observer.EditDropped(layer)
		return false
	}

	c.SetBlock(layer, IndexOf(RelativeOf(pos, coords)), id)
	if c.NeedsRemesh() {
		cm.rebuild(c)
	}
	cm.mu.Unlock()
	return true
}

// Generate создаёт чанк генератором, если его ещё нет, и возвращает его
func (cm *ChunkManager) Generate(coords vec.Vec2) *Chunk {
	cm.mu.RLock()
	c, ok := cm.chunks[coords]
	cm.mu.RUnlock()
	if ok {
		return c
	}

	c, _ = cm.publish(cm.build(coords))
	return c
}

// LoadVisible догружает все чанки, пересекающие область, затем выгружает остальные
func (cm *ChunkManager) LoadVisible(view physics.AxisAlignedRectangle) StreamStats {
	_, span := cm.tracer.Start(context.Background(), "ChunkManager.LoadVisible")
	defer span.End()

	missing := cm.missingIn(view)
	generated := cm.generateAll(missing)
	evicted := cm.evictOutside(view)

	stats := StreamStats{Generated: generated, Evicted: evicted, Loaded: cm.LoadedCount()}
	cm.observer.LoadedChunks(stats.Loaded)

	span.SetAttributes(
		attribute.Int("chunks.generated", stats.Generated),
		attribute.Int("chunks.evicted", stats.Evicted),
		attribute.Int("chunks.loaded", stats.Loaded),
	)
	if generated > 0 || evicted > 0 {
		cm.logger.Trace("Стриминг: +%d -%d, загружено %d", generated, evicted, stats.Loaded)
	}
	return stats
}

// LoadedCount возвращает число загруженных чанков
func (cm *ChunkManager) LoadedCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.chunks)
}

// Chunk возвращает загруженный чанк
func (cm *ChunkManager) Chunk(coords vec.Vec2) (*Chunk, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	c, ok := cm.chunks[coords]
	return c, ok
}

// Chunks обходит загруженные чанки снизу вверх, слева направо
func (cm *ChunkManager) Chunks(fn func(c *Chunk)) {
	cm.mu.RLock()
	list := make([]*Chunk, 0, len(cm.chunks))
	for _, c := range cm.chunks {
		list = append(list, c)
	}
	cm.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].coords, list[j].coords
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	for _, c := range list {
		fn(c)
	}
}

// missingIn перечисляет незагруженные чанки в диапазоне области (границы включительно)
func (cm *ChunkManager) missingIn(view physics.AxisAlignedRectangle) []vec.Vec2 {
	lo := ChunkCoordOfWorld(view.Min())
	hi := ChunkCoordOfWorld(view.Max())

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var missing []vec.Vec2
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			coords := vec.Vec2{X: x, Y: y}
			if _, ok := cm.chunks[coords]; !ok {
				missing = append(missing, coords)
			}
		}
	}
	return missing
}

// generateAll генерирует чанки и публикует каждый целиком под блокировкой
func (cm *ChunkManager) generateAll(missing []vec.Vec2) int {
	if len(missing) == 0 {
		return 0
	}

	built := make([]*Chunk, len(missing))
	if cm.workers > 1 && len(missing) > 1 {
		var g errgroup.Group
		g.SetLimit(cm.workers)
		for i, coords := range missing {
			i, coords := i, coords
			g.Go(func() error {
				built[i] = cm.build(coords)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, coords := range missing {
			built[i] = cm.build(coords)
		}
	}

	generated := 0
	for _, c := range built {
		if _, inserted := cm.publish(c); inserted {
			generated++
		}
	}
	return generated
}

// build выполняет генерацию вне блокировки
func (cm *ChunkManager) build(coords vec.Vec2) *Chunk {
	start := time.Now()
	fg, bg := cm.generator.Generate(coords)
	c := NewChunk(coords, fg, bg)
	cm.observer.ChunkGenerated(time.Since(start))
	return c
}

// publish вставляет чанк, если координата ещё свободна
func (cm *ChunkManager) publish(c *Chunk) (*Chunk, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if existing, ok := cm.chunks[c.coords]; ok {
		return existing, false
	}
	cm.chunks[c.coords] = c
	if len(cm.chunks) > cm.peak {
		cm.peak = len(cm.chunks)
	}
	cm.rebuild(c)
	return c, true
}

// evictOutside выгружает чанки, не пересекающие область
func (cm *ChunkManager) evictOutside(view physics.AxisAlignedRectangle) int {
	cm.mu.Lock()
	var evicted []vec.Vec2
	for coords, c := range cm.chunks {
		if !c.bounds.Intersects(view) {
			delete(cm.chunks, coords)
			evicted = append(evicted, coords)
		}
	}
	cm.shrink()
	cm.mu.Unlock()

	for _, coords := range evicted {
		cm.mesher.Release(coords)
	}
	if len(evicted) > 0 {
		cm.observer.ChunksEvicted(len(evicted))
	}
	return len(evicted)
}

// shrink пересоздаёт карту после массовой выгрузки. Вызывается под блокировкой.
func (cm *ChunkManager) shrink() {
	if cm.peak < shrinkMinPeak || len(cm.chunks)*4 > cm.peak {
		return
	}
	fresh := make(map[vec.Vec2]*Chunk, len(cm.chunks))
	for coords, c := range cm.chunks {
		fresh[coords] = c
	}
	cm.chunks = fresh
	cm.peak = len(fresh)
}

// rebuild перестраивает геометрию. Вызывается под блокировкой.
func (cm *ChunkManager) rebuild(c *Chunk) {
	cm.mesher.Remesh(c)
	c.markMeshed()
}
