package world

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// recordingMesher запоминает перестроения и освобождения геометрии
type recordingMesher struct {
	mu       sync.Mutex
	remeshed map[vec.Vec2]int
	released []vec.Vec2
}

func newRecordingMesher() *recordingMesher {
	return &recordingMesher{remeshed: make(map[vec.Vec2]int)}
}

func (m *recordingMesher) Remesh(c *Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remeshed[c.Coords()]++
}

func (m *recordingMesher) Release(coords vec.Vec2) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, coords)
}

type countingObserver struct {
	mu        sync.Mutex
	generated int
	evicted   int
	dropped   int
	loaded    int
}

func (o *countingObserver) ChunkGenerated(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generated++
}

func (o *countingObserver) ChunksEvicted(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evicted += n
}

func (o *countingObserver) LoadedChunks(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded = n
}

func (o *countingObserver) EditDropped(block.Layer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped++
}

func view(cx, cy, w, h float64) physics.AxisAlignedRectangle {
	return physics.NewAxisAlignedRectangle(vec.Vec2Float{X: cx, Y: cy}, vec.Vec2Float{X: w, Y: h})
}

func TestGetBlockUnloadedIsAir(t *testing.T) {
	cm := NewChunkManager(FlatGenerator{Surface: 100, Fill: block.StoneBlockID})

	for _, pos := range []vec.Vec2{{X: 0, Y: 0}, {X: -1000, Y: 5}, {X: 1 << 20, Y: -(1 << 20)}} {
		assert.Equal(t, block.AirBlockID, cm.GetBlock(pos, block.LayerForeground))
		assert.Equal(t, block.AirBlockID, cm.GetBlock(pos, block.LayerBackground))
	}
	assert.Zero(t, cm.LoadedCount())
}

func TestGenerateOncePerCoordinate(t *testing.T) {
	obs := &countingObserver{}
	cm := NewChunkManager(FlatGenerator{Surface: 0, Fill: block.DirtBlockID}, WithObserver(obs))

	first := cm.Generate(vec.Vec2{X: 2, Y: -1})
	second := cm.Generate(vec.Vec2{X: 2, Y: -1})

	assert.Same(t, first, second)
	assert.Equal(t, 1, cm.LoadedCount())
	assert.Equal(t, 1, obs.generated)
	assert.False(t, first.NeedsRemesh(), "Геометрия строится при создании")

	assert.Equal(t, block.DirtBlockID, cm.GetBlock(vec.Vec2{X: 40, Y: -5}, block.LayerForeground))
}

func TestSetBlockRoundTrip(t *testing.T) {
	mesher := newRecordingMesher()
	cm := NewChunkManager(FlatGenerator{Surface: -100, Fill: block.StoneBlockID}, WithMesher(mesher))
	cm.Generate(vec.Vec2{X: -1, Y: -1})

	pos := vec.Vec2{X: -3, Y: -7}
	require.True(t, cm.SetBlock(pos, block.LayerForeground, block.StoneBlockID))

	assert.Equal(t, block.StoneBlockID, cm.GetBlock(pos, block.LayerForeground))
	assert.Equal(t, block.AirBlockID, cm.GetBlock(pos, block.LayerBackground), "Запись в один слой не трогает другой")
	assert.Equal(t, 2, mesher.remeshed[vec.Vec2{X: -1, Y: -1}], "Создание и запись перестраивают геометрию")

	c, ok := cm.Chunk(vec.Vec2{X: -1, Y: -1})
	require.True(t, ok)
	assert.False(t, c.NeedsRemesh())

	// Повторная запись того же значения не вызывает перестроение
	require.True(t, cm.SetBlock(pos, block.LayerForeground, block.StoneBlockID))
	assert.Equal(t, 2, mesher.remeshed[vec.Vec2{X: -1, Y: -1}])
}

func TestSetBlockUnloadedDropped(t *testing.T) {
	obs := &countingObserver{}
	cm := NewChunkManager(FlatGenerator{}, WithObserver(obs))

	assert.False(t, cm.SetBlock(vec.Vec2{X: 500, Y: 500}, block.LayerForeground, block.StoneBlockID))
	assert.Equal(t, 1, obs.dropped)
	assert.Zero(t, cm.LoadedCount(), "Запись не создаёт чанк")
	assert.Equal(t, block.AirBlockID, cm.GetBlock(vec.Vec2{X: 500, Y: 500}, block.LayerForeground))
}

func TestLoadVisibleLoadsThenEvicts(t *testing.T) {
	mesher := newRecordingMesher()
	obs := &countingObserver{}
	cm := NewChunkManager(FlatGenerator{Surface: 8, Fill: block.StoneBlockID}, WithMesher(mesher), WithObserver(obs))

	// [12, 1012] по обеим осям: чанки 0..1
	stats := cm.LoadVisible(view(512, 512, 1000, 1000))
	assert.Equal(t, 4, stats.Generated)
	assert.Equal(t, 4, stats.Loaded)
	assert.Equal(t, 4, cm.LoadedCount())
	for _, coords := range []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		_, ok := cm.Chunk(coords)
		assert.True(t, ok, "чанк %v", coords)
	}

	// Повторный вызов с той же областью ничего не меняет
	stats = cm.LoadVisible(view(512, 512, 1000, 1000))
	assert.Equal(t, StreamStats{Loaded: 4}, stats)

	// Непересекающаяся область: 4 новых чанка, 4 старых выгружены
	stats = cm.LoadVisible(view(5000, 5000, 1000, 1000))
	assert.Equal(t, 4, stats.Evicted)
	assert.Equal(t, 4, obs.evicted)
	assert.Len(t, mesher.released, 4)
	_, ok := cm.Chunk(vec.Vec2{X: 0, Y: 0})
	assert.False(t, ok)

	cm.Chunks(func(c *Chunk) {
		assert.True(t, c.Bounds().Intersects(view(5000, 5000, 1000, 1000)))
	})
	assert.Equal(t, stats.Loaded, obs.loaded)
}

func TestLoadVisibleTouchingEdgeCounts(t *testing.T) {
	cm := NewChunkManager(FlatGenerator{})

	// Область ровно по границе чанков: [0, 1024] касается чанков 2 по обеим осям
	cm.LoadVisible(view(512, 512, 1024, 1024))
	assert.Equal(t, 9, cm.LoadedCount())
}

func TestLoadVisibleKeepsEditsWhileVisible(t *testing.T) {
	cm := NewChunkManager(FlatGenerator{Surface: -1, Fill: block.StoneBlockID})
	cm.LoadVisible(view(256, 256, 100, 100))

	pos := vec.Vec2{X: 3, Y: 3}
	require.True(t, cm.SetBlock(pos, block.LayerForeground, block.DirtBlockID))

	// Сдвиг области в пределах того же чанка
	cm.LoadVisible(view(300, 200, 100, 100))
	assert.Equal(t, block.DirtBlockID, cm.GetBlock(pos, block.LayerForeground))
}

func TestParallelGenerationMatchesSerial(t *testing.T) {
	gen := NewTerrainGenerator(DefaultGeneratorConfig(2024))
	serial := NewChunkManager(gen)
	parallel := NewChunkManager(gen, WithWorkers(4))

	area := view(0, -1000, 4000, 3000)
	s := serial.LoadVisible(area)
	p := parallel.LoadVisible(area)
	require.Equal(t, s, p)

	serial.Chunks(func(c *Chunk) {
		other, ok := parallel.Chunk(c.Coords())
		require.True(t, ok)
		assert.Equal(t, c.Layer(block.LayerForeground), other.Layer(block.LayerForeground))
		assert.Equal(t, c.Layer(block.LayerBackground), other.Layer(block.LayerBackground))
	})
}

func TestChunksStableOrder(t *testing.T) {
	cm := NewChunkManager(FlatGenerator{})
	cm.LoadVisible(view(0, 0, 1500, 1500))

	var order []vec.Vec2
	cm.Chunks(func(c *Chunk) { order = append(order, c.Coords()) })
	require.Len(t, order, cm.LoadedCount())

	for i := 1; i < len(order); i++ {
		prev, cur := order[i-1], order[i]
		assert.True(t, prev.Y < cur.Y || (prev.Y == cur.Y && prev.X < cur.X), "%v перед %v", prev, cur)
	}
}

func TestShrinkAfterMassEviction(t *testing.T) {
	cm := NewChunkManager(FlatGenerator{})
	cm.LoadVisible(view(0, 0, 6000, 6000))
	require.GreaterOrEqual(t, cm.LoadedCount(), shrinkMinPeak)

	cm.LoadVisible(view(100, 100, 10, 10))
	assert.Equal(t, 1, cm.LoadedCount())
	assert.Equal(t, 1, cm.peak, "Пик сбрасывается после пересоздания карты")
}

func TestConcurrentReadsDuringStreaming(t *testing.T) {
	cm := NewChunkManager(FlatGenerator{Surface: 0, Fill: block.StoneBlockID}, WithWorkers(2))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				cm.GetBlock(vec.Vec2{X: 5, Y: -5}, block.LayerForeground)
				cm.LoadedCount()
			}
		}
	}()

	for i := 0; i < 20; i++ {
		cm.LoadVisible(view(float64(i*300), 0, 1000, 1000))
	}
	close(stop)
	wg.Wait()
}

func BenchmarkLoadVisible(b *testing.B) {
	cm := NewChunkManager(NewTerrainGenerator(DefaultGeneratorConfig(1)), WithWorkers(4))
	for i := 0; i < b.N; i++ {
		cm.LoadVisible(view(float64(i*512), 0, 2048, 2048))
	}
}
