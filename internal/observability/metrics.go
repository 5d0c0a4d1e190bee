package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world"
	"github.com/annel0/tilecraft/internal/world/block"
)

// WorldMetrics метрики мира в собственном реестре.
// Реализует world.Observer и world.Mesher.
//
// Метрики:
// * <ns>_chunks_loaded: gauge
// * <ns>_chunks_generated_total, <ns>_chunks_evicted_total: counter
// * <ns>_chunk_generation_seconds: histogram
// * <ns>_block_edits_dropped_total{layer}: counter
// * <ns>_chunk_remesh_total, <ns>_chunk_meshes_resident: counter, gauge
type WorldMetrics struct {
	registry *prometheus.Registry

	loaded     prometheus.Gauge
	generated  prometheus.Counter
	evicted    prometheus.Counter
	generation prometheus.Histogram
	dropped    *prometheus.CounterVec
	remeshes   prometheus.Counter
	resident   prometheus.Gauge
}

// NewWorldMetrics создаёт метрики и реестр с go/process коллекторами
func NewWorldMetrics(namespace string) *WorldMetrics {
	m := &WorldMetrics{
		registry: prometheus.NewRegistry(),
		loaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Количество загруженных чанков.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Всего сгенерировано чанков.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_evicted_total",
			Help:      "Всего выгружено чанков.",
		}),
		generation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_generation_seconds",
			Help:      "Время генерации одного чанка.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_edits_dropped_total",
			Help:      "Записи блоков в незагруженные чанки.",
		}, []string{"layer"}),
		remeshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_remesh_total",
			Help:      "Перестроения геометрии чанков.",
		}),
		resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunk_meshes_resident",
			Help:      "Чанки с построенной геометрией.",
		}),
	}

	m.registry.MustRegister(
		m.loaded, m.generated, m.evicted, m.generation, m.dropped, m.remeshes, m.resident,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry возвращает реестр для HTTP middleware
func (m *WorldMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает обработчик /metrics для этого реестра
func (m *WorldMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *WorldMetrics) ChunkGenerated(elapsed time.Duration) {
	m.generated.Inc()
	m.generation.Observe(elapsed.Seconds())
}

func (m *WorldMetrics) ChunksEvicted(n int) {
	m.evicted.Add(float64(n))
}

func (m *WorldMetrics) LoadedChunks(n int) {
	m.loaded.Set(float64(n))
}

func (m *WorldMetrics) EditDropped(layer block.Layer) {
	m.dropped.WithLabelValues(layer.String()).Inc()
}

// Remesh учитывает перестроение геометрии. Первое построение чанка увеличивает resident.
func (m *WorldMetrics) Remesh(c *world.Chunk) {
	m.remeshes.Inc()
	if c.MeshedRevision() == 0 {
		m.resident.Inc()
	}
}

func (m *WorldMetrics) Release(vec.Vec2) {
	m.resident.Dec()
}

var (
	_ world.Observer = (*WorldMetrics)(nil)
	_ world.Mesher   = (*WorldMetrics)(nil)
)
