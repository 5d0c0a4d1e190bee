package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/tilecraft/internal/logging"
	"github.com/annel0/tilecraft/internal/middleware"
	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Предельная дальность трассировки через API, в блоках
const maxRaycastDistance = 64

// WorldView то, что отладочный API читает из мира
type WorldView interface {
	physics.BlockReader
	LoadedCount() int
}

// RestServer представляет отладочный REST API симуляции
type RestServer struct {
	router  *gin.Engine
	server  *http.Server
	world   WorldView
	player  *PlayerFeed
	metrics *ServerMetrics
	logger  *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr     string              // адрес для запуска сервера
	World    WorldView           // менеджер чанков
	Player   *PlayerFeed         // снимки игрока, может быть nil
	Registry *prometheus.Registry // реестр метрик для /metrics; nil - реестр по умолчанию
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BlockResponse описывает блок в точке
type BlockResponse struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Layer string `json:"layer"`
	ID    uint16 `json:"id"`
	Name  string `json:"name"`
	Solid bool   `json:"solid"`
}

// RaycastResponse результат трассировки луча
type RaycastResponse struct {
	Hit   bool           `json:"hit"`
	Point *vec.Vec2Float `json:"point,omitempty"`
	Block *vec.Vec2      `json:"block,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = "127.0.0.1:8088"
	}
	if config.Player == nil {
		config.Player = &PlayerFeed{}
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("debug_api"))

	logger := logging.GetAPILogger()
	router.Use(middleware.NewRequestLogger(logger).Handler())

	var registerer prometheus.Registerer
	var gatherer prometheus.Gatherer
	if config.Registry != nil {
		registerer, gatherer = config.Registry, config.Registry
	}
	promMw := middleware.NewPrometheusMiddleware("debug_api", registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, gatherer)

	rs := &RestServer{
		router:  router,
		world:   config.World,
		player:  config.Player,
		metrics: NewServerMetrics(),
		logger:  logger,
	}
	rs.server = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Настраиваем маршруты
	rs.setupRoutes()

	return rs
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.GET("/stats", rs.handleStats)
		api.GET("/block", rs.handleBlock)
		api.GET("/raycast", rs.handleRaycast)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// handleStats возвращает состояние мира, игрока и процесса
func (rs *RestServer) handleStats(c *gin.Context) {
	stats := make(map[string]interface{})

	stats["loaded_chunks"] = rs.world.LoadedCount()

	if state, ok := rs.player.Load(); ok {
		stats["player"] = state
	}

	cpuPercent, _ := rs.metrics.GetCPUUsage()
	stats["server"] = map[string]interface{}{
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   fmt.Sprintf("%.2f", rs.metrics.GetMemoryUsage()),
		"cpu_percent": fmt.Sprintf("%.2f", cpuPercent),
		"server_time": time.Now().Unix(),
	}

	// Детальная статистика памяти
	stats["memory_details"] = rs.metrics.GetDetailedMemoryStats()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика получена",
		Data:    stats,
	})
}

// handleBlock возвращает блок по координатам блока
func (rs *RestServer) handleBlock(c *gin.Context) {
	x, errX := strconv.Atoi(c.Query("x"))
	y, errY := strconv.Atoi(c.Query("y"))
	if errX != nil || errY != nil {
		rs.badRequest(c, "Параметры x и y должны быть целыми числами")
		return
	}
	layer, err := block.ParseLayer(c.Query("layer"))
	if err != nil {
		rs.badRequest(c, err.Error())
		return
	}

	id := rs.world.GetBlock(vec.Vec2{X: x, Y: y}, layer)
	name := id.String()
	if props, ok := block.Get(id); ok {
		name = props.Name
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Блок получен",
		Data: BlockResponse{
			X:     x,
			Y:     y,
			Layer: layer.String(),
			ID:    uint16(id),
			Name:  name,
			Solid: id.IsSolid(),
		},
	})
}

// handleRaycast трассирует луч в мировых координатах, max задаётся в блоках
func (rs *RestServer) handleRaycast(c *gin.Context) {
	var coords [5]float64
	for i, key := range []string{"ox", "oy", "ex", "ey", "max"} {
		v, err := strconv.ParseFloat(c.Query(key), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			rs.badRequest(c, fmt.Sprintf("Параметр %s должен быть числом", key))
			return
		}
		coords[i] = v
	}
	layer, err := block.ParseLayer(c.Query("layer"))
	if err != nil {
		rs.badRequest(c, err.Error())
		return
	}

	origin := vec.Vec2Float{X: coords[0], Y: coords[1]}
	end := vec.Vec2Float{X: coords[2], Y: coords[3]}
	maxDistance := math.Min(coords[4], maxRaycastDistance)

	resp := RaycastResponse{}
	if point, ok := physics.CastWorld(rs.world, origin, end, maxDistance, layer); ok {
		// Клетка попадания: точка на грани, сдвигаем внутрь вдоль луча
		cell := physics.WorldToBlock(point.Add(end.Sub(origin).Normalized().Mul(1e-3)))
		resp = RaycastResponse{Hit: true, Point: &point, Block: &cell}
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Трассировка выполнена",
		Data:    resp,
	})
}

// handleHealth обрабатывает проверку здоровья
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func (rs *RestServer) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, GenericResponse{
		Success: false,
		Message: message,
	})
}

// Start запускает HTTP сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 Отладочный API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("REST сервер: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
