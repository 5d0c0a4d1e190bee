package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/annel0/tilecraft/internal/api"
	"github.com/annel0/tilecraft/internal/config"
	"github.com/annel0/tilecraft/internal/logging"
	"github.com/annel0/tilecraft/internal/observability"
	"github.com/annel0/tilecraft/internal/sandbox"
	"github.com/annel0/tilecraft/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или GAME_CONFIG)")
	frames := flag.Int("frames", 600, "количество кадров; 0 - до сигнала завершения")
	frameTime := flag.Float64("dt", 1.0/60, "длительность кадра в секундах")
	serve := flag.Bool("serve", false, "запустить отладочный REST API")
	seed := flag.Int64("seed", 0, "сид мира (0 - из конфигурации)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *serve {
		cfg.Server.Enabled = true
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := logging.InitDefaultLogger("sandbox", logging.Options{
		ConsoleLevel: consoleLevel,
		FileLevel:    fileLevel,
		Dir:          cfg.Logging.Dir,
	}); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🎮 Запуск песочницы: генератор=%s сид=%d кадров=%d dt=%.4f", cfg.World.Generator, cfg.World.Seed, *frames, *frameTime)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		logging.Error("❌ Ошибка инициализации телеметрии: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	metrics := observability.NewWorldMetrics("tilecraft")
	feed := &api.PlayerFeed{}
	runner := sandbox.NewRunner(cfg,
		[]sandbox.Option{sandbox.WithPlayerFeed(feed)},
		world.WithObserver(metrics), world.WithMesher(metrics),
	)

	g, gctx := errgroup.WithContext(ctx)

	var server *api.RestServer
	if cfg.Server.Enabled {
		server = api.NewRestServer(api.Config{
			Addr:     cfg.Server.Addr(),
			World:    runner.World(),
			Player:   feed,
			Registry: metrics.Registry(),
		})
		g.Go(server.Start)
		logging.Info("   ❤️  Health check: http://%s/health", cfg.Server.Addr())
		logging.Info("   💡 curl 'http://%s/api/block?x=0&y=0&layer=fg'", cfg.Server.Addr())
	}

	g.Go(func() error {
		// С включённым API кадры идут в реальном времени
		summary := runner.Run(gctx, *frames, *frameTime, cfg.Server.Enabled)
		logging.Info("✅ Кадров: %d за %s, чанков: +%d -%d (загружено %d), правок: %d (мимо %d)",
			summary.Frames, summary.Elapsed.Round(time.Millisecond),
			summary.Generated, summary.Evicted, summary.Loaded,
			summary.EditsApplied, summary.EditsMissed)
		logging.Info("   Игрок: позиция=(%.1f, %.1f) скорость=(%.1f, %.1f) на земле=%v noclip=%v",
			summary.Player.Position.X, summary.Player.Position.Y,
			summary.Player.Velocity.X, summary.Player.Velocity.Y,
			summary.Player.Floored, summary.Player.Noclip)

		if server != nil && *frames > 0 {
			// Прогон завершён, API продолжает отвечать до сигнала
			<-gctx.Done()
		}
		if server != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Stop(stopCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error("❌ %v", err)
		os.Exit(1)
	}
	logging.Info("👋 Песочница остановлена")
}
