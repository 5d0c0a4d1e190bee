package sandbox

import (
	"context"
	"time"

	"github.com/annel0/tilecraft/internal/api"
	"github.com/annel0/tilecraft/internal/config"
	"github.com/annel0/tilecraft/internal/logging"
	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world"
	"github.com/annel0/tilecraft/internal/world/block"
	"github.com/annel0/tilecraft/internal/world/entity"
)

// Дальность инструмента в блоках
const toolReach = 6

// Action управление на один кадр
type Action struct {
	Intent       entity.Intent
	ToggleNoclip bool
	FlipLayer    bool
	Place        bool
	Remove       bool
	Aim          vec.Vec2Float // Точка прицела относительно центра игрока
}

// Script выдаёт управление для кадра
type Script func(frame int, state entity.PlayerState) Action

// Summary итог прогона
type Summary struct {
	Frames       int
	Generated    int
	Evicted      int
	Loaded       int
	EditsApplied int
	EditsMissed  int
	Player       entity.PlayerState
	Elapsed      time.Duration
}

// Runner пошагово крутит симуляцию без отрисовки
type Runner struct {
	cfg     *config.Config
	world   *world.ChunkManager
	player  *entity.Player
	tool    *entity.Tool
	feed    *api.PlayerFeed
	script  Script
	logger  *logging.Logger
	frame   int
	summary Summary
}

// Option настраивает Runner
type Option func(*Runner)

// WithScript задаёт сценарий управления
func WithScript(s Script) Option {
	return func(r *Runner) { r.script = s }
}

// WithPlayerFeed публикует снимки игрока после каждого кадра
func WithPlayerFeed(f *api.PlayerFeed) Option {
	return func(r *Runner) { r.feed = f }
}

// NewRunner собирает мир и игрока по конфигурации
func NewRunner(cfg *config.Config, opts []Option, worldOpts ...world.Option) *Runner {
	gen := cfg.World.NewGenerator()
	worldOpts = append([]world.Option{world.WithWorkers(cfg.Streaming.GenerationWorkers)}, worldOpts...)

	r := &Runner{
		cfg:    cfg,
		world:  world.NewChunkManager(gen, worldOpts...),
		tool:   entity.NewTool(block.DirtBlockID),
		feed:   &api.PlayerFeed{},
		script: DefaultScript,
		logger: logging.GetComponentLogger("sandbox"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.player = entity.NewPlayer(spawnPoint(gen), cfg.Physics.Entity())
	return r
}

// spawnPoint ставит игрока на два блока выше поверхности в колонке 0
func spawnPoint(gen world.Generator) vec.Vec2Float {
	surface := 0
	if sf, ok := gen.(world.SurfaceFinder); ok {
		surface = sf.SurfaceHeight(0)
	}
	return vec.Vec2Float{
		X: block.TileSize / 2,
		Y: float64(surface+2) * block.TileSize,
	}
}

// World возвращает менеджер чанков
func (r *Runner) World() *world.ChunkManager { return r.world }

// Player возвращает игрока
func (r *Runner) Player() *entity.Player { return r.player }

// Feed возвращает ленту снимков игрока
func (r *Runner) Feed() *api.PlayerFeed { return r.feed }

// viewRect область вокруг игрока, которую нужно держать загруженной
func (r *Runner) viewRect() physics.AxisAlignedRectangle {
	size := vec.Vec2Float{X: r.cfg.Streaming.ViewWidth, Y: r.cfg.Streaming.ViewHeight}
	return physics.NewAxisAlignedRectangle(r.player.Position(), size).Expand(r.cfg.Streaming.Margin)
}

// Step выполняет один кадр: стриминг, физика, правка блоков
func (r *Runner) Step(frameTime float64) {
	stats := r.world.LoadVisible(r.viewRect())
	r.summary.Generated += stats.Generated
	r.summary.Evicted += stats.Evicted

	action := r.script(r.frame, r.player.Snapshot())
	if action.ToggleNoclip {
		r.player.ToggleNoclip()
		r.logger.Debug("Кадр %d: noclip=%v", r.frame, r.player.Noclip())
	}
	if action.FlipLayer {
		r.tool.FlipLayer()
	}

	r.player.Input(action.Intent)
	r.player.Update(r.world, frameTime)

	if action.Place || action.Remove {
		r.edit(action)
	}

	r.frame++
	r.summary.Frames = r.frame
	r.summary.Loaded = stats.Loaded
	r.feed.Publish(r.player.Snapshot())
}

// edit применяет инструмент к блоку под прицелом
func (r *Runner) edit(action Action) {
	eye := r.player.Position()
	hit, before, ok := r.tool.Aim(r.world, eye, eye.Add(action.Aim), toolReach)
	if !ok {
		return
	}

	target, place := hit, false
	if action.Place {
		target, place = before, true
	}

	if r.tool.Use(r.world, target, place) {
		r.summary.EditsApplied++
		r.logger.Trace("Кадр %d: блок %v (%s) place=%v", r.frame, target, r.tool.Layer, place)
	} else {
		r.summary.EditsMissed++
	}
}

// Run выполняет frames кадров с фиксированным шагом. frames <= 0 - до отмены ctx.
// Если pace == true, кадры идут в реальном времени.
func (r *Runner) Run(ctx context.Context, frames int, frameTime float64, pace bool) Summary {
	start := time.Now()

	var tick <-chan time.Time
	if pace {
		ticker := time.NewTicker(time.Duration(frameTime * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	for frames <= 0 || r.frame < frames {
		if tick != nil {
			select {
			case <-ctx.Done():
				return r.finish(start)
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return r.finish(start)
		}
		r.Step(frameTime)
	}
	return r.finish(start)
}

func (r *Runner) finish(start time.Time) Summary {
	r.summary.Player = r.player.Snapshot()
	r.summary.Elapsed = time.Since(start)
	return r.summary
}

// DefaultScript идёт вправо, прыгает, периодически копает и ставит блоки
// и ненадолго включает свободный полёт.
func DefaultScript(frame int, state entity.PlayerState) Action {
	action := Action{Intent: entity.Intent{Right: true}}

	if frame%45 == 0 {
		action.Intent.Jump = true
	}

	// Прицел на блок впереди-снизу
	action.Aim = vec.Vec2Float{X: 2 * block.TileSize, Y: -2 * block.TileSize}
	switch frame % 120 {
	case 30:
		action.Remove = true
	case 90:
		action.Place = true
	}

	switch frame % 600 {
	case 300, 360:
		action.ToggleNoclip = true
	case 599:
		action.FlipLayer = true
	}

	if state.Noclip {
		action.Intent.Up = true
	}
	return action
}
