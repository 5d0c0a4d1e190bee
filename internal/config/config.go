package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/annel0/tilecraft/internal/util"
	"github.com/annel0/tilecraft/internal/world"
	"github.com/annel0/tilecraft/internal/world/block"
	"github.com/annel0/tilecraft/internal/world/entity"
)

// ErrInvalidConfig возвращается, если значения конфигурации не проходят проверку
var ErrInvalidConfig = errors.New("invalid config")

// Config корневая структура конфигурации приложения
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Streaming StreamingConfig `yaml:"streaming"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type WorldConfig struct {
	Generator   string      `yaml:"generator"` // "terrain" или "flat"
	Seed        int64       `yaml:"seed"`
	BaseHeight  int         `yaml:"base_height"`
	Amplitude   float64     `yaml:"amplitude"`
	DirtDepth   int         `yaml:"dirt_depth"`
	FlatSurface int         `yaml:"flat_surface"`
	Noise       NoiseConfig `yaml:"noise"`
	Caves       CaveConfig  `yaml:"caves"`
}

type NoiseConfig struct {
	Frequency  float64 `yaml:"frequency"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
	Octaves    int     `yaml:"octaves"`
}

type CaveConfig struct {
	Frequency      float64 `yaml:"frequency"`
	Threshold      float64 `yaml:"threshold"`
	ChunkThreshold int     `yaml:"chunk_threshold"`
}

// PhysicsConfig параметры движения в мировых единицах
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	MoveSpeed        float64 `yaml:"move_speed"`
	JumpSpeed        float64 `yaml:"jump_speed"`
	NoclipSpeed      float64 `yaml:"noclip_speed"`
}

type StreamingConfig struct {
	ViewWidth         float64 `yaml:"view_width"`
	ViewHeight        float64 `yaml:"view_height"`
	Margin            float64 `yaml:"margin"`
	GenerationWorkers int     `yaml:"generation_workers"`
}

type ServerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	RESTPort int    `yaml:"rest_port"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	FileLevel string `yaml:"file_level"`
	Dir       string `yaml:"dir"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	gen := world.DefaultGeneratorConfig(1337)
	phys := entity.DefaultPhysicsConfig()

	return &Config{
		World: WorldConfig{
			Generator:  "terrain",
			Seed:       gen.Seed,
			BaseHeight: gen.BaseHeight,
			Amplitude:  gen.Amplitude,
			DirtDepth:  gen.DirtDepth,
			Noise: NoiseConfig{
				Frequency:  gen.Terrain.Frequency,
				Lacunarity: gen.Terrain.Lacunarity,
				Gain:       gen.Terrain.Gain,
				Octaves:    gen.Terrain.Octaves,
			},
			Caves: CaveConfig{
				Frequency:      gen.CaveFrequency,
				Threshold:      gen.CaveThreshold,
				ChunkThreshold: gen.CaveChunkThreshold,
			},
		},
		Physics: PhysicsConfig{
			Gravity:          phys.Gravity,
			TerminalVelocity: phys.TerminalVelocity,
			MoveSpeed:        phys.MoveSpeed,
			JumpSpeed:        phys.JumpSpeed,
			NoclipSpeed:      phys.NoclipSpeed,
		},
		Streaming: StreamingConfig{
			ViewWidth:         1280,
			ViewHeight:        720,
			Margin:            world.ChunkPixelSize / 2,
			GenerationWorkers: 1,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
		},
		Logging: LoggingConfig{
			Level:     "info",
			FileLevel: "debug",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "tilecraft",
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch c.World.Generator {
	case "terrain", "flat":
	default:
		return fmt.Errorf("%w: неизвестный генератор %q", ErrInvalidConfig, c.World.Generator)
	}
	if c.World.Noise.Frequency <= 0 || c.World.Noise.Octaves <= 0 {
		return fmt.Errorf("%w: world.noise: частота и число октав должны быть положительными", ErrInvalidConfig)
	}
	if c.World.DirtDepth < 0 || c.World.Amplitude < 0 {
		return fmt.Errorf("%w: world: отрицательная высота слоя", ErrInvalidConfig)
	}
	if c.Physics.Gravity <= 0 || c.Physics.TerminalVelocity <= 0 {
		return fmt.Errorf("%w: physics: гравитация и предельная скорость должны быть положительными", ErrInvalidConfig)
	}
	if c.Streaming.ViewWidth <= 0 || c.Streaming.ViewHeight <= 0 {
		return fmt.Errorf("%w: streaming: размер области видимости должен быть положительным", ErrInvalidConfig)
	}
	if c.Streaming.Margin < 0 {
		return fmt.Errorf("%w: streaming.margin не может быть отрицательным", ErrInvalidConfig)
	}
	if c.Streaming.GenerationWorkers < 1 {
		return fmt.Errorf("%w: streaming.generation_workers должен быть >= 1", ErrInvalidConfig)
	}
	if c.Server.RESTPort < 0 || c.Server.RESTPort > 65535 {
		return fmt.Errorf("%w: server.rest_port вне диапазона", ErrInvalidConfig)
	}
	return nil
}

// GeneratorConfig собирает параметры процедурного генератора
func (w WorldConfig) GeneratorConfig() world.GeneratorConfig {
	return world.GeneratorConfig{
		Seed: w.Seed,
		Terrain: util.FractalConfig{
			Frequency:  w.Noise.Frequency,
			Lacunarity: w.Noise.Lacunarity,
			Gain:       w.Noise.Gain,
			Octaves:    w.Noise.Octaves,
		},
		BaseHeight:         w.BaseHeight,
		Amplitude:          w.Amplitude,
		DirtDepth:          w.DirtDepth,
		CaveFrequency:      w.Caves.Frequency,
		CaveThreshold:      w.Caves.Threshold,
		CaveChunkThreshold: w.Caves.ChunkThreshold,
	}
}

// NewGenerator создаёт генератор мира по конфигурации
func (w WorldConfig) NewGenerator() world.Generator {
	if w.Generator == "flat" {
		return world.FlatGenerator{Surface: w.FlatSurface, Fill: block.StoneBlockID}
	}
	return world.NewTerrainGenerator(w.GeneratorConfig())
}

// Entity переводит параметры в конфигурацию физики игрока
func (p PhysicsConfig) Entity() entity.PhysicsConfig {
	return entity.PhysicsConfig{
		Gravity:          p.Gravity,
		TerminalVelocity: p.TerminalVelocity,
		MoveSpeed:        p.MoveSpeed,
		JumpSpeed:        p.JumpSpeed,
		NoclipSpeed:      p.NoclipSpeed,
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// Addr возвращает адрес для http.Server
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.GetRESTPort())
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG; без файла возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
