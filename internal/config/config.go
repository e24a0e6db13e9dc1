package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig оборачивает любую ошибку валидации конфигурации.
// Проверяется через errors.Is до начала генерации.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config корневая структура конфигурации генератора мира.
type Config struct {
	Width   int             `yaml:"width"`
	Height  int             `yaml:"height"`
	Seed    string          `yaml:"seed"`
	Noise   NoiseConfig     `yaml:"noise"`
	Terrain TerrainSettings `yaml:"terrain"`
	Erosion ErosionSettings `yaml:"erosion"`
	Biomes  BiomeConfig     `yaml:"biomes"`
	Bands   HeightBands     `yaml:"height_bands"`
	Logging LoggingConfig   `yaml:"logging"`
}

// NoiseConfig выбирает реализацию базового шума
type NoiseConfig struct {
	Backend string `yaml:"backend"` // perlin | simplex
}

// LoggingConfig уровни логирования
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// BiomeConfig набор правил классификации биомов в порядке приоритета
type BiomeConfig struct {
	Rules []BiomeRule `yaml:"rules"`
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV TERRAGEN_CONFIG,
// иначе возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TERRAGEN_CONFIG")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает YAML из памяти поверх значений по умолчанию
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv применяет переопределения из окружения: config -> env -> default
func applyEnv(cfg *Config) {
	if seed := os.Getenv("TERRAGEN_SEED"); seed != "" {
		cfg.Seed = seed
	}
	cfg.Width = intFromEnv("TERRAGEN_WIDTH", cfg.Width)
	cfg.Height = intFromEnv("TERRAGEN_HEIGHT", cfg.Height)
}

func intFromEnv(envVar string, current int) int {
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return current
}

// Validate проверяет всю конфигурацию. Все ошибки оборачивают ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: размеры сетки должны быть > 0, получено %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	switch c.Noise.Backend {
	case "", "perlin", "simplex":
	default:
		return fmt.Errorf("%w: неизвестный backend шума %q", ErrInvalidConfig, c.Noise.Backend)
	}
	if err := c.Terrain.Validate(); err != nil {
		return err
	}
	if err := c.Erosion.Validate(); err != nil {
		return err
	}
	if err := ValidateRules(c.Biomes.Rules); err != nil {
		return err
	}
	return c.Bands.Validate()
}

// Marshal возвращает каноническое YAML-представление конфигурации
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Fingerprint однозначно идентифицирует набор параметров генерации.
// Логирование на результат не влияет и в отпечаток не входит.
func (c *Config) Fingerprint() (uint64, error) {
	clone := *c
	clone.Logging = LoggingConfig{}
	data, err := yaml.Marshal(&clone)
	if err != nil {
		return 0, fmt.Errorf("сериализация конфигурации: %w", err)
	}
	return xxhash.Sum64(data), nil
}
