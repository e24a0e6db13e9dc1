package world

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/erosion"
	"github.com/annel0/terragen/internal/heightmap"
	"github.com/annel0/terragen/internal/logging"
	"github.com/annel0/terragen/internal/noise"
)

const tracerName = "github.com/annel0/terragen/internal/world"

// Stage стадия конвейера генерации
type Stage string

const (
	StageHeightmap Stage = "heightmap"
	StageErosion   Stage = "erosion"
	StageBiomes    Stage = "biomes"
)

// Stages все стадии в порядке выполнения
var Stages = []Stage{StageHeightmap, StageErosion, StageBiomes}

// StageObserver получает уведомления о начале и конце стадий
type StageObserver interface {
	OnStageStarted(stage Stage)
	OnStageFinished(stage Stage, elapsed time.Duration)
}

// Cache хранилище готовых миров по отпечатку конфигурации
type Cache interface {
	Load(ctx context.Context, fingerprint uint64) (*World, bool, error)
	Store(ctx context.Context, w *World) error
}

// Pipeline последовательный конвейер: карта высот -> эрозия -> биомы.
// Все параметры проверяются в NewPipeline; Run не выполняется частично.
type Pipeline struct {
	cfg         config.Config
	seed        int64
	fingerprint uint64

	generator  *heightmap.Generator
	simulator  *erosion.Simulator
	classifier *biome.Classifier

	logger   *logging.Logger
	progress erosion.ProgressObserver
	stages   StageObserver
	cache    Cache
	tracer   trace.Tracer
}

// Option настраивает Pipeline
type Option func(*Pipeline)

// WithLogger подключает логгер
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithProgress подключает наблюдателя прогресса эрозии
func WithProgress(o erosion.ProgressObserver) Option {
	return func(p *Pipeline) { p.progress = o }
}

// WithStageObserver подключает наблюдателя стадий
func WithStageObserver(o StageObserver) Option {
	return func(p *Pipeline) { p.stages = o }
}

// WithCache подключает кэш готовых миров
func WithCache(c Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithTracer задаёт трассировщик вместо глобального
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// NewPipeline проверяет конфигурацию и собирает все стадии
func NewPipeline(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: конфигурация не задана", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: *cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}

	fp, err := cfg.Fingerprint()
	if err != nil {
		return nil, err
	}
	p.fingerprint = fp
	p.seed = noise.SeedFromString(cfg.Seed)

	field, err := noise.New(noise.Backend(cfg.Noise.Backend), p.seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	p.generator, err = heightmap.New(cfg.Width, cfg.Height, cfg.Terrain, field, p.logger)
	if err != nil {
		return nil, err
	}

	p.simulator, err = erosion.New(cfg.Erosion, p.seed,
		erosion.WithLogger(p.logger),
		erosion.WithObserver(p.progress),
	)
	if err != nil {
		return nil, err
	}

	p.classifier, err = biome.NewClassifier(cfg.Biomes.Rules, p.logger)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Seed числовой сид, выведенный из строки конфигурации
func (p *Pipeline) Seed() int64 { return p.seed }

// Fingerprint отпечаток конфигурации
func (p *Pipeline) Fingerprint() uint64 { return p.fingerprint }

// Classifier классификатор биомов конвейера (для Tracker и точечных запросов)
func (p *Pipeline) Classifier() *biome.Classifier { return p.classifier }

// Run выполняет все стадии и возвращает готовый мир
func (p *Pipeline) Run(ctx context.Context) (*World, error) {
	ctx, span := p.tracer.Start(ctx, "world.Run", trace.WithAttributes(
		attribute.Int("world.width", p.cfg.Width),
		attribute.Int("world.height", p.cfg.Height),
		attribute.Int64("world.seed", p.seed),
	))
	defer span.End()

	if p.cache != nil {
		w, ok, err := p.cache.Load(ctx, p.fingerprint)
		if err != nil {
			p.logger.Warn("ошибка чтения кэша: %v", err)
		} else if ok {
			p.logger.Info("мир %016x загружен из кэша (run %s)", p.fingerprint, w.RunID())
			span.SetAttributes(attribute.Bool("world.cache_hit", true))
			return w, nil
		}
	}

	w, err := p.generate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Store(ctx, w); err != nil {
			p.logger.Warn("ошибка записи кэша: %v", err)
		}
	}
	return w, nil
}

func (p *Pipeline) generate(ctx context.Context) (*World, error) {
	runID := uuid.NewString()
	durations := make(map[Stage]time.Duration, len(Stages))
	p.logger.Info("генерация %dx%d, сид %q (%d), run %s", p.cfg.Width, p.cfg.Height, p.cfg.Seed, p.seed, runID)

	var terrain *heightmap.Result
	err := p.stage(ctx, StageHeightmap, durations, func(ctx context.Context) error {
		var err error
		terrain, err = p.generator.Generate(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var stats erosion.Stats
	eroded := terrain.Height
	err = p.stage(ctx, StageErosion, durations, func(ctx context.Context) error {
		var err error
		eroded, stats, err = p.simulator.Simulate(ctx, terrain.Height)
		return err
	})
	if err != nil {
		return nil, err
	}

	var biomes *biome.Result
	err = p.stage(ctx, StageBiomes, durations, func(ctx context.Context) error {
		var err error
		biomes, err = p.classifier.ClassifyGrid(ctx, eroded, terrain.Temperature, terrain.Humidity)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &World{
		runID:       runID,
		seed:        p.seed,
		fingerprint: p.fingerprint,
		height:      eroded,
		temperature: terrain.Temperature,
		humidity:    terrain.Humidity,
		biomes:      biomes.Biomes,
		transitions: biomes.Transitions,
		erosion:     stats,
		durations:   durations,
	}, nil
}

// stage выполняет одну стадию в отдельном span и уведомляет наблюдателя
func (p *Pipeline) stage(ctx context.Context, s Stage, durations map[Stage]time.Duration, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "world."+string(s))
	defer span.End()

	if p.stages != nil {
		p.stages.OnStageStarted(s)
	}
	start := time.Now()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error("стадия %s прервана: %v", s, err)
		return fmt.Errorf("стадия %s: %w", s, err)
	}

	elapsed := time.Since(start)
	durations[s] = elapsed
	if p.stages != nil {
		p.stages.OnStageFinished(s, elapsed)
	}
	p.logger.Debug("стадия %s завершена за %v", s, elapsed)
	return nil
}
