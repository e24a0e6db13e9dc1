package erosion

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/grid"
	"github.com/annel0/terragen/internal/logging"
)

// ProgressObserver получает уведомления о ходе гидравлической эрозии.
// Вызывается синхронно из цикла симуляции и не должен блокироваться.
type ProgressObserver interface {
	OnErosionProgress(done, total int)
}

// ProgressFunc адаптер функции к ProgressObserver
type ProgressFunc func(done, total int)

func (f ProgressFunc) OnErosionProgress(done, total int) { f(done, total) }

// Stats итоги прогона эрозии
type Stats struct {
	Droplets      int
	Steps         int
	MaxSteps      int
	Truncated     int
	Eroded        float64
	Deposited     float64
	ThermalPasses int
	ThermalMoved  float64
	Duration      time.Duration
}

// params неизменяемые параметры одной капли
type params struct {
	erosionStrength float64
	depositionRate  float64
	invertGradient  bool
	maxSteps        int
}

// Simulator изменяет карту высот каплями (гидравлическая эрозия)
// и осыпанием склонов круче угла естественного откоса (термическая эрозия)
type Simulator struct {
	settings config.ErosionSettings
	seed     int64
	observer ProgressObserver
	logger   *logging.Logger
}

// Option настраивает Simulator
type Option func(*Simulator)

// WithObserver подключает наблюдателя прогресса
func WithObserver(o ProgressObserver) Option {
	return func(s *Simulator) { s.observer = o }
}

// WithLogger подключает логгер
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// New проверяет параметры и создаёт симулятор. seed задаёт точки появления капель.
func New(settings config.ErosionSettings, seed int64, opts ...Option) (*Simulator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{settings: settings, seed: seed}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Simulate возвращает новую сетку после эрозии; входная сетка не изменяется.
// Отмена контекста проверяется каждые CancelEvery капель и на каждом
// термическом проходе; при отмене сетка не возвращается.
func (s *Simulator) Simulate(ctx context.Context, in *grid.Grid) (*grid.Grid, Stats, error) {
	if in == nil {
		return nil, Stats{}, fmt.Errorf("erosion: пустая сетка")
	}
	start := time.Now()
	out := in.Clone()

	stats, err := s.hydraulic(ctx, out)
	if err != nil {
		return nil, stats, err
	}

	if err := s.thermal(ctx, out, &stats); err != nil {
		return nil, stats, err
	}

	stats.Duration = time.Since(start)
	s.logger.Info("эрозия завершена: капель=%d шагов=%d (max %d) размыто=%.4f отложено=%.4f термика=%d проходов за %v",
		stats.Droplets, stats.Steps, stats.MaxSteps, stats.Eroded, stats.Deposited, stats.ThermalPasses, stats.Duration)
	return out, stats, nil
}

// hydraulic прогоняет заданное число капель последовательно
func (s *Simulator) hydraulic(ctx context.Context, g *grid.Grid) (Stats, error) {
	var stats Stats
	total := s.settings.Droplets
	if total == 0 {
		return stats, nil
	}

	rng := rand.New(rand.NewSource(s.seed))
	p := params{
		erosionStrength: s.settings.ErosionStrength,
		depositionRate:  s.settings.DepositionRate,
		invertGradient:  s.settings.InvertGradient,
		maxSteps:        s.settings.MaxDropletSteps,
	}

	for i := 0; i < total; i++ {
		if i%s.settings.CancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		d := spawnDroplet(rng, g.W, g.H)
		tr := d.run(g, p)

		stats.Droplets++
		stats.Steps += tr.steps
		stats.Eroded += tr.eroded
		stats.Deposited += tr.deposited
		if tr.steps > stats.MaxSteps {
			stats.MaxSteps = tr.steps
		}
		if tr.truncated {
			stats.Truncated++
		}

		done := i + 1
		if s.observer != nil && (done%s.settings.ProgressEvery == 0 || done == total) {
			s.observer.OnErosionProgress(done, total)
		}
	}

	if stats.Truncated > 0 {
		s.logger.Warn("%d капель остановлены по лимиту %d шагов", stats.Truncated, p.maxSteps)
	}
	return stats, nil
}

// thermal выполняет ThermalIterations проходов осыпания
func (s *Simulator) thermal(ctx context.Context, g *grid.Grid, stats *Stats) error {
	passes := s.settings.ThermalIterations
	if passes == 0 {
		return nil
	}

	var snapshot, deltas []float64
	if s.settings.ThermalMode == config.ThermalBuffered {
		snapshot = make([]float64, len(g.Data))
		deltas = make([]float64, len(g.Data))
	}

	for i := 0; i < passes; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.settings.ThermalMode == config.ThermalBuffered {
			stats.ThermalMoved += thermalPassBuffered(g, snapshot, deltas, s.settings.Talus, s.settings.Smoothness)
		} else {
			stats.ThermalMoved += thermalPassInPlace(g, s.settings.Talus, s.settings.Smoothness)
		}
		stats.ThermalPasses++
	}
	return nil
}
