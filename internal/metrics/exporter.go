package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/logging"
	"github.com/annel0/terragen/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "terragen"

// Exporter инкапсулирует Prometheus-метрики генератора.
// Реализует erosion.ProgressObserver, world.StageObserver и
// biome.ChangeObserver, поэтому подключается к конвейеру напрямую.
type Exporter struct {
	registry *prometheus.Registry
	logger   *logging.Logger

	mu           sync.Mutex
	lastDroplets int

	droplets      prometheus.Counter
	progress      prometheus.Gauge
	stageDuration *prometheus.HistogramVec
	stageRunning  *prometheus.GaugeVec
	biomeChanges  *prometheus.CounterVec
	biomeCells    *prometheus.GaugeVec
	sediment      *prometheus.GaugeVec
	worlds        prometheus.Counter

	server *http.Server
}

// NewExporter создаёт экспортер с собственным реестром.
// Глобальный реестр Prometheus не используется.
func NewExporter(logger *logging.Logger) *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		logger:   logger,
		droplets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "erosion",
			Name:      "droplets_total",
			Help:      "Общее число смоделированных капель.",
		}),
		progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "erosion",
			Name:      "progress_ratio",
			Help:      "Доля выполненной гидравлической эрозии текущего прогона.",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Длительность стадий конвейера.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		stageRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_running",
			Help:      "1, пока стадия выполняется.",
		}, []string{"stage"}),
		biomeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "biome",
			Name:      "changes_total",
			Help:      "Смены биома у отслеживаемых точек.",
		}, []string{"from", "to"}),
		biomeCells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "biome_cells",
			Help:      "Число ячеек каждого биома в последнем мире.",
		}, []string{"biome"}),
		sediment: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "erosion",
			Name:      "sediment",
			Help:      "Размытый и отложенный материал последнего прогона.",
		}, []string{"kind"}),
		worlds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "generated_total",
			Help:      "Число завершённых миров.",
		}),
	}

	e.registry.MustRegister(
		e.droplets, e.progress, e.stageDuration, e.stageRunning,
		e.biomeChanges, e.biomeCells, e.sediment, e.worlds,
	)
	return e
}

// Registry реестр экспортера
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// OnErosionProgress переводит накопительный счётчик капель в приращение Counter
func (e *Exporter) OnErosionProgress(done, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// новый прогон начинается с меньшего done
	if done < e.lastDroplets {
		e.lastDroplets = 0
	}
	if delta := done - e.lastDroplets; delta > 0 {
		e.droplets.Add(float64(delta))
	}
	e.lastDroplets = done
	if done == total {
		e.lastDroplets = 0
	}

	if total > 0 {
		e.progress.Set(float64(done) / float64(total))
	}
}

// OnStageStarted отмечает стадию как выполняющуюся
func (e *Exporter) OnStageStarted(stage world.Stage) {
	e.stageRunning.WithLabelValues(string(stage)).Set(1)
}

// OnStageFinished записывает длительность стадии
func (e *Exporter) OnStageFinished(stage world.Stage, elapsed time.Duration) {
	e.stageRunning.WithLabelValues(string(stage)).Set(0)
	e.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

// OnBiomeChanged считает переходы между биомами
func (e *Exporter) OnBiomeChanged(prev, next biome.Biome) {
	e.biomeChanges.WithLabelValues(prev.String(), next.String()).Inc()
}

// ObserveWorld обновляет сводные метрики готового мира
func (e *Exporter) ObserveWorld(w *world.World) {
	hist := w.BiomeGrid().Histogram()
	for _, b := range biome.All() {
		e.biomeCells.WithLabelValues(b.String()).Set(float64(hist[b]))
	}

	stats := w.ErosionStats()
	e.sediment.WithLabelValues("eroded").Set(stats.Eroded)
	e.sediment.WithLabelValues("deposited").Set(stats.Deposited)
	e.worlds.Inc()
}

// StartHTTP запускает HTTP-эндпоинт /metrics на указанном адресе (например, ":2112").
// Метод неблокирующий: сервер стартует в отдельной горутине.
func (e *Exporter) StartHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	e.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		e.logger.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}

// Shutdown останавливает HTTP-сервер, если он был запущен
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
