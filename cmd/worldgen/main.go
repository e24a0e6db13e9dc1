package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/logging"
	"github.com/annel0/terragen/internal/metrics"
	"github.com/annel0/terragen/internal/observability"
	"github.com/annel0/terragen/internal/storage"
	"github.com/annel0/terragen/internal/world"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run возвращает код завершения; отложенные закрытия успевают выполниться
func run(args []string) int {
	fs := flag.NewFlagSet("worldgen", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "YAML config path (or TERRAGEN_CONFIG)")
		seed        = fs.String("seed", "", "Override world seed")
		cacheDir    = fs.String("cache", "", "BadgerDB directory for generated worlds (empty = no cache)")
		metricsAddr = fs.String("metrics-addr", "", "Prometheus /metrics address, e.g. :2112")
		otelAddr    = fs.String("otel", "", "OTLP HTTP endpoint, e.g. localhost:4318 (empty = tracing off)")
		preview     = fs.Int("preview", 64, "ASCII preview width in columns (0 = off)")
		walk        = fs.Int("walk", 0, "Trace biome changes along the diagonal with N samples")
		dumpConfig  = fs.Bool("dump-config", false, "Print effective config as YAML and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		return 2
	}
	if *seed != "" {
		cfg.Seed = *seed
		if err := cfg.Validate(); err != nil {
			logging.Error("❌ Ошибка конфигурации: %v", err)
			return 2
		}
	}

	if *dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			logging.Error("❌ Ошибка сериализации конфигурации: %v", err)
			return 2
		}
		os.Stdout.Write(data)
		return 0
	}

	logger := setupLogging(cfg.Logging)
	defer logging.GetLoggerManager().CloseAll()

	monitor, err := metrics.NewProcessMonitor()
	if err != nil {
		logger.Warn("мониторинг процесса недоступен: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *otelAddr != "" {
		shutdown, err := observability.InitTelemetry(ctx, "terragen", *otelAddr, logger)
		if err != nil {
			logger.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("ошибка завершения OpenTelemetry: %v", err)
				}
			}()
		}
	}

	exporter := metrics.NewExporter(logger)
	if *metricsAddr != "" {
		exporter.StartHTTP(*metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = exporter.Shutdown(shutdownCtx)
		}()
	}

	opts := []world.Option{
		world.WithLogger(logging.GetPipelineLogger()),
		world.WithStageObserver(exporter),
		world.WithProgress(progressLogger(exporter, logging.GetErosionLogger())),
	}

	if *cacheDir != "" {
		ws, err := storage.NewWorldStorage(*cacheDir, logging.GetStorageLogger())
		if err != nil {
			logger.Error("❌ Кэш миров недоступен: %v", err)
		} else {
			defer ws.Close()
			opts = append(opts, world.WithCache(ws))
		}
	}

	pipeline, err := world.NewPipeline(cfg, opts...)
	if err != nil {
		logger.Error("❌ %v", err)
		return 2
	}

	logger.Info("🌍 Генерация мира %dx%d, сид %q, отпечаток %016x",
		cfg.Width, cfg.Height, cfg.Seed, pipeline.Fingerprint())

	w, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("❌ Генерация прервана: %v", err)
		return 1
	}
	exporter.ObserveWorld(w)

	printSummary(w, cfg)

	if *walk > 0 {
		tracker := biome.NewTracker(pipeline.Classifier(), biomeChangeLogger(exporter, logging.GetBiomeLogger()))
		walkDiagonal(w, tracker, *walk)
	}

	if *preview > 0 {
		fmt.Print(renderPreview(w, *preview))
	}

	if monitor != nil {
		report, err := monitor.Report()
		if err != nil {
			logger.Warn("не удалось снять показатели процесса: %v", err)
		} else {
			logger.Info("📊 %s", report)
		}
	}
	return 0
}

// setupLogging выставляет уровни всех логгеров конвейера
func setupLogging(cfg config.LoggingConfig) *logging.Logger {
	level := logging.ParseLevel(cfg.Level)
	manager := logging.GetLoggerManager()
	manager.SetLogDir(cfg.Dir)

	for _, name := range []string{"worldgen", "pipeline", "erosion", "biome", "storage"} {
		manager.MustGetLogger(name)
		_ = manager.SetLogLevel(name, level, logging.TRACE)
	}
	return manager.MustGetLogger("worldgen")
}

// progressLogger пересылает прогресс эрозии в метрики и пишет его в лог
func progressLogger(exporter *metrics.Exporter, logger *logging.Logger) erosionProgress {
	return erosionProgress{exporter: exporter, logger: logger}
}

type erosionProgress struct {
	exporter *metrics.Exporter
	logger   *logging.Logger
}

func (p erosionProgress) OnErosionProgress(done, total int) {
	p.exporter.OnErosionProgress(done, total)
	p.logger.Debug("эрозия: %d/%d капель (%.0f%%)", done, total, 100*float64(done)/float64(total))
}

type biomeChanges struct {
	exporter *metrics.Exporter
	logger   *logging.Logger
}

func biomeChangeLogger(exporter *metrics.Exporter, logger *logging.Logger) biomeChanges {
	return biomeChanges{exporter: exporter, logger: logger}
}

func (b biomeChanges) OnBiomeChanged(prev, next biome.Biome) {
	b.exporter.OnBiomeChanged(prev, next)
	b.logger.Info("🧭 %s → %s", prev, next)
}

// walkDiagonal проходит мир по диагонали и сообщает о сменах биома
func walkDiagonal(w *world.World, tracker *biome.Tracker, samples int) {
	width, height := w.Size()
	changes := 0
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(max(samples-1, 1))
		x := int(t * float64(width-1))
		y := int(t * float64(height-1))
		if _, changed := tracker.Update(w.HeightAt(x, y), w.TemperatureAt(x, y), w.HumidityAt(x, y)); changed {
			changes++
		}
	}
	fmt.Printf("Диагональ: %d точек, %d смен биома\n", samples, changes)
}

func printSummary(w *world.World, cfg *config.Config) {
	width, height := w.Size()
	st := w.HeightGrid().Stats()
	es := w.ErosionStats()

	fmt.Printf("Мир %dx%d  run=%s  seed=%d\n", width, height, w.RunID(), w.Seed())
	fmt.Printf("Высота: min=%.3f max=%.3f mean=%.3f\n", st.Min, st.Max, st.Mean)
	fmt.Printf("Эрозия: капель=%d шагов=%d размыто=%.3f отложено=%.3f термика=%d\n",
		es.Droplets, es.Steps, es.Eroded, es.Deposited, es.ThermalPasses)
	for _, s := range world.Stages {
		fmt.Printf("  %-10s %s\n", s, metrics.FormatDuration(w.StageDuration(s)))
	}

	hist := w.BiomeGrid().Histogram()
	type entry struct {
		b biome.Biome
		n int
	}
	entries := make([]entry, 0, len(hist))
	for b, n := range hist {
		entries = append(entries, entry{b, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].b < entries[j].b
	})
	total := float64(width * height)
	water := 0
	fmt.Println("Биомы:")
	for _, e := range entries {
		fmt.Printf("  %c %-12s %6.2f%%\n", biomeGlyph(e.b), e.b, 100*float64(e.n)/total)
		if e.b.IsWater() {
			water += e.n
		}
	}
	fmt.Printf("Вода: %.2f%%\n", 100*float64(water)/total)

	if bands, err := biome.NewHeightBands(cfg.Bands); err == nil {
		cov := bands.Coverage(w.HeightGrid())
		fmt.Println("Полосы высот:")
		for b := biome.BandDeepWater; b <= biome.BandMountain; b++ {
			fmt.Printf("  %-14s %6.2f%%\n", b, 100*cov[b])
		}
	}
}
