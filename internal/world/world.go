package world

import (
	"fmt"
	"time"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/erosion"
	"github.com/annel0/terragen/internal/grid"
)

// World завершённый неизменяемый результат генерации.
// Сетки доступны только через точечные запросы и копии.
type World struct {
	runID       string
	seed        int64
	fingerprint uint64

	height      *grid.Grid
	temperature *grid.Grid
	humidity    *grid.Grid
	biomes      *biome.Grid
	transitions *grid.Grid

	erosion   erosion.Stats
	durations map[Stage]time.Duration
}

// RunID идентификатор прогона, породившего мир
func (w *World) RunID() string { return w.runID }

// Seed числовой сид генерации
func (w *World) Seed() int64 { return w.seed }

// Fingerprint отпечаток конфигурации, из которой получен мир
func (w *World) Fingerprint() uint64 { return w.fingerprint }

// Size ширина и высота сеток
func (w *World) Size() (int, int) { return w.height.W, w.height.H }

// HeightAt высота ячейки; вне сетки 0
func (w *World) HeightAt(x, y int) float64 { return w.height.At(x, y) }

// TemperatureAt температура ячейки; вне сетки 0
func (w *World) TemperatureAt(x, y int) float64 { return w.temperature.At(x, y) }

// HumidityAt влажность ячейки; вне сетки 0
func (w *World) HumidityAt(x, y int) float64 { return w.humidity.At(x, y) }

// BiomeAt биом ячейки; вне сетки biome.Default
func (w *World) BiomeAt(x, y int) biome.Biome { return w.biomes.At(x, y) }

// TransitionAt вес перехода биомов; вне сетки 0
func (w *World) TransitionAt(x, y int) float64 { return w.transitions.At(x, y) }

// HeightGrid копия итоговой карты высот
func (w *World) HeightGrid() *grid.Grid { return w.height.Clone() }

// TemperatureGrid копия сетки температуры
func (w *World) TemperatureGrid() *grid.Grid { return w.temperature.Clone() }

// HumidityGrid копия сетки влажности
func (w *World) HumidityGrid() *grid.Grid { return w.humidity.Clone() }

// TransitionGrid копия сетки весов переходов
func (w *World) TransitionGrid() *grid.Grid { return w.transitions.Clone() }

// BiomeGrid копия сетки биомов
func (w *World) BiomeGrid() *biome.Grid {
	data := make([]biome.Biome, len(w.biomes.Data))
	copy(data, w.biomes.Data)
	return &biome.Grid{W: w.biomes.W, H: w.biomes.H, Data: data}
}

// ErosionStats итоги эрозии
func (w *World) ErosionStats() erosion.Stats { return w.erosion }

// StageDuration длительность стадии; для мира из кэша ноль
func (w *World) StageDuration(s Stage) time.Duration { return w.durations[s] }

// Snapshot плоское представление мира для сохранения в кэш
type Snapshot struct {
	RunID       string
	Seed        int64
	Fingerprint uint64
	Width       int
	Height      int
	Heights     []float64
	Temperature []float64
	Humidity    []float64
	Transitions []float64
	Biomes      []biome.Biome
}

// Export возвращает глубокую копию данных мира
func (w *World) Export() Snapshot {
	biomes := make([]biome.Biome, len(w.biomes.Data))
	copy(biomes, w.biomes.Data)
	return Snapshot{
		RunID:       w.runID,
		Seed:        w.seed,
		Fingerprint: w.fingerprint,
		Width:       w.height.W,
		Height:      w.height.H,
		Heights:     w.height.Clone().Data,
		Temperature: w.temperature.Clone().Data,
		Humidity:    w.humidity.Clone().Data,
		Transitions: w.transitions.Clone().Data,
		Biomes:      biomes,
	}
}

// Restore собирает мир из снимка, проверяя согласованность размеров
func Restore(s Snapshot) (*World, error) {
	n := s.Width * s.Height
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("снимок: неверные размеры %dx%d", s.Width, s.Height)
	}
	for name, l := range map[string]int{
		"heights":     len(s.Heights),
		"temperature": len(s.Temperature),
		"humidity":    len(s.Humidity),
		"transitions": len(s.Transitions),
		"biomes":      len(s.Biomes),
	} {
		if l != n {
			return nil, fmt.Errorf("снимок: длина %s = %d, ожидалось %d", name, l, n)
		}
	}

	wrap := func(data []float64) *grid.Grid {
		cp := make([]float64, n)
		copy(cp, data)
		return &grid.Grid{W: s.Width, H: s.Height, Data: cp}
	}
	biomes := biome.NewGrid(s.Width, s.Height)
	copy(biomes.Data, s.Biomes)

	return &World{
		runID:       s.RunID,
		seed:        s.Seed,
		fingerprint: s.Fingerprint,
		height:      wrap(s.Heights),
		temperature: wrap(s.Temperature),
		humidity:    wrap(s.Humidity),
		transitions: wrap(s.Transitions),
		biomes:      biomes,
		durations:   map[Stage]time.Duration{},
	}, nil
}
