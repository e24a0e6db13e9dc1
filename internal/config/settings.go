package config

import (
	"fmt"
	"math"
)

// NoiseSettings управляет затуханием амплитуды и ростом частоты по октавам
type NoiseSettings struct {
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Scale       float64 `yaml:"scale"`
}

// Validate проверяет октавный набор параметров; name попадает в текст ошибки
func (n NoiseSettings) Validate(name string) error {
	switch {
	case n.Octaves < 1:
		return fmt.Errorf("%w: %s.octaves должно быть >= 1, получено %d", ErrInvalidConfig, name, n.Octaves)
	case !(n.Persistence > 0) || n.Persistence > 1:
		return fmt.Errorf("%w: %s.persistence должно быть в (0,1], получено %v", ErrInvalidConfig, name, n.Persistence)
	case !(n.Lacunarity > 1):
		return fmt.Errorf("%w: %s.lacunarity должно быть > 1, получено %v", ErrInvalidConfig, name, n.Lacunarity)
	case !(n.Scale > 0) || math.IsInf(n.Scale, 0):
		return fmt.Errorf("%w: %s.scale должно быть > 0, получено %v", ErrInvalidConfig, name, n.Scale)
	}
	return nil
}

// TerrainSettings параметры слоёв карты высот и климата
type TerrainSettings struct {
	Base           NoiseSettings `yaml:"base"`
	Mountain       NoiseSettings `yaml:"mountain"`
	Ocean          NoiseSettings `yaml:"ocean"`
	Temperature    NoiseSettings `yaml:"temperature"`
	Humidity       NoiseSettings `yaml:"humidity"`
	MountainWeight float64       `yaml:"mountain_weight"`
	OceanLevel     float64       `yaml:"ocean_level"`
	TempOffset     float64       `yaml:"temperature_offset"`
	HumidityOffset float64       `yaml:"humidity_offset"`
}

// Validate проверяет все слои шума и веса смешивания
func (t TerrainSettings) Validate() error {
	layers := []struct {
		name string
		s    NoiseSettings
	}{
		{"terrain.base", t.Base},
		{"terrain.mountain", t.Mountain},
		{"terrain.ocean", t.Ocean},
		{"terrain.temperature", t.Temperature},
		{"terrain.humidity", t.Humidity},
	}
	for _, l := range layers {
		if err := l.s.Validate(l.name); err != nil {
			return err
		}
	}
	if t.MountainWeight < 0 || t.MountainWeight > 1 || math.IsNaN(t.MountainWeight) {
		return fmt.Errorf("%w: terrain.mountain_weight должно быть в [0,1], получено %v", ErrInvalidConfig, t.MountainWeight)
	}
	if !(t.OceanLevel > 0) || t.OceanLevel > 1 {
		return fmt.Errorf("%w: terrain.ocean_level должно быть в (0,1], получено %v", ErrInvalidConfig, t.OceanLevel)
	}
	if math.IsNaN(t.TempOffset) || math.IsNaN(t.HumidityOffset) {
		return fmt.Errorf("%w: смещения климата должны быть конечными", ErrInvalidConfig)
	}
	return nil
}

// Режимы термической эрозии
const (
	ThermalInPlace  = "inplace"
	ThermalBuffered = "buffered"
)

// ErosionSettings параметры гидравлической и термической эрозии
type ErosionSettings struct {
	Droplets          int     `yaml:"droplets"`
	ThermalIterations int     `yaml:"thermal_iterations"`
	ErosionStrength   float64 `yaml:"erosion_strength"`
	DepositionRate    float64 `yaml:"deposition_rate"`
	Talus             float64 `yaml:"talus"`
	Smoothness        float64 `yaml:"smoothness"`
	ThermalMode       string  `yaml:"thermal_mode"`
	InvertGradient    bool    `yaml:"invert_gradient"`
	MaxDropletSteps   int     `yaml:"max_droplet_steps"`
	CancelEvery       int     `yaml:"cancel_every"`
	ProgressEvery     int     `yaml:"progress_every"`
}

// ThermalPassesFor возвращает число термических проходов, соответствующее
// заданному числу капель (0.2 × droplets)
func ThermalPassesFor(droplets int) int {
	return droplets / 5
}

// Validate проверяет параметры эрозии
func (e ErosionSettings) Validate() error {
	switch {
	case e.Droplets < 0:
		return fmt.Errorf("%w: erosion.droplets не может быть отрицательным", ErrInvalidConfig)
	case e.ThermalIterations < 0:
		return fmt.Errorf("%w: erosion.thermal_iterations не может быть отрицательным", ErrInvalidConfig)
	case e.ErosionStrength < 0 || math.IsNaN(e.ErosionStrength):
		return fmt.Errorf("%w: erosion.erosion_strength должно быть >= 0", ErrInvalidConfig)
	case e.DepositionRate < 0 || e.DepositionRate > 1 || math.IsNaN(e.DepositionRate):
		return fmt.Errorf("%w: erosion.deposition_rate должно быть в [0,1]", ErrInvalidConfig)
	case !(e.Talus >= 0):
		return fmt.Errorf("%w: erosion.talus должно быть >= 0", ErrInvalidConfig)
	case e.Smoothness < 0 || e.Smoothness > 1 || math.IsNaN(e.Smoothness):
		return fmt.Errorf("%w: erosion.smoothness должно быть в [0,1]", ErrInvalidConfig)
	case e.MaxDropletSteps < 1:
		return fmt.Errorf("%w: erosion.max_droplet_steps должно быть >= 1", ErrInvalidConfig)
	case e.CancelEvery < 1 || e.ProgressEvery < 1:
		return fmt.Errorf("%w: erosion.cancel_every и erosion.progress_every должны быть >= 1", ErrInvalidConfig)
	}
	switch e.ThermalMode {
	case ThermalInPlace, ThermalBuffered:
	default:
		return fmt.Errorf("%w: неизвестный режим термической эрозии %q", ErrInvalidConfig, e.ThermalMode)
	}
	return nil
}

// BiomeRule диапазоны высоты, температуры и влажности одного биома
type BiomeRule struct {
	Biome           string  `yaml:"biome"`
	MinHeight       float64 `yaml:"min_height"`
	MaxHeight       float64 `yaml:"max_height"`
	MinTemp         float64 `yaml:"min_temp"`
	MaxTemp         float64 `yaml:"max_temp"`
	MinHumidity     float64 `yaml:"min_humidity"`
	MaxHumidity     float64 `yaml:"max_humidity"`
	TransitionRange float64 `yaml:"transition_range"`
}

// ValidateRules проверяет, что правил не меньше одного и все интервалы корректны
func ValidateRules(rules []BiomeRule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: не задано ни одного правила биома", ErrInvalidConfig)
	}
	for i, r := range rules {
		if r.Biome == "" {
			return fmt.Errorf("%w: правило %d без имени биома", ErrInvalidConfig, i)
		}
		if !(r.MinHeight < r.MaxHeight) || !(r.MinTemp < r.MaxTemp) || !(r.MinHumidity < r.MaxHumidity) {
			return fmt.Errorf("%w: правило %q: min должен быть меньше max по каждой оси", ErrInvalidConfig, r.Biome)
		}
		if !(r.TransitionRange > 0) {
			return fmt.Errorf("%w: правило %q: transition_range должно быть > 0", ErrInvalidConfig, r.Biome)
		}
	}
	return nil
}

// HeightBands пороги упрощённой разбивки по высоте
type HeightBands struct {
	DeepWaterMax    float64 `yaml:"deep_water_max"`    // Ниже - глубинная вода
	ShallowWaterMax float64 `yaml:"shallow_water_max"` // Ниже - мелководье
	HighlandStart   float64 `yaml:"highland_start"`    // Выше - холмы
	MountainStart   float64 `yaml:"mountain_start"`    // Выше - горы
}

// Validate проверяет возрастание порогов
func (b HeightBands) Validate() error {
	if !(0 < b.DeepWaterMax && b.DeepWaterMax < b.ShallowWaterMax &&
		b.ShallowWaterMax < b.HighlandStart && b.HighlandStart < b.MountainStart && b.MountainStart <= 1) {
		return fmt.Errorf("%w: пороги высот должны строго возрастать в (0,1]", ErrInvalidConfig)
	}
	return nil
}
