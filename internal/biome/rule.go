package biome

import (
	"fmt"
	"math"

	"github.com/annel0/terragen/internal/config"
)

// Axis ось классификации
type Axis int

const (
	AxisHeight Axis = iota
	AxisTemperature
	AxisHumidity
	axisCount
)

// Range замкнутый интервал [Min, Max]
type Range struct {
	Min, Max float64
}

// Center середина интервала
func (r Range) Center() float64 { return (r.Min + r.Max) / 2 }

// HalfRange половина ширины интервала
func (r Range) HalfRange() float64 { return (r.Max - r.Min) / 2 }

// Match треугольная оценка принадлежности значения интервалу
func (r Range) Match(v float64) float64 { return RangeMatch(v, r.Min, r.Max) }

// RangeMatch возвращает 1 в середине [lo,hi], ровно 0 на краях и вне интервала
func RangeMatch(v, lo, hi float64) float64 {
	if v <= lo || v >= hi {
		return 0
	}
	center := (lo + hi) / 2
	halfRange := (hi - lo) / 2
	if halfRange <= 0 {
		return 0
	}
	m := 1 - math.Abs(v-center)/halfRange
	if m < 0 {
		return 0
	}
	return m
}

// Rule правило биома в скомпилированном виде. Неизменяемо после создания.
type Rule struct {
	Biome           Biome
	Axes            [axisCount]Range
	TransitionRange float64
}

// Score средняя оценка совпадения по трём осям
func (r Rule) Score(height, temperature, humidity float64) float64 {
	return (r.Axes[AxisHeight].Match(height) +
		r.Axes[AxisTemperature].Match(temperature) +
		r.Axes[AxisHumidity].Match(humidity)) / 3
}

// CompileRules проверяет правила из конфигурации и переводит их во внутренний вид
func CompileRules(rules []config.BiomeRule) ([]Rule, error) {
	if err := config.ValidateRules(rules); err != nil {
		return nil, err
	}
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		b, err := Parse(r.Biome)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		out = append(out, Rule{
			Biome: b,
			Axes: [axisCount]Range{
				AxisHeight:      {Min: r.MinHeight, Max: r.MaxHeight},
				AxisTemperature: {Min: r.MinTemp, Max: r.MaxTemp},
				AxisHumidity:    {Min: r.MinHumidity, Max: r.MaxHumidity},
			},
			TransitionRange: r.TransitionRange,
		})
	}
	return out, nil
}
