package heightmap

import (
	"context"
	"fmt"
	"math"

	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/grid"
	"github.com/annel0/terragen/internal/logging"
	"github.com/annel0/terragen/internal/noise"
)

// Смещения сидов для слоёв, чтобы слои не коррелировали с базовым рельефом
const (
	mountainSeedOffset    = 1
	oceanSeedOffset       = 2
	temperatureSeedOffset = 3
	humiditySeedOffset    = 4
)

// Result карта высот и климатические поля одинакового размера
type Result struct {
	Height      *grid.Grid
	Temperature *grid.Grid
	Humidity    *grid.Grid
}

// HeightAt возвращает высоту ячейки; вне сетки 0
func (r *Result) HeightAt(x, y int) float64 {
	return r.Height.At(x, y)
}

// Clone возвращает независимую копию всех полей
func (r *Result) Clone() *Result {
	return &Result{
		Height:      r.Height.Clone(),
		Temperature: r.Temperature.Clone(),
		Humidity:    r.Humidity.Clone(),
	}
}

// Generator строит карту высот из базового рельефа, горных хребтов
// и океанических впадин, затем климат по итоговой высоте
type Generator struct {
	width, height int
	settings      config.TerrainSettings

	base        *noise.Compositor
	mountain    *noise.Compositor
	ocean       *noise.Compositor
	temperature *noise.Compositor
	humidity    *noise.Compositor

	logger *logging.Logger
}

// New проверяет параметры и создаёт генератор. Ошибка конфигурации
// возвращается здесь, до любой генерации.
func New(width, height int, settings config.TerrainSettings, field noise.Field, logger *logging.Logger) (*Generator, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: размеры сетки должны быть > 0, получено %dx%d", config.ErrInvalidConfig, width, height)
	}
	if field == nil {
		return nil, fmt.Errorf("%w: не задано поле шума", config.ErrInvalidConfig)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		width:       width,
		height:      height,
		settings:    settings,
		base:        noise.NewCompositor(field),
		mountain:    noise.NewCompositor(noise.Derive(field, mountainSeedOffset)),
		ocean:       noise.NewCompositor(noise.Derive(field, oceanSeedOffset)),
		temperature: noise.NewCompositor(noise.Derive(field, temperatureSeedOffset)),
		humidity:    noise.NewCompositor(noise.Derive(field, humiditySeedOffset)),
		logger:      logger,
	}, nil
}

// Generate строит все сетки. Порядок шагов фиксирован: климат
// вычисляется по итоговой высоте после гор и океанов.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	heights := grid.MustNew(g.width, g.height)
	temps := grid.MustNew(g.width, g.height)
	hums := grid.MustNew(g.width, g.height)

	s := g.settings
	for y := 0; y < g.height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fy := float64(y)
		latitudeFactor := math.Cos((fy/float64(g.height) - 0.5) * math.Pi)

		for x := 0; x < g.width; x++ {
			fx := float64(x)

			h := g.heightAt(fx, fy)

			tempNoise := g.temperature.Fractal(fx, fy, s.Temperature)
			heightFactor := 1 - h
			temperature := (latitudeFactor*0.6+heightFactor*0.3+tempNoise*0.1+1)*0.5 + s.TempOffset

			humidityNoise := g.humidity.Fractal(fx, fy, s.Humidity)
			humidity := (humidityNoise+1)*0.5*(1-math.Abs(temperature-0.5)) + s.HumidityOffset

			heights.Set(x, y, h)
			temps.Set(x, y, temperature)
			hums.Set(x, y, humidity)
		}
	}

	st := heights.Stats()
	g.logger.Debug("карта высот %dx%d: min=%.3f max=%.3f mean=%.3f", g.width, g.height, st.Min, st.Max, st.Mean)

	return &Result{Height: heights, Temperature: temps, Humidity: hums}, nil
}

// heightAt высота одной точки: база, горы, океан
func (g *Generator) heightAt(x, y float64) float64 {
	s := g.settings

	height := (g.base.Fractal(x, y, s.Base) + 1) * 0.5

	// ridged не перенормируется: смешивание намеренно повторяет эталон
	height = height*(1-s.MountainWeight) + g.mountain.Ridged(x, y, s.Mountain)*s.MountainWeight

	if height < s.OceanLevel {
		depthFactor := (s.OceanLevel - height) / s.OceanLevel
		height -= g.ocean.Billow(x, y, s.Ocean) * depthFactor * 0.3
	}

	return height
}
