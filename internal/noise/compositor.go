package noise

import (
	"math"

	"github.com/annel0/terragen/internal/config"
)

// WarpOffset сдвиг второй точки выборки при искажении координат.
// Нецелое значение исключает корреляцию с решёткой шума.
const WarpOffset = 31.416

// Compositor складывает октавы поля шума в фрактальные варианты
type Compositor struct {
	field Field
}

// NewCompositor создаёт компоновщик поверх поля
func NewCompositor(field Field) *Compositor {
	return &Compositor{field: field}
}

// Field возвращает исходное поле
func (c *Compositor) Field() Field {
	return c.field
}

// octaves обходит октавы и нормирует сумму на суммарную амплитуду.
// sample преобразует сырое значение шума одной октавы.
func (c *Compositor) octaves(x, y float64, s config.NoiseSettings, sample func(float64) float64) float64 {
	var total, amplitudeSum float64
	frequency := 1.0
	amplitude := 1.0

	for i := 0; i < s.Octaves; i++ {
		n := c.field.Noise2D(x*frequency/s.Scale, y*frequency/s.Scale)
		total += sample(n) * amplitude
		amplitudeSum += amplitude

		frequency *= s.Lacunarity
		amplitude *= s.Persistence
	}

	if amplitudeSum == 0 {
		return 0
	}
	return total / amplitudeSum
}

// Fractal классический fBm, результат в [-1,1]
func (c *Compositor) Fractal(x, y float64, s config.NoiseSettings) float64 {
	return clamp(c.octaves(x, y, s, func(n float64) float64 { return n }))
}

// Ridged даёт острые гребни: (1-|n|)² на октаву, результат в [0,1]
func (c *Compositor) Ridged(x, y float64, s config.NoiseSettings) float64 {
	return c.octaves(x, y, s, func(n float64) float64 {
		r := 1 - math.Abs(n)
		return r * r
	})
}

// Billow даёт округлые холмы: |n| на октаву, результат в [0,1]
func (c *Compositor) Billow(x, y float64, s config.NoiseSettings) float64 {
	return c.octaves(x, y, s, math.Abs)
}

// Terraced квантует fBm на ступени, сглаживая переход внутри ступени
// кубической кривой 3t²-2t³
func (c *Compositor) Terraced(x, y float64, s config.NoiseSettings, terraces int) float64 {
	if terraces < 1 {
		terraces = 1
	}
	v := c.Fractal(x, y, s)
	terraceHeight := 1.0 / float64(terraces)

	stepIdx := math.Floor(v / terraceHeight)
	base := stepIdx * terraceHeight
	t := (v - base) / terraceHeight

	return base + smoothstep(t)*terraceHeight
}

// DomainWarp смещает точку на значение шума в двух некоррелированных выборках
func (c *Compositor) DomainWarp(x, y, freq, amplitude float64) (float64, float64) {
	wx := c.field.Noise2D(x*freq, y*freq)
	wy := c.field.Noise2D(x*freq+WarpOffset, y*freq+WarpOffset)
	return x + wx*amplitude, y + wy*amplitude
}

// HybridMultifractal гибридный мультифрактал: вклад каждой следующей октавы
// взвешивается накопленным результатом, если он положителен, иначе 1.
// Результат не нормируется.
func (c *Compositor) HybridMultifractal(x, y float64, s config.NoiseSettings, offset, gain float64) float64 {
	frequency := 1.0
	amplitude := 1.0

	result := (c.field.Noise2D(x/s.Scale, y/s.Scale) + offset) * gain

	for i := 1; i < s.Octaves; i++ {
		frequency *= s.Lacunarity
		amplitude *= s.Persistence

		weight := result
		if weight <= 0 {
			weight = 1
		}
		signal := (c.field.Noise2D(x*frequency/s.Scale, y*frequency/s.Scale) + offset) * amplitude
		result += signal * weight
	}

	return result
}

// Fractal3D fBm по трёхмерному полю, результат в [-1,1]
func (c *Compositor) Fractal3D(x, y, z float64, s config.NoiseSettings) float64 {
	var total, amplitudeSum float64
	frequency := 1.0
	amplitude := 1.0

	for i := 0; i < s.Octaves; i++ {
		f := frequency / s.Scale
		total += c.field.Noise3D(x*f, y*f, z*f) * amplitude
		amplitudeSum += amplitude

		frequency *= s.Lacunarity
		amplitude *= s.Persistence
	}

	if amplitudeSum == 0 {
		return 0
	}
	return total / amplitudeSum
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
