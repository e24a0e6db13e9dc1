package heightmap

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTerrain() config.TerrainSettings {
	return config.Default().Terrain
}

func newTestGenerator(t *testing.T, w, h int, seed int64) *Generator {
	t.Helper()
	g, err := New(w, h, testTerrain(), noise.NewPerlinField(seed), nil)
	require.NoError(t, err)
	return g
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	field := noise.NewPerlinField(1)

	_, err := New(0, 10, testTerrain(), field, nil)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig), "нулевая ширина должна отклоняться")

	_, err = New(10, -2, testTerrain(), field, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	s := testTerrain()
	s.Base.Scale = 0
	_, err = New(10, 10, s, field, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	s = testTerrain()
	s.Humidity.Persistence = -0.5
	_, err = New(10, 10, s, field, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = New(10, 10, testTerrain(), nil, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := newTestGenerator(t, 24, 16, 777).Generate(context.Background())
	require.NoError(t, err)
	b, err := newTestGenerator(t, 24, 16, 777).Generate(context.Background())
	require.NoError(t, err)

	assert.True(t, a.Height.Equal(b.Height), "высоты должны совпадать для одного сида")
	assert.True(t, a.Temperature.Equal(b.Temperature))
	assert.True(t, a.Humidity.Equal(b.Humidity))

	c, err := newTestGenerator(t, 24, 16, 778).Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, a.Height.Equal(c.Height), "другой сид должен давать другой рельеф")
}

func TestGenerate_GridSizes(t *testing.T) {
	res, err := newTestGenerator(t, 7, 5, 1).Generate(context.Background())
	require.NoError(t, err)
	for _, g := range []struct{ w, h int }{
		{res.Height.W, res.Height.H},
		{res.Temperature.W, res.Temperature.H},
		{res.Humidity.W, res.Humidity.H},
	} {
		assert.Equal(t, 7, g.w)
		assert.Equal(t, 5, g.h)
	}
	assert.Equal(t, 0.0, res.HeightAt(-1, 0), "вне сетки высота 0")
	assert.Equal(t, 0.0, res.HeightAt(7, 0))
}

func TestGenerate_MatchesLayerFormulas(t *testing.T) {
	g := newTestGenerator(t, 20, 20, 4242)
	res, err := g.Generate(context.Background())
	require.NoError(t, err)

	s := g.settings
	for _, p := range [][2]int{{0, 0}, {3, 17}, {10, 10}, {19, 4}} {
		fx, fy := float64(p[0]), float64(p[1])

		h := (g.base.Fractal(fx, fy, s.Base) + 1) * 0.5
		h = h*(1-s.MountainWeight) + g.mountain.Ridged(fx, fy, s.Mountain)*s.MountainWeight
		if h < s.OceanLevel {
			h -= g.ocean.Billow(fx, fy, s.Ocean) * ((s.OceanLevel - h) / s.OceanLevel) * 0.3
		}
		assert.Equal(t, h, res.Height.At(p[0], p[1]))

		lat := math.Cos((fy/20 - 0.5) * math.Pi)
		temp := (lat*0.6+(1-h)*0.3+g.temperature.Fractal(fx, fy, s.Temperature)*0.1+1)*0.5 + s.TempOffset
		assert.Equal(t, temp, res.Temperature.At(p[0], p[1]))

		hum := (g.humidity.Fractal(fx, fy, s.Humidity)+1)*0.5*(1-math.Abs(temp-0.5)) + s.HumidityOffset
		assert.Equal(t, hum, res.Humidity.At(p[0], p[1]))
	}
}

func TestGenerate_HeightBounds(t *testing.T) {
	res, err := newTestGenerator(t, 32, 32, 9).Generate(context.Background())
	require.NoError(t, err)
	st := res.Height.Stats()
	// океан может опустить высоту максимум на 0.3
	assert.GreaterOrEqual(t, st.Min, -0.3)
	assert.LessOrEqual(t, st.Max, 1.0)
}

func TestGenerate_OffsetsShiftClimate(t *testing.T) {
	s := testTerrain()
	s.TempOffset = 0.25
	g, err := New(8, 8, s, noise.NewPerlinField(3), nil)
	require.NoError(t, err)
	shifted, err := g.Generate(context.Background())
	require.NoError(t, err)

	base, err := newTestGenerator(t, 8, 8, 3).Generate(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, base.Temperature.At(2, 2)+0.25, shifted.Temperature.At(2, 2), 1e-12)
	assert.True(t, base.Height.Equal(shifted.Height), "смещение температуры не влияет на высоту")
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestGenerator(t, 8, 8, 1).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_CloneIsIndependent(t *testing.T) {
	res, err := newTestGenerator(t, 4, 4, 1).Generate(context.Background())
	require.NoError(t, err)
	c := res.Clone()
	c.Height.Set(0, 0, 99)
	assert.NotEqual(t, 99.0, res.Height.At(0, 0))
}
