package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, cfg.Erosion.Droplets/5, cfg.Erosion.ThermalIterations, "термических проходов должно быть 0.2 × droplets")
	assert.Equal(t, 1.0, cfg.Erosion.Talus)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Biomes.Rules[0].MinHeight = 42
	assert.NotEqual(t, a.Biomes.Rules[0].MinHeight, b.Biomes.Rules[0].MinHeight)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"нулевая ширина":          func(c *Config) { c.Width = 0 },
		"отрицательная высота":    func(c *Config) { c.Height = -3 },
		"нулевой масштаб":         func(c *Config) { c.Terrain.Base.Scale = 0 },
		"отрицательный масштаб":   func(c *Config) { c.Terrain.Humidity.Scale = -1 },
		"нулевая persistence":     func(c *Config) { c.Terrain.Mountain.Persistence = 0 },
		"lacunarity = 1":          func(c *Config) { c.Terrain.Ocean.Lacunarity = 1 },
		"ноль октав":              func(c *Config) { c.Terrain.Temperature.Octaves = 0 },
		"уровень океана":          func(c *Config) { c.Terrain.OceanLevel = 0 },
		"вес гор":                 func(c *Config) { c.Terrain.MountainWeight = 1.5 },
		"режим термики":           func(c *Config) { c.Erosion.ThermalMode = "magic" },
		"backend":                 func(c *Config) { c.Noise.Backend = "value" },
		"без правил":              func(c *Config) { c.Biomes.Rules = nil },
		"пустой интервал правила": func(c *Config) { c.Biomes.Rules[0].MaxHeight = c.Biomes.Rules[0].MinHeight },
		"пороги высот":            func(c *Config) { c.Bands.MountainStart = 0.1 },
		"шаги капли":              func(c *Config) { c.Erosion.MaxDropletSteps = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "ошибка должна оборачивать ErrInvalidConfig: %v", err)
		})
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
width: 32
height: 16
seed: "archipelago"
noise:
  backend: simplex
terrain:
  ocean_level: 0.5
erosion:
  droplets: 100
  thermal_mode: buffered
`))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
	assert.Equal(t, "archipelago", cfg.Seed)
	assert.Equal(t, "simplex", cfg.Noise.Backend)
	assert.Equal(t, 0.5, cfg.Terrain.OceanLevel)
	assert.Equal(t, 100, cfg.Erosion.Droplets)
	assert.Equal(t, ThermalBuffered, cfg.Erosion.ThermalMode)
	// незаданные поля остаются по умолчанию
	assert.Equal(t, Default().Terrain.Base, cfg.Terrain.Base)
}

func TestParse_InvalidIsRejected(t *testing.T) {
	_, err := Parse([]byte("width: -1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 64\nseed: file-seed\n"), 0644))

	t.Setenv("TERRAGEN_SEED", "env-seed")
	t.Setenv("TERRAGEN_HEIGHT", "48")
	t.Setenv("TERRAGEN_WIDTH", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
	assert.Equal(t, "env-seed", cfg.Seed)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("TERRAGEN_CONFIG", "")
	t.Setenv("TERRAGEN_WIDTH", "")
	t.Setenv("TERRAGEN_SEED", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Width, cfg.Width)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb, "одинаковые параметры дают одинаковый отпечаток")

	b.Logging.Level = "debug"
	fb, err = b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb, "логирование не влияет на отпечаток")

	b.Seed = "other"
	fb, err = b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}
