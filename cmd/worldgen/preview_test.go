package main

import (
	"context"
	"strings"
	"testing"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiomeGlyph_Unique(t *testing.T) {
	seen := make(map[rune]biome.Biome)
	for _, b := range biome.All() {
		g := biomeGlyph(b)
		assert.NotEqual(t, '?', g, "нет символа для %s", b)
		prev, dup := seen[g]
		assert.False(t, dup, "%s и %s делят символ %q", prev, b, g)
		seen[g] = b
	}
	assert.Equal(t, '?', biomeGlyph(biome.Biome(250)))
}

func TestRenderPreview(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 40, 20
	cfg.Erosion.Droplets = 50
	cfg.Erosion.ThermalIterations = 1

	p, err := world.NewPipeline(cfg)
	require.NoError(t, err)
	w, err := p.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(renderPreview(w, 20), "\n"), "\n")
	assert.Len(t, lines, 5)
	for _, l := range lines {
		assert.Equal(t, 20, len([]rune(l)))
	}

	// ширина не больше ширины мира
	lines = strings.Split(strings.TrimSuffix(renderPreview(w, 500), "\n"), "\n")
	assert.Equal(t, 40, len([]rune(lines[0])))
}
