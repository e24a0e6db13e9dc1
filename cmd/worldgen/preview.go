package main

import (
	"strings"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/world"
)

var glyphs = map[biome.Biome]rune{
	biome.DeepWater:  '~',
	biome.Water:      '-',
	biome.Beach:      '.',
	biome.Plains:     '"',
	biome.Desert:     ':',
	biome.Savanna:    ';',
	biome.Forest:     'f',
	biome.Rainforest: 'R',
	biome.Swamp:      '%',
	biome.Taiga:      't',
	biome.Tundra:     ',',
	biome.Mountains:  '^',
	biome.Snow:       '*',
}

func biomeGlyph(b biome.Biome) rune {
	if g, ok := glyphs[b]; ok {
		return g
	}
	return '?'
}

// renderPreview уменьшает карту биомов до cols колонок. Символы терминала
// примерно вдвое выше своей ширины, поэтому строк берётся вдвое меньше.
func renderPreview(w *world.World, cols int) string {
	width, height := w.Size()
	if cols > width {
		cols = width
	}
	step := float64(width) / float64(cols)
	rows := int(float64(height) / (step * 2))
	if rows < 1 {
		rows = 1
	}

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		y := int((float64(r) + 0.5) * step * 2)
		for c := 0; c < cols; c++ {
			x := int((float64(c) + 0.5) * step)
			sb.WriteRune(biomeGlyph(w.BiomeAt(x, y)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
