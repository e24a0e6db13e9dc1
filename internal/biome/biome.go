package biome

import (
	"fmt"
	"strings"
)

// Biome представляет тип биома
type Biome uint8

const (
	Plains Biome = iota
	Desert
	Forest
	Mountains
	Water
	DeepWater
	Beach
	Savanna
	Rainforest
	Swamp
	Taiga
	Tundra
	Snow
)

// Default биом, возвращаемый для точек вне сетки
const Default = Plains

var biomeNames = [...]string{
	Plains:     "plains",
	Desert:     "desert",
	Forest:     "forest",
	Mountains:  "mountains",
	Water:      "water",
	DeepWater:  "deep_water",
	Beach:      "beach",
	Savanna:    "savanna",
	Rainforest: "rainforest",
	Swamp:      "swamp",
	Taiga:      "taiga",
	Tundra:     "tundra",
	Snow:       "snow",
}

// String возвращает имя биома как в конфигурации
func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return fmt.Sprintf("biome(%d)", uint8(b))
}

// IsWater сообщает, покрыт ли биом водой
func (b Biome) IsWater() bool {
	return b == Water || b == DeepWater
}

// Parse находит биом по имени из конфигурации
func Parse(name string) (Biome, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, bn := range biomeNames {
		if bn == n {
			return Biome(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестный биом %q", name)
}

// All возвращает все известные биомы по порядку
func All() []Biome {
	out := make([]Biome, len(biomeNames))
	for i := range biomeNames {
		out[i] = Biome(i)
	}
	return out
}

// Grid W×H сетка биомов
type Grid struct {
	W, H int
	Data []Biome
}

// NewGrid создаёт сетку, заполненную Default
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]Biome, w*h)}
}

// At возвращает биом ячейки; вне сетки Default
func (g *Grid) At(x, y int) Biome {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return Default
	}
	return g.Data[y*g.W+x]
}

// Set записывает биом ячейки; вне сетки игнорируется
func (g *Grid) Set(x, y int, b Biome) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.Data[y*g.W+x] = b
}

// Histogram считает число ячеек каждого биома
func (g *Grid) Histogram() map[Biome]int {
	h := make(map[Biome]int)
	for _, b := range g.Data {
		h[b]++
	}
	return h
}
