package biome

import (
	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/grid"
)

// Band полоса упрощённой разбивки только по высоте
type Band uint8

const (
	BandDeepWater Band = iota
	BandShallowWater
	BandLowland
	BandHighland
	BandMountain
)

func (b Band) String() string {
	switch b {
	case BandDeepWater:
		return "deep_water"
	case BandShallowWater:
		return "shallow_water"
	case BandLowland:
		return "lowland"
	case BandHighland:
		return "highland"
	case BandMountain:
		return "mountain"
	default:
		return "unknown"
	}
}

// HeightBands разбивает высоты по порогам из конфигурации
type HeightBands struct {
	thresholds config.HeightBands
}

// NewHeightBands проверяет пороги
func NewHeightBands(t config.HeightBands) (*HeightBands, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &HeightBands{thresholds: t}, nil
}

// BandOf определяет полосу для высоты
func (hb *HeightBands) BandOf(height float64) Band {
	t := hb.thresholds
	switch {
	case height < t.DeepWaterMax:
		return BandDeepWater
	case height < t.ShallowWaterMax:
		return BandShallowWater
	case height < t.HighlandStart:
		return BandLowland
	case height < t.MountainStart:
		return BandHighland
	default:
		return BandMountain
	}
}

// Coverage доля ячеек сетки в каждой полосе
func (hb *HeightBands) Coverage(g *grid.Grid) map[Band]float64 {
	counts := make(map[Band]int)
	for _, h := range g.Data {
		counts[hb.BandOf(h)]++
	}
	out := make(map[Band]float64, len(counts))
	for b, n := range counts {
		out[b] = float64(n) / float64(len(g.Data))
	}
	return out
}
