package erosion

import (
	"github.com/annel0/terragen/internal/grid"
	"github.com/annel0/terragen/internal/vec"
)

// thermalPassInPlace один проход осыпания в растровом порядке.
// Ячейки читают уже обновлённых соседей текущего прохода,
// поэтому результат зависит от порядка обхода.
func thermalPassInPlace(g *grid.Grid, talus, smoothness float64) float64 {
	var moved float64
	w := g.W
	for y := 1; y < g.H-1; y++ {
		for x := 1; x < w-1; x++ {
			c := y*w + x
			for _, n := range vec.Neighbors4 {
				ni := (y+n.Y)*w + (x + n.X)
				slope := g.Data[c] - g.Data[ni] // расстояние между соседями 1
				if slope > talus {
					amount := (slope - talus) * smoothness
					g.Data[c] -= amount / 2
					g.Data[ni] += amount / 2
					moved += amount / 2
				}
			}
		}
	}
	return moved
}

// thermalPassBuffered симметричный проход: все уклоны берутся из снимка
// до прохода, перенос применяется одним шагом в конце
func thermalPassBuffered(g *grid.Grid, snapshot []float64, deltas []float64, talus, smoothness float64) float64 {
	copy(snapshot, g.Data)
	for i := range deltas {
		deltas[i] = 0
	}

	var moved float64
	w := g.W
	for y := 1; y < g.H-1; y++ {
		for x := 1; x < w-1; x++ {
			c := y*w + x
			for _, n := range vec.Neighbors4 {
				ni := (y+n.Y)*w + (x + n.X)
				slope := snapshot[c] - snapshot[ni]
				if slope > talus {
					amount := (slope - talus) * smoothness
					deltas[c] -= amount / 2
					deltas[ni] += amount / 2
					moved += amount / 2
				}
			}
		}
	}

	for i, d := range deltas {
		g.Data[i] += d
	}
	return moved
}
