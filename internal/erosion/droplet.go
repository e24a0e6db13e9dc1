package erosion

import (
	"math"
	"math/rand"

	"github.com/annel0/terragen/internal/grid"
	"github.com/annel0/terragen/internal/vec"
)

// Константы модели капли
const (
	inertia          = 0.9  // доля предыдущего направления
	gravity          = 9.81 // ускорение при перепаде высоты
	evaporation      = 0.99 // множитель объёма за шаг
	minVolume        = 0.01 // ниже капля испаряется
	minCapacitySlope = 0.01 // минимальный уклон при расчёте вместимости
)

// droplet капля воды, переносящая осадок. Живёт только внутри одного прогона.
type droplet struct {
	pos      vec.Vec2Float
	dir      vec.Vec2Float
	volume   float64
	speed    float64
	sediment float64
}

// spawnDroplet создаёт каплю в случайной непрерывной точке внутри [0,W-1)×[0,H-1)
func spawnDroplet(rng *rand.Rand, w, h int) droplet {
	return droplet{
		pos: vec.Vec2Float{
			X: rng.Float64() * float64(w-1),
			Y: rng.Float64() * float64(h-1),
		},
		volume: 1,
		speed:  1,
	}
}

// alive проверяет условия продолжения: объём и ячейка в [0,W-2]×[0,H-2]
func (d *droplet) alive(g *grid.Grid) bool {
	if d.volume < minVolume {
		return false
	}
	cell := d.pos.Cell()
	return cell.X >= 0 && cell.Y >= 0 && cell.X <= g.W-2 && cell.Y <= g.H-2
}

// dropletTrace итог одной капли
type dropletTrace struct {
	steps     int
	eroded    float64
	deposited float64
	truncated bool
}

// run проводит каплю от появления до исчезновения, изменяя сетку на месте
func (d *droplet) run(g *grid.Grid, p params) dropletTrace {
	var tr dropletTrace

	for d.alive(g) {
		if tr.steps >= p.maxSteps {
			tr.truncated = true
			break
		}
		tr.steps++

		gradient := g.Gradient(d.pos)
		if p.invertGradient {
			gradient = gradient.Mul(-1)
		}
		d.dir = d.dir.Mul(inertia).Add(gradient.Mul(1 - inertia)).Normalized()

		oldPos := d.pos
		newPos := d.pos.Add(d.dir)

		heightDiff := g.Bilinear(newPos) - g.Bilinear(oldPos)

		d.speed = math.Sqrt(math.Max(0, d.speed*d.speed+heightDiff*gravity))
		d.volume *= evaporation

		capacity := math.Max(-heightDiff, minCapacitySlope) * d.speed * d.volume * p.erosionStrength

		if d.sediment > capacity {
			amount := (d.sediment - capacity) * p.depositionRate
			if g.Splat(oldPos, amount) {
				d.sediment -= amount
				tr.deposited += amount
			}
		} else {
			amount := math.Min((capacity-d.sediment)*p.erosionStrength, -heightDiff)
			// при подъёме капли (heightDiff > 0) снимать нечего
			if amount > 0 && g.Splat(oldPos, -amount) {
				d.sediment += amount
				tr.eroded += amount
			}
		}

		d.pos = newPos
	}

	return tr
}
