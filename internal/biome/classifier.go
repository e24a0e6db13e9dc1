package biome

import (
	"context"
	"fmt"
	"math"

	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/grid"
	"github.com/annel0/terragen/internal/logging"
	"github.com/annel0/terragen/internal/vec"
)

// Result сетка биомов и сетка весов переходов между ними
type Result struct {
	Biomes      *Grid
	Transitions *grid.Grid
}

// BiomeAt возвращает биом ячейки; вне сетки Default
func (r *Result) BiomeAt(x, y int) Biome {
	return r.Biomes.At(x, y)
}

// TransitionAt возвращает вес перехода ячейки; вне сетки 0
func (r *Result) TransitionAt(x, y int) float64 {
	return r.Transitions.At(x, y)
}

// Classifier сопоставляет (высота, температура, влажность) биому
// по таблице правил. Таблица неизменяема после создания.
type Classifier struct {
	rules  []Rule
	byKind map[Biome]int // первое правило каждого биома
	logger *logging.Logger
}

// NewClassifier компилирует правила. Порядок правил определяет победителя при равенстве.
func NewClassifier(rules []config.BiomeRule, logger *logging.Logger) (*Classifier, error) {
	compiled, err := CompileRules(rules)
	if err != nil {
		return nil, err
	}
	byKind := make(map[Biome]int, len(compiled))
	for i, r := range compiled {
		if _, ok := byKind[r.Biome]; !ok {
			byKind[r.Biome] = i
		}
	}
	return &Classifier{rules: compiled, byKind: byKind, logger: logger}, nil
}

// Rules возвращает копию скомпилированных правил
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify возвращает биом с наибольшей средней оценкой.
// При равенстве побеждает правило, зарегистрированное первым.
func (c *Classifier) Classify(height, temperature, humidity float64) Biome {
	idx, _ := c.best(height, temperature, humidity)
	return c.rules[idx].Biome
}

// ClassifyScore как Classify, но дополнительно возвращает оценку победителя
func (c *Classifier) ClassifyScore(height, temperature, humidity float64) (Biome, float64) {
	idx, score := c.best(height, temperature, humidity)
	return c.rules[idx].Biome, score
}

func (c *Classifier) best(height, temperature, humidity float64) (int, float64) {
	bestIdx := 0
	bestScore := math.Inf(-1)
	for i, r := range c.rules {
		s := r.Score(height, temperature, humidity)
		if s > bestScore {
			bestIdx = i
			bestScore = s
		}
	}
	return bestIdx, bestScore
}

// ClassifyGrid классифицирует каждую ячейку и строит сетку переходов.
// Входные сетки только читаются.
func (c *Classifier) ClassifyGrid(ctx context.Context, height, temperature, humidity *grid.Grid) (*Result, error) {
	if height == nil || temperature == nil || humidity == nil {
		return nil, fmt.Errorf("biome: не заданы входные сетки")
	}
	if temperature.W != height.W || temperature.H != height.H || humidity.W != height.W || humidity.H != height.H {
		return nil, fmt.Errorf("biome: размеры сеток не совпадают")
	}

	biomes := NewGrid(height.W, height.H)
	for y := 0; y < height.H; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < height.W; x++ {
			i := y*height.W + x
			biomes.Data[i] = c.Classify(height.Data[i], temperature.Data[i], humidity.Data[i])
		}
	}

	transitions := c.ComputeTransitions(biomes)

	c.logger.Debug("классифицировано %d ячеек, биомов: %d", len(biomes.Data), len(biomes.Histogram()))
	return &Result{Biomes: biomes, Transitions: transitions}, nil
}

// ComputeTransitions для каждой ячейки сравнивает её с четырьмя соседями по осям.
// Для соседа другого биома вес равен
// clamp01((|center_i - center_j| - maxHalfRange) / transitionRange),
// максимизированному по осям высоты, температуры и влажности.
// Вес ячейки равен максимуму по всем соседям другого биома.
func (c *Classifier) ComputeTransitions(biomes *Grid) *grid.Grid {
	out := grid.MustNew(biomes.W, biomes.H)

	for y := 0; y < biomes.H; y++ {
		for x := 0; x < biomes.W; x++ {
			center := biomes.Data[y*biomes.W+x]
			var weight float64

			for _, n := range vec.Neighbors4 {
				nb := vec.Vec2{X: x, Y: y}.Add(n)
				if nb.X < 0 || nb.Y < 0 || nb.X >= biomes.W || nb.Y >= biomes.H {
					continue
				}
				neighbor := biomes.Data[nb.Y*biomes.W+nb.X]
				if neighbor == center {
					continue
				}
				if w := c.pairWeight(center, neighbor); w > weight {
					weight = w
				}
			}

			out.Data[y*biomes.W+x] = weight
		}
	}
	return out
}

// pairWeight вес перехода между двумя разными биомами
func (c *Classifier) pairWeight(a, b Biome) float64 {
	ia, okA := c.byKind[a]
	ib, okB := c.byKind[b]
	if !okA || !okB {
		return 0
	}
	ra, rb := c.rules[ia], c.rules[ib]

	var weight float64
	for axis := Axis(0); axis < axisCount; axis++ {
		distance := math.Abs(ra.Axes[axis].Center() - rb.Axes[axis].Center())
		maxHalf := math.Max(ra.Axes[axis].HalfRange(), rb.Axes[axis].HalfRange())
		w := clamp01((distance - maxHalf) / ra.TransitionRange)
		if w > weight {
			weight = w
		}
	}
	return weight
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
