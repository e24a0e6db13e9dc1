package biome

import (
	"context"
	"testing"

	"github.com/annel0/terragen/internal/config"
	"github.com/annel0/terragen/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRule(name string) config.BiomeRule {
	return config.BiomeRule{
		Biome: name, MinHeight: 0, MaxHeight: 1, MinTemp: 0, MaxTemp: 1,
		MinHumidity: 0, MaxHumidity: 1, TransitionRange: 0.1,
	}
}

// twoRules правила, не пересекающиеся по высоте
func twoRules() []config.BiomeRule {
	low := fullRule("desert")
	low.MinHeight, low.MaxHeight, low.TransitionRange = 0, 0.4, 1
	high := fullRule("forest")
	high.MinHeight, high.MaxHeight, high.TransitionRange = 0.6, 1.0, 1
	return []config.BiomeRule{low, high}
}

func uniformGrid(w, h int, v float64) *grid.Grid {
	g := grid.MustNew(w, h)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

func TestRangeMatch(t *testing.T) {
	cases := []struct {
		name    string
		v, lo   float64
		hi      float64
		want    float64
		epsilon float64
	}{
		{"середина", 0.2, 0.1, 0.3, 1, 1e-12},
		{"нижний край", 0.1, 0.1, 0.3, 0, 0},
		{"верхний край", 0.3, 0.1, 0.3, 0, 0},
		{"ниже интервала", 0.05, 0.1, 0.3, 0, 0},
		{"выше интервала", 0.31, 0.1, 0.3, 0, 0},
		{"четверть", 0.25, 0, 1, 0.5, 1e-12},
		{"отрицательный интервал", -1, -2, 0, 1, 1e-12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, RangeMatch(tc.v, tc.lo, tc.hi), tc.epsilon)
		})
	}

	// ровно 0 на краях
	assert.Equal(t, 0.0, RangeMatch(0.1, 0.1, 0.3))
	assert.Equal(t, 0.0, RangeMatch(0.3, 0.1, 0.3))
	lo, hi := 0.13, 0.71
	assert.Equal(t, 1.0, RangeMatch((lo+hi)/2, lo, hi))
}

func TestParseAndString(t *testing.T) {
	for _, b := range All() {
		parsed, err := Parse(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	}
	_, err := Parse("lava")
	require.Error(t, err)
	assert.Equal(t, "biome(200)", Biome(200).String())
	assert.True(t, DeepWater.IsWater())
	assert.False(t, Desert.IsWater())
}

func TestNewClassifier_Validation(t *testing.T) {
	_, err := NewClassifier(nil, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = NewClassifier([]config.BiomeRule{fullRule("lava")}, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = NewClassifier(config.DefaultBiomeRules(), nil)
	require.NoError(t, err)
}

func TestClassify_HighestScoreWins(t *testing.T) {
	c, err := NewClassifier(twoRules(), nil)
	require.NoError(t, err)
	assert.Equal(t, Desert, c.Classify(0.2, 0.5, 0.5))
	assert.Equal(t, Forest, c.Classify(0.8, 0.5, 0.5))

	b, score := c.ClassifyScore(0.8, 0.5, 0.5)
	assert.Equal(t, Forest, b)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestClassify_TieFirstRuleWins(t *testing.T) {
	c, err := NewClassifier([]config.BiomeRule{fullRule("tundra"), fullRule("taiga")}, nil)
	require.NoError(t, err)
	assert.Equal(t, Tundra, c.Classify(0.3, 0.3, 0.3))

	c, err = NewClassifier([]config.BiomeRule{fullRule("taiga"), fullRule("tundra")}, nil)
	require.NoError(t, err)
	assert.Equal(t, Taiga, c.Classify(0.3, 0.3, 0.3))

	// нет совпадений ни с одним правилом: тоже ничья, побеждает первое
	assert.Equal(t, Taiga, c.Classify(5, 5, 5))
}

func TestClassify_IsPure(t *testing.T) {
	c, err := NewClassifier(config.DefaultBiomeRules(), nil)
	require.NoError(t, err)
	first := c.Classify(0.55, 0.7, 0.4)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(0.55, 0.7, 0.4))
	}
}

func TestClassifyGrid_SingleFullRule(t *testing.T) {
	c, err := NewClassifier([]config.BiomeRule{fullRule("plains")}, nil)
	require.NoError(t, err)

	h, err := grid.FromRows([][]float64{
		{0.0, 0.2, 0.4, 0.6},
		{0.1, 0.3, 0.5, 0.7},
		{0.9, 0.8, 0.2, 0.1},
		{0.5, 0.5, 1.0, 0.0},
	})
	require.NoError(t, err)

	res, err := c.ClassifyGrid(context.Background(), h, uniformGrid(4, 4, 0.5), uniformGrid(4, 4, 0.25))
	require.NoError(t, err)

	for _, b := range res.Biomes.Data {
		assert.Equal(t, Plains, b)
	}
	for _, w := range res.Transitions.Data {
		assert.Equal(t, 0.0, w)
	}
}

func TestComputeTransitions_Boundary(t *testing.T) {
	c, err := NewClassifier(twoRules(), nil)
	require.NoError(t, err)

	// левая половина пустыня, правая лес
	biomes := NewGrid(6, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			if x < 3 {
				biomes.Set(x, y, Desert)
			} else {
				biomes.Set(x, y, Forest)
			}
		}
	}

	tr := c.ComputeTransitions(biomes)

	assert.Equal(t, 0.0, tr.At(1, 1), "все соседи того же биома")
	assert.Equal(t, 0.0, tr.At(0, 0))
	assert.Equal(t, 0.0, tr.At(5, 2))

	// |0.2-0.8| - max(0.2,0.2) = 0.4, transitionRange = 1
	assert.InDelta(t, 0.4, tr.At(2, 1), 1e-12)
	assert.InDelta(t, 0.4, tr.At(3, 1), 1e-12)
	assert.Greater(t, tr.At(2, 0), 0.0)
}

func TestComputeTransitions_Clamped(t *testing.T) {
	rules := twoRules()
	rules[0].TransitionRange = 0.1
	c, err := NewClassifier(rules, nil)
	require.NoError(t, err)

	biomes := NewGrid(2, 1)
	biomes.Set(0, 0, Desert)
	biomes.Set(1, 0, Forest)
	tr := c.ComputeTransitions(biomes)
	assert.Equal(t, 1.0, tr.At(0, 0), "вес ограничен сверху единицей")
	assert.InDelta(t, 0.4, tr.At(1, 0), 1e-12, "используется transitionRange центральной ячейки")
}

func TestClassifyGrid_Errors(t *testing.T) {
	c, err := NewClassifier(twoRules(), nil)
	require.NoError(t, err)

	_, err = c.ClassifyGrid(context.Background(), nil, nil, nil)
	require.Error(t, err)

	_, err = c.ClassifyGrid(context.Background(), uniformGrid(2, 2, 0), uniformGrid(3, 2, 0), uniformGrid(2, 2, 0))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ClassifyGrid(ctx, uniformGrid(2, 2, 0), uniformGrid(2, 2, 0), uniformGrid(2, 2, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_OutOfBoundsDefaults(t *testing.T) {
	c, err := NewClassifier(twoRules(), nil)
	require.NoError(t, err)
	res, err := c.ClassifyGrid(context.Background(), uniformGrid(2, 2, 0.8), uniformGrid(2, 2, 0.5), uniformGrid(2, 2, 0.5))
	require.NoError(t, err)

	assert.Equal(t, Forest, res.BiomeAt(1, 1))
	assert.Equal(t, Default, res.BiomeAt(-1, 0))
	assert.Equal(t, Default, res.BiomeAt(0, 2))
	assert.Equal(t, 0.0, res.TransitionAt(5, 5))
}

func TestTracker_NotifiesOnlyOnChange(t *testing.T) {
	c, err := NewClassifier(twoRules(), nil)
	require.NoError(t, err)

	var changes [][2]Biome
	tr := NewTracker(c, ChangeFunc(func(prev, next Biome) {
		changes = append(changes, [2]Biome{prev, next})
	}))

	_, ok := tr.Current()
	assert.False(t, ok)

	b, changed := tr.Update(0.2, 0.5, 0.5)
	assert.Equal(t, Desert, b)
	assert.False(t, changed, "первое обновление только заполняет кэш")

	_, changed = tr.Update(0.25, 0.5, 0.5)
	assert.False(t, changed)

	b, changed = tr.Update(0.8, 0.5, 0.5)
	assert.Equal(t, Forest, b)
	assert.True(t, changed)

	_, changed = tr.Update(0.9, 0.5, 0.5)
	assert.False(t, changed)

	_, changed = tr.Update(0.1, 0.5, 0.5)
	assert.True(t, changed)

	assert.Equal(t, [][2]Biome{{Desert, Forest}, {Forest, Desert}}, changes)

	tr.Reset()
	_, ok = tr.Current()
	assert.False(t, ok)
}

func TestHeightBands(t *testing.T) {
	hb, err := NewHeightBands(config.Default().Bands)
	require.NoError(t, err)

	assert.Equal(t, BandDeepWater, hb.BandOf(0.1))
	assert.Equal(t, BandShallowWater, hb.BandOf(0.25))
	assert.Equal(t, BandLowland, hb.BandOf(0.5))
	assert.Equal(t, BandHighland, hb.BandOf(0.7))
	assert.Equal(t, BandMountain, hb.BandOf(0.8))
	assert.Equal(t, BandMountain, hb.BandOf(1.3))
	assert.Equal(t, "lowland", BandLowland.String())

	g, err := grid.FromRows([][]float64{{0.1, 0.5}, {0.5, 0.9}})
	require.NoError(t, err)
	cov := hb.Coverage(g)
	assert.InDelta(t, 0.5, cov[BandLowland], 1e-12)
	assert.InDelta(t, 0.25, cov[BandMountain], 1e-12)

	_, err = NewHeightBands(config.HeightBands{DeepWaterMax: 0.5, ShallowWaterMax: 0.4, HighlandStart: 0.6, MountainStart: 0.8})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestGridHistogram(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, Snow)
	g.Set(5, 5, Snow) // вне сетки
	h := g.Histogram()
	assert.Equal(t, 1, h[Snow])
	assert.Equal(t, 3, h[Plains])
}
