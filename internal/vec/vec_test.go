package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Float_CellAndFrac(t *testing.T) {
	p := Vec2Float{X: 3.25, Y: -0.5}
	assert.Equal(t, Vec2{X: 3, Y: -1}, p.Cell(), "отрицательные координаты округляются вниз")
	assert.Equal(t, Vec2Float{X: 0.25, Y: 0.5}, p.Frac())
}

func TestVec2Float_Normalized(t *testing.T) {
	v := Vec2Float{X: 3, Y: 4}.Normalized()
	assert.InDelta(t, 1.0, v.Length(), 1e-12)
	assert.InDelta(t, 0.6, v.X, 1e-12)

	zero := Vec2Float{}.Normalized()
	assert.Equal(t, Vec2Float{}, zero, "нулевой вектор не должен давать NaN")
}

func TestVec2Float_Arithmetic(t *testing.T) {
	a := Vec2Float{X: 1, Y: 2}
	b := Vec2Float{X: 0.5, Y: -1}
	assert.Equal(t, Vec2Float{X: 1.5, Y: 1}, a.Add(b))
	assert.Equal(t, Vec2Float{X: 2, Y: 4}, a.Mul(2))
}

func TestVec2(t *testing.T) {
	assert.Equal(t, Vec2{X: 3, Y: 1}, Vec2{X: 1, Y: 1}.Add(Vec2{X: 2}))
	assert.Len(t, Neighbors4, 4)
}
