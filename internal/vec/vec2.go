package vec

// Vec2 целочисленные координаты ячейки сетки
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Neighbors4 смещения к четырём соседям по осям в порядке обхода
var Neighbors4 = [4]Vec2{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}
