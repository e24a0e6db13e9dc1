package grid

import (
	"fmt"
	"math"

	"github.com/annel0/terragen/internal/vec"
)

// Grid W×H сетка вещественных значений, строки хранятся подряд
type Grid struct {
	W, H int
	Data []float64
}

// New создаёт сетку, заполненную нулями
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("размеры сетки должны быть > 0, получено %dx%d", w, h)
	}
	return &Grid{W: w, H: h, Data: make([]float64, w*h)}, nil
}

// MustNew как New, но паникует при неверных размерах
func MustNew(w, h int) *Grid {
	g, err := New(w, h)
	if err != nil {
		panic(err)
	}
	return g
}

// FromRows создаёт сетку из строк одинаковой длины
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("пустой набор строк")
	}
	g, err := New(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.W {
			return nil, fmt.Errorf("строка %d: длина %d, ожидалось %d", y, len(row), g.W)
		}
		copy(g.Data[y*g.W:], row)
	}
	return g, nil
}

// InBounds проверяет, лежит ли ячейка внутри сетки
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At возвращает значение ячейки; вне сетки возвращает 0
func (g *Grid) At(x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Data[y*g.W+x]
}

// Set записывает значение ячейки; вне сетки игнорируется
func (g *Grid) Set(x, y int, v float64) {
	if !g.InBounds(x, y) {
		return
	}
	g.Data[y*g.W+x] = v
}

// Add прибавляет delta к ячейке; вне сетки игнорируется
func (g *Grid) Add(x, y int, delta float64) {
	if !g.InBounds(x, y) {
		return
	}
	g.Data[y*g.W+x] += delta
}

// Clone возвращает независимую копию
func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return &Grid{W: g.W, H: g.H, Data: data}
}

// Equal сравнивает размеры и значения побитно
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.W != other.W || g.H != other.H {
		return false
	}
	for i, v := range g.Data {
		if v != other.Data[i] {
			return false
		}
	}
	return true
}

// Sum возвращает сумму всех значений
func (g *Grid) Sum() float64 {
	var s float64
	for _, v := range g.Data {
		s += v
	}
	return s
}

// Stats сводная статистика сетки
type Stats struct {
	Min, Max, Mean, Sum float64
}

// Stats считает минимум, максимум, среднее и сумму
func (g *Grid) Stats() Stats {
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range g.Data {
		st.Sum += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	st.Mean = st.Sum / float64(len(g.Data))
	return st
}

// cellCorners возвращает значения четырёх ячеек вокруг точки и дробные смещения.
// ok=false, если квадрат 2×2 выходит за пределы сетки.
func (g *Grid) cellCorners(p vec.Vec2Float) (h00, h10, h01, h11, u, v float64, cell vec.Vec2, ok bool) {
	cell = p.Cell()
	if cell.X < 0 || cell.Y < 0 || cell.X+1 >= g.W || cell.Y+1 >= g.H {
		return 0, 0, 0, 0, 0, 0, cell, false
	}
	f := p.Frac()
	i := cell.Y*g.W + cell.X
	return g.Data[i], g.Data[i+1], g.Data[i+g.W], g.Data[i+g.W+1], f.X, f.Y, cell, true
}

// Bilinear интерполирует значение в непрерывной точке.
// Точка прижимается к границам сетки.
func (g *Grid) Bilinear(p vec.Vec2Float) float64 {
	x := clampf(p.X, 0, float64(g.W-1))
	y := clampf(p.Y, 0, float64(g.H-1))

	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 >= g.W {
		x1 = x0
	}
	if y1 >= g.H {
		y1 = y0
	}
	u, v := x-float64(x0), y-float64(y0)

	h00 := g.Data[y0*g.W+x0]
	h10 := g.Data[y0*g.W+x1]
	h01 := g.Data[y1*g.W+x0]
	h11 := g.Data[y1*g.W+x1]

	return h00*(1-u)*(1-v) + h10*u*(1-v) + h01*(1-u)*v + h11*u*v
}

// Gradient возвращает билинейно интерполированный градиент (dh/dx, dh/dy)
// по четырём ячейкам вокруг точки. Вне допустимой области градиент нулевой.
func (g *Grid) Gradient(p vec.Vec2Float) vec.Vec2Float {
	h00, h10, h01, h11, u, v, _, ok := g.cellCorners(p)
	if !ok {
		return vec.Vec2Float{}
	}
	return vec.Vec2Float{
		X: (h10-h00)*(1-v) + (h11-h01)*v,
		Y: (h01-h00)*(1-u) + (h11-h10)*u,
	}
}

// Splat распределяет amount по четырём ячейкам вокруг точки с билинейными весами.
// Если квадрат 2×2 выходит за пределы сетки, операция не выполняется и возвращает false.
func (g *Grid) Splat(p vec.Vec2Float, amount float64) bool {
	_, _, _, _, u, v, cell, ok := g.cellCorners(p)
	if !ok {
		return false
	}
	i := cell.Y*g.W + cell.X
	g.Data[i] += amount * (1 - u) * (1 - v)
	g.Data[i+1] += amount * u * (1 - v)
	g.Data[i+g.W] += amount * (1 - u) * v
	g.Data[i+g.W+1] += amount * u * v
	return true
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
