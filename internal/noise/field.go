package noise

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
	"github.com/ojrac/opensimplex-go"
)

// Backend имя реализации базового градиентного шума
type Backend string

const (
	BackendPerlin  Backend = "perlin"
	BackendSimplex Backend = "simplex"
)

// Field детерминированный непрерывный шум над 2D/3D координатами.
// Значения лежат в [-1,1]. Реализации не изменяют своё состояние после
// создания, поэтому безопасны для параллельного чтения.
type Field interface {
	Noise2D(x, y float64) float64
	Noise3D(x, y, z float64) float64
	Seed() int64
	// Reseed возвращает новый независимый экземпляр с другой перестановкой
	Reseed(seed int64) Field
}

// New создаёт поле шума выбранного backend. Пустое имя означает perlin.
func New(backend Backend, seed int64) (Field, error) {
	switch backend {
	case "", BackendPerlin:
		return NewPerlinField(seed), nil
	case BackendSimplex:
		return NewSimplexField(seed), nil
	default:
		return nil, fmt.Errorf("неизвестный backend шума %q", backend)
	}
}

// SeedFromString выводит числовой сид из строки. Числовые строки
// используются как есть, остальные хешируются xxhash.
func SeedFromString(seed string) int64 {
	trimmed := strings.TrimSpace(seed)
	if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return v
	}
	return int64(xxhash.Sum64String(seed))
}

// Derive возвращает поле со смещённым сидом, некоррелированное с исходным
func Derive(f Field, offset int64) Field {
	return f.Reseed(f.Seed() + offset)
}

// PerlinField одна октава шума Перлина (go-perlin с n = 1)
type PerlinField struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewPerlinField инициализирует генератор шума Перлина с указанным сидом
func NewPerlinField(seed int64) *PerlinField {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(1) // Октавы складывает Compositor
	return &PerlinField{
		seed:   seed,
		perlin: perlin.NewPerlin(alpha, beta, n, seed),
	}
}

func (p *PerlinField) Noise2D(x, y float64) float64 {
	return clamp(p.perlin.Noise2D(x, y))
}

func (p *PerlinField) Noise3D(x, y, z float64) float64 {
	return clamp(p.perlin.Noise3D(x, y, z))
}

func (p *PerlinField) Seed() int64 { return p.seed }

func (p *PerlinField) Reseed(seed int64) Field { return NewPerlinField(seed) }

// SimplexField шум OpenSimplex
type SimplexField struct {
	seed  int64
	noise opensimplex.Noise
}

// NewSimplexField создаёт поле OpenSimplex
func NewSimplexField(seed int64) *SimplexField {
	return &SimplexField{seed: seed, noise: opensimplex.New(seed)}
}

func (s *SimplexField) Noise2D(x, y float64) float64 {
	return clamp(s.noise.Eval2(x, y))
}

func (s *SimplexField) Noise3D(x, y, z float64) float64 {
	return clamp(s.noise.Eval3(x, y, z))
}

func (s *SimplexField) Seed() int64 { return s.seed }

func (s *SimplexField) Reseed(seed int64) Field { return NewSimplexField(seed) }

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
