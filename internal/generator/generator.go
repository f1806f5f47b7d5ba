// Package generator builds reproducible benchmark datasets.
package generator

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"
)

var (
	// ErrInvalidSize is returned for negative dataset sizes.
	ErrInvalidSize = errors.New("dataset size must be >= 0")

	// ErrInvalidRatio is returned when a disorder ratio falls outside [0, 1].
	ErrInvalidRatio = errors.New("disorder ratio must be between 0 and 1")

	// ErrInvalidRange is returned when the value range is empty or too wide.
	ErrInvalidRange = errors.New("invalid value range")
)

// Generator produces datasets from a single pseudo-random stream. Calls
// consume the stream sequentially, so the same seed and call order always
// yield the same datasets. A Generator is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// NewFromTime returns a Generator seeded with the current time.
func NewFromTime() *Generator {
	return New(time.Now().UnixNano())
}

// Generate builds a dataset with values drawn from [1, size*10].
func (g *Generator) Generate(shape model.Shape, size int) ([]int, error) {
	maxVal := size * 10
	if maxVal < 1 {
		maxVal = 1
	}
	return g.GenerateRange(shape, size, 1, maxVal)
}

// GenerateRange builds a dataset with values drawn from [minVal, maxVal].
func (g *Generator) GenerateRange(shape model.Shape, size, minVal, maxVal int) ([]int, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if err := CheckRange(minVal, maxVal); err != nil {
		return nil, err
	}
	switch shape.Kind {
	case model.Random:
		return g.random(size, minVal, maxVal), nil
	case model.Sorted:
		data := g.random(size, minVal, maxVal)
		slices.Sort(data)
		return data, nil
	case model.ReverseSorted:
		data := g.random(size, minVal, maxVal)
		slices.SortFunc(data, func(a, b int) int { return cmp.Compare(b, a) })
		return data, nil
	case model.PartiallySorted:
		if !ValidRatio(shape.DisorderRatio) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, shape.DisorderRatio)
		}
		data := g.random(size, minVal, maxVal)
		slices.Sort(data)
		g.disturb(data, shape.DisorderRatio)
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownShape, shape)
	}
}

// CheckRange reports whether [minVal, maxVal] is non-empty and its width
// fits in an int.
func CheckRange(minVal, maxVal int) error {
	if minVal > maxVal {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, minVal, maxVal)
	}
	// A wrapped difference is negative; MaxInt leaves no room for the +1.
	if d := maxVal - minVal; d < 0 || d == math.MaxInt {
		return fmt.Errorf("%w: [%d, %d] is too wide", ErrInvalidRange, minVal, maxVal)
	}
	return nil
}

// ValidRatio reports whether ratio is in [0, 1]. NaN is rejected.
func ValidRatio(ratio float64) bool {
	return ratio >= 0 && ratio <= 1
}

func (g *Generator) random(size, minVal, maxVal int) []int {
	data := make([]int, size)
	span := maxVal - minVal + 1
	for i := range data {
		data[i] = minVal + g.rnd.Intn(span)
	}
	return data
}

// disturb swaps floor(len*ratio/2) index pairs. Both indices are drawn
// independently, so a pair may name the same slot and swap nothing.
func (g *Generator) disturb(data []int, ratio float64) {
	if len(data) == 0 {
		return
	}
	swaps := int(float64(len(data)) * ratio / 2)
	for k := 0; k < swaps; k++ {
		i := g.rnd.Intn(len(data))
		j := g.rnd.Intn(len(data))
		data[i], data[j] = data[j], data[i]
	}
}
