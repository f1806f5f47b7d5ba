// Package bench runs timed sorting trials and benchmark suites.
package bench

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorting"
)

var (
	// ErrInvalidConfig indicates a suite configuration that cannot run.
	ErrInvalidConfig = errors.New("invalid suite configuration")

	// ErrVerification indicates a sort produced a wrong result.
	ErrVerification = errors.New("verification failed")

	// ErrSelfCheck indicates the pre-flight check rejected an algorithm.
	ErrSelfCheck = errors.New("self-check failed")
)

const (
	defaultRepetitions   = 5
	defaultSeed          = 42
	defaultSkipThreshold = 2000
)

// Config controls a benchmark suite.
type Config struct {
	Sizes       []int
	Repetitions int
	Seed        int64

	// SkipLargeQuadratic skips O(n^2) algorithms for sizes above SkipThreshold.
	SkipLargeQuadratic bool
	SkipThreshold      int

	Shapes     []model.Shape
	Algorithms []sorting.Algorithm

	// MinValue and MaxValue bound generated values. Both zero selects the
	// generator default of [1, size*10].
	MinValue int
	MaxValue int

	// OnTrial, if set, is called after every trial.
	OnTrial func(model.TrialRecord)
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Sizes:              []int{100, 1000, 10000},
		Repetitions:        defaultRepetitions,
		Seed:               defaultSeed,
		SkipLargeQuadratic: true,
		SkipThreshold:      defaultSkipThreshold,
		Shapes:             model.AllShapes(),
		Algorithms:         sorting.Algorithms(),
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("%w: at least one size is required", ErrInvalidConfig)
	}
	seenSizes := map[int]struct{}{}
	for _, size := range c.Sizes {
		if size <= 0 {
			return fmt.Errorf("%w: sizes must be positive, got %d", ErrInvalidConfig, size)
		}
		if _, ok := seenSizes[size]; ok {
			return fmt.Errorf("%w: duplicate size %d", ErrInvalidConfig, size)
		}
		seenSizes[size] = struct{}{}
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("%w: repetitions must be positive, got %d", ErrInvalidConfig, c.Repetitions)
	}
	if c.SkipThreshold <= 0 {
		return fmt.Errorf("%w: skip threshold must be positive, got %d", ErrInvalidConfig, c.SkipThreshold)
	}
	if len(c.Algorithms) == 0 {
		return fmt.Errorf("%w: at least one algorithm is required", ErrInvalidConfig)
	}
	seenAlgs := map[sorting.Algorithm]struct{}{}
	for _, alg := range c.Algorithms {
		if !alg.Valid() {
			return fmt.Errorf("%w: unknown algorithm %d", ErrInvalidConfig, int(alg))
		}
		if _, ok := seenAlgs[alg]; ok {
			return fmt.Errorf("%w: duplicate algorithm %s", ErrInvalidConfig, alg)
		}
		seenAlgs[alg] = struct{}{}
	}
	if len(c.Shapes) == 0 {
		return fmt.Errorf("%w: at least one dataset shape is required", ErrInvalidConfig)
	}
	seenShapes := map[model.ShapeKind]struct{}{}
	for _, shape := range c.Shapes {
		if !shape.Kind.Valid() {
			return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, model.ErrUnknownShape, shape)
		}
		if _, ok := seenShapes[shape.Kind]; ok {
			return fmt.Errorf("%w: duplicate shape %s", ErrInvalidConfig, shape)
		}
		seenShapes[shape.Kind] = struct{}{}
		if !generator.ValidRatio(shape.DisorderRatio) {
			return fmt.Errorf("%w: disorder ratio must be between 0 and 1, got %v", ErrInvalidConfig, shape.DisorderRatio)
		}
	}
	if c.customRange() {
		if err := generator.CheckRange(c.MinValue, c.MaxValue); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func (c Config) customRange() bool {
	return c.MinValue != 0 || c.MaxValue != 0
}

func (c Config) skips(alg sorting.Algorithm, size int) bool {
	return c.SkipLargeQuadratic && alg.Quadratic() && size > c.SkipThreshold
}
