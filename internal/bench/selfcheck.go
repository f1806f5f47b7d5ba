package bench

import (
	"fmt"
	"slices"

	"github.com/verte-zerg/sortbench/internal/sorting"
)

// referenceSequence mixes duplicates, negatives and zero.
var referenceSequence = []int{38, 27, 43, 3, 9, 82, 10, -4, 0, 27, 3, 15, -4, 100, 1}

type subject struct {
	name string
	fn   sorting.Func
}

// SelfCheck runs every algorithm once on a fixed reference sequence and
// fails on the first mismatch with a canonical sort.
func SelfCheck(algorithms []sorting.Algorithm) error {
	if len(algorithms) == 0 {
		return fmt.Errorf("%w: no algorithms to check", ErrInvalidConfig)
	}
	subjects := make([]subject, 0, len(algorithms))
	for _, alg := range algorithms {
		if !alg.Valid() {
			return fmt.Errorf("%w: unknown algorithm %d", ErrInvalidConfig, int(alg))
		}
		subjects = append(subjects, subject{name: alg.String(), fn: alg.Func()})
	}
	return selfCheck(subjects)
}

func selfCheck(subjects []subject) error {
	for _, s := range subjects {
		input := slices.Clone(referenceSequence)
		output := s.fn(input)
		if err := Verify(referenceSequence, output); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSelfCheck, s.name, err)
		}
		if !slices.Equal(input, referenceSequence) {
			return fmt.Errorf("%w: %s: %w: input was mutated", ErrSelfCheck, s.name, ErrVerification)
		}
	}
	return nil
}
