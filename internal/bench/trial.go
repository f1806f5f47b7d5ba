package bench

import (
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorting"
)

// RunTrial times exactly one call of fn on a private copy of input and
// verifies the result. A wrong result is recorded with Correct=false rather
// than returned as an error.
func RunTrial(name string, fn sorting.Func, shape model.Shape, input []int) model.TrialRecord {
	work := slices.Clone(input)
	if work == nil {
		work = []int{}
	}

	runtime.GC()
	start := time.Now()
	output := fn(work)
	elapsed := time.Since(start)

	return model.TrialRecord{
		Algorithm: name,
		Shape:     shape.String(),
		Size:      len(input),
		Elapsed:   max(elapsed, 0),
		Correct:   Verify(input, output) == nil,
		Timestamp: time.Now(),
	}
}

// Verify checks that output is input in non-decreasing order. The reference
// is an independent sort of input, never the algorithm under test.
func Verify(input, output []int) error {
	if len(output) != len(input) {
		return fmt.Errorf("%w: output has %d elements, want %d", ErrVerification, len(output), len(input))
	}
	for i := 1; i < len(output); i++ {
		if output[i] < output[i-1] {
			return fmt.Errorf("%w: out of order at index %d (%d > %d)", ErrVerification, i, output[i-1], output[i])
		}
	}
	want := slices.Clone(input)
	slices.Sort(want)
	for i := range want {
		if output[i] != want[i] {
			return fmt.Errorf("%w: not a permutation of the input (index %d: got %d, want %d)", ErrVerification, i, output[i], want[i])
		}
	}
	return nil
}
