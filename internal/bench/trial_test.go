package bench

import (
	"errors"
	"slices"
	"testing"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorting"
)

func TestVerify(t *testing.T) {
	input := []int{3, 1, 2, 2}
	cases := []struct {
		name   string
		output []int
		ok     bool
	}{
		{name: "correct", output: []int{1, 2, 2, 3}, ok: true},
		{name: "short", output: []int{1, 2, 3}},
		{name: "unordered", output: []int{2, 1, 2, 3}},
		{name: "not a permutation", output: []int{1, 2, 3, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Verify(input, tc.output)
			if tc.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrVerification) {
				t.Fatalf("expected ErrVerification, got %v", err)
			}
		})
	}
	if err := Verify(nil, []int{}); err != nil {
		t.Fatalf("empty input should verify: %v", err)
	}
}

func TestRunTrial(t *testing.T) {
	input := []int{5, 3, 9, 1}
	original := slices.Clone(input)
	rec := RunTrial(sorting.Merge.String(), sorting.Merge.Func(), model.NewShape(model.Random), input)
	if !rec.Correct {
		t.Fatalf("expected a correct trial")
	}
	if rec.Algorithm != "Merge Sort" || rec.Shape != "random" || rec.Size != 4 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Elapsed < 0 {
		t.Fatalf("elapsed must be non-negative, got %v", rec.Elapsed)
	}
	if rec.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if !slices.Equal(input, original) {
		t.Fatalf("input was mutated: %v", input)
	}
}

func TestRunTrialRecordsIncorrectResult(t *testing.T) {
	broken := func(in []int) []int { return in }
	rec := RunTrial("Identity", broken, model.NewShape(model.ReverseSorted), []int{3, 2, 1})
	if rec.Correct {
		t.Fatalf("expected incorrect trial")
	}
}

func TestRunTrialIsolatesMutatingSort(t *testing.T) {
	input := []int{4, 3, 2, 1}
	inPlace := func(in []int) []int {
		slices.Sort(in)
		return in
	}
	rec := RunTrial("In place", inPlace, model.NewShape(model.ReverseSorted), input)
	if !rec.Correct {
		t.Fatalf("expected correct trial")
	}
	if !slices.Equal(input, []int{4, 3, 2, 1}) {
		t.Fatalf("caller's input was modified: %v", input)
	}
}

func TestSelfCheck(t *testing.T) {
	if err := SelfCheck(sorting.All()); err != nil {
		t.Fatalf("self-check failed: %v", err)
	}
	if err := SelfCheck(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSelfCheckRejectsBrokenSort(t *testing.T) {
	dropLast := func(in []int) []int {
		out := sorting.Sort(sorting.Merge, in)
		return out[:len(out)-1]
	}
	err := selfCheck([]subject{
		{name: "Merge Sort", fn: sorting.Merge.Func()},
		{name: "Lossy Sort", fn: dropLast},
	})
	if !errors.Is(err, ErrSelfCheck) || !errors.Is(err, ErrVerification) {
		t.Fatalf("expected self-check verification failure, got %v", err)
	}
}
