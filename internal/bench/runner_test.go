package bench

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorting"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Sizes = []int{10, 50}
	cfg.Repetitions = 2
	cfg.SkipThreshold = 20
	return cfg
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"no sizes":           func(c *Config) { c.Sizes = nil },
		"zero size":          func(c *Config) { c.Sizes = []int{10, 0} },
		"negative size":      func(c *Config) { c.Sizes = []int{-3} },
		"duplicate size":     func(c *Config) { c.Sizes = []int{10, 10} },
		"zero repetitions":   func(c *Config) { c.Repetitions = 0 },
		"zero threshold":     func(c *Config) { c.SkipThreshold = 0 },
		"no algorithms":      func(c *Config) { c.Algorithms = nil },
		"bad algorithm":      func(c *Config) { c.Algorithms = []sorting.Algorithm{sorting.Algorithm(42)} },
		"duplicate algo":     func(c *Config) { c.Algorithms = []sorting.Algorithm{sorting.Merge, sorting.Merge} },
		"no shapes":          func(c *Config) { c.Shapes = nil },
		"unknown shape kind": func(c *Config) { c.Shapes = []model.Shape{{Kind: model.ShapeKind(9)}} },
		"bad ratio":          func(c *Config) { c.Shapes = []model.Shape{{Kind: model.PartiallySorted, DisorderRatio: 2}} },
		"duplicate shape":    func(c *Config) { c.Shapes = []model.Shape{model.NewShape(model.Sorted), model.NewShape(model.Sorted)} },
		"NaN ratio":          func(c *Config) { c.Shapes = []model.Shape{{Kind: model.PartiallySorted, DisorderRatio: math.NaN()}} },
		"inverted range":     func(c *Config) { c.MinValue, c.MaxValue = 10, 1 },
		"range too wide":     func(c *Config) { c.MinValue, c.MaxValue = 0, math.MaxInt },
		"full int range":     func(c *Config) { c.MinValue, c.MaxValue = math.MinInt, math.MaxInt },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig()
			mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	cfg := smallConfig()
	cfg.Shapes = []model.Shape{{Kind: model.ShapeKind(9)}}
	if err := cfg.Validate(); !errors.Is(err, model.ErrUnknownShape) {
		t.Fatalf("expected ErrUnknownShape, got %v", err)
	}
}

func TestRunSuite(t *testing.T) {
	cfg := smallConfig()
	var seen int
	cfg.OnTrial = func(model.TrialRecord) { seen++ }
	result, err := NewRunner(cfg).RunSuite(context.Background())
	if err != nil {
		t.Fatalf("run suite: %v", err)
	}
	shapes := len(cfg.Shapes)
	// size 10: all four algorithms; size 50: only merge sort.
	want := shapes*4*cfg.Repetitions + shapes*cfg.Repetitions
	if len(result.Trials) != want {
		t.Fatalf("expected %d trials, got %d", want, len(result.Trials))
	}
	if seen != want {
		t.Fatalf("expected OnTrial to be called %d times, got %d", want, seen)
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("expected 3 skipped cells, got %+v", result.Skipped)
	}
	for _, cell := range result.Skipped {
		if cell.Size != 50 || cell.Algorithm == "Merge Sort" {
			t.Fatalf("unexpected skipped cell %+v", cell)
		}
	}
	for _, rec := range result.Trials {
		if !rec.Correct {
			t.Fatalf("unexpected incorrect trial %+v", rec)
		}
		if rec.Size == 50 && rec.Algorithm != "Merge Sort" {
			t.Fatalf("quadratic algorithm ran above threshold: %+v", rec)
		}
	}
	if result.Failures != 0 || result.Run.Failures != 0 {
		t.Fatalf("expected no failures")
	}
	if result.Run.ID == "" || result.Run.TrialCount != want {
		t.Fatalf("unexpected run header: %+v", result.Run)
	}
	if result.Run.EndedAt.Before(result.Run.StartedAt) {
		t.Fatalf("run ended before it started")
	}
}

func TestRunSuiteWithoutSkipping(t *testing.T) {
	cfg := smallConfig()
	cfg.SkipLargeQuadratic = false
	result, err := NewRunner(cfg).RunSuite(context.Background())
	if err != nil {
		t.Fatalf("run suite: %v", err)
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("expected nothing skipped, got %+v", result.Skipped)
	}
	want := len(cfg.Sizes) * len(cfg.Shapes) * len(cfg.Algorithms) * cfg.Repetitions
	if len(result.Trials) != want {
		t.Fatalf("expected %d trials, got %d", want, len(result.Trials))
	}
}

func TestRunSuiteRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Repetitions = 0
	var called bool
	cfg.OnTrial = func(model.TrialRecord) { called = true }
	if _, err := NewRunner(cfg).RunSuite(context.Background()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if called {
		t.Fatalf("no trial may run for an invalid configuration")
	}
}

func TestRunSuiteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := smallConfig()
	cfg.OnTrial = func(model.TrialRecord) { cancel() }
	result, err := NewRunner(cfg).RunSuite(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Trials) != 1 {
		t.Fatalf("expected exactly one finished trial, got %d", len(result.Trials))
	}
}

func TestRunnerDatasetsReproducible(t *testing.T) {
	cfg := smallConfig()
	a := NewRunner(cfg)
	b := NewRunner(cfg)
	for _, size := range cfg.Sizes {
		for _, shape := range cfg.Shapes {
			x, err := a.Dataset(shape, size)
			if err != nil {
				t.Fatalf("dataset: %v", err)
			}
			y, err := b.Dataset(shape, size)
			if err != nil {
				t.Fatalf("dataset: %v", err)
			}
			if !slices.Equal(x, y) {
				t.Fatalf("datasets differ for %s/%d", shape, size)
			}
		}
	}
	again, _ := a.Dataset(cfg.Shapes[0], cfg.Sizes[0])
	first, _ := b.Dataset(cfg.Shapes[0], cfg.Sizes[0])
	if !slices.Equal(again, first) {
		t.Fatalf("cached dataset should be reused")
	}
}

func TestRunnerDatasetPerDisorderRatio(t *testing.T) {
	runner := NewRunner(smallConfig())
	ordered := model.Shape{Kind: model.PartiallySorted, DisorderRatio: 0}
	shuffled := model.Shape{Kind: model.PartiallySorted, DisorderRatio: 1}

	first, err := runner.Dataset(ordered, 1000)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	second, err := runner.Dataset(shuffled, 1000)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	if !slices.IsSorted(first) {
		t.Fatalf("expected ratio 0 dataset to be sorted")
	}
	if slices.IsSorted(second) {
		t.Fatalf("expected ratio 1 dataset to be disturbed, got the cached ratio 0 dataset")
	}
	again, err := runner.Dataset(ordered, 1000)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	if &again[0] != &first[0] {
		t.Fatalf("expected the ratio 0 dataset to be served from cache")
	}
}

func TestRunnerTrial(t *testing.T) {
	runner := NewRunner(smallConfig())
	rec, err := runner.Trial(sorting.Insertion, model.NewShape(model.PartiallySorted), 30)
	if err != nil {
		t.Fatalf("trial: %v", err)
	}
	if !rec.Correct || rec.Size != 30 || rec.Shape != "partially_sorted" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if _, err := runner.Trial(sorting.Merge, model.Shape{Kind: model.ShapeKind(7)}, 10); !errors.Is(err, model.ErrUnknownShape) {
		t.Fatalf("expected ErrUnknownShape, got %v", err)
	}
}

func TestRunSuiteCustomRange(t *testing.T) {
	cfg := smallConfig()
	cfg.MinValue, cfg.MaxValue = -3, 3
	runner := NewRunner(cfg)
	data, err := runner.Dataset(model.NewShape(model.Random), 100)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	for _, v := range data {
		if v < -3 || v > 3 {
			t.Fatalf("value %d outside configured range", v)
		}
	}
}
