package bench

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorting"
)

// Result holds everything a suite produced.
type Result struct {
	Run      model.Run
	Trials   []model.TrialRecord
	Skipped  []model.SkippedCell
	Failures int
}

type datasetKey struct {
	shape model.Shape
	size  int
}

// Runner executes trials sequentially. It owns the dataset generator and a
// cache of generated datasets; it is not safe for concurrent use.
type Runner struct {
	cfg      Config
	gen      *generator.Generator
	datasets map[datasetKey][]int
	logger   *slog.Logger
}

// NewRunner returns a Runner for cfg. The configuration is validated by RunSuite.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:      cfg,
		gen:      generator.New(cfg.Seed),
		datasets: map[datasetKey][]int{},
		logger:   slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for progress output. nil discards.
func (r *Runner) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r.logger = logger
}

// Dataset returns the dataset for shape and size, generating it on first use.
// The returned slice is shared; callers must not modify it.
func (r *Runner) Dataset(shape model.Shape, size int) ([]int, error) {
	key := datasetKey{shape: shape, size: size}
	if data, ok := r.datasets[key]; ok {
		return data, nil
	}
	var (
		data []int
		err  error
	)
	if r.cfg.customRange() {
		data, err = r.gen.GenerateRange(shape, size, r.cfg.MinValue, r.cfg.MaxValue)
	} else {
		data, err = r.gen.Generate(shape, size)
	}
	if err != nil {
		return nil, err
	}
	r.datasets[key] = data
	return data, nil
}

// Trial runs one algorithm on the (possibly cached) dataset for shape and size.
func (r *Runner) Trial(alg sorting.Algorithm, shape model.Shape, size int) (model.TrialRecord, error) {
	if !alg.Valid() {
		return model.TrialRecord{}, fmt.Errorf("%w: unknown algorithm %d", ErrInvalidConfig, int(alg))
	}
	data, err := r.Dataset(shape, size)
	if err != nil {
		return model.TrialRecord{}, err
	}
	return RunTrial(alg.String(), alg.Func(), shape, data), nil
}

// RunSuite validates the configuration, runs the self-check, then executes
// sizes x shapes x algorithms x repetitions in that order. One dataset is
// generated per (size, shape) from a fresh stream seeded with Config.Seed,
// so equal configurations reproduce equal datasets. Cancellation is honored
// between trials only; the partial result is returned with the error.
func (r *Runner) RunSuite(ctx context.Context) (Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := SelfCheck(r.cfg.Algorithms); err != nil {
		return Result{}, err
	}
	r.gen = generator.New(r.cfg.Seed)
	clear(r.datasets)

	result := Result{
		Run: model.Run{
			ID:          uuid.NewString(),
			StartedAt:   time.Now(),
			Seed:        r.cfg.Seed,
			Repetitions: r.cfg.Repetitions,
			Sizes:       append([]int(nil), r.cfg.Sizes...),
			GoVersion:   runtime.Version(),
		},
	}
	r.logger.Info("suite started",
		"run_id", result.Run.ID,
		"sizes", r.cfg.Sizes,
		"repetitions", r.cfg.Repetitions,
		"seed", r.cfg.Seed,
	)

	for _, size := range r.cfg.Sizes {
		active := make([]sorting.Algorithm, 0, len(r.cfg.Algorithms))
		for _, alg := range r.cfg.Algorithms {
			if r.cfg.skips(alg, size) {
				result.Skipped = append(result.Skipped, model.SkippedCell{Algorithm: alg.String(), Size: size})
				r.logger.Debug("skipping quadratic algorithm", "algorithm", alg.String(), "size", size)
				continue
			}
			active = append(active, alg)
		}
		for _, shape := range r.cfg.Shapes {
			// Generate even when every algorithm is skipped so later
			// datasets do not depend on the algorithm set.
			data, err := r.Dataset(shape, size)
			if err != nil {
				return r.finish(result), err
			}
			for _, alg := range active {
				for rep := 0; rep < r.cfg.Repetitions; rep++ {
					if err := ctx.Err(); err != nil {
						return r.finish(result), fmt.Errorf("suite interrupted: %w", err)
					}
					rec := RunTrial(alg.String(), alg.Func(), shape, data)
					rec.Repetition = rep
					result.Trials = append(result.Trials, rec)
					if !rec.Correct {
						result.Failures++
						r.logger.Warn("trial produced an incorrect result",
							"algorithm", rec.Algorithm, "shape", rec.Shape, "size", rec.Size, "repetition", rep)
					}
					r.logger.Debug("trial finished",
						"algorithm", rec.Algorithm, "shape", rec.Shape, "size", rec.Size,
						"repetition", rep, "elapsed", rec.Elapsed)
					if r.cfg.OnTrial != nil {
						r.cfg.OnTrial(rec)
					}
				}
			}
		}
		// Datasets of finished sizes are never reused.
		for _, shape := range r.cfg.Shapes {
			delete(r.datasets, datasetKey{shape: shape, size: size})
		}
	}

	result = r.finish(result)
	r.logger.Info("suite finished",
		"run_id", result.Run.ID,
		"trials", len(result.Trials),
		"skipped", len(result.Skipped),
		"failures", result.Failures,
		"duration", result.Run.EndedAt.Sub(result.Run.StartedAt),
	)
	return result, nil
}

func (r *Runner) finish(result Result) Result {
	result.Run.EndedAt = time.Now()
	result.Run.TrialCount = len(result.Trials)
	result.Run.Failures = result.Failures
	return result
}
