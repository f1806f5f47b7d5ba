package stats

import (
	"context"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/store"
)

// Report contains precomputed data for rendering one run.
type Report struct {
	Run       model.Run
	Trials    []model.TrialRecord
	Summaries []model.SummaryRecord
	Winners   []model.SummaryRecord
	Skipped   []model.SkippedCell
}

// BuildReport loads a stored run (the latest when cfg.RunID is empty),
// applies the shape and size filters and aggregates the trials.
func BuildReport(ctx context.Context, st *store.Store, cfg model.ReportConfig) (Report, error) {
	runID := cfg.RunID
	if runID == "" {
		latest, err := st.LatestRunID(ctx)
		if err != nil {
			return Report{}, err
		}
		runID = latest
	}
	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	trials, err := st.ListTrials(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	skipped, err := st.ListSkipped(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	return NewReport(run, FilterTrials(trials, cfg.Shape, cfg.Size), filterSkipped(skipped, cfg.Size)), nil
}

// NewReport aggregates trials that are already in memory.
func NewReport(run model.Run, trials []model.TrialRecord, skipped []model.SkippedCell) Report {
	summaries := Aggregate(trials)
	return Report{
		Run:       run,
		Trials:    trials,
		Summaries: summaries,
		Winners:   Winners(summaries),
		Skipped:   skipped,
	}
}

// FilterTrials keeps trials matching shape and size. Empty shape and
// non-positive size match everything.
func FilterTrials(trials []model.TrialRecord, shape string, size int) []model.TrialRecord {
	out := make([]model.TrialRecord, 0, len(trials))
	for _, t := range trials {
		if shape != "" && t.Shape != shape {
			continue
		}
		if size > 0 && t.Size != size {
			continue
		}
		out = append(out, t)
	}
	return out
}

func filterSkipped(cells []model.SkippedCell, size int) []model.SkippedCell {
	if size <= 0 {
		return cells
	}
	out := make([]model.SkippedCell, 0, len(cells))
	for _, c := range cells {
		if c.Size == size {
			out = append(out, c)
		}
	}
	return out
}

// Shapes returns the distinct shapes in summaries in declaration order.
func (r Report) Shapes() []string {
	return distinctShapes(r.Summaries)
}

// Failures counts incorrect trials in the report.
func (r Report) Failures() int {
	n := 0
	for _, t := range r.Trials {
		if !t.Correct {
			n++
		}
	}
	return n
}
