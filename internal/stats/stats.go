// Package stats aggregates trial timings and renders reports.
package stats

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/sorting"
)

type groupKey struct {
	algorithm string
	shape     string
	size      int
}

// Aggregate groups records by exact (algorithm, shape, size) and summarizes
// each group. Incorrect trials are included; their timing is still a
// measurement. Output is ordered by size, shape order, mean, then algorithm
// declaration order and name.
func Aggregate(records []model.TrialRecord) []model.SummaryRecord {
	if len(records) == 0 {
		return nil
	}
	groups := map[groupKey][]time.Duration{}
	var keys []groupKey
	for _, rec := range records {
		key := groupKey{algorithm: rec.Algorithm, shape: rec.Shape, size: rec.Size}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], rec.Elapsed)
	}

	summaries := make([]model.SummaryRecord, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, summarize(key, groups[key]))
	}
	slices.SortFunc(summaries, compareSummaries)
	return summaries
}

func summarize(key groupKey, samples []time.Duration) model.SummaryRecord {
	var sum int64
	minVal, maxVal := samples[0], samples[0]
	for _, d := range samples {
		sum += int64(d)
		minVal = min(minVal, d)
		maxVal = max(maxVal, d)
	}
	n := len(samples)
	mean := float64(sum) / float64(n)

	var std float64
	if n >= 2 {
		var sq float64
		for _, d := range samples {
			diff := float64(d) - mean
			sq += diff * diff
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return model.SummaryRecord{
		Algorithm: key.algorithm,
		Shape:     key.shape,
		Size:      key.size,
		Mean:      time.Duration(sum / int64(n)),
		StdDev:    time.Duration(math.Round(std)),
		Min:       minVal,
		Max:       maxVal,
		Samples:   n,
	}
}

func compareSummaries(a, b model.SummaryRecord) int {
	if c := cmp.Compare(a.Size, b.Size); c != 0 {
		return c
	}
	if c := cmp.Compare(model.ShapeOrder(a.Shape), model.ShapeOrder(b.Shape)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Shape, b.Shape); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Mean, b.Mean); c != 0 {
		return c
	}
	return compareAlgorithms(a.Algorithm, b.Algorithm)
}

func compareAlgorithms(a, b string) int {
	if c := cmp.Compare(sorting.AlgorithmOrder(a), sorting.AlgorithmOrder(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// BestFor returns the summary with the minimum mean for shape and size.
// Equal means resolve by algorithm declaration order, then name. ok is false
// when no summary matches.
func BestFor(summaries []model.SummaryRecord, shape string, size int) (best model.SummaryRecord, ok bool) {
	for _, s := range summaries {
		if s.Shape != shape || s.Size != size {
			continue
		}
		if !ok || s.Mean < best.Mean || (s.Mean == best.Mean && compareAlgorithms(s.Algorithm, best.Algorithm) < 0) {
			best, ok = s, true
		}
	}
	return best, ok
}

// Winners returns BestFor for every (shape, size) present, ordered like
// Aggregate output.
func Winners(summaries []model.SummaryRecord) []model.SummaryRecord {
	type cell struct {
		shape string
		size  int
	}
	seen := map[cell]struct{}{}
	var winners []model.SummaryRecord
	for _, s := range summaries {
		c := cell{shape: s.Shape, size: s.Size}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		if best, ok := BestFor(summaries, s.Shape, s.Size); ok {
			winners = append(winners, best)
		}
	}
	slices.SortFunc(winners, compareSummaries)
	return winners
}

// Speedup returns the ratio of the slowest to the fastest mean for shape and
// size. It is 0 when fewer than two algorithms match or the fastest mean is 0.
func Speedup(summaries []model.SummaryRecord, shape string, size int) float64 {
	var (
		fastest, slowest time.Duration
		count            int
	)
	for _, s := range summaries {
		if s.Shape != shape || s.Size != size {
			continue
		}
		if count == 0 {
			fastest, slowest = s.Mean, s.Mean
		}
		fastest = min(fastest, s.Mean)
		slowest = max(slowest, s.Mean)
		count++
	}
	if count < 2 || fastest <= 0 {
		return 0
	}
	return float64(slowest) / float64(fastest)
}

// FilterSummaries keeps summaries matching shape and size. Empty shape and
// non-positive size match everything.
func FilterSummaries(summaries []model.SummaryRecord, shape string, size int) []model.SummaryRecord {
	out := make([]model.SummaryRecord, 0, len(summaries))
	for _, s := range summaries {
		if shape != "" && s.Shape != shape {
			continue
		}
		if size > 0 && s.Size != size {
			continue
		}
		out = append(out, s)
	}
	return out
}
