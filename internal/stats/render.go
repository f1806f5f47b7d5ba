package stats

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"
)

// FormatDuration prints d in milliseconds with microsecond precision.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

// SummaryHeaders are the column titles of the summary table.
var SummaryHeaders = []string{"Size", "Shape", "Algorithm", "Mean", "Std Dev", "Min", "Max", "n"}

// SummaryRows formats summaries as table cells matching SummaryHeaders.
func SummaryRows(summaries []model.SummaryRecord) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Size),
			s.Shape,
			s.Algorithm,
			FormatDuration(s.Mean),
			FormatDuration(s.StdDev),
			FormatDuration(s.Min),
			FormatDuration(s.Max),
			strconv.Itoa(s.Samples),
		})
	}
	return rows
}

// WinnerHeaders are the column titles of the winners table.
var WinnerHeaders = []string{"Size", "Shape", "Fastest", "Mean", "Speedup"}

// WinnerRows formats the fastest algorithm per (shape, size).
func WinnerRows(summaries []model.SummaryRecord) [][]string {
	winners := Winners(summaries)
	rows := make([][]string, 0, len(winners))
	for _, w := range winners {
		speedup := "-"
		if ratio := Speedup(summaries, w.Shape, w.Size); ratio > 0 {
			speedup = fmt.Sprintf("%.1fx", ratio)
		}
		rows = append(rows, []string{strconv.Itoa(w.Size), w.Shape, w.Algorithm, FormatDuration(w.Mean), speedup})
	}
	return rows
}

// RenderSummaryTable prints one row per summary.
func RenderSummaryTable(w io.Writer, summaries []model.SummaryRecord) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No trials found.")
		return err
	}
	return renderSection(w, "Summary", SummaryHeaders, SummaryRows(summaries), map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true, 7: true})
}

// RenderWinners prints the fastest algorithm per (shape, size) and how much
// slower the slowest one was.
func RenderWinners(w io.Writer, summaries []model.SummaryRecord) error {
	if len(summaries) == 0 {
		return nil
	}
	return renderSection(w, "Fastest per shape and size", WinnerHeaders, WinnerRows(summaries), map[int]bool{0: true, 3: true, 4: true})
}

// RenderSkipped lists algorithm and size combinations that were not run.
func RenderSkipped(w io.Writer, cells []model.SkippedCell) error {
	if len(cells) == 0 {
		return nil
	}
	bySize := map[int][]string{}
	var sizes []int
	for _, c := range cells {
		if _, ok := bySize[c.Size]; !ok {
			sizes = append(sizes, c.Size)
		}
		bySize[c.Size] = append(bySize[c.Size], c.Algorithm)
	}
	slices.Sort(sizes)
	rows := make([][]string, 0, len(sizes))
	for _, size := range sizes {
		rows = append(rows, []string{strconv.Itoa(size), strings.Join(bySize[size], ", ")})
	}
	return renderSection(w, "Skipped (too slow at this size)", []string{"Size", "Algorithms"}, rows, map[int]bool{0: true})
}

// RenderScaling plots mean time against size for every algorithm of one
// shape. Sizes an algorithm was not run at are gaps.
func RenderScaling(w io.Writer, summaries []model.SummaryRecord, shape string, width, height int, forceColor bool) error {
	series, sizes := ScalingSeries(summaries, shape)
	if len(series) == 0 {
		return nil
	}
	labels := make([]string, len(sizes))
	for i, size := range sizes {
		labels[i] = strconv.Itoa(size)
	}
	return PlotSeries(w, series, PlotOptions{
		Title:      fmt.Sprintf("Mean time by size (%s)", shape),
		XLabels:    labels,
		Unit:       "ms",
		Width:      width,
		Height:     height,
		ForceColor: forceColor,
	})
}

// ScalingSeries builds one series per algorithm with mean milliseconds per
// size for shape. Missing sizes are NaN.
func ScalingSeries(summaries []model.SummaryRecord, shape string) ([]Series, []int) {
	var sizes []int
	var algorithms []string
	means := map[string]map[int]float64{}
	for _, s := range summaries {
		if s.Shape != shape {
			continue
		}
		if !slices.Contains(sizes, s.Size) {
			sizes = append(sizes, s.Size)
		}
		if _, ok := means[s.Algorithm]; !ok {
			algorithms = append(algorithms, s.Algorithm)
			means[s.Algorithm] = map[int]float64{}
		}
		means[s.Algorithm][s.Size] = float64(s.Mean) / float64(time.Millisecond)
	}
	slices.Sort(sizes)
	slices.SortFunc(algorithms, compareAlgorithms)

	series := make([]Series, 0, len(algorithms))
	for _, alg := range algorithms {
		values := make([]float64, len(sizes))
		for i, size := range sizes {
			v, ok := means[alg][size]
			if !ok {
				v = math.NaN()
			}
			values[i] = v
		}
		series = append(series, Series{Name: alg, Values: values})
	}
	return series, sizes
}

// RenderRuns prints one line per stored run.
func RenderRuns(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		sizes := make([]string, len(r.Sizes))
		for i, s := range r.Sizes {
			sizes[i] = strconv.Itoa(s)
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			strings.Join(sizes, ","),
			strconv.Itoa(r.Repetitions),
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.TrialCount),
			strconv.Itoa(r.Failures),
		})
	}
	return renderSection(w, "Runs", []string{"ID", "Started", "Duration", "Sizes", "Reps", "Seed", "Trials", "Failures"}, rows,
		map[int]bool{2: true, 4: true, 5: true, 6: true, 7: true})
}

func renderSection(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	var b strings.Builder
	b.WriteString(title + "\n")
	for _, line := range formatTable(headers, rows, rightAlign) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func distinctShapes(summaries []model.SummaryRecord) []string {
	var shapes []string
	for _, s := range summaries {
		if !slices.Contains(shapes, s.Shape) {
			shapes = append(shapes, s.Shape)
		}
	}
	slices.SortFunc(shapes, func(a, b string) int {
		if c := cmp.Compare(model.ShapeOrder(a), model.ShapeOrder(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return shapes
}
