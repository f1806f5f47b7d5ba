package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"
)

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(1500 * time.Microsecond); got != "1.500ms" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestRenderSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummaryTable(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No trials found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}

	buf.Reset()
	summaries := Aggregate([]model.TrialRecord{
		trial("Merge Sort", "random", 100, 2),
		trial("Merge Sort", "random", 100, 4),
	})
	if err := RenderSummaryTable(&buf, summaries); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "Std Dev", "Merge Sort", "3.000ms", "1.414ms"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderWinners(t *testing.T) {
	var buf bytes.Buffer
	summaries := Aggregate([]model.TrialRecord{
		trial("Bubble Sort", "reverse_sorted", 100, 9),
		trial("Merge Sort", "reverse_sorted", 100, 3),
	})
	if err := RenderWinners(&buf, summaries); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Merge Sort") || !strings.Contains(out, "3.0x") {
		t.Fatalf("unexpected winners output:\n%s", out)
	}
	if strings.Contains(out, "Bubble Sort") {
		t.Fatalf("loser should not be listed:\n%s", out)
	}
}

func TestRenderSkipped(t *testing.T) {
	var buf bytes.Buffer
	cells := []model.SkippedCell{
		{Algorithm: "Bubble Sort", Size: 10000},
		{Algorithm: "Selection Sort", Size: 10000},
		{Algorithm: "Bubble Sort", Size: 5000},
	}
	if err := RenderSkipped(&buf, cells); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Bubble Sort, Selection Sort") {
		t.Fatalf("expected grouped algorithms:\n%s", out)
	}
	if strings.Index(out, " 5000") > strings.Index(out, "10000") {
		t.Fatalf("expected sizes in ascending order:\n%s", out)
	}
}

func TestScalingSeries(t *testing.T) {
	summaries := Aggregate([]model.TrialRecord{
		trial("Merge Sort", "random", 100, 1),
		trial("Merge Sort", "random", 1000, 10),
		trial("Bubble Sort", "random", 100, 2),
		trial("Bubble Sort", "sorted", 1000, 2),
	})
	series, sizes := ScalingSeries(summaries, "random")
	if len(sizes) != 2 || sizes[0] != 100 || sizes[1] != 1000 {
		t.Fatalf("unexpected sizes %v", sizes)
	}
	if len(series) != 2 || series[0].Name != "Bubble Sort" || series[1].Name != "Merge Sort" {
		t.Fatalf("unexpected series %+v", series)
	}
	if !math.IsNaN(series[0].Values[1]) {
		t.Fatalf("expected gap for Bubble Sort at 1000, got %v", series[0].Values)
	}
	if series[1].Values[1] != 10 {
		t.Fatalf("expected 10ms, got %v", series[1].Values[1])
	}

	var buf bytes.Buffer
	if err := RenderScaling(&buf, summaries, "random", 40, 4, false); err != nil {
		t.Fatalf("render scaling: %v", err)
	}
	if !strings.Contains(buf.String(), "Mean time by size (random)") {
		t.Fatalf("unexpected scaling output:\n%s", buf.String())
	}
}

func TestRenderRuns(t *testing.T) {
	var buf bytes.Buffer
	start := time.Unix(0, 0)
	runs := []model.Run{{ID: "abc", StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond), Sizes: []int{10, 20}, Repetitions: 3, Seed: 7, TrialCount: 6}}
	if err := RenderRuns(&buf, runs); err != nil {
		t.Fatalf("render runs: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"abc", "10,20", "1.5s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
