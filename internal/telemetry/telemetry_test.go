package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/verte-zerg/sortbench/internal/model"
)

func TestRecordAndWrite(t *testing.T) {
	sink, err := NewSink()
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	run := model.Run{ID: "run-1", Seed: 42, GoVersion: "go1.24.2"}
	summaries := []model.SummaryRecord{
		{Algorithm: "Merge Sort", Shape: "random", Size: 100, Mean: 20 * time.Millisecond, StdDev: 10 * time.Millisecond, Min: 10 * time.Millisecond, Max: 30 * time.Millisecond, Samples: 3},
		{Algorithm: "Bubble Sort", Shape: "sorted", Size: 100, Mean: time.Millisecond, Min: time.Millisecond, Max: time.Millisecond, Samples: 1},
	}
	sink.Record(run, summaries, 2)

	if got := testutil.ToFloat64(sink.mean.WithLabelValues("Merge Sort", "random", "100")); got != 0.02 {
		t.Fatalf("expected mean 0.02, got %v", got)
	}
	if got := testutil.ToFloat64(sink.samples.WithLabelValues("Bubble Sort", "sorted", "100")); got != 1 {
		t.Fatalf("expected 1 sample, got %v", got)
	}
	if got := testutil.ToFloat64(sink.failures); got != 2 {
		t.Fatalf("expected 2 failures, got %v", got)
	}
	count, err := testutil.GatherAndCount(sink.Gatherer(), "sortbench_trial_max_seconds")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 max series, got %d", count)
	}

	path := filepath.Join(t.TempDir(), "sortbench.prom")
	if err := sink.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`sortbench_trial_mean_seconds{algorithm="Merge Sort",shape="random",size="100"} 0.02`,
		`sortbench_verification_failures_total 2`,
		`sortbench_run_info{go_version="go1.24.2",run_id="run-1",seed="42"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in textfile:\n%s", want, text)
		}
	}
}

func TestWriteTextfileRequiresPath(t *testing.T) {
	sink, err := NewSink()
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.WriteTextfile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
