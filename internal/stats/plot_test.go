package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, []Series{
		{Name: "Merge Sort", Values: []float64{0.1, 0.9, 9}},
		{Name: "Bubble Sort", Values: []float64{0.2, 20, math.NaN()}},
	}, PlotOptions{Title: "random", XLabels: []string{"100", "1000", "10000"}, Unit: "ms", Width: 30, Height: 4})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"random", "scaled to its own range", "Merge Sort: min=0.100ms max=9.000ms", "Legend:", "10000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, note, 2 ranges, 4 rows, axis, legend
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d:\n%s", len(lines), out)
	}
	for _, row := range lines[4:8] {
		if got := runewidth.StringWidth(row); got != 30+len(axisTop)+runewidth.StringWidth(axisRule) {
			t.Fatalf("unexpected row width %d: %q", got, row)
		}
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, []Series{{Name: "none", Values: []float64{math.NaN()}}}, PlotOptions{Width: 20})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotSeriesSinglePoint(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, []Series{{Name: "one", Values: []float64{5}}}, PlotOptions{Width: 12, Height: 2}); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if !strings.ContainsRune(buf.String(), '⠁') {
		t.Fatalf("expected a plotted dot:\n%s", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axis := len(axisTop) + runewidth.StringWidth(axisRule)
	if got := PlotWidthFor(80); got != 80-axis {
		t.Fatalf("expected width %d, got %d", 80-axis, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestXAxisSkipsOverlappingLabels(t *testing.T) {
	axis := xAxis([]string{"10000", "20000", "30000"}, 3, 12)
	if !strings.HasPrefix(axis, "10000") || !strings.HasSuffix(axis, "30000") {
		t.Fatalf("unexpected axis %q", axis)
	}
	if strings.Contains(axis, "20000") {
		t.Fatalf("expected middle label to be dropped, got %q", axis)
	}
}
