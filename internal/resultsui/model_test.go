package resultsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/stats"
)

func sampleReport() stats.Report {
	run := model.Run{ID: "run-1", Seed: 42}
	var trials []model.TrialRecord
	for factor, alg := range []string{"Merge Sort", "Bubble Sort"} {
		for _, size := range []int{10, 100} {
			trials = append(trials, model.TrialRecord{
				Algorithm: alg,
				Shape:     "random",
				Size:      size,
				Elapsed:   time.Duration(size*(factor+1)) * time.Microsecond,
				Correct:   true,
			})
		}
	}
	return stats.NewReport(run, trials, []model.SkippedCell{{Algorithm: "Bubble Sort", Size: 5000}})
}

type recordingLoader struct {
	calls []model.ReportConfig
	err   error
}

func (l *recordingLoader) load(_ context.Context, cfg model.ReportConfig) (stats.Report, error) {
	l.calls = append(l.calls, cfg)
	if l.err != nil {
		return stats.Report{}, l.err
	}
	return sampleReport(), nil
}

func resize(t *testing.T, m *Model, width, height int) {
	t.Helper()
	if _, cmd := m.Update(tea.WindowSizeMsg{Width: width, Height: height}); cmd != nil {
		t.Fatalf("expected no command on resize")
	}
}

func TestViewFitsWindow(t *testing.T) {
	loader := &recordingLoader{}
	m := NewModel(loader.load, model.ReportConfig{})
	if got := m.View(); got != "" {
		t.Fatalf("expected empty view before first resize, got %q", got)
	}
	resize(t, m, 100, 30)
	for i := range m.tabs {
		m.activeTab = i
		lines := strings.Split(m.View(), "\n")
		if len(lines) != 30 {
			t.Fatalf("tab %s: expected 30 lines, got %d", m.tabs[i], len(lines))
		}
	}
}

func TestSummaryRowsFollowReport(t *testing.T) {
	report := sampleReport()
	rows := summaryRows(report.Summaries)
	if len(rows) != len(report.Summaries) {
		t.Fatalf("expected %d rows, got %d", len(report.Summaries), len(rows))
	}
	if rows[0][0] != "10" || rows[0][2] != "Merge Sort" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	for _, row := range rows {
		if len(row) != len(summaryColumnWidths) {
			t.Fatalf("row has %d cells, expected %d", len(row), len(summaryColumnWidths))
		}
	}
}

func TestTabNavigationWraps(t *testing.T) {
	loader := &recordingLoader{}
	m := NewModel(loader.load, model.ReportConfig{})
	resize(t, m, 80, 24)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabSkipped {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSummary {
		t.Fatalf("expected wrap to first tab, got %d", m.activeTab)
	}
}

func TestShapeKeyCyclesAndReloads(t *testing.T) {
	loader := &recordingLoader{}
	m := NewModel(loader.load, model.ReportConfig{RunID: "run-1"})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if len(loader.calls) != 2 {
		t.Fatalf("expected reload, got %d loads", len(loader.calls))
	}
	last := loader.calls[len(loader.calls)-1]
	if last.Shape != "random" || last.RunID != "run-1" {
		t.Fatalf("unexpected config after cycling: %+v", last)
	}
}

func TestNextShape(t *testing.T) {
	got := []string{}
	shape := ""
	for range len(model.AllShapes()) + 1 {
		shape = nextShape(shape)
		got = append(got, shape)
	}
	want := []string{"random", "sorted", "reverse_sorted", "partially_sorted", ""}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter(" run-2 ", "reverse-sorted", "1000")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cfg.RunID != "run-2" || cfg.Shape != "reverse_sorted" || cfg.Size != 1000 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := parseFilter("", "zigzag", ""); !errors.Is(err, model.ErrUnknownShape) {
		t.Fatalf("expected ErrUnknownShape, got %v", err)
	}
	if _, err := parseFilter("", "", "-5"); err == nil {
		t.Fatalf("expected error for negative size")
	}
	if _, err := parseFilter("", "", "ten"); err == nil {
		t.Fatalf("expected error for non-numeric size")
	}
}

func TestFilterModeApplies(t *testing.T) {
	loader := &recordingLoader{}
	m := NewModel(loader.load, model.ReportConfig{})
	resize(t, m, 80, 24)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[2].SetValue("abc")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected filter error to keep the form open")
	}
	m.filterInputs[2].SetValue("100")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close")
	}
	if m.cfg.Size != 100 {
		t.Fatalf("expected size filter 100, got %d", m.cfg.Size)
	}
	if got := loader.calls[len(loader.calls)-1]; got.Size != 100 {
		t.Fatalf("expected reload with size 100, got %+v", got)
	}
}

func TestLoadErrorShownInFooter(t *testing.T) {
	loader := &recordingLoader{err: errors.New("no runs recorded")}
	m := NewModel(loader.load, model.ReportConfig{})
	resize(t, m, 80, 24)
	if !strings.Contains(m.View(), "no runs recorded") {
		t.Fatalf("expected load error in view")
	}
}

func TestQuitKey(t *testing.T) {
	loader := &recordingLoader{}
	m := NewModel(loader.load, model.ReportConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefghij", 6); got != "abc..." {
		t.Fatalf("expected abc..., got %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("expected unchanged, got %q", got)
	}
	if got := fitLines("a\nb\nc", 2, 2); got != "a \nb " {
		t.Fatalf("unexpected fitLines output %q", got)
	}
}
