package resultsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/stats"
)

var summaryColumnWidths = []int{7, 16, 22, 11, 11, 11, 11, 4}

func newSummaryTable() table.Model {
	columns := make([]table.Column, len(stats.SummaryHeaders))
	for i, title := range stats.SummaryHeaders {
		columns[i] = table.Column{Title: title, Width: summaryColumnWidths[i]}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func summaryRows(summaries []model.SummaryRecord) []table.Row {
	cells := stats.SummaryRows(summaries)
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	return rows
}

func renderWinners(report stats.Report, width int) string {
	if len(report.Summaries) == 0 {
		return "No trials found."
	}
	cards := []string{
		metricCard("Trials", strconv.Itoa(len(report.Trials))),
		metricCard("Failures", strconv.Itoa(report.Failures())),
		metricCard("Groups", strconv.Itoa(len(report.Summaries))),
		metricCard("Seed", strconv.FormatInt(report.Run.Seed, 10)),
	}
	var header string
	if width < 60 {
		header = strings.Join(cards, "\n")
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderWinners(&buf, report.Summaries); err != nil {
		return fmt.Sprintf("Failed to render winners: %v", err)
	}
	return strings.TrimRight(header+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderScaling(report stats.Report, width int) string {
	shapes := report.Shapes()
	if len(shapes) == 0 {
		return "No trials found."
	}
	var buf bytes.Buffer
	for _, shape := range shapes {
		if err := stats.RenderScaling(&buf, report.Summaries, shape, stats.PlotWidthFor(width), plotHeight, true); err != nil {
			return fmt.Sprintf("Failed to render scaling plot: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSkipped(cells []model.SkippedCell) string {
	if len(cells) == 0 {
		return "Every algorithm ran at every size."
	}
	var buf bytes.Buffer
	if err := stats.RenderSkipped(&buf, cells); err != nil {
		return fmt.Sprintf("Failed to render skipped cells: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}
