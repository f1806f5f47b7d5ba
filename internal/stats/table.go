package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out rows in space-separated columns sized to the widest
// cell. Columns in rightAlign are padded on the left.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	lines := make([]string, 0, len(rows)+2)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, widths, rightAlign))
		rule := make([]string, cols)
		for i, w := range widths {
			rule[i] = strings.Repeat("-", w)
		}
		lines = append(lines, strings.Join(rule, " "))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, widths, rightAlign))
	}
	return lines
}

func joinCells(row []string, widths []int, rightAlign map[int]bool) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		if rightAlign[i] {
			cells[i] = runewidth.FillLeft(cell, w)
		} else {
			cells[i] = runewidth.FillRight(cell, w)
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}
