package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named line on a plot. NaN values leave a gap.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls PlotSeries output.
type PlotOptions struct {
	Title string
	// XLabels name the points; label i sits above x position i.
	XLabels []string
	Unit    string
	// Width and Height are in terminal cells. Zero selects defaults.
	Width  int
	Height int
	// ForceColor emits ANSI color even when w is not a terminal.
	ForceColor bool
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 12
	fallbackTermWidth = 80
	axisTop           = "max"
	axisBottom        = "min"
	axisRule          = " │ "
	ansiReset         = "\x1b[0m"
)

// dash patterns per series: a dot at x is drawn when x%period < on.
var dashes = []struct {
	name   string
	period int
	on     int
}{
	{"solid", 1, 1},
	{"dashed", 6, 3},
	{"dotted", 4, 1},
	{"dashdot", 8, 3},
}

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m", "\x1b[34m", "\x1b[31m"}

// brailleBits maps a dot at (row, col) inside one 2x4 braille cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// PlotSeries draws series as braille lines, each scaled to its own range.
func PlotSeries(w io.Writer, series []Series, opts PlotOptions) error {
	series = plottable(series)
	if len(series) == 0 {
		return nil
	}
	points := 0
	for _, s := range series {
		points = max(points, len(s.Values))
	}

	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	grids := make([]*dotGrid, len(series))
	ranges := make([][2]float64, len(series))
	for i, s := range series {
		lo, hi := finiteRange(s.Values)
		ranges[i] = [2]float64{lo, hi}
		if hi-lo < 1e-12 {
			lo, hi = lo-1, hi+1
		}
		grids[i] = newDotGrid(width, height)
		dash := dashes[i%len(dashes)]
		prevX, prevY := -1, -1
		for p, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				prevX, prevY = -1, -1
				continue
			}
			x := pointColumn(p, points, width*2)
			y := int(math.Round((hi - v) / (hi - lo) * float64(height*4-1)))
			plot := func(dx, dy int) {
				if dash.period <= 1 || dx%dash.period < dash.on {
					grids[i].set(dx, dy)
				}
			}
			if prevX < 0 {
				plot(x, y)
			} else {
				bresenham(prevX, prevY, x, y, plot)
			}
			prevX, prevY = x, y
		}
	}

	color := useColor(w, opts.ForceColor)
	var out strings.Builder
	if opts.Title != "" {
		out.WriteString(opts.Title + "\n")
	}
	out.WriteString("Each series is scaled to its own range.\n")
	for i, s := range series {
		fmt.Fprintf(&out, "%s: min=%.3f%s max=%.3f%s\n", s.Name, ranges[i][0], opts.Unit, ranges[i][1], opts.Unit)
	}

	labelWidth := max(runewidth.StringWidth(axisTop), runewidth.StringWidth(axisBottom))
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		out.WriteString(runewidth.FillLeft(label, labelWidth) + axisRule)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for i, g := range grids {
				if m := g.cells[row][col]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if color && owner >= 0 {
				out.WriteString(palette[owner%len(palette)] + string(ch) + ansiReset)
			} else {
				out.WriteRune(ch)
			}
		}
		out.WriteByte('\n')
	}
	if axis := xAxis(opts.XLabels, points, width); axis != "" {
		out.WriteString(strings.Repeat(" ", labelWidth+runewidth.StringWidth(axisRule)) + axis + "\n")
	}
	out.WriteString(legend(series, color) + "\n\n")

	_, err := io.WriteString(w, out.String())
	return err
}

// PlotWidthFor returns the plot area width that fits totalWidth columns
// including the axis.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axis := max(runewidth.StringWidth(axisTop), runewidth.StringWidth(axisBottom)) + runewidth.StringWidth(axisRule)
	return max(totalWidth-axis, minPlotWidth)
}

func plottable(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		for _, v := range s.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func finiteRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// pointColumn spreads points evenly across dots horizontal dot positions.
func pointColumn(p, points, dots int) int {
	if points <= 1 {
		return 0
	}
	return p * (dots - 1) / (points - 1)
}

func xAxis(labels []string, points, width int) string {
	if len(labels) == 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for p, label := range labels {
		if p >= points {
			break
		}
		col := pointColumn(p, points, width*2) / 2
		runes := []rune(label)
		col = min(col, width-len(runes))
		if col < next || col < 0 {
			continue
		}
		copy(line[col:], runes)
		next = col + len(runes) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		part := fmt.Sprintf("⠉ %s (%s)", s.Name, dashes[i%len(dashes)].name)
		if color {
			part = palette[i%len(palette)] + part + ansiReset
		}
		parts[i] = part
	}
	return "Legend: " + strings.Join(parts, "  ")
}

type dotGrid struct {
	cells [][]uint8
}

func newDotGrid(width, height int) *dotGrid {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &dotGrid{cells: cells}
}

func (g *dotGrid) set(x, y int) {
	row, col := y/4, x/2
	if x < 0 || y < 0 || row >= len(g.cells) || col >= len(g.cells[row]) {
		return
	}
	g.cells[row][col] |= brailleBits[y%4][x%2]
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
