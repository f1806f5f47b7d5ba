// Package resultsui provides the Bubble Tea results browser.
package resultsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/stats"
)

const (
	tabSummary = iota
	tabWinners
	tabScaling
	tabSkipped
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A9AC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Loader produces a report for the given filters.
type Loader func(ctx context.Context, cfg model.ReportConfig) (stats.Report, error)

// Model implements the Bubble Tea results browser.
type Model struct {
	load Loader
	cfg  model.ReportConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	summary   table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a results browser and loads the first report.
func NewModel(load Loader, cfg model.ReportConfig) *Model {
	m := &Model{
		load: load,
		cfg:  cfg,
		tabs: []string{"Summary", "Winners", "Scaling", "Skipped"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.filterInputs = []textinput.Model{
		newFilterInput("Run ID: "),
		newFilterInput("Shape: "),
		newFilterInput("Size: "),
	}
	m.summary = newSummaryTable()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "s":
			m.cfg.Shape = nextShape(m.cfg.Shape)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabSummary {
				m.summary.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSummary {
				m.summary.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabSummary {
			m.summary, cmd = m.summary.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.summary.SetWidth(m.width)
	m.summary.SetHeight(max(bodyHeight-1, 1))
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabSummary {
		m.summary.Focus()
	} else {
		m.summary.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	m.summary.SetRows(summaryRows(m.report.Summaries))
	m.summary.GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load results.")
		}
		return
	}
	m.viewports[tabWinners].SetContent(renderWinners(m.report, width))
	m.viewports[tabScaling].SetContent(renderScaling(m.report, width))
	m.viewports[tabSkipped].SetContent(renderSkipped(m.report.Skipped))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	run := m.report.Run.ID
	if run == "" {
		run = "none"
	}
	shape := m.cfg.Shape
	if shape == "" {
		shape = "any"
	}
	size := "any"
	if m.cfg.Size > 0 {
		size = strconv.Itoa(m.cfg.Size)
	}
	return headerStyle.Render(truncateLine(fmt.Sprintf("Run: %s  shape=%s  size=%s", run, shape, size), m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Shape: s  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		lines := []string{"Filters (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	}
	if m.activeTab == tabSummary {
		if len(m.report.Summaries) == 0 {
			return fitLines("No trials found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.summary.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInputs[0].SetValue(m.cfg.RunID)
	m.filterInputs[1].SetValue(m.cfg.Shape)
	size := ""
	if m.cfg.Size > 0 {
		size = strconv.Itoa(m.cfg.Size)
	}
	m.filterInputs[2].SetValue(size)
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.filterInputs[2].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx%count + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(runID, shape, size string) (model.ReportConfig, error) {
	cfg := model.ReportConfig{RunID: strings.TrimSpace(runID)}
	if shape = strings.TrimSpace(shape); shape != "" {
		parsed, err := model.ParseShape(shape)
		if err != nil {
			return model.ReportConfig{}, err
		}
		cfg.Shape = parsed.String()
	}
	if size = strings.TrimSpace(size); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 0 {
			return model.ReportConfig{}, fmt.Errorf("invalid size (use 0 or a positive integer)")
		}
		cfg.Size = n
	}
	return cfg, nil
}

// nextShape cycles any -> each shape in declaration order -> any.
func nextShape(current string) string {
	shapes := model.AllShapes()
	if current == "" {
		return shapes[0].String()
	}
	next := model.ShapeOrder(current) + 1
	if next >= len(shapes) {
		return ""
	}
	return shapes[next].String()
}
