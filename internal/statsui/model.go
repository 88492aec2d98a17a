// Package statsui provides the Bubble Tea statistics browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/stats"
)

const (
	tabOverview = iota
	tabRecords
	tabRanges
)

var tabTitles = [...]string{"Overview", "Records", "Ranges"}

const noStatistics = "No statistics found."

// Model browses the statistics store in three tabs.
type Model struct {
	ctx     context.Context
	backend stats.Backend
	cfg     model.StatsConfig
	keys    keyMap
	help    help.Model

	report  stats.Report
	loadErr error

	activeTab int
	pages     [len(tabTitles)]viewport.Model
	records   table.Model

	width  int
	height int

	filtering bool
	filter    textinput.Model
}

// NewModel loads the store once and returns the browser.
func NewModel(ctx context.Context, backend stats.Backend, cfg model.StatsConfig) *Model {
	m := &Model{
		ctx:     ctx,
		backend: backend,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		help:    help.New(),
		filter:  newFilterInput(),
		records: table.New(table.WithHeight(1), table.WithStyles(recordTableStyles())),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	m.reload()
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
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.fillPages()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return m, tea.ClearScreen
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return m, tea.ClearScreen
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.SetValue(m.cfg.KeyFilter)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Reload):
		m.reload()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		if m.activeTab == tabRecords {
			m.records.GotoTop()
		} else {
			m.pages[m.activeTab].GotoTop()
		}
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		if m.activeTab == tabRecords {
			m.records.GotoBottom()
		} else {
			m.pages[m.activeTab].GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.activeTab == tabRecords {
		m.records, cmd = m.records.Update(msg)
	} else {
		m.pages[m.activeTab], cmd = m.pages[m.activeTab].Update(msg)
	}
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeFilter()
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		m.cfg.KeyFilter = strings.TrimSpace(m.filter.Value())
		m.closeFilter()
		m.reload()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.filter.Blur()
	m.resize()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	head, body, foot := m.heights()
	return strings.Join([]string{
		frame(m.viewHeader(), m.width, head),
		frame(m.viewBody(), m.width, body),
		frame(m.viewFooter(), m.width, foot),
	}, "\n")
}

// heights splits the terminal into header, body and footer rows.
func (m *Model) heights() (head, body, foot int) {
	head = max(1, lipgloss.Height(tabActiveStyle.Render(tabTitles[0]))) + 1
	foot = 1
	if !m.filtering && m.loadErr != nil {
		foot = 2
	}
	body = max(1, m.height-head-foot)
	return head, body, foot
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.heights()
	for i := range m.pages {
		m.pages[i].Width = m.width
		m.pages[i].Height = body
	}
	m.records.SetWidth(m.width)
	m.records.SetHeight(max(1, body-1))
	m.filter.Width = max(10, m.width-lipgloss.Width(m.filter.Prompt)-2)
	m.help.Width = m.width
}

func (m *Model) switchTab(delta int) {
	n := len(tabTitles)
	m.activeTab = ((m.activeTab+delta)%n + n) % n
	if m.activeTab == tabRecords {
		m.records.Focus()
	} else {
		m.records.Blur()
	}
}

func (m *Model) viewHeader() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		style := tabInactiveStyle
		if i == m.activeTab {
			style = tabActiveStyle
		}
		tabs[i] = style.Render(title)
	}
	filter := m.cfg.KeyFilter
	if filter == "" {
		filter = "any"
	}
	status := fmt.Sprintf("Filter: key=%s  records=%d  version=%d", filter, len(m.report.Records), m.report.Version)
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + dimStyle.Render(truncateLine(status, m.width))
}

func (m *Model) viewFooter() string {
	if m.filtering {
		return m.help.ShortHelpView(m.keys.filterHelp())
	}
	out := m.help.ShortHelpView(m.keys.browseHelp())
	if m.loadErr != nil {
		out += "\n" + alertStyle.Render(m.loadErr.Error())
	}
	return out
}

func (m *Model) viewBody() string {
	switch {
	case m.filtering:
		return "Show keys containing (enter to apply, esc to cancel)\n" + m.filter.View()
	case m.activeTab == tabRecords && m.loadErr == nil:
		if len(m.report.Records) == 0 {
			return noStatistics
		}
		return m.records.View()
	default:
		return m.pages[m.activeTab].View()
	}
}

// reload reads the store again with the current filter.
func (m *Model) reload() {
	report, err := stats.BuildReport(m.ctx, m.backend, m.cfg)
	m.loadErr = err
	if err != nil {
		for i := range m.pages {
			m.pages[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.report = report
	m.records.SetRows(nil)
	m.records.SetColumns(recordColumns(report.Records))
	m.records.SetRows(recordRows(report.Records))
	m.records.GotoTop()
	m.fillPages()
}

func (m *Model) fillPages() {
	if m.loadErr != nil {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.pages[tabOverview].SetContent(overview(m.report.Records, width))
	m.pages[tabRanges].SetContent(ranges(m.report.Records, width))
}

func overview(records []model.Record, width int) string {
	if len(records) == 0 {
		return noStatistics
	}
	drills := 0
	weighted := 0.0
	for _, rec := range records {
		drills += rec.Count
		weighted += rec.AverageMs * float64(rec.Count)
	}
	avg, slowest := "-", "-"
	if drills > 0 {
		avg = stats.FormatMs(weighted / float64(drills))
	}
	if keys := stats.SlowestKeys(records, 1); len(keys) == 1 {
		slowest = keys[0]
	}
	cards := []string{
		card("Keys", strconv.Itoa(len(records))),
		card("Drills", strconv.Itoa(drills)),
		card("Avg ms/entry", avg),
		card("Slowest", slowest),
	}
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardFigureStyle.Render(value))
}

func ranges(records []model.Record, width int) string {
	if len(records) == 0 {
		return noStatistics
	}
	var buf bytes.Buffer
	if err := stats.PlotRangesWithColor(&buf, "", records, width, true); err != nil {
		return fmt.Sprintf("Failed to render ranges: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func recordColumns(records []model.Record) []table.Column {
	keyWidth := runewidth.StringWidth(stats.RecordHeaders[0])
	for _, rec := range records {
		keyWidth = max(keyWidth, runewidth.StringWidth(rec.Key))
	}
	cols := make([]table.Column, len(stats.RecordHeaders))
	for i, title := range stats.RecordHeaders {
		cols[i] = table.Column{Title: title, Width: max(9, runewidth.StringWidth(title))}
	}
	cols[0].Width = keyWidth
	return cols
}

func recordRows(records []model.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, row := range stats.RecordRows(records) {
		rows = append(rows, table.Row(row))
	}
	return rows
}

func newFilterInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "Key contains: "
	in.Cursor.SetMode(cursor.CursorBlink)
	return in
}
