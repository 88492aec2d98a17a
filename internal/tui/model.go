// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/glyphdrill/internal/practice"
	statsPkg "github.com/verte-zerg/glyphdrill/internal/stats"
)

// Options selects the kind of drill and the requests used to build it.
type Options struct {
	Kind   practice.DrillKind
	Glyph  practice.GlyphDrillRequest
	Word   practice.WordDrillRequest
	Logger *zap.Logger
}

// Model implements the Bubble Tea drill UI.
type Model struct {
	ctx    context.Context
	svc    *practice.Service
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	width  int
	height int

	drill     practice.Drill
	hidden    practice.Field
	states    []cellState
	cursor    int
	startedAt time.Time

	finished bool
	result   statsPkg.Result
	hasLast  bool
	err      error
}

var (
	revealedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	peekedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

const noEntries = "No entries matched the requested tags."

// NewModel constructs a drill TUI model and generates the first drill.
func NewModel(ctx context.Context, svc *practice.Service, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		ctx:    ctx,
		svc:    svc,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
	if err := m.resetDrill(); err != nil {
		return nil, err
	}
	return m, nil
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
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.move(-1)
		case "right", "l":
			m.move(1)
		case "up", "k":
			m.move(-m.columns())
		case "down", "j":
			m.move(m.columns())
		case " ", "space", "enter":
			m.reveal(false)
		case "p":
			m.reveal(true)
		case "n":
			if err := m.resetDrill(); err != nil {
				m.err = err
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.drill.Entries) == 0 {
		return m.viewEmpty()
	}
	cells := buildCells(m.drill.Entries, m.states, m.hidden, m.cursor)
	entry := m.drill.Entries[m.cursor]
	detail := detailStyle.Render(renderDetail(entry, m.hidden, m.states[m.cursor].done()))
	if m.width == 0 || m.height == 0 {
		return wrapCells(cells, 0) + "\n\n" + detail
	}
	contentWidth := m.contentWidth()
	grid := lipgloss.NewStyle().Width(contentWidth).Render(wrapCells(cells, contentWidth))
	content := lipgloss.JoinVertical(lipgloss.Left, grid, "", detail)
	return m.place(content, m.renderFooter())
}

// viewEmpty is shown when no pool entry matched the drill's tag quotas.
func (m *Model) viewEmpty() string {
	content := detailStyle.Render(noEntries)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	return m.place(content, footer)
}

func (m *Model) place(content, footer string) string {
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	width := int(float64(m.width) * 0.70)
	if width < 1 {
		width = 1
	}
	return width
}

func (m *Model) columns() int {
	width := 0
	if m.width > 0 {
		width = m.contentWidth()
	}
	cells := buildCells(m.drill.Entries, m.states, m.hidden, -1)
	return gridColumns(cells, width)
}

func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.drill.Entries) {
		return
	}
	m.cursor = next
}

// reveal completes the entry under the cursor. A peek is counted even when
// the entry was already revealed.
func (m *Model) reveal(peek bool) {
	if m.finished || len(m.states) == 0 {
		return
	}
	st := &m.states[m.cursor]
	if peek {
		st.peeked = true
	} else {
		st.revealed = true
	}
	if m.completed() == len(m.states) {
		m.finishDrill()
	}
}

func (m *Model) completed() int {
	n := 0
	for _, st := range m.states {
		if st.done() {
			n++
		}
	}
	return n
}

func (m *Model) peeked() int {
	n := 0
	for _, st := range m.states {
		if st.peeked {
			n++
		}
	}
	return n
}

func (m *Model) resetDrill() error {
	var (
		drill practice.Drill
		err   error
	)
	if m.opts.Kind == practice.DrillWords {
		drill, err = m.svc.GenerateWordDrill(m.ctx, m.opts.Word)
	} else {
		drill, err = m.svc.GenerateGlyphDrill(m.ctx, m.opts.Glyph)
	}
	if err != nil {
		m.logger.Error("failed to generate drill", zap.Error(err))
		return err
	}
	m.drill = drill
	m.hidden = drill.Mode.Hidden
	m.states = make([]cellState, len(drill.Entries))
	m.cursor = 0
	m.finished = false
	m.err = nil
	m.startedAt = m.now()
	return nil
}

func (m *Model) finishDrill() {
	m.finished = true
	total := m.now().Sub(m.startedAt)
	req := m.drill.Observe(float64(total.Milliseconds()), m.peeked())
	res, err := m.svc.RecordObservation(m.ctx, req)
	if err != nil {
		m.err = err
		return
	}
	m.result = res
	m.hasLast = true
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("%s %d/%d", m.drill.Mode.Name, m.completed(), len(m.drill.Entries)),
	}
	if p := m.peeked(); p > 0 {
		segments = append(segments, fmt.Sprintf("Peeked %d", p))
	}
	if m.drill.Underfilled {
		segments = append(segments, fmt.Sprintf("Underfilled %d of %d", len(m.drill.Entries), m.drill.Requested))
	}
	if m.hasLast {
		r := m.result
		current := fmt.Sprintf("Current %s ms", statsPkg.FormatMs(r.CurrentMs))
		if !r.Persisted {
			current += " (not counted)"
		}
		segments = append(segments, current)
		if r.Count > 0 {
			segments = append(segments, fmt.Sprintf("Avg %s · Min %s · Max %s ms (%d drills)",
				statsPkg.FormatMs(r.AverageMs), statsPkg.FormatMs(r.MinMs), statsPkg.FormatMs(r.MaxMs), r.Count))
		} else {
			segments = append(segments, "First drill")
		}
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.err != nil {
		footer += "  " + errorStyle.Render(m.err.Error())
	}
	switch {
	case m.finished:
		footer += "  " + footerStyle.Render("n: new drill")
	case len(m.drill.Entries) == 0:
		footer += "  " + footerStyle.Render("n: retry · esc: quit")
	}
	return footer
}
