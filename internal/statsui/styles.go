package statsui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorInk    = lipgloss.Color("#EDE6D6")
	colorDim    = lipgloss.Color("#8A8478")
	colorRule   = lipgloss.Color("#3F3A33")
	colorAccent = lipgloss.Color("#D9534F")
	colorGold   = lipgloss.Color("#C89A3A")
)

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(border)
}

var (
	tabActiveStyle   = boxed(colorGold).Foreground(colorInk).Bold(true)
	tabInactiveStyle = boxed(colorRule).Foreground(colorDim)
	dimStyle         = lipgloss.NewStyle().Foreground(colorDim)
	alertStyle       = lipgloss.NewStyle().Foreground(colorAccent)
	cardStyle        = boxed(colorRule)
	cardLabelStyle   = lipgloss.NewStyle().Foreground(colorDim)
	cardFigureStyle  = lipgloss.NewStyle().Foreground(colorInk).Bold(true)
)

func recordTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Foreground(colorDim).
		Bold(true).
		PaddingRight(1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorRule)
	s.Cell = lipgloss.NewStyle().PaddingRight(1).Foreground(colorInk)
	s.Selected = lipgloss.NewStyle().Foreground(colorGold).Bold(true)
	return s
}
