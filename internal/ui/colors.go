package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/renamer/internal/path"
)

// Theme colors - these are variables so ApplyTheme can swap them
var (
	colText     lipgloss.Color
	colGray     lipgloss.Color
	colSelected lipgloss.Color
	colAccent   lipgloss.Color
	colSuccess  lipgloss.Color
	colWarning  lipgloss.Color
	colDanger   lipgloss.Color
	colBorder   lipgloss.Color
)

var (
	titleStyle    lipgloss.Style
	headerStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	mutedStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	errorStyle    lipgloss.Style
	stateStyles   map[path.State]lipgloss.Style
)

func init() {
	ApplyTheme(true)
}

// ApplyTheme selects the dark or light palette and rebuilds the styles.
func ApplyTheme(dark bool) {
	if dark {
		colText = lipgloss.Color("#E5E7EB")
		colGray = lipgloss.Color("#6B7280")
		colSelected = lipgloss.Color("#1F2937")
		colBorder = lipgloss.Color("#374151")
	} else {
		colText = lipgloss.Color("#111827")
		colGray = lipgloss.Color("#6B7280")
		colSelected = lipgloss.Color("#DBEAFE")
		colBorder = lipgloss.Color("#D1D5DB")
	}
	colAccent = lipgloss.Color("#4285F4")
	colSuccess = lipgloss.Color("#28A745")
	colWarning = lipgloss.Color("#F59E0B")
	colDanger = lipgloss.Color("#DC3545")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colText).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colBorder)
	selectedStyle = lipgloss.NewStyle().Background(colSelected).Foreground(colAccent).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colGray)
	statusStyle = lipgloss.NewStyle().Foreground(colText).Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(colDanger).Bold(true)

	stateStyles = map[path.State]lipgloss.Style{
		path.Initial:     mutedStyle,
		path.Ready:       lipgloss.NewStyle().Foreground(colAccent),
		path.SameNewName: lipgloss.NewStyle().Foreground(colWarning).Bold(true),
		path.Success:     lipgloss.NewStyle().Foreground(colSuccess),
		path.Failure:     errorStyle,
	}
}
