package tui

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("212")
	ColorError     = lipgloss.Color("196")
	ColorSelected  = lipgloss.Color("57")
)

// Styles.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorHeader).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(ColorSelected)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(ColorError).
				Bold(true).
				Padding(0, 1)

	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	EmptyStyle  = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	SortStyle   = lipgloss.NewStyle().Foreground(ColorHighlight)

	SectionStyle = lipgloss.NewStyle().Foreground(ColorHeader).Underline(true)
)
