package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	emptyMessage   = "No CVs."
	loadingMessage = "Loading CVs..."
	helpText       = "←/h →/l page • enter details • s sort field • d direction • r refresh • x dismiss • q quit"
)

// View renders the model (Bubble Tea interface).
func (m TableModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}
	if m.state == ViewStateDetail {
		return m.renderDetailView()
	}

	sections := []string{TitleStyle.Render("CVs")}

	if m.notice != nil {
		sections = append(sections, ErrorBannerStyle.Width(m.width).Render(m.notice.Message))
	}

	switch {
	case m.state == ViewStateLoading:
		sections = append(sections, m.spinner.View()+" "+loadingMessage)
	case m.current.Empty():
		sections = append(sections, EmptyStyle.Render(emptyMessage))
	case len(m.current.Records) == 0 && !m.current.Loaded:
		// The first fetch failed; the banner says why.
	default:
		sections = append(sections, m.table.View())
	}

	sections = append(sections, m.renderStatusBar(), SubtleStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TableModel) renderStatusBar() string {
	meta := m.current.Meta
	parts := []string{
		LabelStyle.Render("Page ") + ValueStyle.Render(fmt.Sprintf("%d/%d", m.page.Index+1, max(meta.TotalPages, 1))),
		LabelStyle.Render("Total ") + ValueStyle.Render(fmt.Sprintf("%d", meta.TotalItems)),
	}

	sortLabel := "none"
	if m.sort.Active() {
		sortLabel = m.sort.String()
	}
	parts = append(parts, LabelStyle.Render("Sort ")+SortStyle.Render(sortLabel))

	if m.refreshing {
		parts = append(parts, m.spinner.View()+SubtleStyle.Render(" refreshing"))
	}
	return strings.Join(parts, SubtleStyle.Render(" │ "))
}
