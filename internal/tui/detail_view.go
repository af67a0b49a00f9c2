package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/cvdesk/internal/tui/detail"
)

const detailHelpText = "↑/↓ scroll • r retry • esc back • q quit"

func (m TableModel) renderDetailView() string {
	sections := []string{TitleStyle.Render("CV " + m.detail.ID())}

	switch m.detail.State() {
	case detail.StateLoading:
		sections = append(sections, m.spinner.View()+" Loading CV...")
	case detail.StateError:
		sections = append(sections,
			ErrorBannerStyle.Width(m.width).Render(m.detail.Message()),
			SubtleStyle.Render("Press r to retry"))
	default:
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections, SubtleStyle.Render(detailHelpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDetailBody renders a loaded CV. It is empty in any other state.
func renderDetailBody(m detail.Model, width int) string {
	if m.State() != detail.StateLoaded {
		return ""
	}
	d := m.Details()
	var b strings.Builder

	b.WriteString(SectionStyle.Render("PERSONAL"))
	b.WriteString("\n")
	writeField(&b, "Name", d.FullName)
	writeField(&b, "Position", d.Position)
	writeField(&b, "Score", fmt.Sprintf("%g", d.Score))
	writeField(&b, "Status", d.Status)
	writeField(&b, "Date of birth", d.DateOfBirth)
	writeField(&b, "Nationality", d.Nationality)
	writeField(&b, "Email", d.Email)
	writeField(&b, "Phone", d.Phone)
	writeField(&b, "Address", d.Address)

	writeSection(&b, "EDUCATION", len(d.Education), func(i int) string {
		e := d.Education[i]
		line := e.Degree + ", " + e.Institution
		if e.FieldOfStudy != "" {
			line += " (" + e.FieldOfStudy + ")"
		}
		return line + period(e.StartDate, e.EndDate)
	})
	writeSection(&b, "WORK EXPERIENCE", len(d.WorkExperience), func(i int) string {
		w := d.WorkExperience[i]
		return w.JobTitle + " at " + w.Company + period(w.StartDate, w.EndDate)
	})
	if len(d.Skills) > 0 {
		b.WriteString("\n" + SectionStyle.Render("SKILLS") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(max(width-2, 1)).Render("  " + strings.Join(d.Skills, ", ")))
		b.WriteString("\n")
	}
	writeSection(&b, "CERTIFICATIONS", len(d.Certifications), func(i int) string {
		c := d.Certifications[i]
		if c.IssuingOrganization == "" {
			return c.Name
		}
		return c.Name + " (" + c.IssuingOrganization + ")"
	})
	writeSection(&b, "LANGUAGES", len(d.Languages), func(i int) string {
		l := d.Languages[i]
		if l.Proficiency == "" {
			return l.Language
		}
		return l.Language + " " + l.Proficiency
	})
	writeSection(&b, "MILITARY EXPERIENCE", len(d.MilitaryExperience), func(i int) string {
		x := d.MilitaryExperience[i]
		line := x.Rank
		if x.Branch != "" {
			line += ", " + x.Branch
		}
		line += period(x.StartDate, x.EndDate)
		for _, duty := range x.Duties {
			line += "\n      - " + duty
		}
		return line
	})

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(LabelStyle.Render(fmt.Sprintf("  %-14s", label+":")))
	b.WriteString(ValueStyle.Render(value))
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, title string, n int, line func(int) string) {
	if n == 0 {
		return
	}
	b.WriteString("\n" + SectionStyle.Render(title) + "\n")
	for i := range n {
		b.WriteString("  • " + line(i) + "\n")
	}
}

func period(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return " [" + start + " - present]"
	default:
		return " [" + start + " - " + end + "]"
	}
}
