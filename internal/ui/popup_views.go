package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tabcal/internal/event"
	"tabcal/internal/ui/components"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.Muted).
			Padding(1, 2).
			Width(50)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(components.Primary).
			MarginBottom(1)

	labelStyle   = lipgloss.NewStyle().Width(12).Foreground(components.Muted)
	focusedLabel = lipgloss.NewStyle().Width(12).Foreground(components.Primary)
	helpStyle    = lipgloss.NewStyle().Foreground(components.Muted)
	errorStyle   = lipgloss.NewStyle().Foreground(components.Danger)
	successStyle = lipgloss.NewStyle().Foreground(components.Success)
	valueStyle   = lipgloss.NewStyle().Foreground(components.Text)
	mutedValue   = lipgloss.NewStyle().Foreground(components.Muted).Italic(true)
)

func (m *Popup) View() string {
	switch m.state {
	case statePreviewing:
		return boxStyle.Render(m.renderPreview())
	case stateSubmitting:
		return boxStyle.Render(m.renderForm() + "\n" + helpStyle.Render("Creating event..."))
	case stateDone:
		return boxStyle.Render(m.renderDone())
	default:
		return boxStyle.Render(m.renderForm())
	}
}

func (m *Popup) renderForm() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("New Event"))
	b.WriteString("\n\n")

	writeField := func(idx int, label, view string) {
		style := labelStyle
		if m.focusIdx == idx {
			style = focusedLabel
		}
		b.WriteString(style.Render(label))
		b.WriteString(view)
		b.WriteString("\n")
	}

	writeField(focusTitle, "Title:", m.title.View())
	writeField(focusDescription, "Description:", m.description.View())
	writeField(focusDate, "Date:", m.date.View())
	writeField(focusStart, "Start:", m.start.View())
	writeField(focusEndDate, "End date:", m.endDate.View())
	writeField(focusEnd, "End:", m.end.View())
	writeField(focusRecurring, "Repeat:", m.renderFrequency())
	if m.recurringEndVisible() {
		writeField(focusRecurringEnd, "Repeat until:", m.recurringEnd.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderButtons())
	b.WriteString("\n")

	if line := m.renderNotice(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !m.signedIn {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Not signed in. Creating will open your browser to sign in."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab: next field  Ctrl+P: preview  Ctrl+S: create  Esc: quit"))

	return b.String()
}

func (m *Popup) renderFrequency() string {
	style := lipgloss.NewStyle()
	if m.focusIdx == focusRecurring {
		style = style.Background(components.Primary).Foreground(components.Text)
	}
	return style.Render("◀ " + m.frequency().String() + " ▶")
}

func (m *Popup) renderButtons() string {
	button := func(idx int, label string) string {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(components.Text)
		if m.focusIdx == idx {
			style = style.Background(components.Primary).Bold(true)
		} else {
			style = style.Background(components.Muted)
		}
		return style.Render(label)
	}
	return button(focusPreview, "Preview") + "  " + button(focusCreate, "Create")
}

func (m *Popup) renderPreview() string {
	var b strings.Builder
	draft := m.draft()

	b.WriteString(headerStyle.Render("Preview"))
	b.WriteString("\n\n")

	b.WriteString(valueStyle.Bold(true).Render(draft.Title))
	b.WriteString("\n\n")

	b.WriteString(valueStyle.Render(previewWhen(draft)))
	b.WriteString("\n")

	b.WriteString(valueStyle.Render(previewRepeats(draft)))
	b.WriteString("\n\n")

	if draft.Description == "" {
		b.WriteString(mutedValue.Render("No description"))
	} else {
		b.WriteString(valueStyle.Render(draft.Description))
	}
	b.WriteString("\n")

	if line := m.renderNotice(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: create  Esc: back to edit  q: quit"))

	return b.String()
}

func (m *Popup) renderDone() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("New Event"))
	b.WriteString("\n\n")
	b.WriteString(successStyle.Render("✓ Event created"))
	return b.String()
}

func (m *Popup) renderNotice() string {
	switch m.notice.kind {
	case noticeError:
		return errorStyle.Render(m.notice.text)
	case noticeSuccess:
		return successStyle.Render(m.notice.text)
	}
	return ""
}

// previewWhen renders the event window in long form, collapsing the end to
// its clock time when both halves land on the same day.
func previewWhen(d event.Draft) string {
	start := d.Start.Format("Monday, January 2, 2006 at 3:04 PM")
	if sameDay(d.Start, d.End) {
		return start + " - " + d.End.Format("3:04 PM")
	}
	return start + " - " + d.End.Format("Monday, January 2, 2006 at 3:04 PM")
}

func previewRepeats(d event.Draft) string {
	if d.Recurring == event.FreqNone {
		return "One-time event"
	}
	s := "Repeats " + string(d.Recurring)
	if !d.RecurringEnd.IsZero() {
		s += " until " + d.RecurringEnd.Format("January 2, 2006")
	}
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
