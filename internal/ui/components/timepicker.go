package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type timeField int

const (
	timeFieldHour timeField = iota
	timeFieldMinute
)

// TimePicker is a scrollable 24-hour clock picker (15:04) with the focused
// segment highlighted.
type TimePicker struct {
	hour    int // 0-23
	minute  int // 0-59
	focused bool
	field   timeField
}

// NewTimePicker returns a picker set to the time-of-day part of t, focused on
// the hour segment.
func NewTimePicker(t time.Time) TimePicker {
	return TimePicker{
		hour:   t.Hour(),
		minute: t.Minute(),
		field:  timeFieldHour,
	}
}

func (p *TimePicker) Focus() { p.focused = true }

func (p *TimePicker) Blur() { p.focused = false }

func (p TimePicker) Focused() bool { return p.focused }

// SetTime moves the picker to the time-of-day part of t.
func (p *TimePicker) SetTime(t time.Time) {
	p.hour = t.Hour()
	p.minute = t.Minute()
}

func (p TimePicker) Hour() int { return p.hour }

func (p TimePicker) Minute() int { return p.minute }

// Update handles key messages. It returns true when the picked time changed.
func (p TimePicker) Update(msg tea.Msg) (TimePicker, bool) {
	if !p.focused {
		return p, false
	}
	beforeHour, beforeMinute := p.hour, p.minute
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k", "+":
			p.shift(1)
		case "down", "j", "-":
			p.shift(-1)
		case "left", "h":
			p.field = timeFieldHour
		case "right", "l":
			p.field = timeFieldMinute
		}
	}
	return p, p.hour != beforeHour || p.minute != beforeMinute
}

func (p *TimePicker) shift(delta int) {
	switch p.field {
	case timeFieldHour:
		p.hour = (p.hour + delta + 24) % 24
	case timeFieldMinute:
		// Minutes step in 5-minute increments and wrap within the hour.
		p.minute = (p.minute + delta*5 + 60) % 60
	}
}

func (p TimePicker) View() string {
	hourStr := fmt.Sprintf("%02d", p.hour)
	minuteStr := fmt.Sprintf("%02d", p.minute)

	if !p.focused {
		dim := lipgloss.NewStyle().Foreground(Muted)
		return dim.Render(hourStr + ":" + minuteStr)
	}

	normal := lipgloss.NewStyle().Foreground(Text)
	active := lipgloss.NewStyle().Foreground(Text).Background(Primary).Bold(true)

	segment := func(field timeField, s string) string {
		if p.field == field {
			return active.Render(s)
		}
		return normal.Render(s)
	}
	return segment(timeFieldHour, hourStr) + normal.Render(":") + segment(timeFieldMinute, minuteStr)
}
