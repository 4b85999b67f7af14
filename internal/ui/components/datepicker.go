package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dateField int

const (
	dateFieldYear dateField = iota
	dateFieldMonth
	dateFieldDay
)

// DatePicker is a scrollable calendar-date picker rendered as an ISO date
// (2006-01-02) with the focused segment highlighted.
type DatePicker struct {
	year    int
	month   int // 1-12
	day     int // 1-31
	focused bool
	field   dateField
}

// NewDatePicker returns a picker set to the given date, focused on the day
// segment.
func NewDatePicker(t time.Time) DatePicker {
	return DatePicker{
		year:  t.Year(),
		month: int(t.Month()),
		day:   t.Day(),
		field: dateFieldDay,
	}
}

func (d *DatePicker) Focus() { d.focused = true }

func (d *DatePicker) Blur() { d.focused = false }

func (d DatePicker) Focused() bool { return d.focused }

// SetDate moves the picker to the date part of t.
func (d *DatePicker) SetDate(t time.Time) {
	d.year = t.Year()
	d.month = int(t.Month())
	d.day = t.Day()
}

// Value returns the picked date at midnight in the local zone.
func (d DatePicker) Value() time.Time {
	return time.Date(d.year, time.Month(d.month), d.day, 0, 0, 0, 0, time.Local)
}

// Update handles key messages. It returns true when the picked date changed,
// so owners can react to date edits.
func (d DatePicker) Update(msg tea.Msg) (DatePicker, bool) {
	if !d.focused {
		return d, false
	}
	before := d.Value()
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k", "+":
			d.shift(1)
		case "down", "j", "-":
			d.shift(-1)
		case "left", "h":
			if d.field > dateFieldYear {
				d.field--
			}
		case "right", "l":
			if d.field < dateFieldDay {
				d.field++
			}
		}
	}
	return d, !d.Value().Equal(before)
}

func (d *DatePicker) shift(delta int) {
	switch d.field {
	case dateFieldYear:
		d.year += delta
	case dateFieldMonth:
		d.month += delta
		if d.month > 12 {
			d.month = 1
			d.year++
		}
		if d.month < 1 {
			d.month = 12
			d.year--
		}
	case dateFieldDay:
		max := d.daysInMonth()
		d.day += delta
		if d.day > max {
			d.day = 1
		}
		if d.day < 1 {
			d.day = d.daysInMonth()
		}
	}
	d.clampDay()
}

func (d DatePicker) daysInMonth() int {
	return time.Date(d.year, time.Month(d.month)+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func (d *DatePicker) clampDay() {
	if max := d.daysInMonth(); d.day > max {
		d.day = max
	}
	if d.day < 1 {
		d.day = 1
	}
}

func (d DatePicker) View() string {
	yearStr := fmt.Sprintf("%04d", d.year)
	monthStr := fmt.Sprintf("%02d", d.month)
	dayStr := fmt.Sprintf("%02d", d.day)

	if !d.focused {
		dim := lipgloss.NewStyle().Foreground(Muted)
		return dim.Render(yearStr + "-" + monthStr + "-" + dayStr)
	}

	normal := lipgloss.NewStyle().Foreground(Text)
	active := lipgloss.NewStyle().Foreground(Text).Background(Primary).Bold(true)

	segment := func(field dateField, s string) string {
		if d.field == field {
			return active.Render(s)
		}
		return normal.Render(s)
	}
	sep := normal.Render("-")
	return segment(dateFieldYear, yearStr) + sep + segment(dateFieldMonth, monthStr) + sep + segment(dateFieldDay, dayStr)
}
