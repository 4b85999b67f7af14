package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDatePickerClampsDayOnMonthChange(t *testing.T) {
	p := NewDatePicker(time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local))
	p.Focus()

	// Move focus to the month segment, then step it forward.
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyLeft})
	p, changed := p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if !changed {
		t.Fatal("month step reported no change")
	}

	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)
	if got := p.Value(); !got.Equal(want) {
		t.Fatalf("Value() = %v, want %v", got, want)
	}
}

func TestDatePickerDayWrapsWithinMonth(t *testing.T) {
	p := NewDatePicker(time.Date(2024, 4, 30, 0, 0, 0, 0, time.Local))
	p.Focus()

	p, changed := p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if !changed {
		t.Fatal("day step reported no change")
	}
	if got := p.Value().Day(); got != 1 {
		t.Fatalf("day = %d, want wrap to 1", got)
	}
}

func TestDatePickerIgnoresKeysWhenBlurred(t *testing.T) {
	start := time.Date(2024, 4, 15, 0, 0, 0, 0, time.Local)
	p := NewDatePicker(start)

	p, changed := p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if changed {
		t.Fatal("blurred picker reported a change")
	}
	if got := p.Value(); !got.Equal(start) {
		t.Fatalf("Value() = %v, want unchanged %v", got, start)
	}
}

func TestTimePickerWraps(t *testing.T) {
	p := NewTimePicker(time.Date(2024, 4, 15, 23, 0, 0, 0, time.Local))
	p.Focus()

	p, changed := p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if !changed {
		t.Fatal("hour step reported no change")
	}
	if p.Hour() != 0 {
		t.Fatalf("hour = %d, want wrap to 0", p.Hour())
	}

	// Minutes step by five and wrap within the hour.
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRight})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.Minute() != 55 {
		t.Fatalf("minute = %d, want 55", p.Minute())
	}
	if p.Hour() != 0 {
		t.Fatalf("hour = %d, want unchanged", p.Hour())
	}
}
