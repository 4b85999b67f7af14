package event

import (
	"strings"
	"testing"
	"time"

	"github.com/teambition/rrule-go"
)

func draftAt(t *testing.T, start string) Draft {
	t.Helper()
	s, err := time.ParseInLocation("2006-01-02 15:04", start, time.Local)
	if err != nil {
		t.Fatalf("bad start %q: %v", start, err)
	}
	return Draft{
		Title: "Team Sync",
		Start: s,
		End:   s.Add(time.Hour),
	}
}

func TestNewFromTab(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 30, 42, 123, time.Local)

	d := New(now, time.Hour, "Team Sync", "https://x.com/doc")
	if d.Title != "Team Sync" {
		t.Fatalf("title = %q", d.Title)
	}
	if d.Description != "Source: https://x.com/doc" {
		t.Fatalf("description = %q", d.Description)
	}
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)
	if !d.Start.Equal(want) {
		t.Fatalf("start = %v, want %v (minute precision)", d.Start, want)
	}
	if !d.End.Equal(want.Add(time.Hour)) {
		t.Fatalf("end = %v, want start+1h", d.End)
	}
}

func TestNewWithoutURLLeavesDescriptionEmpty(t *testing.T) {
	d := New(time.Now(), time.Hour, "Untitled", "")
	if d.Description != "" {
		t.Fatalf("description = %q, want empty", d.Description)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(d *Draft) {},
		},
		{
			name:    "empty_title",
			mutate:  func(d *Draft) { d.Title = "" },
			wantErr: "title",
		},
		{
			name:    "whitespace_title",
			mutate:  func(d *Draft) { d.Title = "   \t" },
			wantErr: "title",
		},
		{
			name:    "end_equals_start",
			mutate:  func(d *Draft) { d.End = d.Start },
			wantErr: "end must be after",
		},
		{
			name:    "end_before_start",
			mutate:  func(d *Draft) { d.End = d.Start.Add(-time.Minute) },
			wantErr: "end must be after",
		},
		{
			name:    "zero_start",
			mutate:  func(d *Draft) { d.Start = time.Time{} },
			wantErr: "date and time are required",
		},
		{
			name:    "unknown_frequency",
			mutate:  func(d *Draft) { d.Recurring = Frequency("fortnightly") },
			wantErr: "unknown recurrence frequency",
		},
		{
			name: "recurring_end_before_start",
			mutate: func(d *Draft) {
				d.Recurring = FreqWeekly
				d.RecurringEnd = d.Start.AddDate(0, 0, -1)
			},
			wantErr: "recurring end date",
		},
		{
			name: "recurring_end_on_start_date_ok",
			mutate: func(d *Draft) {
				d.Recurring = FreqWeekly
				y, m, day := d.Start.Date()
				d.RecurringEnd = time.Date(y, m, day, 0, 0, 0, 0, d.Start.Location())
			},
		},
		{
			name: "recurring_without_end_ok",
			mutate: func(d *Draft) {
				d.Recurring = FreqDaily
			},
		},
	}

	for _, test := range tests {
		d := draftAt(t, "2024-01-15 09:30")
		test.mutate(&d)
		err := d.Validate()
		if test.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%s: expected error containing %q", test.name, test.wantErr)
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("%s: expected *ValidationError, got %T", test.name, err)
		}
		if !strings.Contains(verr.Reason, test.wantErr) {
			t.Fatalf("%s: error %q does not mention %q", test.name, verr.Reason, test.wantErr)
		}
	}
}

func TestDefaultRecurringEnd(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.Local)
	got := DefaultRecurringEnd(start)
	want := time.Date(2024, 2, 15, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("DefaultRecurringEnd = %v, want %v", got, want)
	}
}

func TestRecurrenceRule(t *testing.T) {
	d := draftAt(t, "2024-03-04 10:00")

	if rule := d.RecurrenceRule(); rule != "" {
		t.Fatalf("non-recurring draft produced rule %q", rule)
	}

	d.Recurring = FreqDaily
	if rule := d.RecurrenceRule(); rule != "RRULE:FREQ=DAILY" {
		t.Fatalf("rule = %q", rule)
	}

	d.Recurring = FreqWeekly
	d.RecurringEnd = time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	if rule := d.RecurrenceRule(); rule != "RRULE:FREQ=WEEKLY;UNTIL=20240311T000000Z" {
		t.Fatalf("rule = %q", rule)
	}
}

// The UNTIL bound is inclusive: an occurrence falling on the recurrence end
// date itself must survive rule expansion.
func TestRecurrenceRuleUntilIsInclusive(t *testing.T) {
	d := Draft{
		Title:        "standup",
		Start:        time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 3, 3, 10, 30, 0, 0, time.UTC),
		Recurring:    FreqWeekly,
		RecurringEnd: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	rule := d.RecurrenceRule()
	r, err := rrule.StrToRRule(strings.TrimPrefix(rule, "RRULE:"))
	if err != nil {
		t.Fatalf("generated rule %q does not parse: %v", rule, err)
	}
	r.DTStart(d.Start)

	occurrences := r.All()
	found := false
	for _, occ := range occurrences {
		if occ.Year() == 2024 && occ.Month() == time.March && occ.Day() == 10 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an occurrence on the end date, got %v", occurrences)
	}
}
