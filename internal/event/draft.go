package event

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is a recurrence frequency for a draft. The zero value means the
// event does not repeat.
type Frequency string

const (
	FreqNone    Frequency = ""
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
)

// Frequencies lists the selectable frequencies in UI order.
func Frequencies() []Frequency {
	return []Frequency{FreqNone, FreqDaily, FreqWeekly, FreqMonthly, FreqYearly}
}

func (f Frequency) Valid() bool {
	switch f {
	case FreqNone, FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
		return true
	}
	return false
}

// String returns a human-readable label, "one-time" for the zero value.
func (f Frequency) String() string {
	if f == FreqNone {
		return "one-time"
	}
	return string(f)
}

// ValidationError reports the first draft invariant that does not hold.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Draft is the in-memory, unsaved representation of the event being
// composed. It is a plain value: handlers take a Draft and return a Draft,
// the UI reads and writes concrete fields only at the boundary.
type Draft struct {
	Title       string
	Description string

	// Start and End are full instants in the local zone, composed from the
	// form's separate date and time fields.
	Start time.Time
	End   time.Time

	Recurring Frequency

	// RecurringEnd is a date (midnight, local zone). Zero means no end
	// bound. Only meaningful when Recurring is set.
	RecurringEnd time.Time
}

// New builds a partially-filled draft from the captured tab info, defaulting
// the start to now (minute precision) and the end to start plus duration.
func New(now time.Time, duration time.Duration, title, url string) Draft {
	start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	d := Draft{
		Title: title,
		Start: start,
		End:   start.Add(duration),
	}
	if url != "" {
		d.Description = fmt.Sprintf("Source: %s", url)
	}
	return d
}

// DefaultRecurringEnd is the recurrence-end default applied when a frequency
// is first selected: one month after the start date.
func DefaultRecurringEnd(start time.Time) time.Time {
	y, m, day := start.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
}

// Validate checks every draft invariant and returns a *ValidationError for
// the first one violated, or nil.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Reason: "event title is required"}
	}
	if d.Start.IsZero() {
		return &ValidationError{Reason: "event date and time are required"}
	}
	if d.End.IsZero() {
		return &ValidationError{Reason: "event end date and time are required"}
	}
	if !d.End.After(d.Start) {
		return &ValidationError{Reason: "event end must be after the start"}
	}
	if !d.Recurring.Valid() {
		return &ValidationError{Reason: fmt.Sprintf("unknown recurrence frequency %q", string(d.Recurring))}
	}
	if d.Recurring != FreqNone && !d.RecurringEnd.IsZero() {
		y, m, day := d.Start.Date()
		startDay := time.Date(y, m, day, 0, 0, 0, 0, d.Start.Location())
		if d.RecurringEnd.Before(startDay) {
			return &ValidationError{Reason: "recurring end date must be after the event start date"}
		}
	}
	return nil
}

// RecurrenceRule encodes the draft's recurrence as an RFC 5545 RRULE string,
// or "" when the draft does not repeat. When a recurrence end date is set the
// UNTIL bound is made inclusive by advancing the date one day before
// formatting it as a time-stripped UTC timestamp, so occurrences on the end
// date itself are kept.
func (d Draft) RecurrenceRule() string {
	if d.Recurring == FreqNone {
		return ""
	}
	rule := "RRULE:FREQ=" + strings.ToUpper(string(d.Recurring))
	if !d.RecurringEnd.IsZero() {
		y, m, day := d.RecurringEnd.Date()
		until := time.Date(y, m, day+1, 0, 0, 0, 0, time.UTC)
		rule += ";UNTIL=" + until.Format("20060102T150405") + "Z"
	}
	return rule
}
