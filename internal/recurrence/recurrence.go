// Package recurrence decides whether a chore currently counts as completed.
// All functions are pure: they look only at the chore record and the moment
// passed in, never at the wall clock.
package recurrence

import (
	"time"

	"github.com/rowanfield/choresheet/internal/model"
)

const (
	weekWindow    = 7 * 24 * time.Hour
	quarterWindow = 90 * 24 * time.Hour
)

// IsCompleted reports whether the chore counts as completed at the given
// moment, for display and tab-filtering purposes.
//
// One-time chores track their stored flag directly. Weekly chores with
// specific days consult the completion history for today: a day the chore is
// not scheduled on reports false, the same as not done. Everything else
// compares the last completion against a per-frequency window. A manual
// un-toggle (stored flag false) always wins.
func IsCompleted(c model.Chore, now time.Time) bool {
	if c.Frequency == model.OneTime {
		return c.Completed
	}

	if c.AdvancedWeekly() {
		if !c.ScheduledOn(now.Weekday()) {
			return false
		}
		return CompletedOn(c, now)
	}

	if !c.Completed {
		return false
	}
	if c.LastCompletedAt == 0 {
		// Stored flag says done but there is no timestamp to window
		// against. Should not happen; trust the flag.
		return true
	}

	last := model.FromMillis(c.LastCompletedAt)
	switch c.Frequency {
	case model.Daily:
		return SameDay(last, now)
	case model.Weekly:
		return now.Sub(last) < weekWindow
	case model.Monthly:
		return last.Month() == now.Month() && last.Year() == now.Year()
	case model.Quarterly:
		return now.Sub(last) < quarterWindow
	}
	return true
}

// CompletedOn reports whether the completion history holds an entry on the
// same calendar day as t.
func CompletedOn(c model.Chore, t time.Time) bool {
	for _, ts := range c.CompletionHistory {
		if SameDay(model.FromMillis(ts), t) {
			return true
		}
	}
	return false
}

// SameDay reports whether two times fall on the same local calendar day.
// The comparison is by date components, not elapsed time: one millisecond
// across midnight is a different day, 23 hours inside one day is not.
func SameDay(a, b time.Time) bool {
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}

// StartOfDay truncates a time to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns local midnight of the Sunday beginning the week
// containing t.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// DateForWeekday returns local midnight of the given weekday within the
// calendar week containing now (weeks start Sunday).
func DateForWeekday(now time.Time, day time.Weekday) time.Time {
	return StartOfWeek(now).AddDate(0, 0, int(day))
}

// DueState classifies a one-time chore's due date for display urgency.
type DueState int

const (
	NoDueDate DueState = iota
	Overdue
	DueToday
	Upcoming
)

// DueStateAt classifies the chore's due date relative to now. Only one-time
// chores carry a due date; completion is unaffected either way.
func DueStateAt(c model.Chore, now time.Time) DueState {
	if c.Frequency != model.OneTime || c.DueDate == 0 {
		return NoDueDate
	}
	due := model.FromMillis(c.DueDate)
	switch {
	case SameDay(due, now):
		return DueToday
	case due.Before(now):
		return Overdue
	}
	return Upcoming
}
