package model

import "time"

// Frequency is how often a chore recurs. Values match the strings stored in
// the remote sheet, so they round-trip through sync unchanged.
type Frequency string

const (
	OneTime   Frequency = "One-time"
	Daily     Frequency = "Daily"
	Weekly    Frequency = "Weekly"
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
)

// Frequencies lists all valid values in display order.
var Frequencies = []Frequency{OneTime, Daily, Weekly, Monthly, Quarterly}

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case OneTime, Daily, Weekly, Monthly, Quarterly:
		return true
	}
	return false
}

// Unassigned is the sentinel assignee for chores not given to any member.
const Unassigned = "Unassigned"

// Chore is a unit of recurring or one-off work. All timestamps are epoch
// milliseconds, the unit used by the remote sheet rows.
type Chore struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Assignee        string    `json:"assignee"`
	Frequency       Frequency `json:"frequency"`
	Completed       bool      `json:"completed"`
	CreatedAt       int64     `json:"createdAt"`
	LastCompletedAt int64     `json:"lastCompletedAt,omitempty"`
	CompletionCount int       `json:"completionCount,omitempty"`

	// WeeklyDays holds weekday indices (0=Sunday..6=Saturday) for weekly
	// chores that recur on specific days. Kept sorted ascending on save.
	WeeklyDays []int `json:"weeklyDays"`

	// DueDate is only meaningful for one-time chores.
	DueDate int64 `json:"dueDate,omitempty"`

	// CompletionHistory is the authoritative record for advanced-weekly
	// chores, one timestamp per day completed. Informational for others.
	CompletionHistory []int64 `json:"completionHistory"`
}

// AdvancedWeekly reports whether the chore recurs on specific weekdays.
// A weekly chore with no days behaves as a plain rolling-7-day chore.
func (c Chore) AdvancedWeekly() bool {
	return c.Frequency == Weekly && len(c.WeeklyDays) > 0
}

// ScheduledOn reports whether an advanced-weekly chore recurs on the given
// weekday.
func (c Chore) ScheduledOn(day time.Weekday) bool {
	for _, d := range c.WeeklyDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Millis converts a time to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds back to a local time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
