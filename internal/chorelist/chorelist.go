// Package chorelist applies user actions to the chore collection. Every
// operation returns a new snapshot; prior slices are never mutated, so a
// caller can hold the old state for comparison or rollback.
package chorelist

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rowanfield/choresheet/internal/model"
	"github.com/rowanfield/choresheet/internal/recurrence"
)

// Draft carries the fields a user fills in when creating a chore.
type Draft struct {
	Title      string
	Assignee   string
	Frequency  model.Frequency
	WeeklyDays []int
	DueDate    int64
}

// Patch carries the fields of an edit. Nil fields are left unchanged.
type Patch struct {
	Title      *string
	Assignee   *string
	Frequency  *model.Frequency
	WeeklyDays []int
	DueDate    *int64
}

// Create prepends a new chore built from the draft. Most-recent-first is the
// display default, so new chores go to the front. A draft whose title trims
// to empty is rejected by returning the snapshot unchanged; validation
// belongs to the caller.
func Create(chores []model.Chore, d Draft, now time.Time) []model.Chore {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return chores
	}

	assignee := strings.TrimSpace(d.Assignee)
	if assignee == "" {
		assignee = model.Unassigned
	}

	c := model.Chore{
		ID:                uuid.NewString(),
		Title:             title,
		Assignee:          assignee,
		Frequency:         d.Frequency,
		CreatedAt:         model.Millis(now),
		WeeklyDays:        normalizeWeeklyDays(d.Frequency, d.WeeklyDays),
		DueDate:           normalizeDueDate(d.Frequency, d.DueDate),
		CompletionHistory: []int64{},
	}

	out := make([]model.Chore, 0, len(chores)+1)
	out = append(out, c)
	return append(out, chores...)
}

// Edit merges the patch into the chore matching id. Weekly days and due date
// are re-normalized against the (possibly new) frequency, so changing a
// weekly chore to daily drops its day schedule. Unknown ids no-op.
func Edit(chores []model.Chore, id string, p Patch) []model.Chore {
	return replace(chores, id, func(c model.Chore) model.Chore {
		if p.Title != nil {
			if t := strings.TrimSpace(*p.Title); t != "" {
				c.Title = t
			}
		}
		if p.Assignee != nil {
			c.Assignee = *p.Assignee
		}
		if p.Frequency != nil {
			c.Frequency = *p.Frequency
		}
		if p.WeeklyDays != nil {
			c.WeeklyDays = p.WeeklyDays
		}
		if p.DueDate != nil {
			c.DueDate = *p.DueDate
		}
		c.WeeklyDays = normalizeWeeklyDays(c.Frequency, c.WeeklyDays)
		c.DueDate = normalizeDueDate(c.Frequency, c.DueDate)
		return c
	})
}

// Remove excludes the chore matching id. Unknown ids no-op.
func Remove(chores []model.Chore, id string) []model.Chore {
	out := make([]model.Chore, 0, len(chores))
	for _, c := range chores {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// ToggleStandard flips the evaluator's current verdict for a non-advanced
// chore. This is deliberately not a flip of the stored flag: a daily chore
// completed yesterday still stores completed=true but evaluates false today,
// and toggling it marks it done today rather than un-completing it.
func ToggleStandard(chores []model.Chore, id string, now time.Time) []model.Chore {
	return replace(chores, id, func(c model.Chore) model.Chore {
		if recurrence.IsCompleted(c, now) {
			c.Completed = false
			c.LastCompletedAt = 0
			if c.CompletionCount > 0 {
				c.CompletionCount--
			}
		} else {
			c.Completed = true
			c.LastCompletedAt = model.Millis(now)
			c.CompletionCount++
		}
		return c
	})
}

// ToggleWeeklyDay marks or unmarks an advanced-weekly chore for the given
// weekday of the current calendar week (weeks start Sunday). An existing
// history entry on that calendar date is removed (undo); otherwise a new
// entry timestamped now is appended. The mirror fields completed and
// lastCompletedAt are recomputed from whether today now has an entry; they
// exist only so sorting and filtering need not special-case these chores.
func ToggleWeeklyDay(chores []model.Chore, id string, day time.Weekday, now time.Time) []model.Chore {
	target := recurrence.DateForWeekday(now, day)

	return replace(chores, id, func(c model.Chore) model.Chore {
		history := make([]int64, 0, len(c.CompletionHistory)+1)
		removed := false
		for _, ts := range c.CompletionHistory {
			if !removed && recurrence.SameDay(model.FromMillis(ts), target) {
				removed = true
				continue
			}
			history = append(history, ts)
		}
		if !removed {
			history = append(history, model.Millis(now))
		}
		c.CompletionHistory = history

		doneToday := false
		for _, ts := range history {
			if recurrence.SameDay(model.FromMillis(ts), now) {
				doneToday = true
				break
			}
		}
		c.Completed = doneToday
		if doneToday {
			c.LastCompletedAt = model.Millis(now)
		}
		return c
	})
}

// Tab selects which slice of the collection a list view shows.
type Tab string

const (
	TabAll       Tab = "all"
	TabPending   Tab = "pending"
	TabCompleted Tab = "completed"
)

// Filter returns the chores visible on the given tab at the given moment.
// Advanced-weekly chores appear on every tab so their per-day marks stay
// reachable regardless of today's verdict.
func Filter(chores []model.Chore, tab Tab, now time.Time) []model.Chore {
	out := make([]model.Chore, 0, len(chores))
	for _, c := range chores {
		if c.AdvancedWeekly() {
			out = append(out, c)
			continue
		}
		done := recurrence.IsCompleted(c, now)
		switch tab {
		case TabPending:
			if !done {
				out = append(out, c)
			}
		case TabCompleted:
			if done {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// replace applies fn to the chore matching id, copying the slice. The
// returned snapshot shares unmodified chores with the input.
func replace(chores []model.Chore, id string, fn func(model.Chore) model.Chore) []model.Chore {
	out := make([]model.Chore, len(chores))
	for i, c := range chores {
		if c.ID == id {
			out[i] = fn(c)
		} else {
			out[i] = c
		}
	}
	return out
}

func normalizeWeeklyDays(f model.Frequency, days []int) []int {
	if f != model.Weekly || len(days) == 0 {
		return nil
	}
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Ints(out)
	return out
}

func normalizeDueDate(f model.Frequency, due int64) int64 {
	if f != model.OneTime {
		return 0
	}
	return due
}
