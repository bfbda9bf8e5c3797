package recurrence

import (
	"testing"
	"time"

	"github.com/rowanfield/choresheet/internal/model"
)

// The week of Sunday 2026-03-01 through Saturday 2026-03-07, local time.
func localDate(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.Local)
}

func TestOneTimeTracksStoredFlag(t *testing.T) {
	now := localDate(4, 12, 0)
	c := model.Chore{Frequency: model.OneTime, Completed: false, DueDate: model.Millis(localDate(2, 0, 0))}

	if IsCompleted(c, now) {
		t.Error("incomplete one-time chore reported completed")
	}
	c.Completed = true
	if !IsCompleted(c, now) {
		t.Error("completed one-time chore reported pending")
	}
}

func TestDailySameCalendarDay(t *testing.T) {
	done := localDate(4, 8, 0)
	c := model.Chore{Frequency: model.Daily, Completed: true, LastCompletedAt: model.Millis(done)}

	// 15 hours later, same local day.
	if !IsCompleted(c, localDate(4, 23, 0)) {
		t.Error("daily chore pending within the same day")
	}
	// One minute past local midnight is a new day even though less than
	// 24h elapsed.
	if IsCompleted(c, localDate(5, 0, 1)) {
		t.Error("daily chore still completed after midnight")
	}
	if !c.Completed {
		t.Error("stored flag should be untouched by evaluation")
	}
}

func TestWeeklyRollingWindow(t *testing.T) {
	done := localDate(1, 10, 0)
	c := model.Chore{Frequency: model.Weekly, Completed: true, LastCompletedAt: model.Millis(done)}

	if !IsCompleted(c, done.Add(7*24*time.Hour-time.Minute)) {
		t.Error("weekly chore expired before 7 days")
	}
	if IsCompleted(c, done.Add(7*24*time.Hour)) {
		t.Error("weekly chore still completed at exactly 7 days")
	}
}

func TestMonthlyCalendarAligned(t *testing.T) {
	c := model.Chore{
		Frequency:       model.Monthly,
		Completed:       true,
		LastCompletedAt: model.Millis(time.Date(2026, 3, 31, 12, 0, 0, 0, time.Local)),
	}

	if !IsCompleted(c, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)) {
		t.Error("monthly chore pending within the same month")
	}
	// Next day is April: a new month, despite <24h elapsed.
	if IsCompleted(c, time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local)) {
		t.Error("monthly chore still completed in the next month")
	}
	// Same month a year later does not count.
	if IsCompleted(c, time.Date(2027, 3, 15, 0, 0, 0, 0, time.Local)) {
		t.Error("monthly chore completed across years")
	}
}

func TestQuarterlyRollingWindow(t *testing.T) {
	done := localDate(1, 10, 0)
	c := model.Chore{Frequency: model.Quarterly, Completed: true, LastCompletedAt: model.Millis(done)}

	if !IsCompleted(c, done.Add(90*24*time.Hour-time.Minute)) {
		t.Error("quarterly chore expired before 90 days")
	}
	if IsCompleted(c, done.Add(90*24*time.Hour)) {
		t.Error("quarterly chore still completed at exactly 90 days")
	}
}

func TestManualUntoggleWins(t *testing.T) {
	c := model.Chore{
		Frequency:       model.Daily,
		Completed:       false,
		LastCompletedAt: model.Millis(localDate(4, 8, 0)),
	}
	if IsCompleted(c, localDate(4, 9, 0)) {
		t.Error("un-toggled chore reported completed")
	}
}

func TestCompletedWithoutTimestampFallsBackTrue(t *testing.T) {
	c := model.Chore{Frequency: model.Daily, Completed: true}
	if !IsCompleted(c, localDate(4, 9, 0)) {
		t.Error("completed chore without timestamp should trust the flag")
	}
}

func TestAdvancedWeeklyNotScheduledToday(t *testing.T) {
	// Mon/Wed chore evaluated on Tuesday: reported not completed
	// regardless of history.
	c := model.Chore{
		Frequency:         model.Weekly,
		WeeklyDays:        []int{1, 3},
		CompletionHistory: []int64{model.Millis(localDate(2, 9, 0))},
	}
	tuesday := localDate(3, 12, 0)
	if IsCompleted(c, tuesday) {
		t.Error("unscheduled day should evaluate not completed")
	}
}

func TestAdvancedWeeklyScheduledToday(t *testing.T) {
	monday := localDate(2, 12, 0)
	c := model.Chore{Frequency: model.Weekly, WeeklyDays: []int{1, 3}}

	if IsCompleted(c, monday) {
		t.Error("scheduled day with no history should be pending")
	}

	c.CompletionHistory = []int64{model.Millis(localDate(2, 9, 30))}
	if !IsCompleted(c, monday) {
		t.Error("scheduled day with a same-day history entry should be completed")
	}

	// The stored flag is irrelevant for advanced weekly chores.
	c.Completed = false
	if !IsCompleted(c, monday) {
		t.Error("stored flag should not override history for advanced weekly")
	}
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same moment", localDate(4, 10, 0), localDate(4, 10, 0), true},
		{"23h apart same day", localDate(4, 0, 30), localDate(4, 23, 30), true},
		{"across midnight", localDate(4, 23, 59), localDate(5, 0, 0), false},
		{"same date different month", time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local), time.Date(2026, 4, 4, 10, 0, 0, 0, time.Local), false},
		{"same date different year", time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local), time.Date(2027, 3, 4, 10, 0, 0, 0, time.Local), false},
	}
	for _, tt := range tests {
		if got := SameDay(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: SameDay = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDateForWeekday(t *testing.T) {
	// From a Wednesday, resolve each day of the containing week.
	wednesday := localDate(4, 15, 30)

	monday := DateForWeekday(wednesday, time.Monday)
	if monday.Day() != 2 || monday.Hour() != 0 {
		t.Errorf("Monday = %v, want local midnight March 2", monday)
	}
	sunday := DateForWeekday(wednesday, time.Sunday)
	if sunday.Day() != 1 {
		t.Errorf("Sunday = %v, want March 1", sunday)
	}
	saturday := DateForWeekday(wednesday, time.Saturday)
	if saturday.Day() != 7 {
		t.Errorf("Saturday = %v, want March 7", saturday)
	}
}

func TestDueStateAt(t *testing.T) {
	now := localDate(4, 12, 0)

	overdue := model.Chore{Frequency: model.OneTime, DueDate: model.Millis(localDate(2, 10, 0))}
	if got := DueStateAt(overdue, now); got != Overdue {
		t.Errorf("DueStateAt = %v, want Overdue", got)
	}

	today := model.Chore{Frequency: model.OneTime, DueDate: model.Millis(localDate(4, 23, 0))}
	if got := DueStateAt(today, now); got != DueToday {
		t.Errorf("DueStateAt = %v, want DueToday", got)
	}

	upcoming := model.Chore{Frequency: model.OneTime, DueDate: model.Millis(localDate(6, 0, 0))}
	if got := DueStateAt(upcoming, now); got != Upcoming {
		t.Errorf("DueStateAt = %v, want Upcoming", got)
	}

	daily := model.Chore{Frequency: model.Daily, DueDate: model.Millis(localDate(2, 0, 0))}
	if got := DueStateAt(daily, now); got != NoDueDate {
		t.Errorf("due date should be ignored for recurring chores, got %v", got)
	}
}
