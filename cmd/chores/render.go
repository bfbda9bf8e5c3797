package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rowanfield/choresheet/internal/family"
	"github.com/rowanfield/choresheet/internal/model"
	"github.com/rowanfield/choresheet/internal/recurrence"
)

// colorCodes maps the roster's color tokens to terminal colors. Unknown
// tokens fall back to the default foreground.
var colorCodes = map[string]lipgloss.Color{
	"indigo":  lipgloss.Color("63"),
	"emerald": lipgloss.Color("42"),
	"amber":   lipgloss.Color("214"),
	"rose":    lipgloss.Color("205"),
	"sky":     lipgloss.Color("117"),
	"violet":  lipgloss.Color("135"),
	"teal":    lipgloss.Color("43"),
	"orange":  lipgloss.Color("208"),
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

var dayLetters = [7]string{"S", "M", "T", "W", "T", "F", "S"}

func memberStyle(members []model.FamilyMember, name string) lipgloss.Style {
	token := family.Color(name)
	if m := family.Find(members, name); m != nil && m.Color != "" {
		token = m.Color
	}
	if c, ok := colorCodes[token]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

func renderChores(chores []model.Chore, members []model.FamilyMember, now time.Time) string {
	var b strings.Builder
	for _, c := range chores {
		b.WriteString(renderChore(c, members, now))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderChore(c model.Chore, members []model.FamilyMember, now time.Time) string {
	mark := pendingStyle.Render("[ ]")
	if recurrence.IsCompleted(c, now) {
		mark = doneStyle.Render("[x]")
	}

	var extra string
	switch {
	case c.AdvancedWeekly():
		extra = " " + renderWeekRow(c, now)
	case c.Frequency == model.OneTime:
		switch recurrence.DueStateAt(c, now) {
		case recurrence.Overdue:
			extra = " " + overdueStyle.Render("overdue "+dueDate(c))
		case recurrence.DueToday:
			extra = " " + overdueStyle.Render("due today")
		case recurrence.Upcoming:
			extra = " " + dimStyle.Render("due "+dueDate(c))
		}
	}

	assignee := c.Assignee
	if assignee != model.Unassigned {
		assignee = memberStyle(members, assignee).Render(assignee)
	} else {
		assignee = dimStyle.Render(assignee)
	}

	return fmt.Sprintf("%s %s  %s · %s%s  %s",
		mark,
		titleStyle.Render(c.Title),
		assignee,
		dimStyle.Render(string(c.Frequency)),
		extra,
		dimStyle.Render(shortID(c.ID)),
	)
}

// renderWeekRow draws the per-day marks of an advanced weekly chore:
// uppercase done, lowercase pending, dot for unscheduled days.
func renderWeekRow(c model.Chore, now time.Time) string {
	var parts []string
	for day := 0; day < 7; day++ {
		if !c.ScheduledOn(time.Weekday(day)) {
			parts = append(parts, dimStyle.Render("·"))
			continue
		}
		date := recurrence.DateForWeekday(now, time.Weekday(day))
		if recurrence.CompletedOn(c, date) {
			parts = append(parts, doneStyle.Render(dayLetters[day]))
		} else {
			parts = append(parts, pendingStyle.Render(strings.ToLower(dayLetters[day])))
		}
	}
	return strings.Join(parts, "")
}

func renderMembers(members []model.FamilyMember, chores []model.Chore) string {
	counts := make(map[string]int)
	for _, c := range chores {
		counts[strings.ToLower(c.Assignee)]++
	}

	var b strings.Builder
	for _, m := range members {
		n := counts[strings.ToLower(m.Name)]
		b.WriteString(fmt.Sprintf("%s  %s\n",
			memberStyle(members, m.Name).Render(m.Name),
			dimStyle.Render(fmt.Sprintf("%d chores", n)),
		))
	}
	if n := counts[strings.ToLower(model.Unassigned)]; n > 0 {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			dimStyle.Render(model.Unassigned),
			dimStyle.Render(fmt.Sprintf("%d chores", n)),
		))
	}
	return b.String()
}

func dueDate(c model.Chore) string {
	return model.FromMillis(c.DueDate).Format("Jan 2")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
