package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rowanfield/choresheet/internal/chorelist"
	"github.com/rowanfield/choresheet/internal/model"
	"github.com/rowanfield/choresheet/internal/sharing"
)

func joinCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join CODE",
		Short: "Connect to an existing family by sharing code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			code := sharing.Normalize(args[0])
			if !sharing.WellFormed(code) {
				fmt.Printf("Note: %q does not look like a generated code, joining anyway.\n", code)
			}
			if err := a.orc.Join(cmd.Context(), code); err != nil {
				return fmt.Errorf("join %s: %w", code, err)
			}
			fmt.Printf("Connected to %s: %d chores, %d members.\n",
				code, len(a.orc.Chores()), len(a.orc.Members()))
			return nil
		},
	}
}

func generateCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Start a new private list with a fresh sharing code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			code, err := a.orc.Generate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("New sharing code: %s\n", code)
			if st := a.orc.Status(); st.State == "error" {
				fmt.Printf("Warning: initial push failed (%s); data is cached locally.\n", st.Message)
			}
			return nil
		},
	}
}

func disconnectCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the sharing code and wipe the local cache",
		Long:  "Clears the device's sharing code and cached data. Remote data is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Disconnect(); err != nil {
				return err
			}
			fmt.Println("Disconnected.")
			return nil
		},
	}
}

func statusCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the connection and probe the proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			code := a.orc.Code()
			if code == "" {
				fmt.Println("Not connected. Use `chores join CODE` or `chores generate`.")
				return nil
			}

			fmt.Printf("Sharing code: %s\n", code)
			if last := a.orc.LastSync(); !last.IsZero() {
				fmt.Printf("Last synced:  %s\n", last.Format(time.RFC1123))
			}
			result := a.orc.TestConnection(cmd.Context())
			if result.OK {
				fmt.Printf("Proxy:        %s\n", result.Message)
			} else {
				fmt.Printf("Proxy:        unreachable (%s)\n", result.Message)
			}
			return nil
		},
	}
}

func listCmd(proxyURL *string) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the chore list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}

			chores := chorelist.Filter(a.orc.Chores(), chorelist.Tab(tab), time.Now())
			if len(chores) == 0 {
				fmt.Println("No chores.")
				return nil
			}
			fmt.Print(renderChores(chores, a.orc.Members(), time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(chorelist.TabAll), "all, pending, or completed")
	return cmd
}

func membersCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "Show the family roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Print(renderMembers(a.orc.Members(), a.orc.Chores()))
			return nil
		},
	}
}

func addCmd(proxyURL *string) *cobra.Command {
	var (
		assignee  string
		frequency string
		days      string
		due       string
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a chore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}

			freq, err := parseFrequency(frequency)
			if err != nil {
				return err
			}
			weeklyDays, err := parseDays(days)
			if err != nil {
				return err
			}
			dueDate, err := parseDue(due)
			if err != nil {
				return err
			}

			draft := chorelist.Draft{
				Title:      args[0],
				Assignee:   assignee,
				Frequency:  freq,
				WeeklyDays: weeklyDays,
				DueDate:    dueDate,
			}
			if err := a.orc.CreateChore(draft); err != nil {
				return err
			}
			a.orc.Flush(cmd.Context())

			fmt.Printf("Added %q.\n", strings.TrimSpace(args[0]))
			return reportPush(a)
		},
	}
	cmd.Flags().StringVarP(&assignee, "assignee", "a", model.Unassigned, "family member name (created on first use)")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "one-time, daily, weekly, monthly, or quarterly")
	cmd.Flags().StringVar(&days, "days", "", "weekdays for weekly chores, e.g. mon,wed or 1,3")
	cmd.Flags().StringVar(&due, "due", "", "due date for one-time chores, YYYY-MM-DD")
	return cmd
}

func editCmd(proxyURL *string) *cobra.Command {
	var (
		title     string
		assignee  string
		frequency string
		days      string
		due       string
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a chore's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}

			var patch chorelist.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("assignee") {
				patch.Assignee = &assignee
			}
			if cmd.Flags().Changed("frequency") {
				freq, err := parseFrequency(frequency)
				if err != nil {
					return err
				}
				patch.Frequency = &freq
			}
			if cmd.Flags().Changed("days") {
				weeklyDays, err := parseDays(days)
				if err != nil {
					return err
				}
				patch.WeeklyDays = weeklyDays
			}
			if cmd.Flags().Changed("due") {
				dueDate, err := parseDue(due)
				if err != nil {
					return err
				}
				patch.DueDate = &dueDate
			}

			a.orc.EditChore(resolveID(a, args[0]), patch)
			a.orc.Flush(cmd.Context())
			return reportPush(a)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "new assignee")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "", "new frequency")
	cmd.Flags().StringVar(&days, "days", "", "new weekdays for weekly chores")
	cmd.Flags().StringVar(&due, "due", "", "new due date, YYYY-MM-DD")
	return cmd
}

func doneCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a chore's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			a.orc.ToggleChore(resolveID(a, args[0]))
			a.orc.Flush(cmd.Context())
			return reportPush(a)
		},
	}
}

func dayCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "day ID WEEKDAY",
		Short: "Mark or unmark a weekday for an advanced weekly chore",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			day, err := parseWeekday(args[1])
			if err != nil {
				return err
			}
			a.orc.ToggleChoreDay(resolveID(a, args[0]), day)
			a.orc.Flush(cmd.Context())
			return reportPush(a)
		},
	}
}

func removeCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a chore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			a.orc.RemoveChore(resolveID(a, args[0]))
			a.orc.Flush(cmd.Context())
			return reportPush(a)
		},
	}
}

func syncCmd(proxyURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push the current state to the proxy now",
		Long:  "Pushes immediately, which is also the manual retry after a failed sync.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*proxyURL)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orc.Load(cmd.Context()); err != nil {
				return err
			}
			if a.orc.Code() == "" {
				return fmt.Errorf("not connected")
			}
			a.orc.Flush(cmd.Context())
			return reportPush(a)
		},
	}
}

// resolveID lets users pass an ID prefix instead of a full UUID, as long as
// it is unambiguous. Unknown prefixes pass through untouched; the engine
// no-ops on ids it does not recognize.
func resolveID(a *app, prefix string) string {
	var match string
	for _, c := range a.orc.Chores() {
		if strings.HasPrefix(c.ID, prefix) {
			if match != "" {
				return prefix // ambiguous
			}
			match = c.ID
		}
	}
	if match == "" {
		return prefix
	}
	return match
}

func reportPush(a *app) error {
	st := a.orc.Status()
	switch st.State {
	case "error":
		fmt.Printf("Sync failed: %s\nSaved locally; run `chores sync` to retry.\n", st.Message)
	case "success":
		fmt.Println("Synced.")
	}
	return nil
}

func parseFrequency(s string) (model.Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-time", "onetime", "once":
		return model.OneTime, nil
	case "daily":
		return model.Daily, nil
	case "weekly":
		return model.Weekly, nil
	case "monthly":
		return model.Monthly, nil
	case "quarterly":
		return model.Quarterly, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday index %d out of range (0=Sunday..6=Saturday)", n)
		}
		return time.Weekday(n), nil
	}
	if len(s) >= 3 {
		if d, ok := weekdayNames[s[:3]]; ok {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func parseDays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := parseWeekday(p)
		if err != nil {
			return nil, err
		}
		days = append(days, int(d))
	}
	return days, nil
}

func parseDue(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("due date %q: want YYYY-MM-DD", s)
	}
	return model.Millis(t), nil
}
