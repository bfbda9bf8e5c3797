// Package store persists sheet rows for the proxy, partitioned by sharing
// code. A sync replaces every row for its code and leaves other codes
// untouched, mirroring the spreadsheet layout it stands in for: weekly days
// as a comma-joined list, completion history as a JSON array.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rowanfield/choresheet/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

const choreCols = `id, title, assignee, frequency, completed, created_at, last_completed_at, completion_count, weekly_days, due_date, completion_history`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var weeklyDays, history string

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Assignee, &c.Frequency, &c.Completed,
		&c.CreatedAt, &c.LastCompletedAt, &c.CompletionCount,
		&weeklyDays, &c.DueDate, &history,
	)
	if err != nil {
		return nil, err
	}

	c.WeeklyDays = splitDays(weeklyDays)
	c.CompletionHistory = []int64{}
	if history != "" {
		if err := json.Unmarshal([]byte(history), &c.CompletionHistory); err != nil {
			// Malformed history defaults to empty rather than failing
			// the whole load.
			c.CompletionHistory = []int64{}
		}
	}
	return &c, nil
}

// ListChores returns all chores stored under the sharing code.
func (s *FamilyStore) ListChores(code string) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chore_rows WHERE sharing_code = ? ORDER BY created_at DESC`,
		normalizeCode(code),
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	chores := []model.Chore{}
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// ListMembers returns all members stored under the sharing code.
func (s *FamilyStore) ListMembers(code string) ([]model.FamilyMember, error) {
	rows, err := s.db.Query(
		`SELECT name, color, avatar FROM member_rows WHERE sharing_code = ? ORDER BY name ASC`,
		normalizeCode(code),
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []model.FamilyMember{}
	for rows.Next() {
		var m model.FamilyMember
		if err := rows.Scan(&m.Name, &m.Color, &m.Avatar); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CountChores returns how many chores are stored under the sharing code,
// for the liveness probe.
func (s *FamilyStore) CountChores(code string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM chore_rows WHERE sharing_code = ?`,
		normalizeCode(code),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chores: %w", err)
	}
	return count, nil
}

// Replace swaps out every row for the sharing code with the given
// collections, in one transaction. Rows for other codes are untouched.
// Returns the number of chore rows applied.
func (s *FamilyStore) Replace(code string, chores []model.Chore, members []model.FamilyMember) (int, error) {
	code = normalizeCode(code)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chore_rows WHERE sharing_code = ?`, code); err != nil {
		return 0, fmt.Errorf("clear chores: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM member_rows WHERE sharing_code = ?`, code); err != nil {
		return 0, fmt.Errorf("clear members: %w", err)
	}

	applied := 0
	for _, c := range chores {
		history, err := json.Marshal(c.CompletionHistory)
		if err != nil {
			return 0, fmt.Errorf("encode history: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO chore_rows (sharing_code, `+choreCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			code, c.ID, c.Title, c.Assignee, string(c.Frequency), c.Completed,
			c.CreatedAt, c.LastCompletedAt, c.CompletionCount,
			joinDays(c.WeeklyDays), c.DueDate, string(history),
		)
		if err != nil {
			return 0, fmt.Errorf("insert chore: %w", err)
		}
		applied++
	}

	for _, m := range members {
		_, err := tx.Exec(
			`INSERT INTO member_rows (sharing_code, name, color, avatar) VALUES (?, ?, ?, ?)`,
			code, m.Name, m.Color, m.Avatar,
		)
		if err != nil {
			return 0, fmt.Errorf("insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return applied, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func joinDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func splitDays(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil
	}
	return days
}
