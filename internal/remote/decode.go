package remote

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rowanfield/choresheet/internal/model"
)

type choreRow struct {
	ID                json.RawMessage `json:"id"`
	Title             json.RawMessage `json:"title"`
	Assignee          json.RawMessage `json:"assignee"`
	Frequency         json.RawMessage `json:"frequency"`
	Completed         json.RawMessage `json:"completed"`
	CreatedAt         json.RawMessage `json:"createdAt"`
	LastCompletedAt   json.RawMessage `json:"lastCompletedAt"`
	CompletionCount   json.RawMessage `json:"completionCount"`
	WeeklyDays        json.RawMessage `json:"weeklyDays"`
	DueDate           json.RawMessage `json:"dueDate"`
	CompletionHistory json.RawMessage `json:"completionHistory"`
}

type memberRow struct {
	Name   json.RawMessage `json:"name"`
	Color  json.RawMessage `json:"color"`
	Avatar json.RawMessage `json:"avatar"`
}

// decodeChore normalizes one loose chore row into the strict model shape.
// Rows without a usable id or title are rejected (ok=false). Other malformed
// fields default, each recorded in diags.
func decodeChore(raw json.RawMessage) (model.Chore, []string, bool) {
	var row choreRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return model.Chore{}, nil, false
	}

	var diags []string

	id, ok := asString(row.ID)
	if !ok || id == "" {
		return model.Chore{}, nil, false
	}
	title, ok := asString(row.Title)
	if !ok || title == "" {
		return model.Chore{}, nil, false
	}

	c := model.Chore{ID: id, Title: title}

	if c.Assignee, ok = asString(row.Assignee); !ok || c.Assignee == "" {
		c.Assignee = model.Unassigned
		diags = append(diags, "assignee")
	}

	freq, ok := asString(row.Frequency)
	if c.Frequency = model.Frequency(freq); !ok || !c.Frequency.Valid() {
		c.Frequency = model.OneTime
		diags = append(diags, "frequency")
	}

	if c.Completed, ok = asBool(row.Completed); !ok {
		diags = append(diags, "completed")
	}
	if c.CreatedAt, ok = asInt64(row.CreatedAt); !ok {
		diags = append(diags, "createdAt")
	}
	if c.LastCompletedAt, ok = asInt64(row.LastCompletedAt); !ok {
		diags = append(diags, "lastCompletedAt")
	}
	count, ok := asInt64(row.CompletionCount)
	if !ok {
		diags = append(diags, "completionCount")
	}
	c.CompletionCount = int(count)

	if c.WeeklyDays, ok = asIntList(row.WeeklyDays); !ok {
		c.WeeklyDays = nil
		diags = append(diags, "weeklyDays")
	}
	if c.DueDate, ok = asInt64(row.DueDate); !ok {
		diags = append(diags, "dueDate")
	}
	if c.CompletionHistory, ok = asInt64List(row.CompletionHistory); !ok {
		c.CompletionHistory = []int64{}
		diags = append(diags, "completionHistory")
	}
	if c.CompletionHistory == nil {
		c.CompletionHistory = []int64{}
	}

	return c, diags, true
}

// decodeMember normalizes one loose member row. Rows without a name are
// rejected; color and avatar are re-derivable, so they just default empty.
func decodeMember(raw json.RawMessage) (model.FamilyMember, bool) {
	var row memberRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return model.FamilyMember{}, false
	}
	name, ok := asString(row.Name)
	if !ok || name == "" {
		return model.FamilyMember{}, false
	}
	m := model.FamilyMember{Name: name}
	m.Color, _ = asString(row.Color)
	m.Avatar, _ = asString(row.Avatar)
	return m, true
}

// asString accepts a JSON string or a bare number.
func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// asInt64 accepts a JSON number, a numeric string, or an empty string (the
// sheet's representation of absent).
func asInt64(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, true
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, true
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(v), true
		}
	}
	return 0, false
}

// asBool accepts a JSON bool or the sheet's stringly forms ("TRUE", "false",
// "1", "0", "").
func asBool(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no", "":
			return false, true
		}
	}
	return false, false
}

// asIntList accepts a JSON array of numbers (or numeric strings) or a
// comma-joined string like "1,3,5", the sheet's persisted form.
func asIntList(raw json.RawMessage) ([]int, bool) {
	vals, ok := asInt64List(raw)
	if !ok {
		return nil, false
	}
	if vals == nil {
		return nil, true
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out, true
}

func asInt64List(raw json.RawMessage) ([]int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, true
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		out := make([]int64, 0, len(elems))
		for _, e := range elems {
			v, ok := asInt64(e)
			if !ok {
				return nil, false
			}
			out = append(out, v)
		}
		return out, true
	}

	// Comma-joined string, possibly a JSON-encoded array inside a string.
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if strings.HasPrefix(s, "[") {
		var nested []int64
		if err := json.Unmarshal([]byte(s), &nested); err != nil {
			return nil, false
		}
		return nested, true
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
