package store

import (
	"testing"

	"github.com/rowanfield/choresheet/internal/database"
	"github.com/rowanfield/choresheet/internal/model"
)

func setupStore(t *testing.T) *FamilyStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFamilyStore(db)
}

func TestReplaceAndListRoundTrip(t *testing.T) {
	s := setupStore(t)

	chores := []model.Chore{
		{
			ID: "a1", Title: "Dishes", Assignee: "Sam",
			Frequency: model.Daily, Completed: true,
			CreatedAt: 2000, LastCompletedAt: 1767225600000, CompletionCount: 3,
		},
		{
			ID: "b2", Title: "Trash", Assignee: model.Unassigned,
			Frequency: model.Weekly, CreatedAt: 1000,
			WeeklyDays:        []int{1, 3, 5},
			CompletionHistory: []int64{1767225600000, 1767312000000},
		},
	}
	members := []model.FamilyMember{
		{Name: "Sam", Color: "teal", Avatar: "https://example.com/sam"},
	}

	applied, err := s.Replace("happy-panda-1234", chores, members)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	// Reads normalize the code the same way writes do.
	got, err := s.ListChores("  HAPPY-PANDA-1234  ")
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("chores = %d, want 2", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "b2" {
		t.Errorf("order = %s, %s; want newest created first", got[0].ID, got[1].ID)
	}

	dishes := got[0]
	if !dishes.Completed || dishes.LastCompletedAt != 1767225600000 || dishes.CompletionCount != 3 {
		t.Errorf("dishes round trip: %+v", dishes)
	}
	if len(dishes.CompletionHistory) != 0 {
		t.Errorf("empty history should come back empty, got %v", dishes.CompletionHistory)
	}

	trash := got[1]
	if len(trash.WeeklyDays) != 3 || trash.WeeklyDays[0] != 1 || trash.WeeklyDays[2] != 5 {
		t.Errorf("weeklyDays = %v", trash.WeeklyDays)
	}
	if len(trash.CompletionHistory) != 2 || trash.CompletionHistory[1] != 1767312000000 {
		t.Errorf("completionHistory = %v", trash.CompletionHistory)
	}

	gotMembers, err := s.ListMembers("HAPPY-PANDA-1234")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(gotMembers) != 1 || gotMembers[0] != members[0] {
		t.Errorf("members = %v", gotMembers)
	}
}

func TestReplaceIsolatesSharingCodes(t *testing.T) {
	s := setupStore(t)

	if _, err := s.Replace("HAPPY-PANDA-1234", []model.Chore{{ID: "a", Title: "Dishes", Frequency: model.Daily}}, nil); err != nil {
		t.Fatalf("replace first family: %v", err)
	}
	if _, err := s.Replace("BOLD-OTTER-9999", []model.Chore{{ID: "b", Title: "Laundry", Frequency: model.Weekly}}, nil); err != nil {
		t.Fatalf("replace second family: %v", err)
	}

	// Wiping one family leaves the other alone.
	if _, err := s.Replace("HAPPY-PANDA-1234", nil, nil); err != nil {
		t.Fatalf("clear first family: %v", err)
	}

	first, _ := s.ListChores("HAPPY-PANDA-1234")
	if len(first) != 0 {
		t.Errorf("cleared family still has %d chores", len(first))
	}
	second, _ := s.ListChores("BOLD-OTTER-9999")
	if len(second) != 1 || second[0].ID != "b" {
		t.Errorf("other family disturbed: %v", second)
	}
}

func TestReplaceOverwritesPreviousRows(t *testing.T) {
	s := setupStore(t)
	code := "HAPPY-PANDA-1234"

	s.Replace(code, []model.Chore{
		{ID: "a", Title: "Dishes", Frequency: model.Daily, CreatedAt: 1},
		{ID: "b", Title: "Trash", Frequency: model.Daily, CreatedAt: 2},
	}, []model.FamilyMember{{Name: "Sam"}, {Name: "Robin"}})

	applied, err := s.Replace(code, []model.Chore{
		{ID: "c", Title: "Laundry", Frequency: model.Weekly, CreatedAt: 3},
	}, []model.FamilyMember{{Name: "Sam"}})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	chores, _ := s.ListChores(code)
	if len(chores) != 1 || chores[0].ID != "c" {
		t.Errorf("chores = %v, want only the new row", chores)
	}
	members, _ := s.ListMembers(code)
	if len(members) != 1 || members[0].Name != "Sam" {
		t.Errorf("members = %v", members)
	}
}

func TestCountChores(t *testing.T) {
	s := setupStore(t)

	count, err := s.CountChores("HAPPY-PANDA-1234")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 for unknown code", count)
	}

	s.Replace("HAPPY-PANDA-1234", []model.Chore{
		{ID: "a", Title: "Dishes", Frequency: model.Daily},
		{ID: "b", Title: "Trash", Frequency: model.Daily},
	}, nil)

	count, _ = s.CountChores("happy-panda-1234")
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestListUnknownCodeIsEmptyNotError(t *testing.T) {
	s := setupStore(t)

	chores, err := s.ListChores("NEVER-SEEN-0000")
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	if chores == nil || len(chores) != 0 {
		t.Errorf("chores = %v, want empty slice", chores)
	}

	members, err := s.ListMembers("NEVER-SEEN-0000")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if members == nil || len(members) != 0 {
		t.Errorf("members = %v, want empty slice", members)
	}
}
