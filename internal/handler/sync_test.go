package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rowanfield/choresheet/internal/database"
	"github.com/rowanfield/choresheet/internal/model"
	"github.com/rowanfield/choresheet/internal/remote"
	"github.com/rowanfield/choresheet/internal/store"
)

func setupHandler(t *testing.T) *SyncHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSyncHandler(store.NewFamilyStore(db), nil, logger)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGetMissingCode(t *testing.T) {
	h := setupHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Protocol errors ride a 200 with an error body.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Missing sharingCode" {
		t.Errorf("error = %v", got)
	}
}

func TestGetLivenessProbe(t *testing.T) {
	h := setupHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?sharingCode=HAPPY-PANDA-1234&test=true", nil))

	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["message"] != "Service is alive" {
		t.Errorf("body = %v", body)
	}
	if body["count"] != float64(0) {
		t.Errorf("count = %v, want 0 for an empty family", body["count"])
	}
}

func TestGetUnknownCodeReturnsEmptyCollections(t *testing.T) {
	h := setupHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?sharingCode=NEVER-SEEN-0000", nil))

	body := decodeBody(t, rec)
	if _, ok := body["error"]; ok {
		t.Fatalf("unknown code should not error: %v", body)
	}
	if data, ok := body["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("data = %v, want empty array", body["data"])
	}
	if members, ok := body["members"].([]any); !ok || len(members) != 0 {
		t.Errorf("members = %v, want empty array", body["members"])
	}
}

func TestPostSyncThenGet(t *testing.T) {
	h := setupHandler(t)

	payload := `{
		"action": "sync",
		"sharingCode": "happy-panda-1234",
		"chores": [
			{"id": "a1", "title": "Dishes", "assignee": "Sam", "frequency": "Daily",
			 "completed": true, "createdAt": 2000, "lastCompletedAt": 1767225600000,
			 "completionCount": 3, "weeklyDays": [], "dueDate": 0, "completionHistory": []},
			{"id": "b2", "title": "Trash", "assignee": "Unassigned", "frequency": "Weekly",
			 "completed": false, "createdAt": 1000, "lastCompletedAt": 0,
			 "completionCount": 0, "weeklyDays": [1,3,5], "dueDate": 0,
			 "completionHistory": [1767225600000]}
		],
		"members": [{"name": "Sam", "color": "teal", "avatar": "https://example.com/sam"}]
	}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("sync not acknowledged: %v", body)
	}
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}

	// Load it back with the uppercase code.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?sharingCode=HAPPY-PANDA-1234", nil))

	var loaded struct {
		Data    []model.Chore        `json:"data"`
		Members []model.FamilyMember `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode load: %v", err)
	}
	if len(loaded.Data) != 2 || len(loaded.Members) != 1 {
		t.Fatalf("loaded %d chores, %d members", len(loaded.Data), len(loaded.Members))
	}
	if loaded.Data[0].ID != "a1" {
		t.Errorf("newest chore first, got %s", loaded.Data[0].ID)
	}
	if got := loaded.Data[1].WeeklyDays; len(got) != 3 || got[1] != 3 {
		t.Errorf("weeklyDays = %v", got)
	}
	if got := loaded.Data[1].CompletionHistory; len(got) != 1 || got[0] != 1767225600000 {
		t.Errorf("completionHistory = %v", got)
	}
}

func TestPostInvalidPayloads(t *testing.T) {
	h := setupHandler(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"garbage body", `not json`, "No data payload received"},
		{"wrong action", `{"action": "wipe", "sharingCode": "HAPPY-PANDA-1234"}`, "Invalid sync request payload"},
		{"missing code", `{"action": "sync", "chores": []}`, "Invalid sync request payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d", rec.Code)
			}
			if got := decodeBody(t, rec)["error"]; got != tt.wantErr {
				t.Errorf("error = %v, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

// The CLI's remote client and the proxy handler speak the same protocol;
// drive one against the other end to end.
func TestClientAgainstHandler(t *testing.T) {
	h := setupHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := remote.NewClient(srv.URL, logger)
	ctx := context.Background()

	chores := []model.Chore{{
		ID: "a1", Title: "Dishes", Assignee: "Sam", Frequency: model.Daily,
		CreatedAt: 1767225600000, WeeklyDays: []int{}, CompletionHistory: []int64{},
	}}
	members := []model.FamilyMember{{Name: "Sam", Color: "teal", Avatar: "x"}}

	if err := client.Save(ctx, "HAPPY-PANDA-1234", chores, members); err != nil {
		t.Fatalf("save: %v", err)
	}

	gotChores, gotMembers, err := client.Load(ctx, "HAPPY-PANDA-1234")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(gotChores) != 1 || gotChores[0].ID != "a1" || gotChores[0].Title != "Dishes" {
		t.Errorf("chores = %v", gotChores)
	}
	if len(gotMembers) != 1 || gotMembers[0].Name != "Sam" {
		t.Errorf("members = %v", gotMembers)
	}

	result := client.TestConnection(ctx, "HAPPY-PANDA-1234")
	if !result.OK || result.Count != 1 {
		t.Errorf("probe = %+v", result)
	}
}
