// Package handler implements the proxy's wire protocol: a GET that returns
// everything stored under a sharing code (or a liveness probe with
// test=true), and a POST that replaces it. Protocol-level failures are
// reported as a JSON error body with a 200 status, matching what the
// spreadsheet proxy clients already handle.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rowanfield/choresheet/internal/model"
	"github.com/rowanfield/choresheet/internal/store"
	"github.com/rowanfield/choresheet/internal/websocket"
)

type SyncHandler struct {
	store  *store.FamilyStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewSyncHandler(fs *store.FamilyStore, hub *websocket.Hub, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{store: fs, hub: hub, logger: logger}
}

type syncRequest struct {
	Action      string               `json:"action"`
	SharingCode string               `json:"sharingCode"`
	Chores      []model.Chore        `json:"chores"`
	Members     []model.FamilyMember `json:"members"`
}

// Get serves loads and liveness probes.
func (h *SyncHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("sharingCode")))
	if code == "" {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Missing sharingCode"})
		return
	}

	if r.URL.Query().Get("test") == "true" {
		count, err := h.store.CountChores(code)
		if err != nil {
			h.logger.Error("count chores", "code", code, "error", err)
			writeJSON(w, http.StatusOK, map[string]string{"error": "count failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is alive",
			"count":   count,
		})
		return
	}

	chores, err := h.store.ListChores(code)
	if err != nil {
		h.logger.Error("list chores", "code", code, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"error": "load failed"})
		return
	}
	members, err := h.store.ListMembers(code)
	if err != nil {
		h.logger.Error("list members", "code", code, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"error": "load failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":    chores,
		"members": members,
	})
}

// Post replaces all rows for the sharing code and acknowledges with the
// applied chore count, then notifies watchers of that code.
func (h *SyncHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"error": "No data payload received"})
		return
	}

	req.SharingCode = strings.ToUpper(strings.TrimSpace(req.SharingCode))
	if req.Action != "sync" || req.SharingCode == "" {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Invalid sync request payload"})
		return
	}

	applied, err := h.store.Replace(req.SharingCode, req.Chores, req.Members)
	if err != nil {
		h.logger.Error("replace rows", "code", req.SharingCode, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"error": "sync failed"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.Event{
			Type:        "family_synced",
			SharingCode: req.SharingCode,
			ChoreCount:  applied,
			MemberCount: len(req.Members),
			SyncedAt:    time.Now().UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   applied,
	})
}

// ServeHTTP routes by method so the handler mounts on a single path, the
// shape the original proxy exposed.
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Get(w, r)
	case http.MethodPost:
		h.Post(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
