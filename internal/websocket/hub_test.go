package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testClient(code string) *Client {
	return &Client{code: code, send: make(chan []byte, sendBufferSize)}
}

func TestBroadcastScopedBySharingCode(t *testing.T) {
	hub := testHub()
	panda := testClient("HAPPY-PANDA-1234")
	otter := testClient("BOLD-OTTER-9999")
	hub.Register(panda)
	hub.Register(otter)

	hub.Broadcast(Event{
		Type:        "family_synced",
		SharingCode: "HAPPY-PANDA-1234",
		ChoreCount:  3,
		SyncedAt:    1767225600000,
	})

	select {
	case msg := <-panda.send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Type != "family_synced" || ev.ChoreCount != 3 {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("subscribed client received nothing")
	}

	select {
	case <-otter.send:
		t.Fatal("client on another code received the event")
	default:
	}
}

func TestBroadcastSkipsFullBuffer(t *testing.T) {
	hub := testHub()
	c := &Client{code: "HAPPY-PANDA-1234", send: make(chan []byte)} // no buffer, never drained
	hub.Register(c)

	// Must not block.
	hub.Broadcast(Event{Type: "family_synced", SharingCode: "HAPPY-PANDA-1234"})
}

func TestRegisterUnregisterCounts(t *testing.T) {
	hub := testHub()
	code := "HAPPY-PANDA-1234"

	a := testClient(code)
	b := testClient(code)
	hub.Register(a)
	hub.Register(b)
	if got := hub.ClientCount(code); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}

	hub.Unregister(a)
	if got := hub.ClientCount(code); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if _, ok := <-a.send; ok {
		t.Error("unregistered client's send channel should be closed")
	}

	// Idempotent.
	hub.Unregister(a)
	hub.Unregister(b)
	if got := hub.ClientCount(code); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}
