package websocket

import (
	"net/http"
	"strings"

	ws "github.com/coder/websocket"
)

// Handle upgrades connections to WebSocket and runs them as hub clients.
// The sharing code comes from the sharingCode query parameter.
func Handle(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("sharingCode")))
		if code == "" {
			http.Error(w, "missing sharingCode", http.StatusBadRequest)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // clients connect from arbitrary origins
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, code)
		client.Run(r.Context())
	}
}
