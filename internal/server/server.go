package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/rowanfield/choresheet/internal/handler"
	"github.com/rowanfield/choresheet/internal/middleware"
	"github.com/rowanfield/choresheet/internal/store"
	ws "github.com/rowanfield/choresheet/internal/websocket"
)

// Server wires the proxy's stores, handlers, and hub together.
type Server struct {
	db     *sql.DB
	hub    *ws.Hub
	syncH  *handler.SyncHandler
	logger *slog.Logger
}

// New builds a Server over an opened database.
func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	familyStore := store.NewFamilyStore(db)
	syncH := handler.NewSyncHandler(familyStore, hub, logger.With("component", "sync"))

	return &Server{
		db:     db,
		hub:    hub,
		syncH:  syncH,
		logger: logger,
	}
}

// Router returns the proxy's HTTP handler: the sync protocol on the root
// path (the shape the original proxy exposed), a WebSocket feed, and a
// health endpoint.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.syncH)
	mux.HandleFunc("/ws", ws.Handle(s.hub))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.RequestLogger(s.logger)(mux)
}
