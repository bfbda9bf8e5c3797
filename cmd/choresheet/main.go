package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rowanfield/choresheet/internal/database"
	"github.com/rowanfield/choresheet/internal/logging"
	"github.com/rowanfield/choresheet/internal/server"
)

func main() {
	port := os.Getenv("CHORESHEET_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("CHORESHEET_DB_PATH")
	if dbPath == "" {
		dbPath = "choresheet.db"
	}

	logger := logging.Setup(os.Getenv("CHORESHEET_LOG_LEVEL"), os.Getenv("CHORESHEET_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("choresheet proxy listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
