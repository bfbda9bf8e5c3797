// Package main provides the chores binary, a terminal client for a family
// chore list synced through a choresheet proxy.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rowanfield/choresheet/internal/cache"
	"github.com/rowanfield/choresheet/internal/logging"
	"github.com/rowanfield/choresheet/internal/remote"
	"github.com/rowanfield/choresheet/internal/syncer"
)

const defaultProxyURL = "http://localhost:8080/"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs. Construction is lazy so commands
// like help never touch the cache file.
type app struct {
	orc   *syncer.Orchestrator
	store *cache.SQLite
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func newApp(proxyURL string) (*app, error) {
	logger := logging.Setup(os.Getenv("CHORES_LOG_LEVEL"), "")

	cachePath := os.Getenv("CHORES_CACHE_PATH")
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".chores")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		cachePath = filepath.Join(dir, "cache.db")
	}

	store, err := cache.OpenSQLite(cachePath)
	if err != nil {
		return nil, err
	}

	if proxyURL == "" {
		proxyURL = os.Getenv("CHORES_PROXY_URL")
	}
	if proxyURL == "" {
		proxyURL = defaultProxyURL
	}

	client := remote.NewClient(proxyURL, logger.With("component", "remote"))
	orc := syncer.New(store, client, logger.With("component", "sync"), syncer.Options{})

	return &app{orc: orc, store: store}, nil
}

func rootCmd() *cobra.Command {
	var proxyURL string

	cmd := &cobra.Command{
		Use:           "chores",
		Short:         "Family chore list, synced through a choresheet proxy",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&proxyURL, "proxy", "", "proxy base URL (default $CHORES_PROXY_URL or "+defaultProxyURL+")")

	cmd.AddCommand(
		joinCmd(&proxyURL),
		generateCmd(&proxyURL),
		disconnectCmd(&proxyURL),
		statusCmd(&proxyURL),
		listCmd(&proxyURL),
		membersCmd(&proxyURL),
		addCmd(&proxyURL),
		editCmd(&proxyURL),
		doneCmd(&proxyURL),
		dayCmd(&proxyURL),
		removeCmd(&proxyURL),
		syncCmd(&proxyURL),
	)
	return cmd
}
