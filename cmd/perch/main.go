// Perch — a terminal-resident timeline reader.
//
// Usage:
//
//	perch [flags]
//
// Flags:
//
//	--config  Path to config file (default: ~/.perch/config.yaml)
//	--feed    Path to feed dump JSON (overrides config and PERCH_FEED)
//	--db      Path to SQLite state database (overrides config)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"perch/internal/config"
	"perch/internal/fetch"
	"perch/internal/logging"
	"perch/internal/persist"
	"perch/internal/store"
	"perch/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	homeDir, _ := os.UserHomeDir()
	defaultConfig := filepath.Join(homeDir, ".perch", "config.yaml")

	configPath := flag.String("config", defaultConfig, "Path to config file")
	feedPath := flag.String("feed", "", "Path to feed dump JSON")
	dbPath := flag.String("db", "", "Path to SQLite state database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ResolveEnv()
	// Seed a starter config on first run so the defaults are editable.
	if *configPath == defaultConfig {
		if _, statErr := os.Stat(defaultConfig); os.IsNotExist(statErr) {
			if saveErr := config.Save(defaultConfig, cfg); saveErr != nil {
				log.Printf("Could not write starter config: %v", saveErr)
			}
		}
	}
	if *feedPath != "" {
		cfg.Feed.DumpPath = *feedPath
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}
	if cfg.Feed.DumpPath == "" {
		log.Fatal("No feed source: set --feed, PERCH_FEED, or feed.dump_path in the config")
	}

	// Log to a file; stdout belongs to the TUI.
	if err := logging.Init(cfg.Log.Path); err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		log.Fatalf("Failed to create state directory: %v", err)
	}
	keeper, err := persist.Open(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to open state database at %s: %v", cfg.Storage.DBPath, err)
	}
	defer keeper.Close()

	st := store.New()
	state, err := keeper.LoadState()
	if err != nil {
		log.Fatalf("Failed to load persisted state: %v", err)
	}
	ids := make([]string, 0, len(state.Starred))
	for _, acct := range state.Starred {
		ids = append(ids, acct.AccountID)
	}
	st.RestoreStars(ids)
	st.RestoreSeenNames(state.SeenNames)

	fetcher := fetch.New(fetch.NewFileSource(cfg.Feed.DumpPath), fetch.Options{
		Timeout:  cfg.Feed.Timeout,
		PageSize: cfg.Feed.PageSize,
		RPS:      cfg.Feed.RPS,
		Burst:    cfg.Feed.Burst,
	})

	app := ui.NewApp(ui.NewSession(st, keeper, fetcher))
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
