// Perchctl — command-line companion for Perch state and feed dumps.
//
// Usage:
//
//	perchctl <command> [flags]
//
// Commands:
//
//	preview   Print a feed dump as it would appear in the timeline
//	starred   List starred accounts from the state database
//	version   Print version information
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"perch/internal/fetch"
	"perch/internal/lens"
	"perch/internal/persist"
	"perch/internal/store"
	"perch/pkg/textutil"
	"perch/pkg/timeutil"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	homeDir, _ := os.UserHomeDir()
	defaultDB := filepath.Join(homeDir, ".perch", "perch.db")

	switch os.Args[1] {
	case "preview":
		cmdPreview()
	case "starred":
		cmdStarred(defaultDB)
	case "version":
		fmt.Printf("Perch v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Perchctl — companion tool for the Perch timeline reader

Usage:
  perchctl <command> [flags]

Commands:
  preview    Print a feed dump as it would appear in the timeline
  starred    List starred accounts from the state database
  version    Print version information

Run 'perchctl <command> --help' for details on each command.`)
}

// cmdPreview renders a dump through the same lens routing the TUI
// search box uses, without starting the TUI.
func cmdPreview() {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	feedPath := fs.String("feed", os.Getenv("PERCH_FEED"), "Path to feed dump JSON (required)")
	query := fs.String("query", "", "Lens query: @handle, #tag, or free text")
	limit := fs.Int("limit", 20, "Maximum posts to print")
	fs.Parse(os.Args[2:])

	if *feedPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --feed is required")
		fs.Usage()
		os.Exit(1)
	}

	dump, err := fetch.ReadDump(*feedPath)
	if err != nil {
		log.Fatalf("Failed to read feed dump: %v", err)
	}

	st := store.New()
	st.Ingest(dump.Accounts, dump.Posts)

	l, err := routeQuery(st, *query)
	if err != nil {
		log.Fatal(err)
	}

	order := lens.Apply(l, st)
	fmt.Printf("%s — %d of %d posts\n\n", l.Name, minInt(*limit, len(order)), len(order))
	for i, id := range order {
		if i == *limit {
			break
		}
		p := st.Post(id)
		handle := "@???"
		if a := st.AuthorOf(p); a != nil {
			handle = "@" + a.Handle
		}
		fmt.Printf("%s  %-16s %s\n",
			timeutil.FormatFeedTime(p.CreatedAt), handle,
			textutil.Truncate(textutil.CollapseNewlines(p.Text), 100))
	}
}

// routeQuery mirrors the TUI search routing.
func routeQuery(st *store.Store, query string) (lens.Lens, error) {
	query = strings.TrimSpace(query)
	switch {
	case query == "":
		return lens.Home(), nil
	case strings.HasPrefix(query, "#"):
		return lens.ByHashtag(query), nil
	default:
		if handle, ok := textutil.ParseHandle(query); ok {
			a := st.AccountByHandle(handle)
			if a == nil {
				return lens.Lens{}, fmt.Errorf("unknown user @%s in dump", handle)
			}
			return lens.ByAuthor(a.ID, a.Handle), nil
		}
		return lens.Search(query), nil
	}
}

// cmdStarred lists the persisted stars with their name history.
func cmdStarred(defaultDB string) {
	fs := flag.NewFlagSet("starred", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Path to SQLite state database")
	fs.Parse(os.Args[2:])

	keeper, err := persist.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open state database: %v", err)
	}
	defer keeper.Close()

	state, err := keeper.LoadState()
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	if len(state.Starred) == 0 {
		fmt.Println("No starred accounts.")
		return
	}
	for _, acct := range state.Starred {
		fmt.Printf("@%-16s %s  (starred %s)\n",
			acct.Handle, acct.DisplayName, timeutil.RelativeTime(acct.StarredAt))
		if names := state.SeenNames[acct.AccountID]; len(names) > 1 {
			fmt.Printf("  also seen as: %s\n", strings.Join(names[:len(names)-1], ", "))
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
