// Package persist is the persistence collaborator for Perch.
//
// It implements the Keeper interface using SQLite with WAL mode. Only
// user state crosses this boundary: starred account identifiers and
// the append-only seen-display-name history. The timeline itself is
// never persisted; it is refetched. State is loaded once at startup
// and written on change from background commands, so the event loop
// never blocks on disk I/O.
package persist

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// StarredAccount is one persisted star.
type StarredAccount struct {
	AccountID   string
	Handle      string
	DisplayName string
	StarredAt   int64
}

// State is everything loaded at startup.
type State struct {
	Starred   []StarredAccount
	SeenNames map[string][]string // account id -> names in first-seen order
}

// Keeper defines the persistence interface. The abstraction keeps the
// UI testable without a database on disk.
type Keeper interface {
	// SaveStar records a starred account (upsert).
	SaveStar(acct StarredAccount) error
	// DeleteStar removes a star.
	DeleteStar(accountID string) error
	// RecordSeenName appends a display name to an account's history.
	// Recording an already-known name is a no-op.
	RecordSeenName(accountID, name string) error
	// LoadState reads all persisted state.
	LoadState() (*State, error)
	// Close shuts down the underlying database.
	Close() error
}

// SQLiteKeeper implements Keeper on a SQLite file. Writes arrive from
// background goroutines, so access is serialized with a mutex.
type SQLiteKeeper struct {
	db *sql.DB
	mu sync.Mutex

	stmtSaveStar   *sql.Stmt
	stmtDeleteStar *sql.Stmt
	stmtSeenName   *sql.Stmt
}

// Open creates a keeper at the given path, initializing the schema.
// Use ":memory:" for tests.
func Open(path string) (*SQLiteKeeper, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	k := &SQLiteKeeper{db: db}
	if err := k.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := k.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}
	return k, nil
}

func (k *SQLiteKeeper) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := k.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

func (k *SQLiteKeeper) prepareStatements() error {
	var err error

	k.stmtSaveStar, err = k.db.Prepare(`
		INSERT INTO starred_accounts (account_id, handle, display_name, starred_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			handle = excluded.handle,
			display_name = excluded.display_name
	`)
	if err != nil {
		return fmt.Errorf("preparing SaveStar: %w", err)
	}

	k.stmtDeleteStar, err = k.db.Prepare(`
		DELETE FROM starred_accounts WHERE account_id = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing DeleteStar: %w", err)
	}

	k.stmtSeenName, err = k.db.Prepare(`
		INSERT INTO seen_names (account_id, name, seq, first_seen)
		VALUES (?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM seen_names WHERE account_id = ?),
			?)
		ON CONFLICT(account_id, name) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing RecordSeenName: %w", err)
	}

	return nil
}

// SaveStar records a starred account, updating handle and display name
// on conflict but keeping the original starred_at.
func (k *SQLiteKeeper) SaveStar(acct StarredAccount) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if acct.StarredAt == 0 {
		acct.StarredAt = time.Now().UnixNano()
	}
	_, err := k.stmtSaveStar.Exec(acct.AccountID, acct.Handle, acct.DisplayName, acct.StarredAt)
	if err != nil {
		return fmt.Errorf("saving star for %s: %w", acct.AccountID, err)
	}
	return nil
}

// DeleteStar removes a star.
func (k *SQLiteKeeper) DeleteStar(accountID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.stmtDeleteStar.Exec(accountID); err != nil {
		return fmt.Errorf("deleting star for %s: %w", accountID, err)
	}
	return nil
}

// RecordSeenName appends to the display-name history. The history is
// append-only: names are never removed, re-recording is a no-op.
func (k *SQLiteKeeper) RecordSeenName(accountID, name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if name == "" {
		return nil
	}
	_, err := k.stmtSeenName.Exec(accountID, name, accountID, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("recording seen name for %s: %w", accountID, err)
	}
	return nil
}

// LoadState reads all persisted state for startup.
func (k *SQLiteKeeper) LoadState() (*State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := &State{SeenNames: make(map[string][]string)}

	rows, err := k.db.Query(`
		SELECT account_id, handle, display_name, starred_at
		FROM starred_accounts
		ORDER BY account_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying starred accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a StarredAccount
		if err := rows.Scan(&a.AccountID, &a.Handle, &a.DisplayName, &a.StarredAt); err != nil {
			return nil, fmt.Errorf("scanning starred account: %w", err)
		}
		state.Starred = append(state.Starred, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	nameRows, err := k.db.Query(`
		SELECT account_id, name
		FROM seen_names
		ORDER BY account_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying seen names: %w", err)
	}
	defer nameRows.Close()
	for nameRows.Next() {
		var id, name string
		if err := nameRows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning seen name: %w", err)
		}
		state.SeenNames[id] = append(state.SeenNames[id], name)
	}
	return state, nameRows.Err()
}

// Close shuts down the database, closing prepared statements first.
func (k *SQLiteKeeper) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, stmt := range []*sql.Stmt{k.stmtSaveStar, k.stmtDeleteStar, k.stmtSeenName} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return k.db.Close()
}
