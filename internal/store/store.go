// Package store owns the canonical set of accounts, posts, and thread
// relationships for Perch.
//
// The store is append/update only: entities are merged by identifier
// and never removed. It is mutated exclusively by the UI event loop;
// background fetches hand their results to that loop as messages, so
// no internal locking is needed. Lenses (internal/lens) filter and
// order references into this store without owning any data.
package store

import (
	"encoding/json"
	"sort"

	"perch/pkg/textutil"
)

// PostKind discriminates how a post relates to other posts.
type PostKind int

const (
	KindOriginal PostKind = iota
	KindReply
	KindRepost
	KindQuote
)

// String returns the short label used in feed rows and perchctl output.
func (k PostKind) String() string {
	switch k {
	case KindReply:
		return "reply"
	case KindRepost:
		return "repost"
	case KindQuote:
		return "quote"
	default:
		return "post"
	}
}

// MarshalJSON encodes the kind as its string label.
func (k PostKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the string labels used in feed dumps.
// Unknown labels degrade to "post" — a malformed record is a data
// error affecting one entity, not a failed ingest.
func (k *PostKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "reply":
		*k = KindReply
	case "repost":
		*k = KindRepost
	case "quote":
		*k = KindQuote
	default:
		*k = KindOriginal
	}
	return nil
}

// Account is a feed author. The identifier is opaque and stable;
// Starred and Notify are local user state and are never overwritten
// by ingest. SeenNames is the append-only display-name history used
// for rename tracking.
type Account struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Handle      string   `json:"handle"`
	Notify      bool     `json:"notify"`
	Starred     bool     `json:"starred"`
	SeenNames   []string `json:"seen_names,omitempty"`
}

// Metrics are the engagement counts on a post. Refreshed on re-ingest
// (last-write-wins); every other post field is immutable once stored.
type Metrics struct {
	Replies int `json:"replies"`
	Reposts int `json:"reposts"`
	Likes   int `json:"likes"`
	Quotes  int `json:"quotes"`
}

// Post is a single feed entry. AuthorID and RefID are non-owning
// references resolved by lookup; RefID is the replied-to or quoted
// post for non-original kinds, empty otherwise.
type Post struct {
	ID        string   `json:"id"`
	AuthorID  string   `json:"author_id"`
	CreatedAt int64    `json:"created_at"` // Unix nanoseconds
	Text      string   `json:"text"`
	Kind      PostKind `json:"kind"`
	RefID     string   `json:"ref_id,omitempty"`
	Metrics   Metrics  `json:"metrics"`
}

// ThreadEntry is one post in a derived thread, with its reply depth
// relative to the thread root.
type ThreadEntry struct {
	Post  *Post
	Depth int
}

// IngestResult summarizes one Ingest call for the status bar.
type IngestResult struct {
	NewAccounts     int
	UpdatedAccounts int
	NewPosts        int
	UpdatedPosts    int
	Dangling        int // posts whose author is not (yet) known
}

// Store holds all known accounts and posts, keyed by identifier.
type Store struct {
	accounts map[string]*Account
	posts    map[string]*Post
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts: make(map[string]*Account),
		posts:    make(map[string]*Post),
	}
}

// Ingest merges a batch of accounts and posts into the store.
// Existing entries are updated by identifier: metrics are
// last-write-wins, display-name changes append to SeenNames, and the
// local Starred flag is preserved. A post referencing an unknown
// author is stored anyway and counted as dangling; it resolves once
// the account arrives in a later batch.
func (s *Store) Ingest(accounts []Account, posts []Post) IngestResult {
	var res IngestResult

	for _, in := range accounts {
		if in.ID == "" {
			continue
		}
		existing, ok := s.accounts[in.ID]
		if !ok {
			a := in
			a.Starred = false
			a.SeenNames = appendName(nil, a.DisplayName)
			s.accounts[a.ID] = &a
			res.NewAccounts++
			continue
		}
		if in.DisplayName != "" && in.DisplayName != existing.DisplayName {
			existing.SeenNames = appendName(existing.SeenNames, in.DisplayName)
			existing.DisplayName = in.DisplayName
		}
		if in.Handle != "" {
			existing.Handle = in.Handle
		}
		existing.Notify = in.Notify
		res.UpdatedAccounts++
	}

	for _, in := range posts {
		if in.ID == "" {
			continue
		}
		if existing, ok := s.posts[in.ID]; ok {
			existing.Metrics = in.Metrics
			res.UpdatedPosts++
			continue
		}
		p := in
		s.posts[p.ID] = &p
		res.NewPosts++
		if _, ok := s.accounts[p.AuthorID]; !ok {
			res.Dangling++
		}
	}

	return res
}

// Account returns the account with the given id, or nil.
func (s *Store) Account(id string) *Account {
	return s.accounts[id]
}

// Post returns the post with the given id, or nil.
func (s *Store) Post(id string) *Post {
	return s.posts[id]
}

// AuthorOf resolves a post's author. Returns nil for a dangling
// reference; callers render "[unknown]" rather than failing.
func (s *Store) AuthorOf(p *Post) *Account {
	if p == nil {
		return nil
	}
	return s.accounts[p.AuthorID]
}

// Posts returns every stored post ordered by id. The slice is a fresh
// snapshot; the pointed-to posts are shared.
func (s *Store) Posts() []*Post {
	out := make([]*Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of stored posts.
func (s *Store) Len() int { return len(s.posts) }

// Star sets the starred flag on an account. Returns false if the
// account is unknown.
func (s *Store) Star(accountID string) bool {
	a, ok := s.accounts[accountID]
	if !ok {
		return false
	}
	a.Starred = true
	return true
}

// Unstar clears the starred flag on an account.
func (s *Store) Unstar(accountID string) bool {
	a, ok := s.accounts[accountID]
	if !ok {
		return false
	}
	a.Starred = false
	return true
}

// ToggleStar flips the starred flag and returns the new state.
func (s *Store) ToggleStar(accountID string) (starred, ok bool) {
	a, present := s.accounts[accountID]
	if !present {
		return false, false
	}
	a.Starred = !a.Starred
	return a.Starred, true
}

// StarredIDs returns the ids of all starred accounts, sorted.
func (s *Store) StarredIDs() []string {
	var ids []string
	for id, a := range s.accounts {
		if a.Starred {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// AccountByHandle finds an account by handle (case-insensitive via
// lowercased handles from textutil.ParseHandle). Returns nil if none.
func (s *Store) AccountByHandle(handle string) *Account {
	if h, ok := textutil.ParseHandle("@" + handle); ok {
		handle = h
	}
	for _, a := range s.accounts {
		if a.Handle == handle {
			return a
		}
	}
	return nil
}

// maxThreadDepth bounds ancestor traversal. The reference graph is
// required to be acyclic; a cycle is a data error, and the bound plus
// the visited set keep traversal terminating regardless.
const maxThreadDepth = 256

// Thread derives the thread containing the given post: the chain of
// referenced ancestors from the root down, then the post, then its
// replies and quotes recursively in chronological order. Returns nil
// if the post is unknown.
func (s *Store) Thread(postID string) []ThreadEntry {
	p, ok := s.posts[postID]
	if !ok {
		return nil
	}

	visited := map[string]bool{p.ID: true}

	// Walk up to the thread root. A dangling or cyclic reference stops
	// the climb at the last known post.
	var ancestors []*Post
	cur := p
	for cur.RefID != "" && len(ancestors) < maxThreadDepth {
		parent, ok := s.posts[cur.RefID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		ancestors = append(ancestors, parent)
		cur = parent
	}

	var entries []ThreadEntry
	for i := len(ancestors) - 1; i >= 0; i-- {
		entries = append(entries, ThreadEntry{Post: ancestors[i], Depth: len(ancestors) - 1 - i})
	}
	base := len(ancestors)
	entries = append(entries, ThreadEntry{Post: p, Depth: base})

	// Children are indexed once per call; the store has no persistent
	// thread structure (threads are recomputed by traversal on demand).
	children := make(map[string][]*Post, len(s.posts))
	for _, c := range s.posts {
		if c.RefID != "" {
			children[c.RefID] = append(children[c.RefID], c)
		}
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool {
			if kids[i].CreatedAt != kids[j].CreatedAt {
				return kids[i].CreatedAt < kids[j].CreatedAt
			}
			return kids[i].ID < kids[j].ID
		})
	}

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if depth > maxThreadDepth {
			return
		}
		for _, c := range children[id] {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			entries = append(entries, ThreadEntry{Post: c, Depth: depth})
			walk(c.ID, depth+1)
		}
	}
	walk(p.ID, base+1)

	return entries
}

// RestoreStars re-applies persisted starred account ids at startup.
// Unknown ids are kept as placeholder accounts so the star survives
// until the account is seen in a fetch.
func (s *Store) RestoreStars(ids []string) {
	for _, id := range ids {
		if a, ok := s.accounts[id]; ok {
			a.Starred = true
			continue
		}
		s.accounts[id] = &Account{ID: id, Starred: true}
	}
}

// RestoreSeenNames re-applies persisted display-name history.
func (s *Store) RestoreSeenNames(history map[string][]string) {
	for id, names := range history {
		a, ok := s.accounts[id]
		if !ok {
			a = &Account{ID: id}
			s.accounts[id] = a
		}
		for _, n := range names {
			a.SeenNames = appendName(a.SeenNames, n)
		}
		if a.DisplayName == "" && len(a.SeenNames) > 0 {
			a.DisplayName = a.SeenNames[len(a.SeenNames)-1]
		}
	}
}

// appendName appends a display name to the history unless it is empty
// or already the most recent entry. History never shrinks.
func appendName(names []string, name string) []string {
	if name == "" {
		return names
	}
	if len(names) > 0 && names[len(names)-1] == name {
		return names
	}
	return append(names, name)
}
