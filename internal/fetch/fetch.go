// Package fetch is the background fetch collaborator for Perch.
//
// The event loop never blocks: every fetch runs as a Bubble Tea
// command in its own goroutine and reports back as a message on the
// same queue the keyboard feeds. Requests are identified per resource;
// a newer request for the same resource supersedes the in-flight one,
// and superseded results are discarded whole at delivery — never
// partially applied. A fetch that overruns its timeout surfaces a
// recoverable error message rather than hanging.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"perch/internal/logging"
	"perch/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Batch is one page of ingest-ready records from a source.
type Batch struct {
	Accounts []store.Account `json:"accounts,omitempty"`
	Posts    []store.Post    `json:"posts,omitempty"`
	NextPage string          `json:"next_page,omitempty"`
}

// Source is the boundary to the actual feed backend. Network
// retrieval and authentication live behind it; Perch ships a
// FileSource that pages through a local dump.
type Source interface {
	// Timeline returns a page of the home timeline. An empty pageToken
	// requests the first page.
	Timeline(ctx context.Context, pageToken string, pageSize int) (Batch, error)
	// UserPosts returns a page of one account's posts.
	UserPosts(ctx context.Context, userID, pageToken string, pageSize int) (Batch, error)
	// LookupUser resolves a handle to an account.
	LookupUser(ctx context.Context, handle string) (store.Account, error)
}

// ErrNoMorePages is returned when a continuation is requested but the
// previous page was the last one.
var ErrNoMorePages = errors.New("no more pages")

// Resource names for supersede bookkeeping. Timeline and user-posts
// requests share one feed resource: switching lenses supersedes the
// previous feed fetch.
const (
	ResourceFeed   = "feed"
	ResourceLookup = "lookup"
)

// BatchMsg delivers a completed fetch to the event loop. Apply it only
// if Fetcher.Accept reports the request is still current.
type BatchMsg struct {
	Resource  string
	RequestID string
	Batch     Batch
	Restarted bool
	Elapsed   time.Duration
}

// UserMsg delivers a resolved user lookup.
type UserMsg struct {
	RequestID string
	Account   store.Account
}

// ErrMsg is a recoverable fetch failure (timeout included). The status
// bar renders it; the event loop keeps running.
type ErrMsg struct {
	Resource string
	Err      error
}

func (e ErrMsg) Error() string { return e.Err.Error() }

// Metrics counts fetch outcomes for logging and the status line.
type Metrics struct {
	Pages      int64
	Errors     int64
	Superseded int64
}

// Options configures a Fetcher.
type Options struct {
	Timeout  time.Duration
	PageSize int
	RPS      float64
	Burst    int
}

// Fetcher coordinates background fetches: rate limiting, timeouts,
// page continuation, and per-resource supersede tracking.
type Fetcher struct {
	source  Source
	limiter *rate.Limiter
	timeout time.Duration
	pageSz  int

	mu     sync.Mutex
	latest map[string]string // resource -> current request id
	pages  map[string]string // resource -> next page token

	metrics Metrics
}

// New creates a Fetcher over the given source.
func New(source Source, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.RPS <= 0 {
		opts.RPS = 2.0
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	return &Fetcher{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		timeout: opts.Timeout,
		pageSz:  opts.PageSize,
		latest:  make(map[string]string),
		pages:   make(map[string]string),
	}
}

// begin registers a new request for a resource, superseding any
// in-flight one, and returns its id.
func (f *Fetcher) begin(resource string) string {
	id := uuid.NewString()
	f.mu.Lock()
	f.latest[resource] = id
	f.mu.Unlock()
	return id
}

// current reports whether the request is still the newest for its
// resource.
func (f *Fetcher) current(resource, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest[resource] == id
}

// Accept reports whether a delivered batch should be applied. A stale
// batch is counted and dropped whole; no partial application.
func (f *Fetcher) Accept(msg BatchMsg) bool {
	if f.current(msg.Resource, msg.RequestID) {
		return true
	}
	atomic.AddInt64(&f.metrics.Superseded, 1)
	logging.Info("discarding superseded fetch", map[string]any{
		"resource": msg.Resource, "request": msg.RequestID,
	})
	return false
}

// AcceptUser is Accept for lookup results.
func (f *Fetcher) AcceptUser(msg UserMsg) bool {
	if f.current(ResourceLookup, msg.RequestID) {
		return true
	}
	atomic.AddInt64(&f.metrics.Superseded, 1)
	return false
}

// Snapshot returns a copy of the fetch metrics.
func (f *Fetcher) Snapshot() Metrics {
	return Metrics{
		Pages:      atomic.LoadInt64(&f.metrics.Pages),
		Errors:     atomic.LoadInt64(&f.metrics.Errors),
		Superseded: atomic.LoadInt64(&f.metrics.Superseded),
	}
}

// LoadTimeline fetches a page of the home timeline. With restart the
// first page is requested and the continuation token reset; otherwise
// the next page is requested, failing with ErrNoMorePages when the
// feed is exhausted.
func (f *Fetcher) LoadTimeline(restart bool) tea.Cmd {
	return f.loadFeed(restart, func(ctx context.Context, token string) (Batch, error) {
		return f.source.Timeline(ctx, token, f.pageSz)
	})
}

// LoadUserPosts fetches a page of one account's posts.
func (f *Fetcher) LoadUserPosts(userID string, restart bool) tea.Cmd {
	return f.loadFeed(restart, func(ctx context.Context, token string) (Batch, error) {
		return f.source.UserPosts(ctx, userID, token, f.pageSz)
	})
}

func (f *Fetcher) loadFeed(restart bool, page func(context.Context, string) (Batch, error)) tea.Cmd {
	id := f.begin(ResourceFeed)

	var token string
	var fetched bool
	f.mu.Lock()
	if restart {
		delete(f.pages, ResourceFeed)
	} else {
		// Map presence distinguishes "never fetched" from "last page
		// seen": only the latter has recorded an empty token.
		token, fetched = f.pages[ResourceFeed]
	}
	f.mu.Unlock()

	return func() tea.Msg {
		if !restart && fetched && token == "" {
			return ErrMsg{Resource: ResourceFeed, Err: ErrNoMorePages}
		}

		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		start := time.Now()
		if err := f.limiter.Wait(ctx); err != nil {
			atomic.AddInt64(&f.metrics.Errors, 1)
			return ErrMsg{Resource: ResourceFeed, Err: fmt.Errorf("rate limit wait: %w", err)}
		}

		batch, err := page(ctx, token)
		if err != nil {
			atomic.AddInt64(&f.metrics.Errors, 1)
			logging.Error("feed fetch failed", map[string]any{"error": err.Error()})
			return ErrMsg{Resource: ResourceFeed, Err: err}
		}

		// Record the continuation token only if this request is still
		// current; a superseded page must not steer future paging.
		f.mu.Lock()
		if f.latest[ResourceFeed] == id {
			f.pages[ResourceFeed] = batch.NextPage
		}
		f.mu.Unlock()

		atomic.AddInt64(&f.metrics.Pages, 1)
		return BatchMsg{
			Resource:  ResourceFeed,
			RequestID: id,
			Batch:     batch,
			Restarted: restart,
			Elapsed:   time.Since(start),
		}
	}
}

// LookupUser resolves a handle in the background.
func (f *Fetcher) LookupUser(handle string) tea.Cmd {
	id := f.begin(ResourceLookup)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		if err := f.limiter.Wait(ctx); err != nil {
			atomic.AddInt64(&f.metrics.Errors, 1)
			return ErrMsg{Resource: ResourceLookup, Err: fmt.Errorf("rate limit wait: %w", err)}
		}

		acct, err := f.source.LookupUser(ctx, handle)
		if err != nil {
			atomic.AddInt64(&f.metrics.Errors, 1)
			return ErrMsg{Resource: ResourceLookup, Err: err}
		}
		return UserMsg{RequestID: id, Account: acct}
	}
}
