package ui

import (
	"errors"
	"fmt"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"perch/internal/cursor"
	"perch/internal/fetch"
	"perch/internal/lens"
	"perch/internal/logging"
	"perch/internal/persist"
	"perch/internal/store"
	"perch/pkg/timeutil"
)

// debugMode enables hard assertions on render invariants. In release
// mode a violated invariant is logged, repaired, and the whole tree
// re-rendered instead.
var debugMode = os.Getenv("PERCH_DEBUG") != ""

// ────────────────────────────────────────────────────────────
// App
// ────────────────────────────────────────────────────────────

// App is the root BubbleTea model. All state mutation happens inside
// Update on the event loop goroutine; background work returns as
// messages on the same queue, so there is exactly one writer.
type App struct {
	s    *Session
	tree *Tree
}

// NewApp builds the component tree over the given session. The tree is
// fixed for the program's lifetime; overlays toggle visibility through
// session flags rather than attaching and detaching nodes.
func NewApp(s *Session) App {
	t := NewTree(Root{})
	t.Add(KindRoot, Header{})
	t.Add(KindRoot, &SearchBar{})
	t.Add(KindRoot, &FeedPane{})
	t.Add(KindRoot, &ThreadView{})
	t.Add(KindRoot, HelpView{})
	t.Add(KindRoot, StatusBar{})
	s.tree = t
	s.Status = "loading feed..."
	return App{s: s, tree: t}
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type persistDoneMsg struct{}
type persistErrMsg struct{ err error }

func (e persistErrMsg) Error() string { return e.err.Error() }

// persistStarCmd writes a star flip in the background.
func persistStarCmd(keeper persist.Keeper, acct store.Account, starred bool) tea.Cmd {
	rec := persist.StarredAccount{
		AccountID:   acct.ID,
		Handle:      acct.Handle,
		DisplayName: acct.DisplayName,
		StarredAt:   timeutil.NowNano(),
	}
	return func() tea.Msg {
		var err error
		if starred {
			err = keeper.SaveStar(rec)
		} else {
			err = keeper.DeleteStar(rec.AccountID)
		}
		if err != nil {
			return persistErrMsg{err}
		}
		return persistDoneMsg{}
	}
}

// recordNamesCmd appends freshly seen display names to the persisted
// history. Known names are no-ops inside the keeper.
func recordNamesCmd(keeper persist.Keeper, accounts []store.Account) tea.Cmd {
	if len(accounts) == 0 {
		return nil
	}
	recs := make([]store.Account, len(accounts))
	copy(recs, accounts)
	return func() tea.Msg {
		for _, a := range recs {
			if a.DisplayName == "" {
				continue
			}
			if err := keeper.RecordSeenName(a.ID, a.DisplayName); err != nil {
				return persistErrMsg{err}
			}
		}
		return persistDoneMsg{}
	}
}

// ────────────────────────────────────────────────────────────
// Init / Update
// ────────────────────────────────────────────────────────────

func (a App) Init() tea.Cmd {
	return a.s.Fetcher.LoadTimeline(true)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := a.s

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		s.Width = msg.Width
		s.Height = msg.Height
		// Geometry affects every layout; partial invalidation cannot be
		// trusted across a resize.
		a.tree.InvalidateAll()
		return a, nil

	case tea.KeyMsg:
		_, cmd := Dispatch(a.tree, s, msg.String())
		a.reconcileView()
		return a, cmd

	case fetch.BatchMsg:
		if !s.Fetcher.Accept(msg) {
			return a, nil
		}
		res := s.Store.Ingest(msg.Batch.Accounts, msg.Batch.Posts)
		s.Status = fmt.Sprintf("%d new, %d updated in %s",
			res.NewPosts, res.UpdatedPosts,
			timeutil.FormatDuration(msg.Elapsed.Milliseconds()))
		if res.Dangling > 0 {
			logging.Warn("ingested posts with unknown authors",
				map[string]any{"count": res.Dangling})
		}
		s.MarkDirty(KindHeader, KindFeed, KindStatus)
		a.reconcileView()
		return a, recordNamesCmd(s.Keeper, msg.Batch.Accounts)

	case fetch.UserMsg:
		if !s.Fetcher.AcceptUser(msg) {
			return a, nil
		}
		s.Store.Ingest([]store.Account{msg.Account}, nil)
		s.SetLens(lens.ByAuthor(msg.Account.ID, msg.Account.Handle))
		a.reconcileView()
		return a, s.Fetcher.LoadUserPosts(msg.Account.ID, true)

	case fetch.ErrMsg:
		if errors.Is(msg.Err, fetch.ErrNoMorePages) {
			s.Status = "end of feed"
		} else {
			s.Status = "fetch failed: " + msg.Err.Error()
		}
		s.MarkDirty(KindStatus)
		return a, nil

	case persistErrMsg:
		logging.Error("persist write failed", map[string]any{"error": msg.err.Error()})
		s.Status = "persist failed: " + msg.err.Error()
		s.MarkDirty(KindStatus)
		return a, nil

	case persistDoneMsg:
		return a, nil
	}

	return a, nil
}

// reconcileView recomputes the lens output and repairs the selection
// after any event that may have mutated shared state. Apply is pure,
// so recomputing unconditionally is correct; when nothing changed the
// result is identical and nothing extra is marked dirty.
func (a App) reconcileView() {
	s := a.s
	prevOrder := s.Order
	order := lens.Apply(s.Lens, s.Store)
	sel := cursor.Reconcile(s.Sel, prevOrder, order)
	if !slices.Equal(order, prevOrder) || sel != s.Sel {
		s.MarkDirty(KindFeed, KindStatus)
	}
	s.Order = order
	s.Sel = sel
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (a App) View() string {
	s := a.s
	if s.Width == 0 {
		return "Initializing..."
	}

	// Render-time invariant: the selection must be consistent with the
	// view it is rendered against.
	if !s.Sel.ValidFor(s.Order) {
		if debugMode {
			panic(fmt.Sprintf("render with invalid selection %+v over %d entries",
				s.Sel, len(s.Order)))
		}
		logging.Error("invalid selection at render, repairing", map[string]any{
			"index": s.Sel.Index, "id": s.Sel.ID, "entries": len(s.Order),
		})
		s.Sel = cursor.Reconcile(s.Sel, nil, s.Order)
		a.tree.InvalidateAll()
	}

	bodyH := maxInt(s.Height-2, 1)
	feedH := bodyH
	if s.SearchOpen {
		feedH = maxInt(bodyH-1, 1)
	}

	// Refresh only the dirty caches.
	for _, n := range a.tree.CollectDirty() {
		switch n.Kind() {
		case KindHeader, KindSearch, KindStatus:
			n.SetCache(n.Component().Render(s, s.Width, 1))
		case KindFeed:
			n.SetCache(n.Component().Render(s, s.Width, feedH))
		case KindThread, KindHelp:
			n.SetCache(n.Component().Render(s, s.Width-8, bodyH))
		case KindRoot:
			// Container; composition below is its render.
		}
	}

	body := a.cache(KindFeed)
	if s.SearchOpen {
		body = lipgloss.JoinVertical(lipgloss.Left, a.cache(KindSearch), body)
	}
	switch {
	case s.ThreadOpen:
		body = lipgloss.Place(s.Width, bodyH, lipgloss.Center, lipgloss.Center,
			a.cache(KindThread))
	case s.HelpOpen:
		body = lipgloss.Place(s.Width, bodyH, lipgloss.Center, lipgloss.Center,
			a.cache(KindHelp))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.cache(KindHeader), body, a.cache(KindStatus))
}

func (a App) cache(k Kind) string {
	if n := a.tree.Node(k); n != nil {
		return n.Cache()
	}
	return ""
}
