package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"perch/internal/cursor"
	"perch/internal/fetch"
	"perch/internal/persist"
	"perch/internal/store"
)

// memKeeper is an in-memory persist.Keeper for UI tests.
type memKeeper struct {
	stars map[string]persist.StarredAccount
	names map[string][]string
}

func newMemKeeper() *memKeeper {
	return &memKeeper{
		stars: make(map[string]persist.StarredAccount),
		names: make(map[string][]string),
	}
}

func (k *memKeeper) SaveStar(acct persist.StarredAccount) error {
	k.stars[acct.AccountID] = acct
	return nil
}

func (k *memKeeper) DeleteStar(accountID string) error {
	delete(k.stars, accountID)
	return nil
}

func (k *memKeeper) RecordSeenName(accountID, name string) error {
	for _, n := range k.names[accountID] {
		if n == name {
			return nil
		}
	}
	k.names[accountID] = append(k.names[accountID], name)
	return nil
}

func (k *memKeeper) LoadState() (*persist.State, error) {
	return &persist.State{SeenNames: k.names}, nil
}

func (k *memKeeper) Close() error { return nil }

type stubSource struct{ batch fetch.Batch }

func (s stubSource) Timeline(ctx context.Context, pageToken string, pageSize int) (fetch.Batch, error) {
	return s.batch, nil
}

func (s stubSource) UserPosts(ctx context.Context, userID, pageToken string, pageSize int) (fetch.Batch, error) {
	return s.batch, nil
}

func (s stubSource) LookupUser(ctx context.Context, handle string) (store.Account, error) {
	return store.Account{ID: "a-" + handle, Handle: handle}, nil
}

func testApp(t *testing.T) (App, *memKeeper) {
	t.Helper()
	keeper := newMemKeeper()
	s := NewSession(store.New(), keeper, fetch.New(stubSource{}, fetch.Options{}))
	a := NewApp(s)
	a.s.Width, a.s.Height = 80, 24

	a.s.Store.Ingest(
		[]store.Account{
			{ID: "a1", Handle: "ada", DisplayName: "Ada"},
			{ID: "a2", Handle: "grace", DisplayName: "Grace"},
		},
		[]store.Post{
			{ID: "p1", AuthorID: "a1", CreatedAt: 1000, Text: "first"},
			{ID: "p2", AuthorID: "a2", CreatedAt: 2000, Text: "second"},
			{ID: "p3", AuthorID: "a1", CreatedAt: 3000, Text: "third"},
		},
	)
	a.reconcileView()
	return a, keeper
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		var m tea.Model
		m, cmd = a.Update(msg)
		a = m.(App)
	}
	return a, cmd
}

// ────────────────────────────────────────────────────────────
// Scenarios
// ────────────────────────────────────────────────────────────

func TestNavigationMovesSelection(t *testing.T) {
	a, _ := testApp(t)
	if a.s.Sel.ID != "p3" {
		t.Fatalf("initial selection = %+v, want p3", a.s.Sel)
	}

	a, _ = press(t, a, "j", "j")
	if a.s.Sel.ID != "p1" || a.s.Sel.Index != 2 {
		t.Fatalf("after jj selection = %+v, want p1@2", a.s.Sel)
	}

	a, _ = press(t, a, "j") // at the end: stays
	if a.s.Sel.ID != "p1" {
		t.Fatalf("selection moved past the end: %+v", a.s.Sel)
	}

	a, _ = press(t, a, "g")
	if a.s.Sel.ID != "p3" || a.s.Sel.Index != 0 {
		t.Fatalf("g selection = %+v, want p3@0", a.s.Sel)
	}
}

// TestIngestPreservesSelectionIdentity: a newer post arriving above
// the cursor shifts the index but keeps the same post selected.
func TestIngestPreservesSelectionIdentity(t *testing.T) {
	a, _ := testApp(t)
	a, _ = press(t, a, "j") // p2 at index 1

	a.s.Store.Ingest(nil, []store.Post{
		{ID: "p4", AuthorID: "a1", CreatedAt: 4000, Text: "newest"},
	})
	a.reconcileView()

	if a.s.Sel.ID != "p2" || a.s.Sel.Index != 2 {
		t.Fatalf("selection = %+v, want p2@2", a.s.Sel)
	}
}

func TestStarPersistsAndHighlightsLens(t *testing.T) {
	a, keeper := testApp(t)

	a, cmd := press(t, a, "s") // star author of p3 (ada)
	if cmd == nil {
		t.Fatal("star produced no persist command")
	}
	if msg := cmd(); msg != (persistDoneMsg{}) {
		t.Fatalf("persist command returned %v", msg)
	}
	if _, ok := keeper.stars["a1"]; !ok {
		t.Fatal("star not persisted")
	}

	a, _ = press(t, a, "f") // starred-only lens
	if len(a.s.Order) != 2 {
		t.Fatalf("starred lens shows %d posts, want 2 (ada's)", len(a.s.Order))
	}
}

// TestUnstarEmptiesViewSelectionBecomesNone: with the starred lens
// active, unstarring the only starred author empties the view and the
// selection must become None, not point at a stale index.
func TestUnstarEmptiesViewSelectionBecomesNone(t *testing.T) {
	a, _ := testApp(t)

	a, _ = press(t, a, "s", "f") // star ada, switch to starred lens
	if len(a.s.Order) == 0 {
		t.Fatal("starred lens unexpectedly empty")
	}

	a, _ = press(t, a, "s") // unstar ada from within the lens
	if len(a.s.Order) != 0 {
		t.Fatalf("order = %v, want empty", a.s.Order)
	}
	if !a.s.Sel.IsNone() {
		t.Fatalf("selection = %+v, want None", a.s.Sel)
	}
	if !a.s.Sel.ValidFor(a.s.Order) {
		t.Fatal("selection invalid for empty view")
	}
}

func TestSearchRoutesHashtagLens(t *testing.T) {
	a, _ := testApp(t)
	a.s.Store.Ingest(nil, []store.Post{
		{ID: "p5", AuthorID: "a1", CreatedAt: 5000, Text: "tagged #go post"},
	})
	a.reconcileView()

	a, _ = press(t, a, "/", "#", "g", "o", "enter")
	if a.s.Lens.Hashtag != "go" {
		t.Fatalf("lens = %+v, want hashtag go", a.s.Lens)
	}
	if len(a.s.Order) != 1 || a.s.Order[0] != "p5" {
		t.Fatalf("order = %v, want [p5]", a.s.Order)
	}
}

func TestSearchRoutesKnownAuthor(t *testing.T) {
	a, _ := testApp(t)

	a, cmd := press(t, a, "/", "@", "a", "d", "a", "enter")
	if a.s.Lens.AuthorID != "a1" {
		t.Fatalf("lens = %+v, want author a1", a.s.Lens)
	}
	if cmd == nil {
		t.Fatal("expected a user-posts fetch command")
	}
}

func TestSearchEscClosesWithoutLensChange(t *testing.T) {
	a, _ := testApp(t)
	before := a.s.Lens.Key()

	a, _ = press(t, a, "/", "x", "esc")
	if a.s.SearchOpen {
		t.Fatal("search still open after esc")
	}
	if a.s.Lens.Key() != before {
		t.Fatal("esc changed the lens")
	}
}

func TestThreadOverlayFocus(t *testing.T) {
	a, _ := testApp(t)

	a, _ = press(t, a, "enter")
	if !a.s.ThreadOpen {
		t.Fatal("enter did not open the thread overlay")
	}

	// Keys that would move the feed selection go to the overlay now.
	before := a.s.Sel
	a, _ = press(t, a, "j")
	if a.s.Sel != before {
		t.Fatal("feed selection moved while the thread overlay was open")
	}

	a, _ = press(t, a, "esc")
	if a.s.ThreadOpen {
		t.Fatal("esc did not close the thread overlay")
	}
}

// TestSearchToggleRedrawsFeedRegion: the search bar borrows a line
// from the feed's region, so flipping it must re-render the feed at
// the new height; the composed view stays exactly terminal-sized.
func TestSearchToggleRedrawsFeedRegion(t *testing.T) {
	a, _ := testApp(t)
	a.s.Height = 10

	var posts []store.Post
	for i := 0; i < 30; i++ {
		posts = append(posts, store.Post{
			ID: fmt.Sprintf("x%02d", i), AuthorID: "a1",
			CreatedAt: int64(10000 + i), Text: "filler",
		})
	}
	a.s.Store.Ingest(nil, posts)
	a.reconcileView()
	a.View()

	a, _ = press(t, a, "/")
	if !a.tree.Node(KindFeed).IsDirty() {
		t.Fatal("opening the search bar did not dirty the feed")
	}
	out := a.View()
	if got := strings.Count(out, "\n") + 1; got != a.s.Height {
		t.Fatalf("view is %d lines with the search bar open, want %d", got, a.s.Height)
	}
	// header + search + status leave Height-3 lines for the feed
	if got := strings.Count(a.cache(KindFeed), "\n") + 1; got != a.s.Height-3 {
		t.Fatalf("feed cache is %d lines, want %d", got, a.s.Height-3)
	}

	a, _ = press(t, a, "esc")
	if !a.tree.Node(KindFeed).IsDirty() {
		t.Fatal("closing the search bar did not dirty the feed")
	}
	out = a.View()
	if got := strings.Count(out, "\n") + 1; got != a.s.Height {
		t.Fatalf("view is %d lines after closing, want %d", got, a.s.Height)
	}
	if got := strings.Count(a.cache(KindFeed), "\n") + 1; got != a.s.Height-2 {
		t.Fatalf("feed cache is %d lines after closing, want %d", got, a.s.Height-2)
	}
}

// TestStatusBarStaysOnOneLine: hints are dropped and the status text
// truncated before the bar would ever wrap in its one-line region.
func TestStatusBarStaysOnOneLine(t *testing.T) {
	a, _ := testApp(t)
	a.s.Status = "loading feed..."

	for _, w := range []int{120, 80, 40, 24} {
		out := (StatusBar{}).Render(a.s, w, 1)
		if strings.Contains(out, "\n") {
			t.Errorf("width %d: status bar wrapped:\n%s", w, out)
		}
		if got := lipgloss.Width(out); got > w {
			t.Errorf("width %d: status bar is %d cells wide", w, got)
		}
	}

	a.s.Status = strings.Repeat("long status ", 20)
	out := (StatusBar{}).Render(a.s, 80, 1)
	if strings.Contains(out, "\n") {
		t.Errorf("long status wrapped the bar:\n%s", out)
	}
}

func TestResizeInvalidatesWholeTree(t *testing.T) {
	a, _ := testApp(t)
	a.View() // drain dirty state

	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a = m.(App)

	total := len(a.tree.order)
	if got := len(a.tree.CollectDirty()); got != total {
		t.Fatalf("resize dirtied %d of %d nodes", got, total)
	}
}

func TestViewRepairsInvalidSelection(t *testing.T) {
	a, _ := testApp(t)
	a.View()

	// Corrupt the selection behind the tracker's back.
	a.s.Sel = cursor.Selection{Index: 99, ID: "ghost"}

	a.View() // release mode: repair, no panic
	if !a.s.Sel.ValidFor(a.s.Order) {
		t.Fatalf("selection not repaired: %+v", a.s.Sel)
	}
}

func TestBatchMsgIngestsAndRecordsNames(t *testing.T) {
	keeper := newMemKeeper()
	src := stubSource{batch: fetch.Batch{
		Accounts: []store.Account{{ID: "a3", Handle: "alan", DisplayName: "Alan"}},
		Posts:    []store.Post{{ID: "p9", AuthorID: "a3", CreatedAt: 9000, Text: "hi"}},
	}}
	s := NewSession(store.New(), keeper, fetch.New(src, fetch.Options{}))
	a := NewApp(s)
	a.s.Width, a.s.Height = 80, 24

	msg := a.s.Fetcher.LoadTimeline(true)()
	m, recCmd := a.Update(msg)
	a = m.(App)

	if a.s.Store.Post("p9") == nil {
		t.Fatal("batch not ingested")
	}
	if recCmd == nil {
		t.Fatal("no seen-name command issued")
	}
	recCmd()
	if got := keeper.names["a3"]; len(got) != 1 || got[0] != "Alan" {
		t.Fatalf("seen names = %v, want [Alan]", got)
	}
}

func TestHelpOverlayOpensFromAnywhere(t *testing.T) {
	a, _ := testApp(t)

	a, _ = press(t, a, "?")
	if !a.s.HelpOpen {
		t.Fatal("? did not open help")
	}
	a, _ = press(t, a, "j") // any key closes
	if a.s.HelpOpen {
		t.Fatal("help still open")
	}
}

func TestFilterToggleRoundTrips(t *testing.T) {
	a, _ := testApp(t)

	a, _ = press(t, a, "f")
	if !a.s.Lens.DependsOnStarred() {
		t.Fatal("f did not enable the starred lens")
	}
	a, _ = press(t, a, "f")
	if a.s.Lens.DependsOnStarred() {
		t.Fatal("second f did not return home")
	}
}
