package ui

import (
	"perch/internal/cursor"
	"perch/internal/fetch"
	"perch/internal/lens"
	"perch/internal/persist"
	"perch/internal/store"
)

// Session is the shared state every component reads and mutates. All
// access happens on the event loop goroutine, so there is no locking;
// components hold a reference and mark affected nodes dirty after
// mutating.
type Session struct {
	Store   *store.Store
	Keeper  persist.Keeper
	Fetcher *fetch.Fetcher

	// Lens, Order, Sel are the current view: the active lens, its
	// output order, and the selection reconciled against that order.
	Lens  lens.Lens
	Order []string
	Sel   cursor.Selection

	Width  int
	Height int

	// Status is the transient message on the status bar (fetch results,
	// recoverable errors).
	Status string

	// Overlay flags. At most one is true at a time.
	HelpOpen   bool
	ThreadOpen bool
	SearchOpen bool

	tree *Tree
}

// NewSession wires the collaborators into a session starting on the
// home lens.
func NewSession(st *store.Store, keeper persist.Keeper, f *fetch.Fetcher) *Session {
	return &Session{
		Store:   st,
		Keeper:  keeper,
		Fetcher: f,
		Lens:    lens.Home(),
		Sel:     cursor.None,
	}
}

// MarkDirty flags the given component kinds for redraw.
func (s *Session) MarkDirty(kinds ...Kind) {
	if s.tree == nil {
		return
	}
	for _, k := range kinds {
		s.tree.MarkDirty(k)
	}
}

// SelectedPost returns the post under the cursor, or nil.
func (s *Session) SelectedPost() *store.Post {
	if s.Sel.IsNone() {
		return nil
	}
	return s.Store.Post(s.Sel.ID)
}

// SetLens switches the active lens. The caller runs the recompute +
// reconcile pass afterwards.
func (s *Session) SetLens(l lens.Lens) {
	if l.Key() == s.Lens.Key() {
		return
	}
	s.Lens = l
	s.MarkDirty(KindHeader, KindFeed, KindStatus)
}
