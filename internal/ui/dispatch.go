package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ────────────────────────────────────────────────────────────
// Key dispatch
// ────────────────────────────────────────────────────────────

// FocusPath returns the chain of nodes a key event visits, innermost
// first and root last. Exactly one overlay can be open at a time; an
// open overlay is the innermost handler, otherwise the feed is. The
// root sits at the end for application-global keys.
func (t *Tree) FocusPath(s *Session) []*Node {
	var path []*Node
	switch {
	case s.HelpOpen:
		path = append(path, t.Node(KindHelp))
	case s.ThreadOpen:
		path = append(path, t.Node(KindThread))
	case s.SearchOpen:
		path = append(path, t.Node(KindSearch))
	default:
		path = append(path, t.Node(KindFeed))
	}
	if path[0] != t.root {
		path = append(path, t.root)
	}
	return path
}

// Dispatch routes one key event along the focus path. The first
// component to return Consumed ends propagation; at most one component
// handles any given event. An event nobody consumes is dropped
// silently.
func Dispatch(t *Tree, s *Session, key string) (Result, tea.Cmd) {
	for _, n := range t.FocusPath(s) {
		if n == nil {
			continue
		}
		if res, cmd := n.comp.HandleKey(s, key); res == Consumed {
			return Consumed, cmd
		}
	}
	return Ignored, nil
}
