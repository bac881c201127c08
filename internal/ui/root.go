package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Root is the tree root. It renders nothing itself; it exists as the
// last stop of the focus path, handling application-global keys that
// no descendant consumed.
type Root struct{}

func (Root) Kind() Kind { return KindRoot }

func (Root) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return Consumed, tea.Quit
	case "?":
		s.HelpOpen = true
		s.MarkDirty(KindHelp)
		return Consumed, nil
	}
	return Ignored, nil
}

func (Root) Render(s *Session, width, height int) string { return "" }
