package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ────────────────────────────────────────────────────────────
// Help overlay
// ────────────────────────────────────────────────────────────

// HelpView lists the key bindings. Any key closes it.
type HelpView struct{}

func (HelpView) Kind() Kind { return KindHelp }

func (HelpView) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	s.HelpOpen = false
	s.MarkDirty(KindHelp)
	return Consumed, nil
}

var helpBindings = []struct{ key, desc string }{
	{"j/k ↓/↑", "move selection"},
	{"g/G", "first / last post"},
	{"enter", "open thread"},
	{"esc", "close overlay"},
	{"s", "star / unstar author"},
	{"f", "toggle starred-only"},
	{"/", "search  (@handle, #tag, text)"},
	{"n", "load next page"},
	{"r", "refresh feed"},
	{"?", "this help"},
	{"q", "quit"},
}

func (HelpView) Render(s *Session, width, height int) string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Perch — keys"))
	b.WriteString("\n\n")
	for _, kb := range helpBindings {
		b.WriteString(helpKeyStyle.Render(padRight(kb.key, 10)))
		b.WriteString(helpDescStyle.Render(kb.desc))
		b.WriteByte('\n')
	}
	return helpFrameStyle.Render(strings.TrimRight(b.String(), "\n"))
}
