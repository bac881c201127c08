package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"perch/pkg/textutil"
)

// ────────────────────────────────────────────────────────────
// Status bar
// ────────────────────────────────────────────────────────────

// StatusBar is the bottom line: transient status on the left, cursor
// position and key hints on the right. It never consumes input.
type StatusBar struct{}

func (StatusBar) Kind() Kind { return KindStatus }

func (StatusBar) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	return Ignored, nil
}

var statusHints = [][2]string{
	{"j/k", "move"},
	{"enter", "thread"},
	{"s", "star"},
	{"/", "search"},
	{"?", "help"},
	{"q", "quit"},
}

// Render fits everything on the bar's single line: hints are dropped
// from the right and the status text truncated before anything would
// wrap.
func (StatusBar) Render(s *Session, width, height int) string {
	avail := maxInt(width-2, 0) // bar style pads one cell each side

	pos := ""
	if !s.Sel.IsNone() {
		pos = fmt.Sprintf("%d/%d", s.Sel.Index+1, len(s.Order))
	}

	hints := statusHints
	right := renderHints(pos, hints)
	for len(hints) > 0 && lipgloss.Width(right) > avail {
		hints = hints[:len(hints)-1]
		right = renderHints(pos, hints)
	}
	if lipgloss.Width(right) > avail {
		right = ""
	}

	leftBudget := avail
	if right != "" {
		leftBudget = avail - lipgloss.Width(right) - 2
	}
	style := statusAccentStyle
	if strings.HasPrefix(s.Status, "fetch failed") || strings.HasPrefix(s.Status, "persist failed") {
		style = statusErrStyle
	}
	left := style.Render(textutil.Truncate(s.Status, maxInt(leftBudget, 0)))

	gap := avail - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusStyle.Width(width).Render(left + spaces(gap) + right)
}

func renderHints(pos string, hints [][2]string) string {
	var parts []string
	if pos != "" {
		parts = append(parts, hintDescStyle.Render(pos))
	}
	for _, h := range hints {
		parts = append(parts, hintKeyStyle.Render(h[0])+" "+hintDescStyle.Render(h[1]))
	}
	return strings.Join(parts, "  ")
}
