package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Header is the top bar: brand, active lens, store counts.
type Header struct{}

func (Header) Kind() Kind { return KindHeader }

// The header never takes input.
func (Header) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	return Ignored, nil
}

func (Header) Render(s *Session, width, height int) string {
	brand := headerBrandStyle.Render("Perch")
	sep := headerSepStyle.Render(" │ ")
	lens := headerMetaStyle.Render(s.Lens.Name)
	counts := headerMetaStyle.Render(
		fmt.Sprintf("%d/%d posts", len(s.Order), s.Store.Len()))

	left := brand + sep + lens
	right := counts

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + spaces(gap) + right
	return headerBarStyle.Width(width).Render(line)
}
