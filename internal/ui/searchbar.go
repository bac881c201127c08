package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"perch/internal/lens"
	"perch/pkg/textutil"
)

// ────────────────────────────────────────────────────────────
// Search bar
// ────────────────────────────────────────────────────────────

// SearchBar is the one-line search input. Submitting routes the term
// to a lens: "@handle" to an author lens (resolving unknown handles in
// the background), "#tag" to a hashtag lens, an empty term back to
// home, anything else to a text-contains lens.
type SearchBar struct {
	query string
}

func (sb *SearchBar) Kind() Kind { return KindSearch }

func (sb *SearchBar) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	switch key {
	case "esc":
		sb.query = ""
		s.SearchOpen = false
		// The feed's region grows back by the bar's line.
		s.MarkDirty(KindSearch, KindFeed, KindStatus)
		return Consumed, nil

	case "enter":
		return Consumed, sb.submit(s)

	case "backspace":
		if runes := []rune(sb.query); len(runes) > 0 {
			sb.query = string(runes[:len(runes)-1])
			s.MarkDirty(KindSearch)
		}
		return Consumed, nil
	}

	if printable(key) {
		sb.query += key
		s.MarkDirty(KindSearch)
		return Consumed, nil
	}
	return Ignored, nil
}

func (sb *SearchBar) submit(s *Session) tea.Cmd {
	term := strings.TrimSpace(sb.query)
	sb.query = ""
	s.SearchOpen = false
	s.MarkDirty(KindSearch, KindHeader, KindFeed, KindStatus)

	if term == "" {
		s.SetLens(lens.Home())
		return nil
	}
	if handle, ok := textutil.ParseHandle(term); ok {
		if a := s.Store.AccountByHandle(handle); a != nil {
			s.SetLens(lens.ByAuthor(a.ID, a.Handle))
			return s.Fetcher.LoadUserPosts(a.ID, true)
		}
		s.Status = "resolving @" + handle + "..."
		return s.Fetcher.LookupUser(handle)
	}
	if strings.HasPrefix(term, "#") {
		s.SetLens(lens.ByHashtag(term))
		return nil
	}
	s.SetLens(lens.Search(term))
	return nil
}

func (sb *SearchBar) Render(s *Session, width, height int) string {
	if !s.SearchOpen {
		return ""
	}
	line := "/" + sb.query + searchCursorStyle.Render(" ")
	return searchBarStyle.Width(width).Render(line)
}
