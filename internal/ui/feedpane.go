package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"perch/internal/cursor"
	"perch/internal/lens"
	"perch/internal/store"
	"perch/pkg/textutil"
	"perch/pkg/timeutil"
)

// ────────────────────────────────────────────────────────────
// Feed pane
// ────────────────────────────────────────────────────────────

// FeedPane is the scrolling timeline. The scroll offset is view state
// owned here; the selection itself lives on the session because the
// thread overlay and status bar read it too.
type FeedPane struct {
	scroll int
}

func (fp *FeedPane) Kind() Kind { return KindFeed }

func (fp *FeedPane) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	switch key {

	// ── Selection movement ──

	case "j", "down":
		fp.moveTo(s, s.Sel.Index+1)
		return Consumed, nil

	case "k", "up":
		fp.moveTo(s, s.Sel.Index-1)
		return Consumed, nil

	case "g", "home":
		fp.moveTo(s, 0)
		return Consumed, nil

	case "G", "end":
		fp.moveTo(s, len(s.Order)-1)
		return Consumed, nil

	// ── Actions on the selected post ──

	case "enter":
		if s.SelectedPost() == nil {
			return Consumed, nil
		}
		s.ThreadOpen = true
		s.MarkDirty(KindThread)
		return Consumed, nil

	case "s":
		return Consumed, fp.toggleStar(s)

	// ── Lens switching ──

	case "f":
		if s.Lens.DependsOnStarred() {
			s.SetLens(lens.Home())
		} else {
			s.SetLens(lens.Starred())
		}
		fp.scroll = 0
		return Consumed, nil

	case "/":
		s.SearchOpen = true
		// The search bar takes a line from the feed's region.
		s.MarkDirty(KindSearch, KindFeed, KindStatus)
		return Consumed, nil

	// ── Fetching ──

	case "n":
		s.Status = "loading next page..."
		s.MarkDirty(KindStatus)
		return Consumed, fp.loadFeed(s, false)

	case "r":
		s.Status = "refreshing..."
		s.MarkDirty(KindStatus)
		return Consumed, fp.loadFeed(s, true)
	}

	return Ignored, nil
}

func (fp *FeedPane) moveTo(s *Session, i int) {
	next := cursor.At(s.Order, i)
	if next != s.Sel {
		s.Sel = next
		s.MarkDirty(KindFeed, KindStatus)
	}
}

// toggleStar flips the star on the selected post's author, updating
// the store immediately and persisting in the background.
func (fp *FeedPane) toggleStar(s *Session) tea.Cmd {
	p := s.SelectedPost()
	if p == nil {
		return nil
	}
	a := s.Store.AuthorOf(p)
	if a == nil {
		s.Status = fmt.Sprintf("author of %s unknown", p.ID)
		s.MarkDirty(KindStatus)
		return nil
	}
	starred, _ := s.Store.ToggleStar(a.ID)
	if starred {
		s.Status = "starred @" + a.Handle
	} else {
		s.Status = "unstarred @" + a.Handle
	}
	s.MarkDirty(KindFeed, KindStatus)
	return persistStarCmd(s.Keeper, *a, starred)
}

// loadFeed continues or restarts the fetch matching the active lens:
// an author lens pages that author's posts, everything else pages the
// home timeline.
func (fp *FeedPane) loadFeed(s *Session, restart bool) tea.Cmd {
	if s.Lens.AuthorID != "" {
		return s.Fetcher.LoadUserPosts(s.Lens.AuthorID, restart)
	}
	return s.Fetcher.LoadTimeline(restart)
}

// ────────────────────────────────────────────────────────────
// Rendering
// ────────────────────────────────────────────────────────────

func (fp *FeedPane) Render(s *Session, width, height int) string {
	if len(s.Order) == 0 {
		return emptyStateStyle.Render("no posts match " + s.Lens.Name)
	}

	visible := maxInt(height, 1)
	if !s.Sel.IsNone() {
		if s.Sel.Index < fp.scroll {
			fp.scroll = s.Sel.Index
		}
		if s.Sel.Index >= fp.scroll+visible {
			fp.scroll = s.Sel.Index - visible + 1
		}
	}
	fp.scroll = clamp(fp.scroll, 0, maxInt(len(s.Order)-1, 0))

	var lines []string
	for i := fp.scroll; i < len(s.Order) && i-fp.scroll < visible; i++ {
		lines = append(lines, fp.renderRow(s, s.Order[i], i == s.Sel.Index, width))
	}
	return strings.Join(lines, "\n")
}

func (fp *FeedPane) renderRow(s *Session, id string, selected bool, width int) string {
	p := s.Store.Post(id)
	if p == nil {
		return ""
	}
	author := s.Store.AuthorOf(p)

	timeStr := timeutil.FormatFeedTime(p.CreatedAt)
	marker := kindMarker(p.Kind)
	star := " "
	if author != nil && author.Starred {
		star = "★"
	}
	handle := "@???"
	if author != nil {
		handle = "@" + author.Handle
	}

	body := textutil.CollapseNewlines(p.Text)
	// time + space + star + marker + space + handle + 2 spaces + padding
	used := lipgloss.Width(timeStr) + lipgloss.Width(handle) + 8
	body = textutil.Truncate(body, maxInt(width-used, 8))

	if selected {
		line := fmt.Sprintf("%s %s%s %s  %s", timeStr, star, marker, handle, body)
		return feedSelectedStyle.Width(width).Render(line)
	}

	authorStyle := feedAuthorStyle
	if author != nil && author.Starred {
		authorStyle = feedStarredAuthorStyle
	}
	line := feedTimeStyle.Render(timeStr) + " " +
		feedStarMarkStyle.Render(star) + kindMarkerStyle(p.Kind).Render(marker) + " " +
		authorStyle.Render(handle) + "  " + body
	return feedRowStyle.Width(width).Render(line)
}

// kindMarker is the one-cell glyph distinguishing post kinds.
func kindMarker(k store.PostKind) string {
	switch k {
	case store.KindReply:
		return "↩"
	case store.KindRepost:
		return "⇄"
	case store.KindQuote:
		return "❝"
	default:
		return " "
	}
}

func kindMarkerStyle(k store.PostKind) lipgloss.Style {
	switch k {
	case store.KindReply:
		return feedKindReplyStyle
	case store.KindRepost, store.KindQuote:
		return feedKindRepostStyle
	default:
		return lipgloss.NewStyle()
	}
}
