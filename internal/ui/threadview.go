package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"perch/pkg/textutil"
	"perch/pkg/timeutil"
)

// ────────────────────────────────────────────────────────────
// Thread overlay
// ────────────────────────────────────────────────────────────

// ThreadView shows the selected post in its reply thread: ancestors up
// to the root, then the reply tree below, indented by depth. The
// thread itself is derived from the store on render; only the scroll
// offset is owned here.
type ThreadView struct {
	scroll int
}

func (tv *ThreadView) Kind() Kind { return KindThread }

func (tv *ThreadView) HandleKey(s *Session, key string) (Result, tea.Cmd) {
	switch key {
	case "esc", "enter":
		tv.scroll = 0
		s.ThreadOpen = false
		s.MarkDirty(KindThread)
		return Consumed, nil

	case "j", "down":
		tv.scroll++
		s.MarkDirty(KindThread)
		return Consumed, nil

	case "k", "up":
		if tv.scroll > 0 {
			tv.scroll--
			s.MarkDirty(KindThread)
		}
		return Consumed, nil
	}
	return Ignored, nil
}

func (tv *ThreadView) Render(s *Session, width, height int) string {
	p := s.SelectedPost()
	if p == nil {
		return threadFrameStyle.Render(threadDimStyle.Render("no post selected"))
	}

	entries := s.Store.Thread(p.ID)
	innerW := maxInt(width-4, 20)

	var lines []string
	lines = append(lines, threadTitleStyle.Render("Thread"))
	lines = append(lines, "")
	for _, e := range entries {
		indent := threadBranchStyle.Render(strings.Repeat("│ ", e.Depth))
		author := s.Store.AuthorOf(e.Post)
		handle := "@???"
		if author != nil {
			handle = "@" + author.Handle
		}

		style := threadDimStyle
		if e.Post.ID == p.ID {
			style = threadFocusStyle
		}
		head := fmt.Sprintf("%s  %s", handle, timeutil.FormatTimestampFull(e.Post.CreatedAt))
		body := textutil.Truncate(textutil.CollapseNewlines(e.Post.Text),
			maxInt(innerW-e.Depth*2, 10))
		m := e.Post.Metrics
		counts := threadMetricStyle.Render(
			fmt.Sprintf("↩ %d  ⇄ %d  ♥ %d", m.Replies, m.Reposts, m.Likes))

		lines = append(lines, indent+style.Render(head))
		lines = append(lines, indent+style.Render(body))
		lines = append(lines, indent+counts)
		lines = append(lines, "")
	}

	// Scroll window over the assembled lines.
	innerH := maxInt(height-2, 3)
	tv.scroll = clamp(tv.scroll, 0, maxInt(len(lines)-innerH, 0))
	end := minInt(tv.scroll+innerH, len(lines))
	visible := lines[tv.scroll:end]

	return threadFrameStyle.Width(minInt(innerW+2, width)).
		Render(strings.Join(visible, "\n"))
}
