// Package lens derives filtered, ordered views over the timeline store.
//
// A Lens is a named conjunction of primitive predicates plus a
// deterministic ordering (reverse chronological, ties broken by post
// id). A lens never owns data: Apply returns post ids referencing the
// store. Apply is a pure function of (lens, store state), so calling
// it twice in one tick — once for rendering, once for cursor
// reconciliation — yields identical sequences.
package lens

import (
	"sort"
	"strings"

	"perch/internal/store"
	"perch/pkg/textutil"
)

// Lens is a filter + ordering specification. Zero-value fields are
// inactive predicates; active predicates combine by conjunction.
type Lens struct {
	Name        string
	StarredOnly bool
	AuthorID    string // author-equals
	Hashtag     string // hashtag-equals, without '#'
	Contains    string // text-contains, case-insensitive
}

// Home is the unfiltered reverse-chronological lens.
func Home() Lens {
	return Lens{Name: "home"}
}

// Starred keeps only posts from starred accounts.
func Starred() Lens {
	return Lens{Name: "starred", StarredOnly: true}
}

// ByAuthor keeps only posts by the given account.
func ByAuthor(accountID, handle string) Lens {
	return Lens{Name: "@" + handle, AuthorID: accountID}
}

// ByHashtag keeps only posts carrying the given hashtag.
func ByHashtag(tag string) Lens {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	return Lens{Name: "#" + tag, Hashtag: tag}
}

// Search keeps only posts whose body contains the term.
func Search(term string) Lens {
	return Lens{Name: "search:" + term, Contains: term}
}

// WithStarred returns a copy of the lens restricted to starred authors.
func (l Lens) WithStarred() Lens {
	l.StarredOnly = true
	l.Name = l.Name + "+starred"
	return l
}

// DependsOnStarred reports whether the lens output can change when an
// account's starred flag flips. Star/unstar must dirty every component
// whose active lens depends on starred state.
func (l Lens) DependsOnStarred() bool {
	return l.StarredOnly
}

// Key identifies the lens output for cursor reconciliation: two lenses
// with the same key over the same store state produce the same view.
func (l Lens) Key() string {
	var b strings.Builder
	if l.StarredOnly {
		b.WriteString("s|")
	}
	b.WriteString(l.AuthorID)
	b.WriteByte('|')
	b.WriteString(l.Hashtag)
	b.WriteByte('|')
	b.WriteString(strings.ToLower(l.Contains))
	return b.String()
}

// Match reports whether the post passes every active predicate.
func (l Lens) Match(s *store.Store, p *store.Post) bool {
	if l.StarredOnly {
		a := s.AuthorOf(p)
		if a == nil || !a.Starred {
			return false
		}
	}
	if l.AuthorID != "" && p.AuthorID != l.AuthorID {
		return false
	}
	if l.Hashtag != "" && !textutil.HasHashtag(p.Text, l.Hashtag) {
		return false
	}
	if l.Contains != "" &&
		!strings.Contains(strings.ToLower(p.Text), strings.ToLower(l.Contains)) {
		return false
	}
	return true
}

// Apply filters the store through the lens and returns matching post
// ids, newest first. Ties on timestamp order by descending id so the
// sequence is fully deterministic.
func Apply(l Lens, s *store.Store) []string {
	var matched []*store.Post
	for _, p := range s.Posts() {
		if l.Match(s, p) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt != matched[j].CreatedAt {
			return matched[i].CreatedAt > matched[j].CreatedAt
		}
		return matched[i].ID > matched[j].ID
	})

	ids := make([]string, len(matched))
	for i, p := range matched {
		ids[i] = p.ID
	}
	return ids
}
