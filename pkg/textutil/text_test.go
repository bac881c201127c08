package textutil

import "testing"

// TestCollapseNewlines verifies that runs of newlines flatten to a
// single return marker, keeping one post per feed row.
func TestCollapseNewlines(t *testing.T) {
	in := "Detected new closed trade\n\nTrader: @burgerinnn\nSymbol: $ETH\nPosition: short"
	want := "Detected new closed trade⏎ Trader: @burgerinnn⏎ Symbol: $ETH⏎ Position: short"
	if got := CollapseNewlines(in); got != want {
		t.Errorf("CollapseNewlines = %q, want %q", got, want)
	}

	if got := CollapseNewlines("no newlines here"); got != "no newlines here" {
		t.Errorf("CollapseNewlines changed a single-line string: %q", got)
	}
}

func TestHashtags(t *testing.T) {
	tags := Hashtags("shipping #GoLang today, more #golang and #distsys tomorrow")
	if len(tags) != 2 {
		t.Fatalf("expected 2 unique tags, got %v", tags)
	}
	if tags[0] != "golang" || tags[1] != "distsys" {
		t.Errorf("unexpected tags: %v", tags)
	}

	if Hashtags("plain text") != nil {
		t.Errorf("expected nil for text without hashtags")
	}
}

func TestHasHashtag(t *testing.T) {
	body := "big #Release day"
	if !HasHashtag(body, "release") {
		t.Errorf("expected match for 'release'")
	}
	if !HasHashtag(body, "#RELEASE") {
		t.Errorf("expected match for '#RELEASE'")
	}
	if HasHashtag(body, "rel") {
		t.Errorf("'rel' should not match a longer tag")
	}
}

func TestParseHandle(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"@gopher_dev", "gopher_dev", true},
		{"@Gopher", "gopher", true},
		{"gopher", "", false},
		{"@two words", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseHandle(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseHandle(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hell…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Errorf("Truncate should not touch short strings, got %q", got)
	}
	if got := Truncate("héllo wörld", 6); got != "héllo…" {
		t.Errorf("Truncate not rune-aware: %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Errorf("Truncate with 0 width = %q", got)
	}
}
