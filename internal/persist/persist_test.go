package persist

import "testing"

func openTestKeeper(t *testing.T) *SQLiteKeeper {
	t.Helper()
	k, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { k.Close() })
	return k
}

func TestSaveAndLoadStars(t *testing.T) {
	k := openTestKeeper(t)

	if err := k.SaveStar(StarredAccount{AccountID: "a1", Handle: "ada", DisplayName: "Ada"}); err != nil {
		t.Fatalf("SaveStar failed: %v", err)
	}
	if err := k.SaveStar(StarredAccount{AccountID: "a2", Handle: "grace", DisplayName: "Grace"}); err != nil {
		t.Fatalf("SaveStar failed: %v", err)
	}

	state, err := k.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(state.Starred) != 2 {
		t.Fatalf("expected 2 stars, got %d", len(state.Starred))
	}
	if state.Starred[0].AccountID != "a1" || state.Starred[0].Handle != "ada" {
		t.Errorf("unexpected first star: %+v", state.Starred[0])
	}
}

func TestSaveStarUpsert(t *testing.T) {
	k := openTestKeeper(t)

	if err := k.SaveStar(StarredAccount{AccountID: "a1", Handle: "ada", DisplayName: "Ada"}); err != nil {
		t.Fatalf("SaveStar failed: %v", err)
	}
	// Re-star with a newer display name; must update, not duplicate.
	if err := k.SaveStar(StarredAccount{AccountID: "a1", Handle: "ada", DisplayName: "Countess"}); err != nil {
		t.Fatalf("SaveStar upsert failed: %v", err)
	}

	state, err := k.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(state.Starred) != 1 {
		t.Fatalf("expected 1 star after upsert, got %d", len(state.Starred))
	}
	if state.Starred[0].DisplayName != "Countess" {
		t.Errorf("display name not updated: %+v", state.Starred[0])
	}
}

func TestDeleteStar(t *testing.T) {
	k := openTestKeeper(t)

	k.SaveStar(StarredAccount{AccountID: "a1"})
	if err := k.DeleteStar("a1"); err != nil {
		t.Fatalf("DeleteStar failed: %v", err)
	}

	state, err := k.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(state.Starred) != 0 {
		t.Errorf("expected no stars after delete, got %v", state.Starred)
	}

	// Deleting a missing star is not an error.
	if err := k.DeleteStar("nobody"); err != nil {
		t.Errorf("DeleteStar of unknown id failed: %v", err)
	}
}

func TestSeenNamesOrderedAndAppendOnly(t *testing.T) {
	k := openTestKeeper(t)

	names := []string{"Ada", "Ada L.", "Countess"}
	for _, n := range names {
		if err := k.RecordSeenName("a1", n); err != nil {
			t.Fatalf("RecordSeenName(%q) failed: %v", n, err)
		}
	}
	// Duplicate record is a no-op.
	if err := k.RecordSeenName("a1", "Ada"); err != nil {
		t.Fatalf("duplicate RecordSeenName failed: %v", err)
	}
	// Empty names are ignored.
	if err := k.RecordSeenName("a1", ""); err != nil {
		t.Fatalf("empty RecordSeenName failed: %v", err)
	}

	state, err := k.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	got := state.SeenNames["a1"]
	if len(got) != len(names) {
		t.Fatalf("seen names = %v, want %v", got, names)
	}
	for i := range names {
		if got[i] != names[i] {
			t.Errorf("seen names = %v, want %v (order must be first-seen)", got, names)
			break
		}
	}
}
