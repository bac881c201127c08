package cursor

import "testing"

func sel(i int, id string) Selection { return Selection{Index: i, ID: id} }

// TestIdentityPreserved: the selection follows the entity, not the
// index, when new posts are inserted above it.
func TestIdentityPreserved(t *testing.T) {
	prev := sel(1, "p2")
	prevOrder := []string{"p1", "p2", "p3"}
	cur := []string{"p4", "p1", "p2", "p3"} // new post p4 arrived on top

	got := Reconcile(prev, prevOrder, cur)
	if got.ID != "p2" || got.Index != 2 {
		t.Errorf("Reconcile = %+v, want index 2 id p2", got)
	}
}

// TestFallbackToPrecedingSurvivor: when the selected entity vanishes,
// selection degrades to the nearest preceding still-present entry.
func TestFallbackToPrecedingSurvivor(t *testing.T) {
	prev := sel(2, "p3")
	prevOrder := []string{"p1", "p2", "p3", "p4"}
	cur := []string{"p1", "p4"} // p2 and p3 filtered out

	got := Reconcile(prev, prevOrder, cur)
	if got.ID != "p1" || got.Index != 0 {
		t.Errorf("Reconcile = %+v, want p1 at 0", got)
	}
}

func TestFallbackToIndexZero(t *testing.T) {
	prev := sel(0, "p1")
	prevOrder := []string{"p1"}
	cur := []string{"p7", "p8"} // nothing from the old view survives

	got := Reconcile(prev, prevOrder, cur)
	if got.ID != "p7" || got.Index != 0 {
		t.Errorf("Reconcile = %+v, want p7 at 0", got)
	}
}

// TestEmptyOutputBecomesNone is the unstar scenario: P1,P2,P3 by
// starred account A, selection on P2, unstar A, lens output empties.
func TestEmptyOutputBecomesNone(t *testing.T) {
	prev := sel(1, "p2")
	prevOrder := []string{"p1", "p2", "p3"}

	got := Reconcile(prev, prevOrder, nil)
	if !got.IsNone() {
		t.Errorf("Reconcile on empty output = %+v, want none", got)
	}
}

func TestNonePicksFirstWhenOutputAppears(t *testing.T) {
	got := Reconcile(None, nil, []string{"p1", "p2"})
	if got.ID != "p1" || got.Index != 0 {
		t.Errorf("Reconcile from none = %+v, want p1 at 0", got)
	}
	if !Reconcile(None, nil, nil).IsNone() {
		t.Error("none over empty output should stay none")
	}
}

func TestReorderingFollowsIdentity(t *testing.T) {
	prev := sel(0, "p1")
	prevOrder := []string{"p1", "p2", "p3"}
	cur := []string{"p3", "p2", "p1"}

	got := Reconcile(prev, prevOrder, cur)
	if got.ID != "p1" || got.Index != 2 {
		t.Errorf("Reconcile = %+v, want p1 at 2", got)
	}
}

func TestValidFor(t *testing.T) {
	order := []string{"p1", "p2"}
	if !sel(1, "p2").ValidFor(order) {
		t.Error("valid selection reported invalid")
	}
	if sel(1, "p1").ValidFor(order) {
		t.Error("id mismatch reported valid")
	}
	if sel(5, "p9").ValidFor(order) {
		t.Error("out-of-range index reported valid")
	}
	if !None.ValidFor(nil) {
		t.Error("none should be valid for empty output")
	}
}

func TestAtClamps(t *testing.T) {
	order := []string{"p1", "p2", "p3"}
	if got := At(order, 99); got.Index != 2 || got.ID != "p3" {
		t.Errorf("At clamp high = %+v", got)
	}
	if got := At(order, -5); got.Index != 0 {
		t.Errorf("At clamp low = %+v", got)
	}
	if !At(nil, 0).IsNone() {
		t.Error("At on empty output should be none")
	}
}
