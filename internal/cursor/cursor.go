// Package cursor maps the logical selection onto the current lens
// output and repairs it whenever the view changes shape.
//
// The selection is identity-bound: across reconciliation the selected
// post keeps its identity, not its index. Reconciliation is mandatory
// after every mutation that can change lens output and before the next
// render pass; the UI treats a skipped reconciliation as an invariant
// violation.
package cursor

// Selection is an index into the current lens output plus the id of
// the selected entity. None (Index < 0) means the output is empty or
// nothing is selected.
type Selection struct {
	Index int
	ID    string
}

// None is the empty selection.
var None = Selection{Index: -1}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return s.Index < 0 }

// ValidFor reports whether the selection is consistent with the given
// lens output: either none, or a valid index whose id matches.
func (s Selection) ValidFor(order []string) bool {
	if s.IsNone() {
		return len(order) == 0
	}
	return s.Index < len(order) && order[s.Index] == s.ID
}

// At selects the entry at index i of the given output, or None when
// the output is empty. The index is clamped into range.
func At(order []string, i int) Selection {
	if len(order) == 0 {
		return None
	}
	if i < 0 {
		i = 0
	}
	if i >= len(order) {
		i = len(order) - 1
	}
	return Selection{Index: i, ID: order[i]}
}

// Reconcile repairs a selection after the lens output changed.
//
// Policy, favoring minimal visual jump over index stability:
//  1. If the previously selected id is still present, select its new
//     index (identity preserved across reordering and insertions).
//  2. Otherwise select the entry that was immediately before it in the
//     previous output and is still present in the new output.
//  3. Otherwise select index 0.
//  4. If the new output is empty, the selection becomes None.
func Reconcile(prev Selection, prevOrder, cur []string) Selection {
	if len(cur) == 0 {
		return None
	}
	if prev.IsNone() {
		return At(cur, 0)
	}

	pos := make(map[string]int, len(cur))
	for i, id := range cur {
		pos[id] = i
	}

	if i, ok := pos[prev.ID]; ok {
		return Selection{Index: i, ID: prev.ID}
	}

	// The selected entity vanished (filtered out or deleted): fall back
	// to the nearest preceding survivor from the previous output.
	prevIdx := -1
	for i, id := range prevOrder {
		if id == prev.ID {
			prevIdx = i
			break
		}
	}
	for i := prevIdx - 1; i >= 0; i-- {
		if j, ok := pos[prevOrder[i]]; ok {
			return Selection{Index: j, ID: prevOrder[i]}
		}
	}

	return At(cur, 0)
}
