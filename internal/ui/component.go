package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ────────────────────────────────────────────────────────────
// Node kinds
// ────────────────────────────────────────────────────────────

// Kind identifies a component in the tree. The set of kinds is closed
// and known at design time; the tree shape only varies by which
// overlay is open.
type Kind int

const (
	KindRoot Kind = iota
	KindHeader
	KindFeed
	KindSearch
	KindThread
	KindHelp
	KindStatus
)

// String returns the kind's name for logs and tests.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindHeader:
		return "header"
	case KindFeed:
		return "feed"
	case KindSearch:
		return "search"
	case KindThread:
		return "thread"
	case KindHelp:
		return "help"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// ────────────────────────────────────────────────────────────
// Component contract
// ────────────────────────────────────────────────────────────

// Result is the outcome of a component's attempt to handle a key.
type Result int

const (
	// Ignored continues propagation to the parent.
	Ignored Result = iota
	// Consumed stops propagation. A component must return Consumed
	// only when its state mutation is complete and self-consistent;
	// partial handling followed by Ignored is disallowed.
	Consumed
)

// Component is one renderable, input-capable region of the screen.
// Components hold only their own view state (scroll offsets, input
// buffers); shared entities live in the Session's store and are
// accessed by reference.
type Component interface {
	Kind() Kind
	// HandleKey processes a single key event. Any returned command is
	// background work (fetch, persistence) for the event loop to run.
	HandleKey(s *Session, key string) (Result, tea.Cmd)
	// Render draws the component into its assigned region. It is only
	// called for nodes reported dirty by CollectDirty.
	Render(s *Session, width, height int) string
}

// ────────────────────────────────────────────────────────────
// Tree + invalidation tracker
// ────────────────────────────────────────────────────────────

// Node wraps a Component with its tree links, dirty flag, and the
// cached output of its last render.
type Node struct {
	comp     Component
	parent   *Node
	children []*Node

	dirty bool
	cache string
}

// Component returns the wrapped component.
func (n *Node) Component() Component { return n.comp }

// Kind returns the wrapped component's kind.
func (n *Node) Kind() Kind { return n.comp.Kind() }

// MarkDirty flags the node and every ancestor for redraw. Idempotent.
// Dirtiness propagates upward only: a dirty parent says "something in
// this region changed" without forcing children to redraw.
func (n *Node) MarkDirty() {
	for cur := n; cur != nil && !cur.dirty; cur = cur.parent {
		cur.dirty = true
	}
}

// IsDirty reports whether the node needs a redraw.
func (n *Node) IsDirty() bool { return n.dirty }

// Cache returns the node's last rendered output.
func (n *Node) Cache() string { return n.cache }

// SetCache stores a freshly rendered output.
func (n *Node) SetCache(s string) { n.cache = s }

// Tree is the component hierarchy plus the dirty-state bookkeeping.
// It is pure bookkeeping: whether identical output is worth repainting
// is the renderer's decision, never the tree's — no node may suppress
// a mark because it would look the same.
type Tree struct {
	root   *Node
	byKind map[Kind]*Node
	// order is the stable top-to-bottom traversal, computed once at
	// construction. CollectDirty reports dirty nodes in this order.
	order []*Node
}

// NewTree creates a tree with the given root component.
func NewTree(root Component) *Tree {
	n := &Node{comp: root, dirty: true}
	t := &Tree{root: n, byKind: map[Kind]*Node{root.Kind(): n}}
	t.reindex()
	return t
}

// Add attaches a component under the parent of the given kind and
// returns its node. New nodes start dirty. The tree is built once at
// startup; components are never created or destroyed afterwards.
func (t *Tree) Add(parent Kind, comp Component) *Node {
	p, ok := t.byKind[parent]
	if !ok {
		p = t.root
	}
	n := &Node{comp: comp, parent: p, dirty: true}
	p.children = append(p.children, n)
	t.byKind[comp.Kind()] = n
	t.reindex()
	return n
}

func (t *Tree) reindex() {
	t.order = t.order[:0]
	var walk func(n *Node)
	walk = func(n *Node) {
		t.order = append(t.order, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Node returns the node of the given kind, or nil.
func (t *Tree) Node(k Kind) *Node { return t.byKind[k] }

// MarkDirty flags the node of the given kind (and its ancestors).
func (t *Tree) MarkDirty(k Kind) {
	if n := t.byKind[k]; n != nil {
		n.MarkDirty()
	}
}

// InvalidateAll sets every node's dirty flag unconditionally. Used for
// resize (geometry affects all layouts) and as the fail-safe when an
// invariant violation is detected at render time.
func (t *Tree) InvalidateAll() {
	for _, n := range t.order {
		n.dirty = true
	}
}

// CollectDirty returns every dirty node in stable top-to-bottom
// (pre-order) traversal order and clears their flags. Because marking
// propagates upward, a parent always precedes its dirty descendants in
// the result, letting the renderer redraw a whole region or only a
// sub-pane.
func (t *Tree) CollectDirty() []*Node {
	var dirty []*Node
	for _, n := range t.order {
		if n.dirty {
			dirty = append(dirty, n)
			n.dirty = false
		}
	}
	return dirty
}
