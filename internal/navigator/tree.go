package navigator

import "github.com/docpack/docpack/internal/availability"

// Tree owns a navigator tree's root and the ordinal→node lookup map built
// during the most recent write or read. Construction and serialization are
// single-threaded; independent trees can be processed concurrently.
type Tree struct {
	Root  *Node
	Nodes map[uint32]*Node
}

// NewTree returns a tree rooted at the conventional root node: page type
// root, language any, platform any.
func NewTree(bundleIdentifier string) *Tree {
	root := NewNode(NewPathlessItem(
		PageTypeRoot,
		availability.LanguageAny.Mask,
		"root",
		availability.PlatformAny.Mask,
		0,
	))
	root.BundleIdentifier = bundleIdentifier
	return &Tree{Root: root}
}

// NewTreeWithRoot wraps an existing root node, for trees rebuilt from disk.
func NewTreeWithRoot(root *Node) *Tree {
	return &Tree{Root: root}
}

// CountItems counts every node in the tree.
func (t *Tree) CountItems() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.CountItems()
}

// Copy deep-copies the whole tree. The lookup map is not carried over; it is
// rebuilt by the next write or read.
func (t *Tree) Copy() *Tree {
	if t.Root == nil {
		return &Tree{}
	}
	return &Tree{Root: t.Root.Copy()}
}

// Filter returns a new tree of the nodes matching pred, with the pruning
// semantics documented on Node.Filter. The result has a nil root when the
// root itself fails the predicate.
func (t *Tree) Filter(pred func(Item) bool) *Tree {
	if t.Root == nil {
		return &Tree{}
	}
	return &Tree{Root: t.Root.Filter(pred)}
}

// Node resolves a traversal ordinal assigned by the last write or read.
func (t *Tree) Node(id uint32) (*Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}
