package navigator

// AttributeValue is the closed set of payload types downstream consumers can
// attach to a node. Keeping the set closed (instead of interface{}) means
// every consumer of the bag can switch exhaustively.
type AttributeValue struct {
	Kind   AttributeKind
	String string
	Int    int64
	Bool   bool
}

type AttributeKind uint8

const (
	AttributeString AttributeKind = iota
	AttributeInt
	AttributeBool
)

func StringAttribute(s string) AttributeValue {
	return AttributeValue{Kind: AttributeString, String: s}
}

func IntAttribute(n int64) AttributeValue {
	return AttributeValue{Kind: AttributeInt, Int: n}
}

func BoolAttribute(b bool) AttributeValue {
	return AttributeValue{Kind: AttributeBool, Bool: b}
}

// Node is one entry of an in-memory navigator tree. Children are owned and
// ordered (insertion order is document order); Parent is a plain
// back-pointer. ID is a traversal-local ordinal: it is assigned while the
// tree is written or read and rebuilt on every walk, never persisted as
// identity.
//
// A node must have at most one parent. AddChild does not validate this;
// attaching a node under two parents produces an inconsistent tree and is
// the caller's bug.
type Node struct {
	Item     Item
	Parent   *Node
	Children []*Node

	ID               uint32
	BundleIdentifier string

	attributes map[string]AttributeValue
}

// NewNode wraps an item in an unattached node.
func NewNode(item Item) *Node {
	return &Node{Item: item}
}

// AddChild appends child to n's children and points the child back at n.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// SetAttribute attaches transient side-data to the node. Attributes never
// serialize; they exist for feature-specific annotation during a single
// compilation pass.
func (n *Node) SetAttribute(key string, value AttributeValue) {
	if n.attributes == nil {
		n.attributes = map[string]AttributeValue{}
	}
	n.attributes[key] = value
}

// Attribute reads back transient side-data.
func (n *Node) Attribute(key string) (AttributeValue, bool) {
	v, ok := n.attributes[key]
	return v, ok
}

// CountItems counts this node and every descendant.
func (n *Node) CountItems() int {
	count := 1
	for _, child := range n.Children {
		count += child.CountItems()
	}
	return count
}

// Copy deep-copies the subtree rooted at n. A node that is (erroneously) its
// own ancestor would recurse forever, so the walk refuses to descend into
// any node already on the current path.
func (n *Node) Copy() *Node {
	return n.copyWithin(map[*Node]bool{})
}

func (n *Node) copyWithin(onPath map[*Node]bool) *Node {
	dup := &Node{
		Item:             n.Item,
		ID:               n.ID,
		BundleIdentifier: n.BundleIdentifier,
	}
	if len(n.attributes) > 0 {
		dup.attributes = make(map[string]AttributeValue, len(n.attributes))
		for k, v := range n.attributes {
			dup.attributes[k] = v
		}
	}
	onPath[n] = true
	for _, child := range n.Children {
		if onPath[child] {
			continue
		}
		dup.AddChild(child.copyWithin(onPath))
	}
	delete(onPath, n)
	return dup
}

// Filter returns a copy of the subtree containing only nodes whose item
// matches pred, or nil if n itself does not match. A non-matching node is
// pruned together with its entire subtree: matching descendants are NOT
// re-attached to the nearest surviving ancestor, so callers filtering on
// properties that skip levels must account for losing those branches.
func (n *Node) Filter(pred func(Item) bool) *Node {
	if !pred(n.Item) {
		return nil
	}
	dup := &Node{
		Item:             n.Item,
		ID:               n.ID,
		BundleIdentifier: n.BundleIdentifier,
	}
	for _, child := range n.Children {
		if kept := child.Filter(pred); kept != nil {
			dup.AddChild(kept)
		}
	}
	return dup
}
