package navigator

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// recordHeaderSize is the per-node framing: the parent's ordinal and the
// byte length of the serialized item.
const recordHeaderSize = 4 + 4

// WriteOptions controls index serialization.
type WriteOptions struct {
	// OmitPaths clears each item's path before writing and restores it
	// afterward; readers resolve paths from a separate table. Cuts index
	// size roughly in half for deep hierarchies.
	OmitPaths bool

	// OnNodeWritten, when non-nil, is invoked once per node after its
	// record hits the buffer, for progress reporting.
	OnNodeWritten func(node *Node)
}

// WriteTo serializes the tree to path in breadth-first order, assigning
// sequential ordinals starting at 0. The root record is always first with
// parentID 0. Rebuilds the tree's ordinal lookup map as a side effect.
func (t *Tree) WriteTo(path string, opts WriteOptions) error {
	if t.Root == nil {
		return fmt.Errorf("writing navigator index %s: tree has no root", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating navigator index %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	t.Nodes = map[uint32]*Node{}

	var header [recordHeaderSize]byte
	next := uint32(0)
	queue := []*Node{t.Root}
	t.Root.ID = 0

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		t.Nodes[node.ID] = node

		savedPath := node.Item.Path
		if opts.OmitPaths {
			node.Item.Path = ""
		}
		record := node.Item.Bytes()
		node.Item.Path = savedPath

		parentID := uint32(0)
		if node.Parent != nil {
			parentID = node.Parent.ID
		}
		binary.LittleEndian.PutUint32(header[0:4], parentID)
		binary.LittleEndian.PutUint32(header[4:8], uint32(len(record)))
		if _, err := w.Write(header[:]); err != nil {
			return fmt.Errorf("writing navigator index %s: %w", path, err)
		}
		if _, err := w.Write(record); err != nil {
			return fmt.Errorf("writing navigator index %s: %w", path, err)
		}

		if opts.OnNodeWritten != nil {
			opts.OnNodeWritten(node)
		}

		for _, child := range node.Children {
			next++
			child.ID = next
			queue = append(queue, child)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing navigator index %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing navigator index %s: %w", path, err)
	}
	return nil
}
