// Package docmodel is the "actual instantiation" tree: for every schema
// particle that the document has really visited, a Node records how many
// times and where. docmodel.Node is created only when a path candidate is
// committed and is freed only at endDocument.
package docmodel

import "github.com/dshills/schemapath/schema"

// Node (DN) mirrors one committed visit to a schema.Node.
type Node struct {
	Schema *schema.Node

	// Iteration counts how many times this position has been entered at
	// this level: 0 before the first entry, 1 after the first, and so on.
	Iteration int

	// SequencePosition is, for a SEQUENCE node, the index into
	// Schema.Next last reached. Non-decreasing across the node's
	// lifetime.
	SequencePosition int

	Parent *Node

	// Children maps a child index (the index into Schema.Next that was
	// followed) to the DN created for that child.
	Children map[int]*Node

	// ReceivedContent records, for an ELEMENT DN, whether characters()
	// has inserted a CONTENT path node since this DN was last entered.
	ReceivedContent bool

	// MaxOccurs mirrors Schema.MaxOccurs, materialized here for fast
	// invariant checks without chasing the Schema pointer.
	MaxOccurs int
}

// NewRoot creates the document-tree root DN for the schema's entry
// particle. Its Iteration starts at 0; a CHILD commit under it advances
// the child's Iteration, never the root's.
func NewRoot(ssn *schema.Node) *Node {
	return &Node{Schema: ssn, MaxOccurs: ssn.MaxOccurs, Children: make(map[int]*Node)}
}

// ChildAt returns the existing child DN at index, or nil.
func (n *Node) ChildAt(index int) *Node {
	if n.Children == nil {
		return nil
	}
	return n.Children[index]
}

// EnsureChild returns the child DN at index, creating a fresh one bound to
// childSSN if none exists yet.
func (n *Node) EnsureChild(index int, childSSN *schema.Node) *Node {
	if n.Children == nil {
		n.Children = make(map[int]*Node)
	}
	if c, ok := n.Children[index]; ok {
		return c
	}
	c := &Node{Schema: childSSN, Parent: n, MaxOccurs: childSSN.MaxOccurs, Children: make(map[int]*Node)}
	n.Children[index] = c
	return c
}

// DropChild removes the child DN at index, called when unfollowPath
// reverts a child's iteration count to zero.
func (n *Node) DropChild(index int) {
	if n.Children != nil {
		delete(n.Children, index)
	}
}

// AtMax reports whether this DN has been entered MaxOccurs times already
// (schema.Unbounded never reports true).
func (n *Node) AtMax() bool {
	return n.MaxOccurs != schema.Unbounded && n.Iteration >= n.MaxOccurs
}

// ChildView returns a read-only view of the DN at index for search
// purposes, without committing anything to the tree (DNs are created only
// by a commit, per the package doc). When fresh is true, or no child has
// been committed yet, it returns a throwaway zero-iteration Node scoped to
// childSSN: when a repetition is re-entered, the children of the new
// occurrence must be treated as unentered even if an
// earlier repetition left a committed child DN behind. The throwaway node
// is never attached to parent.Children; only Manager.FollowPath does that.
func ChildView(parent *Node, index int, childSSN *schema.Node, fresh bool) *Node {
	if !fresh {
		if c := parent.ChildAt(index); c != nil {
			return c
		}
	}
	return &Node{Schema: childSSN, Parent: parent, MaxOccurs: childSSN.MaxOccurs}
}
