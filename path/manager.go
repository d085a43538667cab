package path

import (
	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/schema"
)

// Manager owns the Pool and performs the two structural operations that
// move PNs between "speculative" and "committed": FollowPath promotes a
// chosen segment into the document tree, UnfollowPath reverts it.
type Manager struct {
	Pool *Pool
}

// NewManager creates a Manager backed by a fresh Pool.
func NewManager() *Manager {
	return &Manager{Pool: NewPool()}
}

// FollowPath walks pn, pn.Next, pn.Next.Next, … starting at start, binding
// each PN to a DN under base (the DN already bound to start.Prev, or the
// document root DN for the very first commit). It returns the DN reached
// by the last PN in the chain.
//
// A DN entered for a fresh repetition (by a SIBLING transition, or by a
// CHILD transition whose prospective iteration exceeds the committed one)
// resets its Children, SequencePosition, and ReceivedContent: the old
// subtree belongs to the previous occurrence. Resetting rather than
// accumulating keeps every child DN's own Iteration bounded by its own
// MaxOccurs regardless of how many times the parent repeats. The
// pre-entry state is parked on the PN for UnfollowPath.
func (m *Manager) FollowPath(base *docmodel.Node, start *Node) *docmodel.Node {
	cur := base
	for pn := start; pn != nil; pn = pn.Next {
		switch pn.Direction {
		case Child:
			parent := cur
			idx := pn.IndexOfNextState
			existing := parent.ChildAt(idx)
			created := existing == nil
			childSSN := parent.Schema.Next[idx]
			child := parent.EnsureChild(idx, childSSN)

			pn.createdChild = created
			pn.prevDocIteration = child.Iteration
			if pn.Iteration > child.Iteration {
				child.Iteration = pn.Iteration
				if !created {
					pn.prevChildren = child.Children
					pn.prevChildSeqPos = child.SequencePosition
					pn.prevReceivedContent = child.ReceivedContent
					child.Children = make(map[int]*docmodel.Node)
					child.SequencePosition = 0
					child.ReceivedContent = false
				}
			}
			pn.prevSeqPos = parent.SequencePosition
			if parent.Schema.Kind == schema.Sequence && idx > parent.SequencePosition {
				parent.SequencePosition = idx
			}
			pn.Doc = child
			cur = child

		case Sibling:
			pn.prevDocIteration = cur.Iteration
			cur.Iteration = pn.Iteration
			pn.prevChildren = cur.Children
			pn.prevChildSeqPos = cur.SequencePosition
			pn.prevReceivedContent = cur.ReceivedContent
			cur.Children = make(map[int]*docmodel.Node)
			cur.SequencePosition = 0
			cur.ReceivedContent = false
			pn.Doc = cur

		case Parent:
			pn.Doc = cur.Parent
			cur = cur.Parent

		case Content:
			pn.prevReceivedContent = cur.ReceivedContent
			cur.ReceivedContent = true
			pn.Doc = cur
		}
	}
	return cur
}

// UnfollowPath reverses every transition committed from branch.Next
// through the end of the chain, in last-committed-first order, then
// truncates the linked list at branch (branch.Next becomes nil) and
// returns the reclaimed PNs to the pool.
func (m *Manager) UnfollowPath(branch *Node) {
	var chain []*Node
	for pn := branch.Next; pn != nil; pn = pn.Next {
		chain = append(chain, pn)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		pn := chain[i]
		switch pn.Direction {
		case Child:
			doc := pn.Doc
			parent := doc.Parent
			if pn.createdChild {
				parent.DropChild(pn.IndexOfNextState)
			} else {
				doc.Iteration = pn.prevDocIteration
				if pn.prevChildren != nil {
					doc.Children = pn.prevChildren
					doc.SequencePosition = pn.prevChildSeqPos
					doc.ReceivedContent = pn.prevReceivedContent
				}
			}
			parent.SequencePosition = pn.prevSeqPos

		case Sibling:
			doc := pn.Doc
			doc.Iteration = pn.prevDocIteration
			doc.Children = pn.prevChildren
			doc.SequencePosition = pn.prevChildSeqPos
			doc.ReceivedContent = pn.prevReceivedContent

		case Parent:
			// Ascending never mutates a DN; nothing to revert.

		case Content:
			pn.Doc.ReceivedContent = pn.prevReceivedContent
		}
	}
	for _, pn := range chain {
		m.Pool.Recycle(pn)
	}
	branch.Next = nil
}
