// Package path holds the transient, speculative structures explored
// during matching: Node (PN), Segment, and the Pool/Manager that clones,
// recycles, commits, and retracts them.
//
// Path nodes form a doubly linked list. Many PNs may reference the same
// schema.Node concurrently while several candidate branches are under
// exploration; only one chain at a time is ever committed into the
// document tree.
package path

import (
	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/schema"
)

// Direction is the kind of step a PN represents relative to its
// predecessor.
type Direction int

const (
	// Child descends into a child of the previous node's schema particle.
	Child Direction = iota
	// Sibling re-enters the same schema particle for another repetition.
	Sibling
	// Parent ascends from a child back to its compositor or element
	// owner.
	Parent
	// Content marks a text-content event between an element PN and its
	// continuation.
	Content
)

// Rank gives Direction a total order used by the candidate comparator in
// search.Order: CHILD < SIBLING < PARENT < CONTENT.
func (d Direction) Rank() int { return int(d) }

func (d Direction) String() string {
	switch d {
	case Child:
		return "CHILD"
	case Sibling:
		return "SIBLING"
	case Parent:
		return "PARENT"
	case Content:
		return "CONTENT"
	default:
		return "?"
	}
}

// Node (PN) is one, possibly still speculative, step along the path under
// exploration.
type Node struct {
	Schema    *schema.Node
	Direction Direction

	// Iteration is the prospective occurrence count for Schema at this
	// step. It equals Doc.Iteration once bound and "already counted";
	// it is Doc.Iteration+1 for a not-yet-committed fresh entry.
	Iteration int

	// Doc is bound by Manager.FollowPath when this PN is committed; nil
	// while the PN is still speculative.
	Doc *docmodel.Node

	// DocSequencePosition mirrors the SEQUENCE position this PN
	// advances to, when Schema's parent compositor is a SEQUENCE.
	DocSequencePosition int

	Prev, Next *Node

	// IndexOfNextState selects which entry of Schema.Next the outgoing
	// CHILD edge follows. -1 for SIBLING/PARENT/CONTENT.
	IndexOfNextState int

	// MaxOccurs mirrors Schema.MaxOccurs, materialized for quick access.
	MaxOccurs int

	// The fields below are undo bookkeeping written by Manager.FollowPath
	// and read by Manager.UnfollowPath: reverting a committed step needs
	// the pre-entry iteration, sequence position, and child map, and this
	// is where the matcher keeps them rather than in a separate undo log.
	prevDocIteration    int
	prevSeqPos          int
	prevChildSeqPos     int
	prevReceivedContent bool
	prevChildren        map[int]*docmodel.Node
	createdChild        bool
}
