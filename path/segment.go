package path

// Segment is a candidate suffix discovered by search.Find: a chain of PNs
// running from Start to End, where End is the PN that matches the
// element/wildcard under consideration (End.Schema.Kind is always ELEMENT
// or ANY).
//
// Segments are built backward by repeated Prepend: each new Start is
// linked to a clone of the previous Start, which becomes the new
// AfterStart, and AfterStartIndex records the edge between them. No
// transition is applied to the document tree until the segment is
// actually chosen and followed.
type Segment struct {
	Start      *Node
	AfterStart *Node // nil when Start == End (single-node segment)
	End        *Node

	// AfterStartIndex is the IndexOfNextState on the edge from Start to
	// AfterStart: the child index for a CHILD edge, -1 otherwise. Segment
	// does not itself interpret this; search.Order reads it when
	// comparing candidates.
	AfterStartIndex int
}

// Len reports how many PNs the segment spans, walking Start -> ... -> End.
func (s Segment) Len() int {
	n := 1
	for pn := s.Start; pn != s.End; pn = pn.Next {
		if pn == nil {
			break
		}
		n++
	}
	return n
}

// Prepend builds a new Segment whose End is the same as cur's End, with a
// newly allocated Start inserted ahead of cur.Start. cur.Start is cloned
// (via pool.Clone) to become the new segment's AfterStart, since cur may
// still be shared by sibling candidate branches exploring other
// possibilities from the same branch point.
func Prepend(pool *Pool, start *Node, startEdgeIndex int, cur Segment) Segment {
	afterStart := pool.Clone(cur.Start)
	afterStart.Next = cur.Start.Next
	if cur.Start.Next != nil {
		cur.Start.Next.Prev = afterStart
	}
	afterStart.Prev = start
	start.Next = afterStart

	end := cur.End
	if cur.Start == cur.End {
		end = afterStart
	}

	return Segment{
		Start:           start,
		AfterStart:      afterStart,
		End:             end,
		AfterStartIndex: startEdgeIndex,
	}
}

// Single builds the length-1 segment used for a leaf match at the current
// PN (no Downward/Sideways/Upward step was needed).
func Single(pn *Node) Segment {
	return Segment{Start: pn, End: pn}
}
