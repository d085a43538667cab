package search

import (
	"sort"

	"github.com/dshills/schemapath/path"
	"github.com/dshills/schemapath/schema"
)

// Order sorts candidates in place by the matcher's preference rules,
// stable so that ties preserve discovery order and re-runs produce the
// same canonical path.
func Order(candidates []path.Segment) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j])
	})
}

func less(a, b path.Segment) bool {
	// 1. Element end ranks before a wildcard end.
	aAny := a.End.Schema.Kind == schema.Any
	bAny := b.End.Schema.Kind == schema.Any
	if aAny != bAny {
		return !aAny
	}

	// 2. Walk both chains from AfterStart in lock-step; first differing
	// direction or index_of_next_state breaks the tie.
	pa, pb := a.AfterStart, b.AfterStart
	for pa != nil && pb != nil {
		if pa.Direction != pb.Direction {
			return pa.Direction.Rank() < pb.Direction.Rank()
		}
		if pa.IndexOfNextState != pb.IndexOfNextState {
			return pa.IndexOfNextState < pb.IndexOfNextState
		}
		pa, pb = pa.Next, pb.Next
	}

	// 3. Shorter chain (reaches End sooner) wins.
	if pa == nil && pb != nil {
		return true
	}
	if pa != nil && pb == nil {
		return false
	}

	// 4. Single-node fallback: both chains length 1 (no AfterStart at
	// all): compare index_of_next_state at End.
	if a.AfterStart == nil && b.AfterStart == nil {
		if a.End.IndexOfNextState != b.End.IndexOfNextState {
			return a.End.IndexOfNextState < b.End.IndexOfNextState
		}
	}

	// 5. Equal by every criterion; stable sort preserves discovery order.
	return false
}
