// Package search implements the candidate-enumeration half of the path
// finder: the recursive find over the content-model graph, plus the
// preference ordering applied to the candidates it returns.
package search

import (
	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/fulfil"
	"github.com/dshills/schemapath/path"
	"github.com/dshills/schemapath/schema"
)

// MaxDepth guards the recursive find against runaway expansion through
// self-referential groups. Hitting it is not an error: the branch simply
// contributes no candidates.
const MaxDepth = 256

// Target is what find() is looking for: the tag of the element event
// under consideration, plus enough namespace context to resolve a
// wildcard's ##targetNamespace/##other rule.
type Target struct {
	QName schema.QName

	// CurrentElementNS is the namespace of the element currently open on
	// the element stack, used as the stand-in target namespace when a
	// wildcard's own TargetNamespace was not recorded by the schema
	// walker.
	CurrentElementNS string

	// AllowWildcardNSFallback enables that fallback; see
	// match.WithWildcardTargetNamespaceOverride.
	AllowWildcardNSFallback bool

	// CurrentElementClosed reports that the ELEMENT PN the search starts
	// from has already seen its end tag: its occurrence is consumed, so
	// the search must not re-descend into it or match it in place, only
	// repeat it as a sibling or move past it.
	CurrentElementClosed bool

	// MaxDepth overrides the package-level recursion guard when > 0.
	MaxDepth int

	// OnDepthExceeded, when non-nil, is called once per branch abandoned
	// for hitting the depth guard.
	OnDepthExceeded func()
}

func leafMatches(ssn *schema.Node, t Target) bool {
	switch ssn.Kind {
	case schema.Element:
		return ssn.QName == t.QName
	case schema.Any:
		fallback := ""
		if t.AllowWildcardNSFallback {
			fallback = t.CurrentElementNS
		}
		return ssn.Wildcard.Accepts(t.QName.URI, fallback)
	default:
		return false
	}
}

func withinBounds(pn *path.Node) bool {
	return iterationWithinBounds(pn.Iteration, pn.MaxOccurs)
}

func iterationWithinBounds(iteration, maxOccurs int) bool {
	return maxOccurs == schema.Unbounded || iteration <= maxOccurs
}

// EnterContent materialises the CHILD PN that descends from an open
// ELEMENT into its own content model. It is
// idempotent across repeated calls for the same still-open element
// instance: the content-model root DN is created once (iteration bumped
// 0→1) and simply reused thereafter (iteration held at its existing
// value, the PN.iteration == PN.doc.iteration "already counted" case),
// since an element's content model is entered exactly once per element
// occurrence regardless of how many of its children have been matched so
// far.
func EnterContent(pool *path.Pool, elementPN *path.Node) *path.Node {
	contentSSN := elementPN.Schema.Next[0]
	view := docmodel.ChildView(elementPN.Doc, 0, contentSSN, false)

	child := pool.Alloc()
	child.Schema = contentSSN
	child.Direction = path.Child
	child.IndexOfNextState = 0
	child.MaxOccurs = contentSSN.MaxOccurs
	child.Doc = view
	if view.Iteration > 0 {
		child.Iteration = view.Iteration
	} else {
		child.Iteration = 1
	}
	return child
}

// enclosingElementDoc walks up from doc to the nearest ancestor (or doc
// itself) whose schema kind is ELEMENT, returning nil once it runs off the
// top of the document (the synthetic root container has no element
// ancestor). It is the ceiling Find must not search past: ascending out of
// the element currently top-of-stack would leave the open element, and that
// element is always the nearest ELEMENT-kind ancestor of wherever search
// resumes.
func enclosingElementDoc(doc *docmodel.Node) *docmodel.Node {
	for d := doc; d != nil; d = d.Parent {
		if d.Schema.Kind == schema.Element {
			return d
		}
	}
	return nil
}

// Find enumerates every candidate segment ending at an element or
// wildcard match for t, starting from current. current is one of:
//
//   - the still-open ELEMENT PN (the common case): Find descends into the
//     element's own content model via EnterContent, explores
//     Downward/Sideways/Upward from there, and re-prepends current ahead of
//     every resulting segment on return.
//   - a content-model position search previously stopped at without
//     reaching an ELEMENT, e.g. the synthetic root container at the very
//     first event, or a SEQUENCE/CHOICE position left mid-compositor
//     because walkUpTree stopped there waiting on a later sibling. Find
//     resumes the search directly from a clone of current, with no entry
//     shim and no outer prepend.
//   - a CLOSED element or wildcard PN (t.CurrentElementClosed, or an ANY
//     whose content has ended): the occurrence is already consumed, so
//     Find never re-descends into it and never matches it in place; the
//     only ways forward are a fresh sibling occurrence or ascending past
//     it.
//
// Either way, current itself is never consumed: find() always recycles the
// PN it is handed, so Find always passes it a clone and keeps the
// caller's real, already-committed current node alive.
func Find(pool *path.Pool, current *path.Node, t Target) []path.Segment {
	if current.Schema.Kind == schema.Element && !t.CurrentElementClosed {
		if len(current.Schema.Next) == 0 {
			// Simple or empty-content type: no content model to descend
			// into, so this element can admit no child elements.
			return nil
		}
		ceiling := current.Doc
		entry := EnterContent(pool, current)
		subs := find(pool, entry, t, 0, nil, ceiling, false)

		results := make([]path.Segment, 0, len(subs))
		for _, sub := range subs {
			head := pool.Clone(current)
			results = append(results, path.Prepend(pool, head, 0, sub))
		}
		return results
	}

	start := current.Doc
	skipSelf := false
	if current.Schema.Kind.IsLeaf() {
		// Closed element/wildcard: the enclosing open element is strictly
		// above it, and its own leaf match must not fire again.
		start = current.Doc.Parent
		skipSelf = true
	}
	ceiling := enclosingElementDoc(start)
	entry := pool.Clone(current)
	entry.Doc = current.Doc
	return find(pool, entry, t, 0, nil, ceiling, skipSelf)
}

func find(pool *path.Pool, pn *path.Node, t Target, depth int, doNotFollow *schema.Node, ceiling *docmodel.Node, skipSelf bool) []path.Segment {
	limit := t.MaxDepth
	if limit <= 0 {
		limit = MaxDepth
	}
	if depth > limit {
		if t.OnDepthExceeded != nil {
			t.OnDepthExceeded()
		}
		pool.Recycle(pn)
		return nil
	}

	var results []path.Segment

	if pn.Schema.Kind.IsLeaf() {
		if !skipSelf && withinBounds(pn) && leafMatches(pn.Schema, t) {
			head := pool.Clone(pn)
			results = append(results, path.Single(head))
		}
	} else {
		fresh := pn.Iteration > pn.Doc.Iteration
		_, admissible := fulfil.Of(pn.Doc, fresh)
		for _, idx := range admissible {
			childSSN := pn.Schema.Next[idx]
			if doNotFollow != nil && childSSN == doNotFollow {
				continue
			}
			view := docmodel.ChildView(pn.Doc, idx, childSSN, fresh)
			child := pool.Alloc()
			child.Schema = childSSN
			child.Direction = path.Child
			child.IndexOfNextState = idx
			child.MaxOccurs = childSSN.MaxOccurs
			child.Doc = view
			child.Iteration = view.Iteration + 1

			subs := find(pool, child, t, depth+1, nil, ceiling, false)
			for _, sub := range subs {
				head := pool.Clone(pn)
				results = append(results, path.Prepend(pool, head, idx, sub))
			}
		}
	}

	// Sideways and Upward apply only to an already-counted occurrence
	// (Iteration committed, not prospective). A compositor may start a
	// fresh repetition only once the current one is fulfilled; a leaf may
	// always repeat below its max: an element still under its minimum
	// has repetition as its only legal continuation.
	counted := pn.Doc != nil && pn.Iteration <= pn.Doc.Iteration

	if counted && iterationWithinBounds(pn.Iteration+1, pn.MaxOccurs) &&
		(pn.Schema.Kind.IsLeaf() || fulfilled(pn)) {
		sib := pool.Alloc()
		sib.Schema = pn.Schema
		sib.Direction = path.Sibling
		sib.IndexOfNextState = -1
		sib.MaxOccurs = pn.MaxOccurs
		sib.Doc = pn.Doc
		sib.Iteration = pn.Iteration + 1

		subs := find(pool, sib, t, depth+1, nil, ceiling, false)
		for _, sub := range subs {
			head := pool.Clone(pn)
			results = append(results, path.Prepend(pool, head, -1, sub))
		}
	}

	// Never ascend to (or past) the ceiling element: from it the only
	// child edge is the one we came from, and a sibling or further ascent
	// would leave the open element.
	if counted && fulfilled(pn) && pn.Doc.Parent != nil && pn.Doc.Parent != ceiling {
		parent := pool.Alloc()
		parent.Schema = pn.Doc.Parent.Schema
		parent.Direction = path.Parent
		parent.IndexOfNextState = -1
		parent.MaxOccurs = pn.Doc.Parent.MaxOccurs
		parent.Doc = pn.Doc.Parent
		parent.Iteration = pn.Doc.Parent.Iteration

		subs := find(pool, parent, t, depth+1, pn.Schema, ceiling, false)
		for _, sub := range subs {
			head := pool.Clone(pn)
			results = append(results, path.Prepend(pool, head, -1, sub))
		}
	}

	pool.Recycle(pn)
	return results
}

func fulfilled(pn *path.Node) bool {
	fresh := pn.Iteration > pn.Doc.Iteration
	status, _ := fulfil.Of(pn.Doc, fresh)
	return status == fulfil.Partial || status == fulfil.Complete
}
