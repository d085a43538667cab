// Package decision implements the decision-point stack that lets the
// matcher commit to an ambiguous choice and retract it later when a
// subsequent event refutes it.
package decision

import "github.com/dshills/schemapath/path"

// Point is a snapshot captured at an ambiguity: the branch point, the
// remaining ordered alternatives, the document-event index where the
// branches diverge, and copies of the element/wildcard stacks at that
// moment.
type Point struct {
	Branch     *path.Node
	Candidates []path.Segment // sorted, most-preferred first
	next       int            // index of the next untried candidate

	EventIndex int

	ElementStack  []string
	WildcardStack []string
}

// NewPoint builds a Point whose first candidate has already been taken by
// the caller, so Next begins at the second entry.
func NewPoint(branch *path.Node, sorted []path.Segment, eventIndex int, elementStack, wildcardStack []string) *Point {
	return &Point{
		Branch:        branch,
		Candidates:    sorted,
		next:          1,
		EventIndex:    eventIndex,
		ElementStack:  append([]string(nil), elementStack...),
		WildcardStack: append([]string(nil), wildcardStack...),
	}
}

// Next pops and returns the next untried candidate, or (Segment{}, false)
// once every alternative has been exhausted.
func (p *Point) Next() (path.Segment, bool) {
	if p.next >= len(p.Candidates) {
		return path.Segment{}, false
	}
	seg := p.Candidates[p.next]
	p.next++
	return seg, true
}

// Exhausted reports whether every candidate at this point has been tried.
func (p *Point) Exhausted() bool {
	return p.next >= len(p.Candidates)
}
