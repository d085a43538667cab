// Package fulfil implements the pure fulfilment calculator: given a
// document-tree occurrence of a schema particle, is it NOT, PARTIALly, or
// COMPLETEly satisfied, and if so, which of its immediate children may
// still be (re-)entered.
package fulfil

import (
	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/schema"
)

// Status is the occurrence state of a compositor or leaf relative to its
// min/max bounds.
type Status int

const (
	Not Status = iota
	Partial
	Complete
)

func (s Status) String() string {
	switch s {
	case Not:
		return "NOT"
	case Partial:
		return "PARTIAL"
	case Complete:
		return "COMPLETE"
	default:
		return "?"
	}
}

// Of evaluates fulfilment for doc, whose Schema determines which rule
// applies. admissible is the ordered list of child indices (into
// doc.Schema.Next) that may still be entered; nil for ELEMENT/ANY, which
// have no children to admit.
//
// freshChildren, when true, evaluates the compositor as though none of its
// children had been entered yet in this repetition. Rather than
// materialising a placeholder path node when a repetition is re-entered,
// search.Find asks fulfil.Of to pretend the children map is empty for the
// iteration being explored.
func Of(doc *docmodel.Node, freshChildren bool) (Status, []int) {
	ssn := doc.Schema
	switch ssn.Kind {
	case schema.Element, schema.Any:
		return leafStatus(doc)
	case schema.Choice, schema.SubstitutionGroup:
		return choiceStatus(doc, freshChildren)
	case schema.All:
		return allStatus(doc, freshChildren)
	case schema.Sequence:
		return sequenceStatus(doc, freshChildren)
	default:
		return Not, nil
	}
}

func leafStatus(doc *docmodel.Node) (Status, []int) {
	ssn := doc.Schema
	if doc.Iteration > ssn.MaxOccurs && ssn.MaxOccurs != schema.Unbounded {
		// An invariant violation; fulfil stays pure and simply reports
		// NOT, and no caller turns this into an error.
		return Not, nil
	}
	partial := doc.Iteration >= ssn.MinOccurs
	complete := ssn.MaxOccurs != schema.Unbounded && doc.Iteration == ssn.MaxOccurs
	switch {
	case complete:
		return Complete, nil
	case partial:
		return Partial, nil
	default:
		return Not, nil
	}
}

func childIteration(doc *docmodel.Node, idx int, fresh bool) int {
	if fresh {
		return 0
	}
	child := doc.ChildAt(idx)
	if child == nil {
		return 0
	}
	return child.Iteration
}

func choiceStatus(doc *docmodel.Node, fresh bool) (Status, []int) {
	ssn := doc.Schema
	var chosen = -1
	for i, child := range ssn.Next {
		it := childIteration(doc, i, fresh)
		if it >= child.MinOccurs && it > 0 {
			chosen = i
			break
		}
	}
	if chosen == -1 {
		admissible := make([]int, 0, len(ssn.Next))
		for i, child := range ssn.Next {
			if child.MaxOccurs == schema.Unbounded || child.MaxOccurs > 0 {
				admissible = append(admissible, i)
			}
		}
		return Not, admissible
	}
	child := ssn.Next[chosen]
	it := childIteration(doc, chosen, fresh)
	groupComplete := child.MaxOccurs != schema.Unbounded && it == child.MaxOccurs
	self := selfStatus(doc)
	status := Partial
	if groupComplete && self == Complete {
		status = Complete
	} else if groupComplete {
		status = Partial
	}
	if it < child.MaxOccurs || child.MaxOccurs == schema.Unbounded {
		return status, []int{chosen}
	}
	return status, nil
}

func allStatus(doc *docmodel.Node, fresh bool) (Status, []int) {
	ssn := doc.Schema
	allMin, allMax := true, true
	admissible := make([]int, 0, len(ssn.Next))
	for i, child := range ssn.Next {
		it := childIteration(doc, i, fresh)
		if it < child.MinOccurs {
			allMin = false
		}
		atMax := child.MaxOccurs != schema.Unbounded && it >= child.MaxOccurs
		if !atMax {
			allMax = false
			admissible = append(admissible, i)
		}
	}
	switch {
	case allMax && selfStatus(doc) == Complete:
		return Complete, nil
	case allMin:
		return Partial, admissible
	default:
		return Not, admissible
	}
}

func sequenceStatus(doc *docmodel.Node, fresh bool) (Status, []int) {
	ssn := doc.Schema
	start := 0
	if !fresh {
		start = doc.SequencePosition
	}
	partial := true
	complete := true
	admissible := make([]int, 0, len(ssn.Next)-start)
	for i := start; i < len(ssn.Next); i++ {
		child := ssn.Next[i]
		it := childIteration(doc, i, fresh)
		if it < child.MinOccurs {
			partial = false
		}
		atMax := child.MaxOccurs != schema.Unbounded && it >= child.MaxOccurs
		if !atMax {
			complete = false
			admissible = append(admissible, i)
			// Only the first not-yet-satisfied position (and a
			// subsequent one if the first already met its own
			// minimum, permitting look-ahead) is admissible; stop once
			// we hit a position that has not met its minimum, since
			// later positions cannot be entered before it.
			if it < child.MinOccurs {
				break
			}
			continue
		}
		// at max: move on to the next position.
	}
	self := selfStatus(doc)
	switch {
	case complete && self == Complete:
		return Complete, admissible
	case partial:
		return Partial, admissible
	default:
		return Not, admissible
	}
}

// selfStatus folds the compositor's own occurrence bound into the group
// result: overall COMPLETE requires both self and contents complete.
func selfStatus(doc *docmodel.Node) Status {
	ssn := doc.Schema
	switch {
	case ssn.MaxOccurs != schema.Unbounded && doc.Iteration >= ssn.MaxOccurs:
		return Complete
	case doc.Iteration >= ssn.MinOccurs:
		return Partial
	default:
		return Not
	}
}
