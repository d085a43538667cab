package fulfil

import (
	"testing"

	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/schema"
)

func elementSSN(min, max int) *schema.Node {
	return schema.NewElement(schema.QName{Local: "e"}, min, max, schema.TypeInfo{Simple: true}, false, nil)
}

func TestElementFulfilment(t *testing.T) {
	ssn := elementSSN(1, 2)
	cases := []struct {
		iteration int
		want      Status
	}{
		{0, Not},
		{1, Partial},
		{2, Complete},
	}
	for _, c := range cases {
		doc := &docmodel.Node{Schema: ssn, Iteration: c.iteration, MaxOccurs: ssn.MaxOccurs}
		got, _ := Of(doc, false)
		if got != c.want {
			t.Errorf("Of(iteration=%d) = %s, want %s", c.iteration, got, c.want)
		}
	}
}

func TestChoiceFulfilment(t *testing.T) {
	a := elementSSN(1, schema.Unbounded)
	b := elementSSN(1, schema.Unbounded)
	choice := schema.NewCompositor(schema.Choice, 1, schema.Unbounded, a, b)

	t.Run("nothing entered yet admits every child", func(t *testing.T) {
		doc := docmodel.NewRoot(choice)
		status, admissible := Of(doc, false)
		if status != Not {
			t.Errorf("expected NOT before any child entered, got %s", status)
		}
		if len(admissible) != 2 {
			t.Errorf("expected both children admissible, got %v", admissible)
		}
	})

	t.Run("one child entered admits only that child", func(t *testing.T) {
		doc := docmodel.NewRoot(choice)
		child := doc.EnsureChild(1, b)
		child.Iteration = 1
		status, admissible := Of(doc, false)
		if status != Partial {
			t.Errorf("expected PARTIAL once a child meets its minimum, got %s", status)
		}
		if len(admissible) != 1 || admissible[0] != 1 {
			t.Errorf("expected only child 1 admissible for re-entry, got %v", admissible)
		}
	})

	t.Run("fresh repetition ignores prior children", func(t *testing.T) {
		doc := docmodel.NewRoot(choice)
		child := doc.EnsureChild(1, b)
		child.Iteration = 1
		status, admissible := Of(doc, true)
		if status != Not {
			t.Errorf("expected NOT for a fresh repetition regardless of prior commits, got %s", status)
		}
		if len(admissible) != 2 {
			t.Errorf("expected both children admissible for a fresh repetition, got %v", admissible)
		}
	})
}

func TestAllFulfilment(t *testing.T) {
	a := elementSSN(1, 1)
	b := elementSSN(1, 1)
	all := schema.NewCompositor(schema.All, 1, 1, a, b)

	doc := docmodel.NewRoot(all)
	status, admissible := Of(doc, false)
	if status != Not {
		t.Errorf("expected NOT before either child entered, got %s", status)
	}
	if len(admissible) != 2 {
		t.Errorf("expected both children admissible, got %v", admissible)
	}

	doc.EnsureChild(0, a).Iteration = 1
	status, admissible = Of(doc, false)
	if status != Not {
		t.Errorf("expected NOT until every child meets its minimum, got %s", status)
	}
	if len(admissible) != 1 || admissible[0] != 1 {
		t.Errorf("expected only child 1 admissible, got %v", admissible)
	}

	doc.EnsureChild(1, b).Iteration = 1
	status, admissible = Of(doc, false)
	if status != Partial {
		t.Errorf("expected PARTIAL once every child is at max but self's own occurrence bound is unmet, got %s", status)
	}

	// Self combines with the group result: entering the ALL's own
	// occurrence once every child is at max yields COMPLETE.
	doc.Iteration = 1
	status, admissible = Of(doc, false)
	if status != Complete {
		t.Errorf("expected COMPLETE once self and every child are satisfied, got %s", status)
	}
	if len(admissible) != 0 {
		t.Errorf("expected no admissible children once ALL is complete, got %v", admissible)
	}
}

func TestSequenceFulfilment(t *testing.T) {
	first := elementSSN(1, 1)
	second := elementSSN(0, 1)
	seq := schema.NewCompositor(schema.Sequence, 1, 1, first, second)

	doc := docmodel.NewRoot(seq)
	status, admissible := Of(doc, false)
	if status != Not {
		t.Errorf("expected NOT before the first position meets its minimum, got %s", status)
	}
	if len(admissible) != 1 || admissible[0] != 0 {
		t.Errorf("expected only position 0 admissible until it is satisfied, got %v", admissible)
	}

	doc.EnsureChild(0, first).Iteration = 1
	doc.SequencePosition = 1
	status, admissible = Of(doc, false)
	if status != Partial {
		t.Errorf("expected PARTIAL once every position from SequencePosition onward has met its minimum (self not yet at its own minimum), got %s", status)
	}
	if len(admissible) != 1 || admissible[0] != 1 {
		t.Errorf("expected position 1 (still below its max) admissible, got %v", admissible)
	}

	// An optional trailing position that was never entered is admissible
	// but not at its own max, so the sequence stays PARTIAL even once its
	// own self-occurrence bound is met; only entering every admissible
	// position up to its max yields COMPLETE.
	doc.Iteration = 1
	doc.EnsureChild(1, second).Iteration = 1
	status, admissible = Of(doc, false)
	if status != Complete {
		t.Errorf("expected COMPLETE once self and every content position reach their own max, got %s", status)
	}
	if len(admissible) != 0 {
		t.Errorf("expected no admissible positions once the sequence is complete, got %v", admissible)
	}
}

func TestSequencePositionIsNonDecreasingStart(t *testing.T) {
	first := elementSSN(1, 1)
	second := elementSSN(1, 1)
	seq := schema.NewCompositor(schema.Sequence, 1, 1, first, second)

	doc := docmodel.NewRoot(seq)
	doc.EnsureChild(0, first).Iteration = 1
	doc.SequencePosition = 1

	_, admissible := Of(doc, false)
	for _, idx := range admissible {
		if idx < doc.SequencePosition {
			t.Errorf("Of must never re-admit a position before SequencePosition; got %d with SequencePosition=%d", idx, doc.SequencePosition)
		}
	}
}
