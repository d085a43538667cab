package docmodel

import (
	"testing"

	"github.com/dshills/schemapath/schema"
)

func leafSSN() *schema.Node {
	return schema.NewElement(schema.QName{Local: "leaf"}, 0, 2, schema.TypeInfo{Simple: true}, false, nil)
}

func TestEnsureChildCreatesOnce(t *testing.T) {
	root := NewRoot(schema.NewCompositor(schema.Sequence, 1, 1))
	ssn := leafSSN()

	c1 := root.EnsureChild(0, ssn)
	c2 := root.EnsureChild(0, ssn)
	if c1 != c2 {
		t.Errorf("EnsureChild should return the same DN on repeated calls for the same index")
	}
	if c1.Parent != root {
		t.Errorf("expected child's Parent to be root")
	}
}

func TestDropChild(t *testing.T) {
	root := NewRoot(schema.NewCompositor(schema.Sequence, 1, 1))
	ssn := leafSSN()
	root.EnsureChild(0, ssn)
	root.DropChild(0)
	if root.ChildAt(0) != nil {
		t.Errorf("expected ChildAt(0) == nil after DropChild")
	}
}

func TestAtMax(t *testing.T) {
	t.Run("unbounded never at max", func(t *testing.T) {
		n := &Node{MaxOccurs: schema.Unbounded, Iteration: 1000}
		if n.AtMax() {
			t.Errorf("expected unbounded node to never report AtMax")
		}
	})
	t.Run("bounded at max", func(t *testing.T) {
		n := &Node{MaxOccurs: 2, Iteration: 2}
		if !n.AtMax() {
			t.Errorf("expected Iteration == MaxOccurs to report AtMax")
		}
	})
	t.Run("bounded below max", func(t *testing.T) {
		n := &Node{MaxOccurs: 2, Iteration: 1}
		if n.AtMax() {
			t.Errorf("expected Iteration < MaxOccurs to not report AtMax")
		}
	})
}

func TestChildViewFreshIgnoresCommitted(t *testing.T) {
	root := NewRoot(schema.NewCompositor(schema.Sequence, 1, 1))
	ssn := leafSSN()
	committed := root.EnsureChild(0, ssn)
	committed.Iteration = 2

	fresh := ChildView(root, 0, ssn, true)
	if fresh == committed {
		t.Errorf("expected fresh view to be a throwaway node, not the committed child")
	}
	if fresh.Iteration != 0 {
		t.Errorf("expected fresh view to start at Iteration 0, got %d", fresh.Iteration)
	}

	notFresh := ChildView(root, 0, ssn, false)
	if notFresh != committed {
		t.Errorf("expected non-fresh view to return the committed child")
	}
}

func TestChildViewNotAttachedUntilCommit(t *testing.T) {
	root := NewRoot(schema.NewCompositor(schema.Sequence, 1, 1))
	ssn := leafSSN()
	_ = ChildView(root, 0, ssn, false)
	if root.ChildAt(0) != nil {
		t.Errorf("ChildView must not attach the throwaway node to parent.Children")
	}
}
