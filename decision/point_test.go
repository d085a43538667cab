package decision

import (
	"testing"

	"github.com/dshills/schemapath/path"
)

func TestNewPointStartsAfterFirstCandidate(t *testing.T) {
	branch := &path.Node{}
	candidates := []path.Segment{
		path.Single(&path.Node{}),
		path.Single(&path.Node{}),
		path.Single(&path.Node{}),
	}
	p := NewPoint(branch, candidates, 5, []string{"root"}, nil)

	if p.Branch != branch {
		t.Errorf("expected NewPoint to record the branch node")
	}
	if p.EventIndex != 5 {
		t.Errorf("expected EventIndex == 5, got %d", p.EventIndex)
	}
	if p.Exhausted() {
		t.Fatalf("expected two untried candidates to remain after the caller took the first")
	}

	seg, ok := p.Next()
	if !ok || seg.Start != candidates[1].Start {
		t.Errorf("expected Next to return the second candidate, got %+v ok=%v", seg, ok)
	}
}

func TestNewPointCopiesStacks(t *testing.T) {
	elementStack := []string{"root", "child"}
	wildcardStack := []string{"w1"}
	p := NewPoint(&path.Node{}, nil, 0, elementStack, wildcardStack)

	elementStack[0] = "mutated"
	wildcardStack[0] = "mutated"
	if p.ElementStack[0] != "root" {
		t.Errorf("expected NewPoint to copy ElementStack, saw mutation leak through: %v", p.ElementStack)
	}
	if p.WildcardStack[0] != "w1" {
		t.Errorf("expected NewPoint to copy WildcardStack, saw mutation leak through: %v", p.WildcardStack)
	}
}

func TestPointNextExhaustion(t *testing.T) {
	candidates := []path.Segment{path.Single(&path.Node{})}
	p := NewPoint(&path.Node{}, candidates, 0, nil, nil)

	if !p.Exhausted() {
		t.Fatalf("expected a single-candidate point to be exhausted once its first entry was already taken")
	}
	if _, ok := p.Next(); ok {
		t.Errorf("expected Next to report false once exhausted")
	}
}

func TestPointNextEmptyCandidates(t *testing.T) {
	p := NewPoint(&path.Node{}, nil, 0, nil, nil)
	if !p.Exhausted() {
		t.Errorf("expected a point with zero candidates to be exhausted immediately")
	}
}
