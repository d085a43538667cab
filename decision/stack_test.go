package decision

import (
	"testing"

	"github.com/dshills/schemapath/path"
)

func TestStackEmptyInitially(t *testing.T) {
	var s Stack
	if !s.Empty() {
		t.Fatalf("expected a zero-value Stack to be empty")
	}
	if s.Top() != nil {
		t.Errorf("expected Top() == nil on an empty stack")
	}
	if s.Len() != 0 {
		t.Errorf("expected Len() == 0 on an empty stack")
	}
}

func TestStackPushTopPop(t *testing.T) {
	var s Stack
	first := NewPoint(&path.Node{}, nil, 0, nil, nil)
	second := NewPoint(&path.Node{}, nil, 1, nil, nil)

	s.Push(first)
	s.Push(second)

	if s.Len() != 2 {
		t.Fatalf("expected Len() == 2 after two pushes, got %d", s.Len())
	}
	if s.Top() != second {
		t.Errorf("expected Top() to return the most recently pushed point")
	}

	s.Pop()
	if s.Len() != 1 {
		t.Errorf("expected Len() == 1 after one pop, got %d", s.Len())
	}
	if s.Top() != first {
		t.Errorf("expected Top() to return the remaining point after popping the second")
	}
}

func TestStackPopOnEmptyIsNoop(t *testing.T) {
	var s Stack
	s.Pop()
	if !s.Empty() {
		t.Errorf("expected Pop on an empty stack to remain empty")
	}
}

func TestStackClear(t *testing.T) {
	var s Stack
	s.Push(NewPoint(&path.Node{}, nil, 0, nil, nil))
	s.Push(NewPoint(&path.Node{}, nil, 1, nil, nil))

	s.Clear()
	if !s.Empty() {
		t.Errorf("expected Clear to empty the stack")
	}
	if s.Top() != nil {
		t.Errorf("expected Top() == nil after Clear")
	}
}
