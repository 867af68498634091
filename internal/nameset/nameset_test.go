package nameset

import (
	"reflect"
	"testing"
)

func TestSetMembership(t *testing.T) {
	s := New("Game A", "Game B")
	if !s.Has("Game A") {
		t.Error("expected Game A to be a member")
	}
	if s.Has("Game C") {
		t.Error("Game C should not be a member")
	}
	s.Add("Game C")
	if !s.Has("Game C") {
		t.Error("expected Game C after Add")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestDuplicatesCollapse(t *testing.T) {
	s := New("Game A", "Game A", "Game A")
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSorted(t *testing.T) {
	s := New("b", "a", "c")
	if got := s.Sorted(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Sorted() = %v", got)
	}
}

func TestSetAlgebraPartitions(t *testing.T) {
	left := New("a", "b", "c")
	right := New("b", "c", "d")

	leftOnly := left.Diff(right)
	rightOnly := right.Diff(left)
	both := left.Intersect(right)

	if !reflect.DeepEqual(leftOnly.Sorted(), []string{"a"}) {
		t.Errorf("leftOnly = %v", leftOnly.Sorted())
	}
	if !reflect.DeepEqual(rightOnly.Sorted(), []string{"d"}) {
		t.Errorf("rightOnly = %v", rightOnly.Sorted())
	}
	if !reflect.DeepEqual(both.Sorted(), []string{"b", "c"}) {
		t.Errorf("both = %v", both.Sorted())
	}

	// The three pieces partition the union with no overlap.
	union := left.Union(right)
	recombined := leftOnly.Union(both).Union(rightOnly)
	if !reflect.DeepEqual(recombined.Sorted(), union.Sorted()) {
		t.Errorf("partition does not recombine to union: %v vs %v", recombined.Sorted(), union.Sorted())
	}
	if leftOnly.Intersect(both).Len() != 0 || rightOnly.Intersect(both).Len() != 0 || leftOnly.Intersect(rightOnly).Len() != 0 {
		t.Error("partition pieces overlap")
	}
}
