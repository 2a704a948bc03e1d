package domain

import "testing"

func TestIncompatibilitySetSymmetry(t *testing.T) {
	s := NewIncompatibilitySet()
	s.Add("Pharma", "Chemicals")

	if !s.Forbidden("Pharma", "Chemicals") {
		t.Errorf("expected (Pharma, Chemicals) to be forbidden")
	}
	if !s.Forbidden("Chemicals", "Pharma") {
		t.Errorf("expected the reversed pair to be forbidden as well")
	}
	if s.Forbidden("Pharma", "Pharma") {
		t.Errorf("unregistered pair reported as forbidden")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestIncompatibilitySetNilSafe(t *testing.T) {
	var s *IncompatibilitySet
	if s.Forbidden("A", "B") {
		t.Errorf("nil set must forbid nothing")
	}
	if s.Len() != 0 {
		t.Errorf("nil set Len() = %d, want 0", s.Len())
	}
}

func TestIncompatibilitySetZeroValueAdd(t *testing.T) {
	var s IncompatibilitySet
	s.Add("A", "B")
	if !s.Forbidden("B", "A") {
		t.Errorf("zero-value set should accept Add")
	}
}
