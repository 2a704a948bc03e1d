package domain

// Symmetric forbidden-pair relation over goods types. Two deliveries whose
// types form a registered pair must never share a trip. The zero value and
// a nil pointer both behave as an empty relation.
type IncompatibilitySet struct {
	pairs map[[2]string]struct{}
}

func NewIncompatibilitySet() *IncompatibilitySet {
	return &IncompatibilitySet{pairs: make(map[[2]string]struct{})}
}

// Register a forbidden pair. Order of the arguments does not matter.
func (s *IncompatibilitySet) Add(a, b string) {
	if s.pairs == nil {
		s.pairs = make(map[[2]string]struct{})
	}
	s.pairs[pairKey(a, b)] = struct{}{}
}

// Report whether the two goods types must not travel together.
func (s *IncompatibilitySet) Forbidden(a, b string) bool {
	if s == nil || len(s.pairs) == 0 {
		return false
	}
	_, ok := s.pairs[pairKey(a, b)]
	return ok
}

// Number of registered pairs.
func (s *IncompatibilitySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pairs)
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
