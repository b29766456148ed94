package choice

// Set is an insertion-ordered collection of unique, non-empty strings.
// The zero value is ready to use. Set is not safe for concurrent use.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet builds a set from values, dropping duplicates and empties.
func NewSet(values ...string) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add appends value unless it is empty or already present. It reports
// whether the set changed.
func (s *Set) Add(value string) bool {
	if value == "" || s.Contains(value) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[value] = struct{}{}
	s.order = append(s.order, value)
	return true
}

// Remove deletes value and reports whether it was present.
func (s *Set) Remove(value string) bool {
	if !s.Contains(value) {
		return false
	}
	delete(s.index, value)
	for i, v := range s.order {
		if v == value {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle removes value when present, otherwise adds it. It reports whether
// value is present afterwards.
func (s *Set) Toggle(value string) bool {
	if s.Remove(value) {
		return false
	}
	return s.Add(value)
}

// Contains reports membership.
func (s *Set) Contains(value string) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[value]
	return ok
}

// Len returns the number of entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns a copy of the entries in insertion order.
func (s *Set) Values() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clear empties the set.
func (s *Set) Clear() {
	s.order = nil
	s.index = nil
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return NewSet(s.Values()...)
}
