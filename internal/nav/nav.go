// Package nav models the product-detail drill-down history as an explicit
// in-memory stack, independent of any browser history API.
package nav

// Stack tracks previously viewed entries. The zero value is ready to use.
type Stack[T any] struct {
	entries []T
}

func (s *Stack[T]) Push(entry T) {
	s.entries = append(s.entries, entry)
}

// Pop returns the most recent entry, or false when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.entries) == 0 {
		return zero, false
	}
	last := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return last, true
}

// Peek returns the most recent entry without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if len(s.entries) == 0 {
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.entries)
}

func (s *Stack[T]) Clear() {
	s.entries = nil
}
