package quiz

import "sort"

// Keyed is implemented by records whose identity is a QuestionKey.
type Keyed interface {
	Key() QuestionKey
}

// Set holds at most one record per QuestionKey. Adding a record whose key
// is already present is a no-op, so the first record inserted wins.
type Set[T Keyed] struct {
	items map[QuestionKey]T
	keys  []QuestionKey
}

func NewSet[T Keyed](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[QuestionKey]T, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts item and reports whether it was new.
func (s *Set[T]) Add(item T) bool {
	k := item.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = item
	s.keys = append(s.keys, k)
	return true
}

func (s *Set[T]) Get(k QuestionKey) (T, bool) {
	it, ok := s.items[k]
	return it, ok
}

func (s *Set[T]) Contains(k QuestionKey) bool {
	_, ok := s.items[k]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.keys)
}

// Items returns the records in insertion order.
func (s *Set[T]) Items() []T {
	out := make([]T, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.items[k])
	}
	return out
}

// Sorted returns the records ordered by number, then subject.
func (s *Set[T]) Sorted() []T {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out
}
