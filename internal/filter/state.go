package filter

import "sync"

// SearchState holds the offset of the filtered result window and notifies
// subscribers on every write.
type SearchState struct {
	mu     sync.RWMutex
	offset int
	nextID int
	subs   map[int]func(offset int)
}

// NewSearchState creates a SearchState at offset 0.
func NewSearchState() *SearchState {
	return &SearchState{subs: make(map[int]func(int))}
}

// Offset returns the current offset.
func (s *SearchState) Offset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.offset
}

// SetOffset stores the offset and notifies subscribers, even when the value
// is unchanged.
func (s *SearchState) SetOffset(offset int) {
	s.mu.Lock()
	s.offset = offset
	subs := make([]func(int), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(offset)
	}
}

// Subscribe registers fn for offset writes. The returned function removes
// the subscription.
func (s *SearchState) Subscribe(fn func(offset int)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs, id)
	}
}
