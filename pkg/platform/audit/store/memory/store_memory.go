package memory

import (
	"context"
	"sync"

	audit "lcm/pkg/platform/audit"
)

// InMemoryStore keeps events in arrival order. Requests without an id are
// only reachable through ListRecent.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []audit.Event
	byRequest map[string][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byRequest: make(map[string][]int)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.byRequest = make(map[string][]int)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if event.RequestID != "" {
		s.byRequest[event.RequestID] = append(s.byRequest[event.RequestID], len(s.events)-1)
	}
	return nil
}

func (s *InMemoryStore) ListByRequest(_ context.Context, requestID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byRequest[requestID]
	out := make([]audit.Event, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.events[i])
	}
	return out, nil
}

// ListAll returns every event in arrival order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}

// ListRecent returns the last limit events, oldest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.events) - limit
	if start < 0 || limit < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.events[start:]...), nil
}

// Len returns the number of stored events.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
