package events

import (
	"context"
	"sync"
)

// MemorySink collects delivered events in memory. Test double for the
// Kafka sink.
type MemorySink struct {
	mu     sync.Mutex
	events []ConversionEvent
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Deliver(_ context.Context, event ConversionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything delivered so far.
func (s *MemorySink) Events() []ConversionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ConversionEvent{}, s.events...)
}
