package store

import (
	"context"
	"sync"

	"github.com/relaychat/relay/internal/domain"
)

// MemoryCap is how many messages the in-memory fallback retains.
const MemoryCap = 50

// MemoryStore keeps the most recent messages in a FIFO buffer, oldest
// evicted first. It never fails.
type MemoryStore struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	if n := len(s.messages) - MemoryCap; n > 0 {
		// Reallocate so the evicted prefix does not pin the old array.
		s.messages = append([]domain.ChatMessage(nil), s.messages[n:]...)
	}
	return nil
}

// LoadRecent returns a copy in insertion order; callers never observe
// later appends.
func (s *MemoryStore) LoadRecent(_ context.Context) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out, nil
}
