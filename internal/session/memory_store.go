package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the demo-mode TokenStore. Expiry is tracked per slot
// and checked lazily on read.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
}

type memorySlot struct {
	token     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]memorySlot)}
}

func (s *MemoryStore) Set(ctx context.Context, userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[userID] = memorySlot{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[userID]
	if !ok || time.Now().After(slot.expiresAt) {
		return "", nil
	}
	return slot.token, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, userID)
	return nil
}
