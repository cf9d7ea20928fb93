package memstore

import (
	"context"
	"sync"
	"time"

	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

// IdempotencyStore is the single-process fallback used when Redis is not configured.
type IdempotencyStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	records map[string]idempotencyItem
}

type idempotencyItem struct {
	record    shared.IdempotencyRecord
	expiresAt time.Time
}

func NewIdempotencyStore(clk clock.Clock) *IdempotencyStore {
	return &IdempotencyStore{clock: clk, records: map[string]idempotencyItem{}}
}

func (s *IdempotencyStore) Begin(_ context.Context, key, requestHash string, ttl time.Duration) (*shared.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if item, ok := s.records[key]; ok && now.Before(item.expiresAt) {
		rec := item.record
		return &rec, nil
	}
	s.records[key] = idempotencyItem{
		record:    shared.IdempotencyRecord{Key: key, Status: shared.IdempotencyProcessing, RequestHash: requestHash},
		expiresAt: now.Add(ttl),
	}
	return nil, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key, requestHash string, entryID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entryID
	s.records[key] = idempotencyItem{
		record:    shared.IdempotencyRecord{Key: key, Status: shared.IdempotencyCompleted, RequestHash: requestHash, EntryID: &id},
		expiresAt: s.clock.Now().Add(ttl),
	}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
