package shared

import (
	"context"
	"time"

	"omiam-waitlist/internal/domain/waitlist"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: exclusive access for mutations. Positions are recomputed and the
	// touched entries persisted before the lock is released. Any error rolls
	// the whole set back.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: shared access for consistent reads. Entries must not be
	// mutated or retained after fn returns.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r Reads) error) error
}

type Reads interface {
	EntryByID(id uuid.UUID) (*waitlist.Entry, bool)
	// Entries are returned in insertion order.
	Entries() []*waitlist.Entry
}

type Tx interface {
	Reads
	Add(e *waitlist.Entry)
	Remove(id uuid.UUID) bool
	// Touch marks an entry changed in place so it is persisted on commit.
	Touch(id uuid.UUID)
}

type EntryRepository interface {
	LoadAll(ctx context.Context) ([]waitlist.Snapshot, error)
	Save(ctx context.Context, upserts []waitlist.Snapshot, deletes []uuid.UUID) error
}

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key         string     `json:"key"`
	Status      string     `json:"status"`
	RequestHash string     `json:"request_hash"`
	EntryID     *uuid.UUID `json:"entry_id,omitempty"`
}

type IdempotencyStore interface {
	// Begin claims key. It returns nil when the claim succeeded, or the record
	// already stored under key.
	Begin(ctx context.Context, key, requestHash string, ttl time.Duration) (*IdempotencyRecord, error)
	Complete(ctx context.Context, key, requestHash string, entryID uuid.UUID, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type OutboundMessage struct {
	RecordID   uuid.UUID                 `json:"record_id"`
	EntryID    uuid.UUID                 `json:"entry_id"`
	Channel    waitlist.NotificationType `json:"channel"`
	Category   string                    `json:"category"`
	TemplateID string                    `json:"template_id"`
	Recipient  string                    `json:"recipient"`
	Subject    string                    `json:"subject"`
	Content    string                    `json:"content"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// Transport delivers a rendered notification on one channel.
type Transport interface {
	Deliver(ctx context.Context, msg OutboundMessage) error
	Name() string
}
