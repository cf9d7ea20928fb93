package repository

import (
	"context"
	"log/slog"

	"omiam-waitlist/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS waitlist_entries (
	id UUID PRIMARY KEY,
	customer_id UUID,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	party_size INTEGER NOT NULL CHECK (party_size > 0),
	preferred_date DATE NOT NULL,
	preferred_time_slots TEXT[] NOT NULL,
	seating_preference TEXT NOT NULL,
	occasion TEXT NOT NULL DEFAULT '',
	special_requests JSONB NOT NULL DEFAULT '[]',
	dietary_restrictions JSONB NOT NULL DEFAULT '[]',
	allergies JSONB NOT NULL DEFAULT '[]',
	priority TEXT NOT NULL,
	status TEXT NOT NULL,
	estimated_wait INTEGER NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	notifications JSONB NOT NULL DEFAULT '[]',
	expires_at TIMESTAMPTZ,
	notified_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_waitlist_entries_date_status ON waitlist_entries(preferred_date, status);
CREATE INDEX IF NOT EXISTS idx_waitlist_entries_customer ON waitlist_entries(customer_id) WHERE customer_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key TEXT PRIMARY KEY,
	request_hash TEXT NOT NULL,
	status TEXT NOT NULL,
	result_entry_id UUID,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_idempotency_keys_expires_at ON idempotency_keys(expires_at);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return infra.WrapRepoErr(logger, infra.KindSchema, "failed to apply waitlist schema", err)
	}
	return nil
}
