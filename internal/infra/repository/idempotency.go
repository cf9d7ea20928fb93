package repository

import (
	"context"
	"log/slog"
	"time"

	"omiam-waitlist/internal/infra"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/pgconv"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// An expired row is taken over by the next claim.
const claimIdempotencyKeySQL = `
INSERT INTO idempotency_keys (key, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE SET
	request_hash = EXCLUDED.request_hash,
	status = EXCLUDED.status,
	result_entry_id = NULL,
	expires_at = EXCLUDED.expires_at,
	created_at = now(),
	updated_at = now()
WHERE idempotency_keys.expires_at <= $5
RETURNING key`

const getIdempotencyKeySQL = `
SELECT key, request_hash, status, result_entry_id FROM idempotency_keys WHERE key = $1`

const completeIdempotencyKeySQL = `
UPDATE idempotency_keys
SET status = $3, result_entry_id = $4, expires_at = $5, updated_at = now()
WHERE key = $1 AND request_hash = $2`

const deleteIdempotencyKeySQL = `DELETE FROM idempotency_keys WHERE key = $1`

const deleteExpiredIdempotencyKeysSQL = `DELETE FROM idempotency_keys WHERE expires_at <= $1`

// IdempotencyRepository stores idempotency keys next to the entries when
// PostgreSQL is the persistence driver.
type IdempotencyRepository struct {
	pool   *pgxpool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

func NewIdempotencyRepository(pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool, clock: clk, logger: logger}
}

func (r *IdempotencyRepository) Begin(ctx context.Context, key, requestHash string, ttl time.Duration) (*shared.IdempotencyRecord, error) {
	now := r.clock.Now()

	var claimed string
	err := r.pool.QueryRow(ctx, claimIdempotencyKeySQL,
		key, requestHash, shared.IdempotencyProcessing, pgconv.TimeToPgtype(now.Add(ttl)), pgconv.TimeToPgtype(now),
	).Scan(&claimed)
	if err == nil {
		return nil, nil
	}
	if !pgconv.IsNoRows(err) {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to try insert idempotency key", err)
	}

	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err = r.pool.QueryRow(ctx, getIdempotencyKeySQL, key).Scan(&rec.Key, &rec.RequestHash, &rec.Status, &resultID)
	if pgconv.IsNoRows(err) {
		// released between the claim and the read
		return r.Begin(ctx, key, requestHash, ttl)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get idempotency key", err)
	}
	rec.EntryID = pgconv.UUIDPtrFromPgtype(resultID)
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, requestHash string, entryID uuid.UUID, ttl time.Duration) error {
	_, err := r.pool.Exec(ctx, completeIdempotencyKeySQL,
		key, requestHash, shared.IdempotencyCompleted, pgconv.UUIDToPgtype(entryID), pgconv.TimeToPgtype(r.clock.Now().Add(ttl)))
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update idempotency key status", err)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, deleteIdempotencyKeySQL, key); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, deleteExpiredIdempotencyKeysSQL, pgconv.TimeToPgtype(r.clock.Now()))
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
