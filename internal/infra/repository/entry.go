package repository

import (
	"context"
	"log/slog"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra"
	"omiam-waitlist/internal/infra/db"
	"omiam-waitlist/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `id, customer_id, name, email, phone, party_size, preferred_date, preferred_time_slots,
	seating_preference, occasion, special_requests, dietary_restrictions, allergies, priority, status,
	estimated_wait, position, notifications, expires_at, notified_at, created_at, updated_at`

const upsertEntrySQL = `
INSERT INTO waitlist_entries (` + entryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
ON CONFLICT (id) DO UPDATE SET
	customer_id = EXCLUDED.customer_id,
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	party_size = EXCLUDED.party_size,
	preferred_date = EXCLUDED.preferred_date,
	preferred_time_slots = EXCLUDED.preferred_time_slots,
	seating_preference = EXCLUDED.seating_preference,
	occasion = EXCLUDED.occasion,
	special_requests = EXCLUDED.special_requests,
	dietary_restrictions = EXCLUDED.dietary_restrictions,
	allergies = EXCLUDED.allergies,
	priority = EXCLUDED.priority,
	status = EXCLUDED.status,
	estimated_wait = EXCLUDED.estimated_wait,
	position = EXCLUDED.position,
	notifications = EXCLUDED.notifications,
	expires_at = EXCLUDED.expires_at,
	notified_at = EXCLUDED.notified_at,
	updated_at = EXCLUDED.updated_at`

const deleteEntriesSQL = `DELETE FROM waitlist_entries WHERE id = ANY($1::uuid[])`

// EntryRepository writes the in-memory waitlist through to PostgreSQL.
type EntryRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewEntryRepository(pool *pgxpool.Pool, logger *slog.Logger) *EntryRepository {
	return &EntryRepository{pool: pool, logger: logger}
}

func (r *EntryRepository) LoadAll(ctx context.Context) ([]waitlist.Snapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM waitlist_entries ORDER BY created_at, id`)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to query waitlist entries", err)
	}

	snaps, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDecode, "failed to decode waitlist entries", err)
	}
	return snaps, nil
}

func (r *EntryRepository) Save(ctx context.Context, upserts []waitlist.Snapshot, deletes []uuid.UUID) error {
	err := db.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, s := range upserts {
			row := converter.EntryToRow(s)
			batch.Queue(upsertEntrySQL,
				row.ID, row.CustomerID, row.Name, row.Email, row.Phone, row.PartySize, row.PreferredDate,
				row.PreferredTimeSlots, row.SeatingPreference, row.Occasion, row.SpecialRequests,
				row.DietaryRestrictions, row.Allergies, row.Priority, row.Status, row.EstimatedWait,
				row.Position, row.Notifications, row.ExpiresAt, row.NotifiedAt, row.CreatedAt, row.UpdatedAt)
		}
		if len(deletes) > 0 {
			ids := make([]string, len(deletes))
			for i, id := range deletes {
				ids[i] = id.String()
			}
			batch.Queue(deleteEntriesSQL, ids)
		}

		br := tx.SendBatch(ctx, batch)
		for range batch.Len() {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return err
			}
		}
		return br.Close()
	})
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save waitlist entries", err)
	}
	return nil
}

func scanEntry(row pgx.CollectableRow) (waitlist.Snapshot, error) {
	var r converter.EntryRow
	err := row.Scan(
		&r.ID, &r.CustomerID, &r.Name, &r.Email, &r.Phone, &r.PartySize, &r.PreferredDate,
		&r.PreferredTimeSlots, &r.SeatingPreference, &r.Occasion, &r.SpecialRequests,
		&r.DietaryRestrictions, &r.Allergies, &r.Priority, &r.Status, &r.EstimatedWait,
		&r.Position, &r.Notifications, &r.ExpiresAt, &r.NotifiedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return waitlist.Snapshot{}, err
	}
	return converter.RowToEntry(r)
}

// NopEntryRepository backs the memory driver: nothing is loaded or written.
type NopEntryRepository struct{}

func NewNopEntryRepository() NopEntryRepository {
	return NopEntryRepository{}
}

func (NopEntryRepository) LoadAll(context.Context) ([]waitlist.Snapshot, error) {
	return nil, nil
}

func (NopEntryRepository) Save(context.Context, []waitlist.Snapshot, []uuid.UUID) error {
	return nil
}
