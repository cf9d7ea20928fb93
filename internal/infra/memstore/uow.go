package memstore

import (
	"context"
	"log/slog"
	"sync"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/pkg/metrics"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPersistFailed = errs.New("failed to persist waitlist changes")

// UnitOfWork keeps the authoritative entry set in memory and writes changes
// through to an EntryRepository.
type UnitOfWork struct {
	mu      sync.RWMutex
	entries []*waitlist.Entry
	repo    shared.EntryRepository
	logger  *slog.Logger
}

func NewUnitOfWork(repo shared.EntryRepository, logger *slog.Logger) *UnitOfWork {
	return &UnitOfWork{repo: repo, logger: logger}
}

// Load replaces the in-memory set with the repository contents.
func (u *UnitOfWork) Load(ctx context.Context) error {
	snaps, err := u.repo.LoadAll(ctx)
	if err != nil {
		return errs.Wrap(err, "load waitlist entries")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.entries = make([]*waitlist.Entry, 0, len(snaps))
	for _, s := range snaps {
		u.entries = append(u.entries, waitlist.ReconstructEntry(s))
	}
	waitlist.RecomputePositions(u.entries)
	metrics.SetActiveEntries(countActive(u.entries))
	u.logger.Info("waitlist entries loaded", "count", len(u.entries))
	return nil
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	backup := cloneAll(u.entries)
	positions := positionsOf(u.entries)

	tx := &memTx{entries: u.entries, touched: map[uuid.UUID]struct{}{}}
	if err := fn(ctx, tx); err != nil {
		u.entries = backup
		return err
	}

	waitlist.RecomputePositions(tx.entries)

	var upserts []waitlist.Snapshot
	for _, e := range tx.entries {
		_, touched := tx.touched[e.ID()]
		if prev, ok := positions[e.ID()]; touched || !ok || prev != e.Position() {
			upserts = append(upserts, e.Snapshot())
		}
	}

	if len(upserts) > 0 || len(tx.deleted) > 0 {
		if err := u.repo.Save(ctx, upserts, tx.deleted); err != nil {
			u.entries = backup
			if infra.IsKind(err, infra.KindDBFailure) {
				return errs.Mark(err, ErrPersistFailed)
			}
			return err
		}
	}

	u.entries = tx.entries
	metrics.SetActiveEntries(countActive(u.entries))
	return nil
}

func (u *UnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r shared.Reads) error) error {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return fn(ctx, &memTx{entries: u.entries})
}

type memTx struct {
	entries []*waitlist.Entry
	touched map[uuid.UUID]struct{}
	deleted []uuid.UUID
}

func (t *memTx) EntryByID(id uuid.UUID) (*waitlist.Entry, bool) {
	for _, e := range t.entries {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

func (t *memTx) Entries() []*waitlist.Entry {
	out := make([]*waitlist.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *memTx) Add(e *waitlist.Entry) {
	t.entries = append(t.entries, e)
	t.touched[e.ID()] = struct{}{}
}

func (t *memTx) Remove(id uuid.UUID) bool {
	for i, e := range t.entries {
		if e.ID() == id {
			t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
			delete(t.touched, id)
			t.deleted = append(t.deleted, id)
			return true
		}
	}
	return false
}

func (t *memTx) Touch(id uuid.UUID) {
	t.touched[id] = struct{}{}
}

func cloneAll(entries []*waitlist.Entry) []*waitlist.Entry {
	out := make([]*waitlist.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

func positionsOf(entries []*waitlist.Entry) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(entries))
	for _, e := range entries {
		out[e.ID()] = e.Position()
	}
	return out
}

func countActive(entries []*waitlist.Entry) int {
	n := 0
	for _, e := range entries {
		if e.IsActive() {
			n++
		}
	}
	return n
}
