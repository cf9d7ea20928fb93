package queries

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/pkg/metrics"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEntryNotFound = errs.New("waitlist entry not found")

type WaitlistQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*EntryView, error)
	// Search returns matching entries newest first. limit <= 0 returns all of them.
	Search(ctx context.Context, filter SearchFilter, after *Cursor, limit int) ([]*EntryView, *Cursor, error)
	FindMatches(ctx context.Context, slots []waitlist.AvailabilitySlot) ([]*MatchView, error)
	Stats(ctx context.Context) (*StatsView, error)
}

type waitlistQueriesImpl struct {
	uow    shared.UnitOfWork
	config *shared.ConfigurationHolder
	clock  clock.Clock
}

func NewWaitlistQueries(uow shared.UnitOfWork, config *shared.ConfigurationHolder, clk clock.Clock) WaitlistQueries {
	return &waitlistQueriesImpl{uow: uow, config: config, clock: clk}
}

func (q *waitlistQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*EntryView, error) {
	var view *EntryView
	err := q.uow.WithinReadOnly(ctx, func(_ context.Context, r shared.Reads) error {
		entry, ok := r.EntryByID(id)
		if !ok {
			return ErrEntryNotFound
		}
		view = toEntryView(entry.Snapshot())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *waitlistQueriesImpl) Search(ctx context.Context, filter SearchFilter, after *Cursor, limit int) ([]*EntryView, *Cursor, error) {
	var (
		afterAt int64
		afterID string
	)
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, err
		}
		afterAt, afterID = t.UnixMicro(), id.String()
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var snaps []waitlist.Snapshot
	err := q.uow.WithinReadOnly(ctx, func(_ context.Context, r shared.Reads) error {
		for _, e := range r.Entries() {
			if filter.matches(e) {
				snaps = append(snaps, e.Snapshot())
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slices.SortFunc(snaps, func(a, b waitlist.Snapshot) int {
		if c := cmp.Compare(b.CreatedAt.UnixMicro(), a.CreatedAt.UnixMicro()); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})

	if afterID != "" {
		i := slices.IndexFunc(snaps, func(s waitlist.Snapshot) bool {
			at := s.CreatedAt.UnixMicro()
			return at < afterAt || (at == afterAt && s.ID.String() < afterID)
		})
		if i < 0 {
			snaps = nil
		} else {
			snaps = snaps[i:]
		}
	}

	var next *Cursor
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
		last := snaps[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}

	views := make([]*EntryView, len(snaps))
	for i, s := range snaps {
		views[i] = toEntryView(s)
	}
	return views, next, nil
}

func (f SearchFilter) matches(e *waitlist.Entry) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status()) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, e.Priority()) {
		return false
	}
	if len(f.Seating) > 0 && !slices.Contains(f.Seating, e.SeatingPreference()) {
		return false
	}
	if !f.From.IsZero() && e.PreferredDate().Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.PreferredDate().After(f.To) {
		return false
	}
	if f.MinPartySize > 0 && e.PartySize() < f.MinPartySize {
		return false
	}
	if f.MaxPartySize > 0 && e.PartySize() > f.MaxPartySize {
		return false
	}
	if f.CustomerID != nil && !e.BelongsTo(*f.CustomerID) {
		return false
	}
	if text := strings.ToLower(strings.TrimSpace(f.Text)); text != "" {
		d := e.Details()
		if !strings.Contains(strings.ToLower(d.Name), text) &&
			!strings.Contains(strings.ToLower(d.Email), text) &&
			!strings.Contains(strings.ToLower(d.Phone), text) {
			return false
		}
	}
	return true
}

func (q *waitlistQueriesImpl) FindMatches(ctx context.Context, slots []waitlist.AvailabilitySlot) ([]*MatchView, error) {
	metrics.RecordMatchRequest()
	now := q.clock.Now()

	var views []*MatchView
	err := q.uow.WithinReadOnly(ctx, func(_ context.Context, r shared.Reads) error {
		for _, m := range waitlist.FindMatches(r.Entries(), slots, now) {
			matching := make([]SlotView, len(m.MatchingSlots))
			for i, s := range m.MatchingSlots {
				matching[i] = toSlotView(s)
			}
			views = append(views, &MatchView{
				Entry:         toEntryView(m.Entry.Snapshot()),
				MatchingSlots: matching,
				Score:         m.Score,
				Reasons:       m.Reasons,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*MatchView{}
	}
	return views, nil
}

func (q *waitlistQueriesImpl) Stats(ctx context.Context) (*StatsView, error) {
	cfg := q.config.Get()
	now := q.clock.Now()
	maxWait := time.Duration(cfg.MaxWaitHours) * time.Hour

	stats := &StatsView{ByStatus: map[string]int{}, ByPriority: map[string]int{}}
	err := q.uow.WithinReadOnly(ctx, func(_ context.Context, r shared.Reads) error {
		waitSum := 0
		for _, e := range r.Entries() {
			stats.Total++
			stats.ByStatus[e.Status().String()]++
			stats.ByPriority[e.Priority().String()]++
			if !e.IsActive() {
				continue
			}
			stats.Active++
			waitSum += e.EstimatedWait()
			if maxWait > 0 && e.WaitingFor(now) > maxWait {
				stats.Overdue++
			}
		}
		if stats.Active > 0 {
			stats.AverageEstimatedWait = float64(waitSum) / float64(stats.Active)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
