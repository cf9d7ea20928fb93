package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/clock"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/pkg/metrics"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

var (
	ErrCapacityExceeded       = errs.New("customer already has the maximum number of active waitlist entries")
	ErrEntryNotFound          = errs.New("waitlist entry not found")
	ErrDomainValidation       = errs.New("domain validation error")
	ErrIdempotencyInProgress  = errs.New("idempotency in progress")
	ErrIdempotencyConflict    = errs.New("idempotency key reused with a different request")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")
)

const idempotencyTTL = 24 * time.Hour

type CreateEntryRequest struct {
	Details waitlist.Details
}

type CreateEntryResult struct {
	EntryID    uuid.UUID
	IsReplayed bool
}

// UpdateEntryRequest is a partial update. Nil fields are left unchanged.
type UpdateEntryRequest struct {
	Name                *string
	Email               *string
	Phone               *string
	PartySize           *int
	PreferredDate       *waitlist.Date
	PreferredTimeSlots  []waitlist.TimeSlot
	SeatingPreference   *waitlist.SeatingPreference
	Occasion            *string
	SpecialRequests     []string
	DietaryRestrictions []string
	Allergies           []string
	Priority            *waitlist.Priority
	ExpiresAt           *time.Time
}

type WaitlistCommands interface {
	Create(ctx context.Context, req CreateEntryRequest, idempotencyKey string) (*CreateEntryResult, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status waitlist.Status) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Cleanup(ctx context.Context) (int, error)
	Send(ctx context.Context, id uuid.UUID, category notification.Category) (*SendResult, error)
	NotifyAvailability(ctx context.Context, id uuid.UUID) (*SendResult, error)
}

type waitlistUseCaseImpl struct {
	uow        shared.UnitOfWork
	config     *shared.ConfigurationHolder
	idem       shared.IdempotencyStore
	calculator waitlist.PriorityCalculator
	estimator  waitlist.WaitEstimator
	notifier   *notifier
	clock      clock.Clock
}

func NewWaitlistCommands(
	uow shared.UnitOfWork,
	config *shared.ConfigurationHolder,
	idem shared.IdempotencyStore,
	calculator waitlist.PriorityCalculator,
	estimator waitlist.WaitEstimator,
	catalog *notification.Catalog,
	transport shared.Transport,
	clk clock.Clock,
) WaitlistCommands {
	return &waitlistUseCaseImpl{
		uow:        uow,
		config:     config,
		idem:       idem,
		calculator: calculator,
		estimator:  estimator,
		notifier:   newNotifier(uow, config, catalog, transport, clk),
		clock:      clk,
	}
}

func (uc *waitlistUseCaseImpl) Create(ctx context.Context, req CreateEntryRequest, idempotencyKey string) (*CreateEntryResult, error) {
	if err := req.Details.Validate(); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if idempotencyKey == "" {
		id, err := uc.createEntry(ctx, req)
		if err != nil {
			return nil, err
		}
		return &CreateEntryResult{EntryID: id}, nil
	}

	requestHash := calculateRequestHash(req)
	existing, err := uc.idem.Begin(ctx, idempotencyKey, requestHash, idempotencyTTL)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if existing != nil {
		return replay(existing, requestHash)
	}

	id, err := uc.createEntry(ctx, req)
	if err != nil {
		if releaseErr := uc.idem.Release(ctx, idempotencyKey); releaseErr != nil {
			slog.Warn("failed to release idempotency key", "key", idempotencyKey, "error", releaseErr)
		}
		return nil, err
	}

	if err := uc.idem.Complete(ctx, idempotencyKey, requestHash, id, idempotencyTTL); err != nil {
		slog.Warn("failed to complete idempotency key", "key", idempotencyKey, "error", err)
	}
	return &CreateEntryResult{EntryID: id}, nil
}

func replay(existing *shared.IdempotencyRecord, requestHash string) (*CreateEntryResult, error) {
	if existing.RequestHash != requestHash {
		return nil, ErrIdempotencyConflict
	}
	switch existing.Status {
	case shared.IdempotencyCompleted:
		if existing.EntryID == nil {
			return nil, errs.New("completed request missing result entry ID")
		}
		return &CreateEntryResult{EntryID: *existing.EntryID, IsReplayed: true}, nil
	case shared.IdempotencyProcessing:
		return nil, ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (uc *waitlistUseCaseImpl) createEntry(ctx context.Context, req CreateEntryRequest) (uuid.UUID, error) {
	cfg := uc.config.Get()
	now := uc.clock.Now()

	var created *waitlist.Entry
	err := uc.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		if cid := req.Details.CustomerID; cid != nil {
			if countActiveFor(tx.Entries(), *cid) >= cfg.MaxEntriesPerCustomer {
				return ErrCapacityExceeded
			}
		}

		priority := uc.calculator.Calculate(req.Details, cfg)
		estimate := uc.estimator.EstimateWait(req.Details, now)
		entry, derr := waitlist.NewEntry(req.Details, priority, estimate, now)
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}
		tx.Add(entry)
		created = entry
		return nil
	})
	if err != nil {
		if errs.Is(err, ErrCapacityExceeded) {
			metrics.RecordCapacityRejection()
		}
		return uuid.Nil, err
	}

	metrics.RecordEntryCreated(created.Priority().String())
	slog.Info("waitlist entry created",
		"entry_id", created.ID(),
		"priority", created.Priority(),
		"preferred_date", created.PreferredDate().String())

	if _, sendErr := uc.notifier.send(ctx, created.ID(), notification.CategoryConfirmation, nil); sendErr != nil {
		slog.Warn("confirmation notification not sent", "entry_id", created.ID(), "error", sendErr)
	}

	return created.ID(), nil
}

func (uc *waitlistUseCaseImpl) Update(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) error {
	now := uc.clock.Now()
	return uc.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		entry, ok := tx.EntryByID(id)
		if !ok {
			return ErrEntryNotFound
		}

		details := entry.Details()
		if err := copier.CopyWithOption(&details, &req, copier.Option{IgnoreEmpty: true}); err != nil {
			return errs.Wrap(err, "merge entry details")
		}
		if err := entry.UpdateDetails(details, now); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if req.Priority != nil {
			if err := entry.OverridePriority(*req.Priority, now); err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
		}
		if req.ExpiresAt != nil {
			entry.SetExpiresAt(req.ExpiresAt, now)
		}
		tx.Touch(id)
		return nil
	})
}

func (uc *waitlistUseCaseImpl) ChangeStatus(ctx context.Context, id uuid.UUID, status waitlist.Status) error {
	now := uc.clock.Now()
	return uc.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		entry, ok := tx.EntryByID(id)
		if !ok {
			return ErrEntryNotFound
		}
		if err := entry.ChangeStatus(status, now); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		tx.Touch(id)
		return nil
	})
}

func (uc *waitlistUseCaseImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	err := uc.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		found = tx.Remove(id)
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Cleanup drops entries past their explicit expiry and notified entries whose
// age, counted from creation, exceeds the auto-expire window.
func (uc *waitlistUseCaseImpl) Cleanup(ctx context.Context) (int, error) {
	cfg := uc.config.Get()
	now := uc.clock.Now()
	autoExpire := time.Duration(cfg.AutoExpireAfter) * time.Hour

	removed := 0
	err := uc.uow.Within(ctx, func(_ context.Context, tx shared.Tx) error {
		for _, e := range tx.Entries() {
			expired := e.HasExpired(now)
			stale := e.Status() == waitlist.StatusNotified && e.WaitingFor(now) > autoExpire
			if (expired || stale) && tx.Remove(e.ID()) {
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		metrics.RecordCleanup(removed)
		slog.Info("waitlist cleanup removed entries", "removed", removed)
	}
	return removed, nil
}

func (uc *waitlistUseCaseImpl) Send(ctx context.Context, id uuid.UUID, category notification.Category) (*SendResult, error) {
	return uc.notifier.send(ctx, id, category, nil)
}

// NotifyAvailability offers a freed table to a waiting entry: the availability
// template is sent and the entry moves to notified in the same unit of work.
// Entries in any other status are refused before anything is rendered.
func (uc *waitlistUseCaseImpl) NotifyAvailability(ctx context.Context, id uuid.UUID) (*SendResult, error) {
	return uc.notifier.send(ctx, id, notification.CategoryAvailability, func(entry *waitlist.Entry, now time.Time) error {
		if entry.Status() != waitlist.StatusWaiting {
			return ErrEntryNotWaiting
		}
		if err := entry.ChangeStatus(waitlist.StatusNotified, now); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		return nil
	})
}

func countActiveFor(entries []*waitlist.Entry, customerID uuid.UUID) int {
	n := 0
	for _, e := range entries {
		if e.IsActive() && e.BelongsTo(customerID) {
			n++
		}
	}
	return n
}

func calculateRequestHash(req CreateEntryRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
