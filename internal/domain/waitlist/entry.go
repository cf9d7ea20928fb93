package waitlist

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Details is the customer-supplied part of an entry.
type Details struct {
	CustomerID          *uuid.UUID
	Name                string
	Email               string
	Phone               string
	PartySize           int
	PreferredDate       Date
	PreferredTimeSlots  []TimeSlot
	SeatingPreference   SeatingPreference
	Occasion            string
	SpecialRequests     []string
	DietaryRestrictions []string
	Allergies           []string
}

func (d Details) Validate() error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Email) == "" || strings.TrimSpace(d.Phone) == "" {
		return ErrMissingContact
	}
	if d.PartySize < 1 {
		return ErrInvalidPartySize
	}
	if d.PreferredDate.IsZero() {
		return ErrInvalidDate
	}
	if len(d.PreferredTimeSlots) == 0 {
		return ErrNoPreferredTimeSlots
	}
	for _, ts := range d.PreferredTimeSlots {
		if !IsValidTimeSlot(ts.String()) {
			return ErrInvalidTimeSlot
		}
	}
	if d.SeatingPreference != "" && !d.SeatingPreference.IsValid() {
		return ErrInvalidSeatingPreference
	}
	return nil
}

// FirstTimeSlot returns the most preferred slot.
func (d Details) FirstTimeSlot() (TimeSlot, bool) {
	if len(d.PreferredTimeSlots) == 0 {
		return "", false
	}
	return d.PreferredTimeSlots[0], true
}

func (d Details) clone() Details {
	out := d
	if d.CustomerID != nil {
		id := *d.CustomerID
		out.CustomerID = &id
	}
	out.PreferredTimeSlots = slices.Clone(d.PreferredTimeSlots)
	out.SpecialRequests = slices.Clone(d.SpecialRequests)
	out.DietaryRestrictions = slices.Clone(d.DietaryRestrictions)
	out.Allergies = slices.Clone(d.Allergies)
	return out
}

type NotificationRecord struct {
	ID         uuid.UUID
	Type       NotificationType
	Status     NotificationStatus
	Content    string
	TemplateID string
	Subject    string
	SentAt     *time.Time
	Error      string
	CreatedAt  time.Time
}

type Entry struct {
	id            uuid.UUID
	details       Details
	priority      Priority
	status        Status
	estimatedWait int
	position      int
	notifications []NotificationRecord
	expiresAt     *time.Time
	notifiedAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewEntry(details Details, priority Priority, estimatedWait int, now time.Time) (*Entry, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if details.SeatingPreference == "" {
		details.SeatingPreference = SeatingNoPreference
	}
	return &Entry{
		id:            uuid.New(),
		details:       details.clone(),
		priority:      priority,
		status:        StatusWaiting,
		estimatedWait: estimatedWait,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Snapshot is the flat, exported form used by persistence and read models.
type Snapshot struct {
	ID            uuid.UUID
	Details       Details
	Priority      Priority
	Status        Status
	EstimatedWait int
	Position      int
	Notifications []NotificationRecord
	ExpiresAt     *time.Time
	NotifiedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructEntry(s Snapshot) *Entry {
	return &Entry{
		id:            s.ID,
		details:       s.Details.clone(),
		priority:      s.Priority,
		status:        s.Status,
		estimatedWait: s.EstimatedWait,
		position:      s.Position,
		notifications: slices.Clone(s.Notifications),
		expiresAt:     cloneTime(s.ExpiresAt),
		notifiedAt:    cloneTime(s.NotifiedAt),
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

func (e *Entry) Snapshot() Snapshot {
	notifications := make([]NotificationRecord, len(e.notifications))
	for i, n := range e.notifications {
		n.SentAt = cloneTime(n.SentAt)
		notifications[i] = n
	}
	return Snapshot{
		ID:            e.id,
		Details:       e.details.clone(),
		Priority:      e.priority,
		Status:        e.status,
		EstimatedWait: e.estimatedWait,
		Position:      e.position,
		Notifications: notifications,
		ExpiresAt:     cloneTime(e.expiresAt),
		NotifiedAt:    cloneTime(e.notifiedAt),
		CreatedAt:     e.createdAt,
		UpdatedAt:     e.updatedAt,
	}
}

func (e *Entry) Clone() *Entry {
	return ReconstructEntry(e.Snapshot())
}

func (e *Entry) UpdateDetails(details Details, now time.Time) error {
	if err := details.Validate(); err != nil {
		return err
	}
	if details.SeatingPreference == "" {
		details.SeatingPreference = SeatingNoPreference
	}
	e.details = details.clone()
	e.updatedAt = now
	return nil
}

// OverridePriority replaces the computed tier with a staff decision.
func (e *Entry) OverridePriority(p Priority, now time.Time) error {
	if !p.IsValid() {
		return ErrInvalidPriority
	}
	e.priority = p
	e.updatedAt = now
	return nil
}

func (e *Entry) SetExpiresAt(at *time.Time, now time.Time) {
	e.expiresAt = cloneTime(at)
	e.updatedAt = now
}

func (e *Entry) ChangeStatus(status Status, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if status == StatusNotified && e.status != StatusNotified {
		t := now
		e.notifiedAt = &t
	}
	e.status = status
	e.updatedAt = now
	return nil
}

func (e *Entry) AppendNotification(rec NotificationRecord, now time.Time) {
	e.notifications = append(e.notifications, rec)
	e.updatedAt = now
}

// CompleteNotification records the delivery outcome of a pending record.
func (e *Entry) CompleteNotification(recordID uuid.UUID, deliveryErr error, now time.Time) error {
	for i := range e.notifications {
		if e.notifications[i].ID != recordID {
			continue
		}
		if deliveryErr != nil {
			e.notifications[i].Status = NotificationFailed
			e.notifications[i].Error = deliveryErr.Error()
		} else {
			t := now
			e.notifications[i].Status = NotificationSent
			e.notifications[i].SentAt = &t
		}
		e.updatedAt = now
		return nil
	}
	return ErrNotificationNotFound
}

func (e *Entry) IsActive() bool {
	return e.status.IsActive()
}

// WaitingFor is measured from creation.
func (e *Entry) WaitingFor(now time.Time) time.Duration {
	return now.Sub(e.createdAt)
}

func (e *Entry) HasExpired(now time.Time) bool {
	return e.expiresAt != nil && e.expiresAt.Before(now)
}

func (e *Entry) BelongsTo(customerID uuid.UUID) bool {
	return e.details.CustomerID != nil && *e.details.CustomerID == customerID
}

func (e *Entry) ID() uuid.UUID                        { return e.id }
func (e *Entry) Details() Details                     { return e.details.clone() }
func (e *Entry) PartySize() int                       { return e.details.PartySize }
func (e *Entry) PreferredDate() Date                  { return e.details.PreferredDate }
func (e *Entry) SeatingPreference() SeatingPreference { return e.details.SeatingPreference }
func (e *Entry) Priority() Priority                   { return e.priority }
func (e *Entry) Status() Status                       { return e.status }
func (e *Entry) EstimatedWait() int                   { return e.estimatedWait }
func (e *Entry) Position() int                        { return e.position }
func (e *Entry) ExpiresAt() *time.Time                { return cloneTime(e.expiresAt) }
func (e *Entry) NotifiedAt() *time.Time               { return cloneTime(e.notifiedAt) }
func (e *Entry) CreatedAt() time.Time                 { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time                 { return e.updatedAt }

func (e *Entry) Notifications() []NotificationRecord {
	return e.Snapshot().Notifications
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
