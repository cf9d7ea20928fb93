package waitlist

import (
	"omiam-waitlist/internal/pkg/errs"
)

var (
	ErrInvalidStatus            = errs.New("invalid waitlist status")
	ErrInvalidPriority          = errs.New("invalid waitlist priority")
	ErrInvalidSeatingPreference = errs.New("invalid seating preference")
	ErrInvalidPartySize         = errs.New("party size must be positive")
	ErrNoPreferredTimeSlots     = errs.New("at least one preferred time slot is required")
	ErrMissingContact           = errs.New("name, email and phone are required")
	ErrNotificationNotFound     = errs.New("notification record not found")
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusNotified  Status = "notified"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusNotified, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsActive reports whether entries in this status take part in ranking.
func (s Status) IsActive() bool {
	return s == StatusWaiting || s == StatusNotified
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Rank orders tiers from low (1) to urgent (4). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

type SeatingPreference string

const (
	SeatingIndoor       SeatingPreference = "indoor"
	SeatingOutdoor      SeatingPreference = "outdoor"
	SeatingPrivate      SeatingPreference = "private"
	SeatingBar          SeatingPreference = "bar"
	SeatingNoPreference SeatingPreference = "no-preference"
)

func (s SeatingPreference) String() string {
	return string(s)
}

func (s SeatingPreference) IsValid() bool {
	switch s {
	case SeatingIndoor, SeatingOutdoor, SeatingPrivate, SeatingBar, SeatingNoPreference:
		return true
	default:
		return false
	}
}

// IsSpecific is false for the empty value and for no-preference.
func (s SeatingPreference) IsSpecific() bool {
	return s != "" && s != SeatingNoPreference
}

func NewSeatingPreference(s string) (SeatingPreference, error) {
	if s == "" {
		return SeatingNoPreference, nil
	}
	pref := SeatingPreference(s)
	if !pref.IsValid() {
		return "", ErrInvalidSeatingPreference
	}
	return pref, nil
}

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationSMS   NotificationType = "sms"
	NotificationPush  NotificationType = "push"
	NotificationCall  NotificationType = "call"
)

func (t NotificationType) String() string {
	return string(t)
}

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

func (s NotificationStatus) String() string {
	return string(s)
}
