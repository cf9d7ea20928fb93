//go:build unit || e2e || integration

package builder

import (
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	reqdto "omiam-waitlist/internal/handler/dto/request"
	"omiam-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type EntryBuilder struct {
	ID                 uuid.UUID
	CustomerID         *uuid.UUID
	Name               string
	Email              string
	Phone              string
	PartySize          int
	PreferredDate      waitlist.Date
	PreferredTimeSlots []waitlist.TimeSlot
	Seating            waitlist.SeatingPreference
	Occasion           string
	Priority           waitlist.Priority
	Status             waitlist.Status
	EstimatedWait      int
	Position           int
	Notifications      []waitlist.NotificationRecord
	ExpiresAt          *time.Time
	NotifiedAt         *time.Time
	CreatedAt          time.Time
}

func NewEntryBuilder() *EntryBuilder {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &EntryBuilder{
		ID:                 uuid.New(),
		Name:               "Camille Martin",
		Email:              "camille@example.com",
		Phone:              "+33612345678",
		PartySize:          2,
		PreferredDate:      waitlist.NewDate(2025, 6, 12),
		PreferredTimeSlots: []waitlist.TimeSlot{"19:30", "20:00"},
		Seating:            waitlist.SeatingNoPreference,
		Priority:           waitlist.PriorityLow,
		Status:             waitlist.StatusWaiting,
		EstimatedWait:      60,
		Position:           1,
		CreatedAt:          now,
	}
}

func (b *EntryBuilder) With(mutate func(*EntryBuilder)) *EntryBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *EntryBuilder) BuildDetails() waitlist.Details {
	return waitlist.Details{
		CustomerID:         b.CustomerID,
		Name:               b.Name,
		Email:              b.Email,
		Phone:              b.Phone,
		PartySize:          b.PartySize,
		PreferredDate:      b.PreferredDate,
		PreferredTimeSlots: b.PreferredTimeSlots,
		SeatingPreference:  b.Seating,
		Occasion:           b.Occasion,
	}
}

func (b *EntryBuilder) BuildSnapshot() waitlist.Snapshot {
	return waitlist.Snapshot{
		ID:            b.ID,
		Details:       b.BuildDetails(),
		Priority:      b.Priority,
		Status:        b.Status,
		EstimatedWait: b.EstimatedWait,
		Position:      b.Position,
		Notifications: b.Notifications,
		ExpiresAt:     b.ExpiresAt,
		NotifiedAt:    b.NotifiedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.CreatedAt,
	}
}

func (b *EntryBuilder) BuildDomain() *waitlist.Entry {
	return waitlist.ReconstructEntry(b.BuildSnapshot())
}

func (b *EntryBuilder) BuildCreateRequestDTO() reqdto.CreateEntryRequest {
	slots := make([]string, len(b.PreferredTimeSlots))
	for i, s := range b.PreferredTimeSlots {
		slots[i] = s.String()
	}
	return reqdto.CreateEntryRequest{
		CustomerID:         b.CustomerID,
		Name:               b.Name,
		Email:              b.Email,
		Phone:              b.Phone,
		PartySize:          b.PartySize,
		PreferredDate:      b.PreferredDate.String(),
		PreferredTimeSlots: slots,
		SeatingPreference:  b.Seating.String(),
		Occasion:           b.Occasion,
	}
}

func (b *EntryBuilder) BuildView() *queries.EntryView {
	slots := make([]string, len(b.PreferredTimeSlots))
	for i, s := range b.PreferredTimeSlots {
		slots[i] = s.String()
	}
	return &queries.EntryView{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		Name:               b.Name,
		Email:              b.Email,
		Phone:              b.Phone,
		PartySize:          b.PartySize,
		PreferredDate:      b.PreferredDate.String(),
		PreferredTimeSlots: slots,
		SeatingPreference:  b.Seating.String(),
		Occasion:           b.Occasion,
		Priority:           b.Priority.String(),
		Status:             b.Status.String(),
		EstimatedWaitTime:  b.EstimatedWait,
		Position:           b.Position,
		Notifications:      []queries.NotificationView{},
		ExpiresAt:          b.ExpiresAt,
		NotifiedAt:         b.NotifiedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.CreatedAt,
	}
}

// Fluent builder methods
func (b *EntryBuilder) WithCustomer(id uuid.UUID) *EntryBuilder {
	b.CustomerID = &id
	return b
}

func (b *EntryBuilder) WithPartySize(n int) *EntryBuilder {
	b.PartySize = n
	return b
}

func (b *EntryBuilder) WithDate(d waitlist.Date) *EntryBuilder {
	b.PreferredDate = d
	return b
}

func (b *EntryBuilder) WithSlots(slots ...waitlist.TimeSlot) *EntryBuilder {
	b.PreferredTimeSlots = slots
	return b
}

func (b *EntryBuilder) WithSeating(s waitlist.SeatingPreference) *EntryBuilder {
	b.Seating = s
	return b
}

func (b *EntryBuilder) WithPriority(p waitlist.Priority) *EntryBuilder {
	b.Priority = p
	return b
}

func (b *EntryBuilder) WithStatus(s waitlist.Status) *EntryBuilder {
	b.Status = s
	return b
}

func (b *EntryBuilder) CreatedAtTime(t time.Time) *EntryBuilder {
	b.CreatedAt = t
	return b
}

func (b *EntryBuilder) ExpiringAt(t time.Time) *EntryBuilder {
	b.ExpiresAt = &t
	return b
}
