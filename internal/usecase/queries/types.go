package queries

import (
	"time"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"

	"github.com/google/uuid"
)

type EntryView struct {
	ID                  uuid.UUID          `json:"id"`
	CustomerID          *uuid.UUID         `json:"customer_id,omitempty"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Phone               string             `json:"phone"`
	PartySize           int                `json:"party_size"`
	PreferredDate       string             `json:"preferred_date"`
	PreferredTimeSlots  []string           `json:"preferred_time_slots"`
	SeatingPreference   string             `json:"seating_preference"`
	Occasion            string             `json:"occasion,omitempty"`
	SpecialRequests     []string           `json:"special_requests,omitempty"`
	DietaryRestrictions []string           `json:"dietary_restrictions,omitempty"`
	Allergies           []string           `json:"allergies,omitempty"`
	Priority            string             `json:"priority"`
	Status              string             `json:"status"`
	EstimatedWaitTime   int                `json:"estimated_wait_time"`
	Position            int                `json:"position"`
	Notifications       []NotificationView `json:"notifications"`
	ExpiresAt           *time.Time         `json:"expires_at,omitempty"`
	NotifiedAt          *time.Time         `json:"notified_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type NotificationView struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	TemplateID string     `json:"template_id"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type MatchView struct {
	Entry         *EntryView `json:"entry"`
	MatchingSlots []SlotView `json:"matching_slots"`
	Score         int        `json:"score"`
	Reasons       []string   `json:"reasons"`
}

type SlotView struct {
	Date            string   `json:"date"`
	TimeSlot        string   `json:"time_slot"`
	AvailableTables int      `json:"available_tables"`
	SeatingTypes    []string `json:"seating_types"`
}

type StatsView struct {
	Total                int            `json:"total"`
	Active               int            `json:"active"`
	ByStatus             map[string]int `json:"by_status"`
	ByPriority           map[string]int `json:"by_priority"`
	AverageEstimatedWait float64        `json:"average_estimated_wait"`
	Overdue              int            `json:"overdue"`
}

type TemplateView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Channels  []string `json:"channels"`
	Subject   string   `json:"subject"`
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
	Active    bool     `json:"active"`
}

// SearchFilter fields are combined with AND. Zero values do not filter.
type SearchFilter struct {
	Statuses     []waitlist.Status
	Priorities   []waitlist.Priority
	Seating      []waitlist.SeatingPreference
	From         waitlist.Date
	To           waitlist.Date
	MinPartySize int
	MaxPartySize int
	CustomerID   *uuid.UUID
	Text         string
}

type Cursor struct {
	After string
}

func toEntryView(s waitlist.Snapshot) *EntryView {
	slots := make([]string, len(s.Details.PreferredTimeSlots))
	for i, ts := range s.Details.PreferredTimeSlots {
		slots[i] = ts.String()
	}
	notifications := make([]NotificationView, len(s.Notifications))
	for i, n := range s.Notifications {
		notifications[i] = NotificationView{
			ID:         n.ID,
			Type:       n.Type.String(),
			Status:     n.Status.String(),
			TemplateID: n.TemplateID,
			Subject:    n.Subject,
			Content:    n.Content,
			SentAt:     n.SentAt,
			Error:      n.Error,
			CreatedAt:  n.CreatedAt,
		}
	}
	return &EntryView{
		ID:                  s.ID,
		CustomerID:          s.Details.CustomerID,
		Name:                s.Details.Name,
		Email:               s.Details.Email,
		Phone:               s.Details.Phone,
		PartySize:           s.Details.PartySize,
		PreferredDate:       s.Details.PreferredDate.String(),
		PreferredTimeSlots:  slots,
		SeatingPreference:   s.Details.SeatingPreference.String(),
		Occasion:            s.Details.Occasion,
		SpecialRequests:     s.Details.SpecialRequests,
		DietaryRestrictions: s.Details.DietaryRestrictions,
		Allergies:           s.Details.Allergies,
		Priority:            s.Priority.String(),
		Status:              s.Status.String(),
		EstimatedWaitTime:   s.EstimatedWait,
		Position:            s.Position,
		Notifications:       notifications,
		ExpiresAt:           s.ExpiresAt,
		NotifiedAt:          s.NotifiedAt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func toSlotView(s waitlist.AvailabilitySlot) SlotView {
	seating := make([]string, len(s.SeatingTypes))
	for i, st := range s.SeatingTypes {
		seating[i] = st.String()
	}
	return SlotView{
		Date:            s.Date.String(),
		TimeSlot:        s.TimeSlot.String(),
		AvailableTables: s.AvailableTables,
		SeatingTypes:    seating,
	}
}

func toTemplateView(t notification.Template) TemplateView {
	channels := make([]string, len(t.Channels))
	for i, c := range t.Channels {
		channels[i] = c.String()
	}
	return TemplateView{
		ID:        t.ID,
		Name:      t.Name,
		Category:  t.Category.String(),
		Channels:  channels,
		Subject:   t.Subject,
		Content:   t.Content,
		Variables: t.Variables,
		Active:    t.Active,
	}
}
