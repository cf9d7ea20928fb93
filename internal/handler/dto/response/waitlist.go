package response

import (
	"time"

	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type EntryResponse struct {
	ID                  uuid.UUID              `json:"id"`
	CustomerID          *uuid.UUID             `json:"customerId,omitempty"`
	Name                string                 `json:"name"`
	Email               string                 `json:"email"`
	Phone               string                 `json:"phone"`
	PartySize           int                    `json:"partySize"`
	PreferredDate       string                 `json:"preferredDate"`
	PreferredTimeSlots  []string               `json:"preferredTimeSlots"`
	SeatingPreference   string                 `json:"seatingPreference"`
	Occasion            string                 `json:"occasion,omitempty"`
	SpecialRequests     []string               `json:"specialRequests,omitempty"`
	DietaryRestrictions []string               `json:"dietaryRestrictions,omitempty"`
	Allergies           []string               `json:"allergies,omitempty"`
	Priority            string                 `json:"priority"`
	Status              string                 `json:"status"`
	EstimatedWaitTime   int                    `json:"estimatedWaitTime"`
	Position            int                    `json:"position"`
	Notifications       []NotificationResponse `json:"notifications"`
	ExpiresAt           *time.Time             `json:"expiresAt,omitempty"`
	NotifiedAt          *time.Time             `json:"notifiedAt,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	TemplateID string     `json:"templateId"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type EntryListResponse struct {
	Entries    []*EntryResponse `json:"entries"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

type SendNotificationResponse struct {
	RecordID uuid.UUID `json:"recordId"`
	Channel  string    `json:"channel"`
	Status   string    `json:"status"`
}

type SlotResponse struct {
	Date            string   `json:"date"`
	TimeSlot        string   `json:"timeSlot"`
	AvailableTables int      `json:"availableTables"`
	SeatingTypes    []string `json:"seatingTypes"`
}

type MatchResponse struct {
	Entry         *EntryResponse `json:"entry"`
	MatchingSlots []SlotResponse `json:"matchingSlots"`
	Score         int            `json:"score"`
	Reasons       []string       `json:"reasons"`
}

type CleanupResponse struct {
	Removed int `json:"removed"`
}

type StatsResponse struct {
	Total                int            `json:"total"`
	Active               int            `json:"active"`
	ByStatus             map[string]int `json:"byStatus"`
	ByPriority           map[string]int `json:"byPriority"`
	AverageEstimatedWait float64        `json:"averageEstimatedWait"`
	Overdue              int            `json:"overdue"`
}

func FromEntryView(v *queries.EntryView) *EntryResponse {
	notifications := make([]NotificationResponse, len(v.Notifications))
	for i, n := range v.Notifications {
		notifications[i] = NotificationResponse{
			ID:         n.ID,
			Type:       n.Type,
			Status:     n.Status,
			TemplateID: n.TemplateID,
			Subject:    n.Subject,
			Content:    n.Content,
			SentAt:     n.SentAt,
			Error:      n.Error,
			CreatedAt:  n.CreatedAt,
		}
	}
	return &EntryResponse{
		ID:                  v.ID,
		CustomerID:          v.CustomerID,
		Name:                v.Name,
		Email:               v.Email,
		Phone:               v.Phone,
		PartySize:           v.PartySize,
		PreferredDate:       v.PreferredDate,
		PreferredTimeSlots:  v.PreferredTimeSlots,
		SeatingPreference:   v.SeatingPreference,
		Occasion:            v.Occasion,
		SpecialRequests:     v.SpecialRequests,
		DietaryRestrictions: v.DietaryRestrictions,
		Allergies:           v.Allergies,
		Priority:            v.Priority,
		Status:              v.Status,
		EstimatedWaitTime:   v.EstimatedWaitTime,
		Position:            v.Position,
		Notifications:       notifications,
		ExpiresAt:           v.ExpiresAt,
		NotifiedAt:          v.NotifiedAt,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}

func FromEntryViews(views []*queries.EntryView, next *queries.Cursor) *EntryListResponse {
	out := &EntryListResponse{Entries: make([]*EntryResponse, len(views))}
	for i, v := range views {
		out.Entries[i] = FromEntryView(v)
	}
	if next != nil {
		out.NextCursor = next.After
	}
	return out
}

func FromSendResult(r *commands.SendResult) *SendNotificationResponse {
	return &SendNotificationResponse{
		RecordID: r.RecordID,
		Channel:  r.Channel.String(),
		Status:   "pending",
	}
}

func FromMatchViews(views []*queries.MatchView) []MatchResponse {
	out := make([]MatchResponse, len(views))
	for i, m := range views {
		slots := make([]SlotResponse, len(m.MatchingSlots))
		for j, s := range m.MatchingSlots {
			slots[j] = SlotResponse{
				Date:            s.Date,
				TimeSlot:        s.TimeSlot,
				AvailableTables: s.AvailableTables,
				SeatingTypes:    s.SeatingTypes,
			}
		}
		out[i] = MatchResponse{
			Entry:         FromEntryView(m.Entry),
			MatchingSlots: slots,
			Score:         m.Score,
			Reasons:       m.Reasons,
		}
	}
	return out
}

func FromStatsView(v *queries.StatsView) *StatsResponse {
	return &StatsResponse{
		Total:                v.Total,
		Active:               v.Active,
		ByStatus:             v.ByStatus,
		ByPriority:           v.ByPriority,
		AverageEstimatedWait: v.AverageEstimatedWait,
		Overdue:              v.Overdue,
	}
}
