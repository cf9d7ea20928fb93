package converter

import (
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// EntryRow mirrors a waitlist_entries row.
type EntryRow struct {
	ID                  pgtype.UUID
	CustomerID          pgtype.UUID
	Name                string
	Email               string
	Phone               string
	PartySize           int32
	PreferredDate       pgtype.Date
	PreferredTimeSlots  []string
	SeatingPreference   string
	Occasion            string
	SpecialRequests     []string
	DietaryRestrictions []string
	Allergies           []string
	Priority            string
	Status              string
	EstimatedWait       int32
	Position            int32
	Notifications       []NotificationDoc
	ExpiresAt           pgtype.Timestamptz
	NotifiedAt          pgtype.Timestamptz
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

// NotificationDoc is the JSONB shape of a notification record.
type NotificationDoc struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	Content    string     `json:"content"`
	TemplateID string     `json:"templateId"`
	Subject    string     `json:"subject,omitempty"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func EntryToRow(s waitlist.Snapshot) EntryRow {
	slots := make([]string, len(s.Details.PreferredTimeSlots))
	for i, ts := range s.Details.PreferredTimeSlots {
		slots[i] = ts.String()
	}
	docs := make([]NotificationDoc, len(s.Notifications))
	for i, n := range s.Notifications {
		docs[i] = NotificationDoc{
			ID:         n.ID.String(),
			Type:       n.Type.String(),
			Status:     n.Status.String(),
			Content:    n.Content,
			TemplateID: n.TemplateID,
			Subject:    n.Subject,
			SentAt:     n.SentAt,
			Error:      n.Error,
			CreatedAt:  n.CreatedAt,
		}
	}

	return EntryRow{
		ID:                  pgconv.UUIDToPgtype(s.ID),
		CustomerID:          pgconv.UUIDPtrToPgtype(s.Details.CustomerID),
		Name:                s.Details.Name,
		Email:               s.Details.Email,
		Phone:               s.Details.Phone,
		PartySize:           pgconv.IntToInt32(s.Details.PartySize),
		PreferredDate:       pgtype.Date{Time: s.Details.PreferredDate.Midnight(time.UTC), Valid: true},
		PreferredTimeSlots:  slots,
		SeatingPreference:   s.Details.SeatingPreference.String(),
		Occasion:            s.Details.Occasion,
		SpecialRequests:     nonNil(s.Details.SpecialRequests),
		DietaryRestrictions: nonNil(s.Details.DietaryRestrictions),
		Allergies:           nonNil(s.Details.Allergies),
		Priority:            s.Priority.String(),
		Status:              s.Status.String(),
		EstimatedWait:       pgconv.IntToInt32(s.EstimatedWait),
		Position:            pgconv.IntToInt32(s.Position),
		Notifications:       docs,
		ExpiresAt:           pgconv.TimePtrToPgtype(s.ExpiresAt),
		NotifiedAt:          pgconv.TimePtrToPgtype(s.NotifiedAt),
		CreatedAt:           pgconv.TimeToPgtype(s.CreatedAt),
		UpdatedAt:           pgconv.TimeToPgtype(s.UpdatedAt),
	}
}

// RowToEntry trusts stored values; rows are only ever written by EntryToRow.
func RowToEntry(r EntryRow) (waitlist.Snapshot, error) {
	slots := make([]waitlist.TimeSlot, len(r.PreferredTimeSlots))
	for i, s := range r.PreferredTimeSlots {
		slots[i] = waitlist.TimeSlot(s)
	}
	records := make([]waitlist.NotificationRecord, len(r.Notifications))
	for i, d := range r.Notifications {
		id, err := pgconv.ParseUUID(d.ID)
		if err != nil {
			return waitlist.Snapshot{}, err
		}
		records[i] = waitlist.NotificationRecord{
			ID:         id,
			Type:       waitlist.NotificationType(d.Type),
			Status:     waitlist.NotificationStatus(d.Status),
			Content:    d.Content,
			TemplateID: d.TemplateID,
			Subject:    d.Subject,
			SentAt:     d.SentAt,
			Error:      d.Error,
			CreatedAt:  d.CreatedAt,
		}
	}

	return waitlist.Snapshot{
		ID: r.ID.Bytes,
		Details: waitlist.Details{
			CustomerID:          pgconv.UUIDPtrFromPgtype(r.CustomerID),
			Name:                r.Name,
			Email:               r.Email,
			Phone:               r.Phone,
			PartySize:           int(r.PartySize),
			PreferredDate:       waitlist.DateOf(r.PreferredDate.Time),
			PreferredTimeSlots:  slots,
			SeatingPreference:   waitlist.SeatingPreference(r.SeatingPreference),
			Occasion:            r.Occasion,
			SpecialRequests:     r.SpecialRequests,
			DietaryRestrictions: r.DietaryRestrictions,
			Allergies:           r.Allergies,
		},
		Priority:      waitlist.Priority(r.Priority),
		Status:        waitlist.Status(r.Status),
		EstimatedWait: int(r.EstimatedWait),
		Position:      int(r.Position),
		Notifications: records,
		ExpiresAt:     pgconv.TimePtrFromPgtype(r.ExpiresAt),
		NotifiedAt:    pgconv.TimePtrFromPgtype(r.NotifiedAt),
		CreatedAt:     pgconv.TimeFromPgtype(r.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(r.UpdatedAt),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
