package request

import (
	"strings"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/ptr"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateEntryRequest struct {
	CustomerID          *uuid.UUID `json:"customerId,omitempty"`
	Name                string     `json:"name" binding:"required,max=120"`
	Email               string     `json:"email" binding:"required"`
	Phone               string     `json:"phone" binding:"required,max=32"`
	PartySize           int        `json:"partySize" binding:"required,min=1"`
	PreferredDate       string     `json:"preferredDate" binding:"required,datetime=2006-01-02"`
	PreferredTimeSlots  []string   `json:"preferredTimeSlots" binding:"required,min=1,dive,timeslot"`
	SeatingPreference   string     `json:"seatingPreference,omitempty" binding:"omitempty,seating"`
	Occasion            string     `json:"occasion,omitempty" binding:"max=200"`
	SpecialRequests     []string   `json:"specialRequests,omitempty" binding:"omitempty,dive,max=500"`
	DietaryRestrictions []string   `json:"dietaryRestrictions,omitempty"`
	Allergies           []string   `json:"allergies,omitempty"`
}

func (r CreateEntryRequest) ToCommand() (commands.CreateEntryRequest, error) {
	date, err := waitlist.ParseDate(r.PreferredDate)
	if err != nil {
		return commands.CreateEntryRequest{}, err
	}
	slots, err := toTimeSlots(r.PreferredTimeSlots)
	if err != nil {
		return commands.CreateEntryRequest{}, err
	}
	seating, err := waitlist.NewSeatingPreference(r.SeatingPreference)
	if err != nil {
		return commands.CreateEntryRequest{}, err
	}

	return commands.CreateEntryRequest{
		Details: waitlist.Details{
			CustomerID:          r.CustomerID,
			Name:                strings.TrimSpace(r.Name),
			Email:               strings.TrimSpace(r.Email),
			Phone:               strings.TrimSpace(r.Phone),
			PartySize:           r.PartySize,
			PreferredDate:       date,
			PreferredTimeSlots:  slots,
			SeatingPreference:   seating,
			Occasion:            strings.TrimSpace(r.Occasion),
			SpecialRequests:     r.SpecialRequests,
			DietaryRestrictions: r.DietaryRestrictions,
			Allergies:           r.Allergies,
		},
	}, nil
}

type UpdateEntryRequest struct {
	Name                *string    `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	Email               *string    `json:"email,omitempty" binding:"omitempty,min=1"`
	Phone               *string    `json:"phone,omitempty" binding:"omitempty,min=1,max=32"`
	PartySize           *int       `json:"partySize,omitempty" binding:"omitempty,min=1"`
	PreferredDate       *string    `json:"preferredDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	PreferredTimeSlots  []string   `json:"preferredTimeSlots,omitempty" binding:"omitempty,min=1,dive,timeslot"`
	SeatingPreference   *string    `json:"seatingPreference,omitempty" binding:"omitempty,seating"`
	Occasion            *string    `json:"occasion,omitempty" binding:"omitempty,max=200"`
	SpecialRequests     []string   `json:"specialRequests,omitempty"`
	DietaryRestrictions []string   `json:"dietaryRestrictions,omitempty"`
	Allergies           []string   `json:"allergies,omitempty"`
	Priority            *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
}

func (r UpdateEntryRequest) ToCommand() (commands.UpdateEntryRequest, error) {
	cmd := commands.UpdateEntryRequest{
		Name:                r.Name,
		Email:               r.Email,
		Phone:               r.Phone,
		PartySize:           r.PartySize,
		Occasion:            r.Occasion,
		SpecialRequests:     r.SpecialRequests,
		DietaryRestrictions: r.DietaryRestrictions,
		Allergies:           r.Allergies,
		ExpiresAt:           r.ExpiresAt,
	}
	if r.PreferredDate != nil {
		date, err := waitlist.ParseDate(*r.PreferredDate)
		if err != nil {
			return commands.UpdateEntryRequest{}, err
		}
		cmd.PreferredDate = ptr.Of(date)
	}
	if len(r.PreferredTimeSlots) > 0 {
		slots, err := toTimeSlots(r.PreferredTimeSlots)
		if err != nil {
			return commands.UpdateEntryRequest{}, err
		}
		cmd.PreferredTimeSlots = slots
	}
	if r.SeatingPreference != nil {
		seating, err := waitlist.NewSeatingPreference(*r.SeatingPreference)
		if err != nil {
			return commands.UpdateEntryRequest{}, err
		}
		cmd.SeatingPreference = ptr.Of(seating)
	}
	if r.Priority != nil {
		p, err := waitlist.NewPriority(*r.Priority)
		if err != nil {
			return commands.UpdateEntryRequest{}, err
		}
		cmd.Priority = ptr.Of(p)
	}
	return cmd, nil
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SendNotificationRequest struct {
	Category string `json:"category" binding:"required,oneof=availability reminder expiration confirmation"`
}

type SlotRequest struct {
	Date            string   `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot        string   `json:"timeSlot" binding:"required,timeslot"`
	AvailableTables int      `json:"availableTables" binding:"min=0"`
	SeatingTypes    []string `json:"seatingTypes" binding:"omitempty,dive,seating"`
}

type FindMatchesRequest struct {
	Slots []SlotRequest `json:"slots" binding:"required,min=1,dive"`
}

func (r FindMatchesRequest) ToDomain() ([]waitlist.AvailabilitySlot, error) {
	out := make([]waitlist.AvailabilitySlot, len(r.Slots))
	for i, s := range r.Slots {
		date, err := waitlist.ParseDate(s.Date)
		if err != nil {
			return nil, err
		}
		ts, err := waitlist.NewTimeSlot(s.TimeSlot)
		if err != nil {
			return nil, err
		}
		seating := make([]waitlist.SeatingPreference, len(s.SeatingTypes))
		for j, st := range s.SeatingTypes {
			seating[j] = waitlist.SeatingPreference(st)
		}
		out[i] = waitlist.AvailabilitySlot{
			Date:            date,
			TimeSlot:        ts,
			AvailableTables: s.AvailableTables,
			SeatingTypes:    seating,
		}
	}
	return out, nil
}

// SearchQuery is bound from the query string. List values are comma separated.
type SearchQuery struct {
	Status       string `form:"status"`
	Priority     string `form:"priority"`
	Seating      string `form:"seating"`
	From         string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To           string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	MinPartySize int    `form:"minPartySize" binding:"min=0"`
	MaxPartySize int    `form:"maxPartySize" binding:"min=0"`
	CustomerID   string `form:"customerId" binding:"omitempty,uuid"`
	Q            string `form:"q"`
	After        string `form:"after"`
	Limit        int    `form:"limit" binding:"min=0,max=200"`
}

func (q SearchQuery) ToFilter() (queries.SearchFilter, error) {
	var f queries.SearchFilter
	for _, s := range splitList(q.Status) {
		status, err := waitlist.NewStatus(s)
		if err != nil {
			return queries.SearchFilter{}, err
		}
		f.Statuses = append(f.Statuses, status)
	}
	for _, s := range splitList(q.Priority) {
		p, err := waitlist.NewPriority(s)
		if err != nil {
			return queries.SearchFilter{}, err
		}
		f.Priorities = append(f.Priorities, p)
	}
	for _, s := range splitList(q.Seating) {
		pref, err := waitlist.NewSeatingPreference(s)
		if err != nil {
			return queries.SearchFilter{}, err
		}
		f.Seating = append(f.Seating, pref)
	}
	if q.From != "" {
		d, err := waitlist.ParseDate(q.From)
		if err != nil {
			return queries.SearchFilter{}, err
		}
		f.From = d
	}
	if q.To != "" {
		d, err := waitlist.ParseDate(q.To)
		if err != nil {
			return queries.SearchFilter{}, err
		}
		f.To = d
	}
	if q.CustomerID != "" {
		id, err := uuid.Parse(q.CustomerID)
		if err != nil {
			return queries.SearchFilter{}, err
		}
		f.CustomerID = &id
	}
	f.MinPartySize = q.MinPartySize
	f.MaxPartySize = q.MaxPartySize
	f.Text = q.Q
	return f, nil
}

func toTimeSlots(in []string) ([]waitlist.TimeSlot, error) {
	out := make([]waitlist.TimeSlot, len(in))
	for i, s := range in {
		ts, err := waitlist.NewTimeSlot(s)
		if err != nil {
			return nil, err
		}
		out[i] = ts
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
