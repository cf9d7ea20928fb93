package waitlist

import (
	"slices"
	"strings"
	"time"
)

const (
	baseMatchScore          = 50
	maxMatchScore           = 100
	preferredSlotBonus      = 20
	preferredSeatingBonus   = 15
	urgentPriorityBonus     = 25
	highPriorityBonus       = 15
	mediumPriorityBonus     = 5
	longWaitBonus           = 10
	mediumWaitBonus         = 5
	longWaitThreshold       = 24 * time.Hour
	mediumWaitThreshold     = 12 * time.Hour
	reasonPreferredSlot     = "Preferred time slot available"
	reasonPreferredSeating  = "Preferred seating available"
	reasonUrgentPriority    = "Urgent priority"
	reasonHighPriority      = "High priority"
	reasonMediumPriority    = "Medium priority"
	reasonWaitingOver24h    = "Waiting for more than 24 hours"
	reasonWaitingOver12h    = "Waiting for more than 12 hours"
)

type MatchResult struct {
	Entry         *Entry
	MatchingSlots []AvailabilitySlot
	Score         int
	Reasons       []string
}

// FindMatches scores waiting entries against the supplied slots. Notified
// entries already hold an offer and are skipped. Results are ordered by score,
// then by creation time, then by id.
func FindMatches(entries []*Entry, slots []AvailabilitySlot, now time.Time) []MatchResult {
	var results []MatchResult
	for _, e := range entries {
		if e.status != StatusWaiting {
			continue
		}
		matching := matchingSlots(e, slots)
		if len(matching) == 0 {
			continue
		}
		score, reasons := scoreMatch(e, matching, now)
		results = append(results, MatchResult{
			Entry:         e,
			MatchingSlots: matching,
			Score:         score,
			Reasons:       reasons,
		})
	}

	slices.SortStableFunc(results, func(a, b MatchResult) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		if c := a.Entry.createdAt.Compare(b.Entry.createdAt); c != 0 {
			return c
		}
		return strings.Compare(a.Entry.id.String(), b.Entry.id.String())
	})
	return results
}

func matchingSlots(e *Entry, slots []AvailabilitySlot) []AvailabilitySlot {
	d := e.details
	var out []AvailabilitySlot
	for _, s := range slots {
		if s.Date != d.PreferredDate {
			continue
		}
		if !slices.Contains(d.PreferredTimeSlots, s.TimeSlot) {
			continue
		}
		if s.AvailableTables < 1 {
			continue
		}
		if d.SeatingPreference.IsSpecific() && !s.Offers(d.SeatingPreference) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func scoreMatch(e *Entry, matching []AvailabilitySlot, now time.Time) (int, []string) {
	score := baseMatchScore
	reasons := []string{}

	if first, ok := e.details.FirstTimeSlot(); ok {
		if slices.ContainsFunc(matching, func(s AvailabilitySlot) bool { return s.TimeSlot == first }) {
			score += preferredSlotBonus
			reasons = append(reasons, reasonPreferredSlot)
		}
	}

	if pref := e.details.SeatingPreference; pref.IsSpecific() {
		if slices.ContainsFunc(matching, func(s AvailabilitySlot) bool { return s.Offers(pref) }) {
			score += preferredSeatingBonus
			reasons = append(reasons, reasonPreferredSeating)
		}
	}

	switch e.priority {
	case PriorityUrgent:
		score += urgentPriorityBonus
		reasons = append(reasons, reasonUrgentPriority)
	case PriorityHigh:
		score += highPriorityBonus
		reasons = append(reasons, reasonHighPriority)
	case PriorityMedium:
		score += mediumPriorityBonus
		reasons = append(reasons, reasonMediumPriority)
	}

	waited := e.WaitingFor(now)
	if waited > longWaitThreshold {
		score += longWaitBonus
		reasons = append(reasons, reasonWaitingOver24h)
	} else if waited > mediumWaitThreshold {
		score += mediumWaitBonus
		reasons = append(reasons, reasonWaitingOver12h)
	}

	return min(score, maxMatchScore), reasons
}
