package waitlist

import (
	"strings"

	"github.com/google/uuid"
)

// CustomerProfile is what a customer directory knows about a guest.
type CustomerProfile struct {
	VIP         bool
	LoyaltyTier string
}

// CustomerProfiles resolves a customer id to a profile. Implementations return
// ok=false for unknown customers.
type CustomerProfiles interface {
	Lookup(customerID uuid.UUID) (CustomerProfile, bool)
}

type PriorityCalculator interface {
	Calculate(details Details, cfg Configuration) Priority
}

type DefaultPriorityCalculator struct {
	Profiles CustomerProfiles
}

func NewDefaultPriorityCalculator() *DefaultPriorityCalculator {
	return &DefaultPriorityCalculator{}
}

func (pc *DefaultPriorityCalculator) Calculate(details Details, cfg Configuration) Priority {
	return TierForScore(pc.Score(details, cfg), cfg.PriorityRules.Thresholds)
}

func (pc *DefaultPriorityCalculator) Score(details Details, cfg Configuration) int {
	rules := cfg.PriorityRules
	score := 0

	if rules.LargeGroups.Enabled && details.PartySize >= rules.LargeGroups.MinPartySize {
		score += rules.LargeGroups.Bonus
	}

	if rules.SpecialOccasions.Enabled && matchesOccasion(details.Occasion, rules.SpecialOccasions.Keywords) {
		score += rules.SpecialOccasions.Bonus
	}

	if pc.Profiles != nil && details.CustomerID != nil {
		if profile, ok := pc.Profiles.Lookup(*details.CustomerID); ok {
			if rules.VIPCustomers.Enabled && profile.VIP {
				score += rules.VIPCustomers.Bonus
			}
			score += rules.LoyaltyTierBonus[strings.ToLower(profile.LoyaltyTier)]
		}
	}

	return score
}

func TierForScore(score int, th PriorityThresholds) Priority {
	switch {
	case score >= th.Urgent:
		return PriorityUrgent
	case score >= th.High:
		return PriorityHigh
	case score >= th.Medium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func matchesOccasion(occasion string, keywords []string) bool {
	occ := strings.ToLower(strings.TrimSpace(occasion))
	if occ == "" {
		return false
	}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(occ, kw) {
			return true
		}
	}
	return false
}
