package waitlist

import (
	"math"
	"time"
)

const (
	baseWaitMinutes       = 60.0
	largePartyThreshold   = 4
	largePartyMultiplier  = 1.5
	sameDayUrgencyFactor  = 2.0
	sameDayUrgencyHorizon = 24 * time.Hour
)

type WaitEstimator interface {
	EstimateWait(details Details, now time.Time) int
}

type DefaultWaitEstimator struct{}

func NewDefaultWaitEstimator() *DefaultWaitEstimator {
	return &DefaultWaitEstimator{}
}

// EstimateWait returns minutes. The preferred date is read as midnight in now's location.
func (DefaultWaitEstimator) EstimateWait(details Details, now time.Time) int {
	minutes := baseWaitMinutes
	if details.PartySize > largePartyThreshold {
		minutes *= largePartyMultiplier
	}
	if details.PreferredDate.Midnight(now.Location()).Sub(now) < sameDayUrgencyHorizon {
		minutes *= sameDayUrgencyFactor
	}
	return int(math.Floor(minutes))
}
