package request

import (
	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/usecase/commands"
)

// ConfigurationPatchRequest replaces only the sections present in the body.
type ConfigurationPatchRequest struct {
	MaxWaitHours          *int                           `json:"maxWaitHours,omitempty" binding:"omitempty,min=0"`
	NotificationIntervals []int                          `json:"notificationIntervals,omitempty" binding:"omitempty,dive,min=0"`
	AutoExpireAfter       *int                           `json:"autoExpireAfter,omitempty" binding:"omitempty,min=0"`
	MaxEntriesPerCustomer *int                           `json:"maxEntriesPerCustomer,omitempty" binding:"omitempty,min=1"`
	PriorityRules         *waitlist.PriorityRules        `json:"priorityRules,omitempty"`
	Notifications         *waitlist.NotificationSettings `json:"notifications,omitempty"`
}

func (r ConfigurationPatchRequest) ToCommand() commands.ConfigurationPatch {
	return commands.ConfigurationPatch{
		MaxWaitHours:          r.MaxWaitHours,
		NotificationIntervals: r.NotificationIntervals,
		AutoExpireAfter:       r.AutoExpireAfter,
		MaxEntriesPerCustomer: r.MaxEntriesPerCustomer,
		PriorityRules:         r.PriorityRules,
		Notifications:         r.Notifications,
	}
}
