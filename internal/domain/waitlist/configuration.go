package waitlist

import (
	"slices"
	"time"

	"omiam-waitlist/internal/pkg/errs"
)

var (
	ErrInvalidQuietHours    = errs.New("quiet hours must be HH:MM")
	ErrInvalidConfiguration = errs.New("invalid waitlist configuration")
)

type Configuration struct {
	MaxWaitHours          int                  `json:"maxWaitHours"`
	NotificationIntervals []int                `json:"notificationIntervals"`
	AutoExpireAfter       int                  `json:"autoExpireAfter"`
	MaxEntriesPerCustomer int                  `json:"maxEntriesPerCustomer"`
	PriorityRules         PriorityRules        `json:"priorityRules"`
	Notifications         NotificationSettings `json:"notifications"`
}

type PriorityRules struct {
	VIPCustomers     BonusRule          `json:"vipCustomers"`
	LargeGroups      LargeGroupRule     `json:"largeGroups"`
	SpecialOccasions OccasionRule       `json:"specialOccasions"`
	LoyaltyTierBonus map[string]int     `json:"loyaltyTierBonus"`
	Thresholds       PriorityThresholds `json:"thresholds"`
}

type BonusRule struct {
	Enabled bool `json:"enabled"`
	Bonus   int  `json:"bonus"`
}

type LargeGroupRule struct {
	Enabled      bool `json:"enabled"`
	MinPartySize int  `json:"minPartySize"`
	Bonus        int  `json:"bonus"`
}

type OccasionRule struct {
	Enabled  bool     `json:"enabled"`
	Keywords []string `json:"keywords"`
	Bonus    int      `json:"bonus"`
}

// PriorityThresholds are minimum cumulative scores for each tier above low.
type PriorityThresholds struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
}

type NotificationSettings struct {
	Email      bool       `json:"email"`
	SMS        bool       `json:"sms"`
	Push       bool       `json:"push"`
	QuietHours QuietHours `json:"quietHours"`
	DateLayout string     `json:"dateLayout"`
}

type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		MaxWaitHours:          4,
		NotificationIntervals: []int{24, 2},
		AutoExpireAfter:       2,
		MaxEntriesPerCustomer: 3,
		PriorityRules: PriorityRules{
			VIPCustomers: BonusRule{Enabled: true, Bonus: 40},
			LargeGroups:  LargeGroupRule{Enabled: true, MinPartySize: 6, Bonus: 20},
			SpecialOccasions: OccasionRule{
				Enabled:  true,
				Keywords: []string{"anniversaire", "mariage", "fiançailles", "birthday", "anniversary", "wedding"},
				Bonus:    30,
			},
			LoyaltyTierBonus: map[string]int{"bronze": 5, "silver": 10, "gold": 15, "platinum": 25},
			Thresholds:       PriorityThresholds{Urgent: 50, High: 30, Medium: 15},
		},
		Notifications: NotificationSettings{
			Email:      true,
			SMS:        true,
			Push:       false,
			QuietHours: QuietHours{Enabled: false, Start: "22:00", End: "08:00"},
			DateLayout: "02/01/2006",
		},
	}
}

// Clone returns a deep copy so callers never share slices or maps with the owner.
func (c Configuration) Clone() Configuration {
	out := c
	out.NotificationIntervals = slices.Clone(c.NotificationIntervals)
	out.PriorityRules.SpecialOccasions.Keywords = slices.Clone(c.PriorityRules.SpecialOccasions.Keywords)
	if c.PriorityRules.LoyaltyTierBonus != nil {
		out.PriorityRules.LoyaltyTierBonus = make(map[string]int, len(c.PriorityRules.LoyaltyTierBonus))
		for k, v := range c.PriorityRules.LoyaltyTierBonus {
			out.PriorityRules.LoyaltyTierBonus[k] = v
		}
	}
	return out
}

func (c Configuration) Validate() error {
	if c.MaxWaitHours < 0 || c.AutoExpireAfter < 0 || c.MaxEntriesPerCustomer < 1 {
		return ErrInvalidConfiguration
	}
	for _, h := range c.NotificationIntervals {
		if h < 0 {
			return ErrInvalidConfiguration
		}
	}
	if _, err := minutesOfDay(c.Notifications.QuietHours.Start); c.Notifications.QuietHours.Enabled && err != nil {
		return err
	}
	if _, err := minutesOfDay(c.Notifications.QuietHours.End); c.Notifications.QuietHours.Enabled && err != nil {
		return err
	}
	return nil
}

func (c Configuration) ChannelEnabled(t NotificationType) bool {
	switch t {
	case NotificationEmail:
		return c.Notifications.Email
	case NotificationSMS:
		return c.Notifications.SMS
	case NotificationPush:
		return c.Notifications.Push
	default:
		return false
	}
}

// InQuietHours reports whether now's wall-clock time falls inside the window.
// Windows may wrap midnight (22:00-08:00).
func (q QuietHours) InQuietHours(now time.Time) (bool, error) {
	if !q.Enabled {
		return false, nil
	}
	start, err := minutesOfDay(q.Start)
	if err != nil {
		return false, err
	}
	end, err := minutesOfDay(q.End)
	if err != nil {
		return false, err
	}
	cur := now.Hour()*60 + now.Minute()
	if start == end {
		return false, nil
	}
	if start < end {
		return cur >= start && cur < end, nil
	}
	return cur >= start || cur < end, nil
}

func minutesOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errs.Mark(err, ErrInvalidQuietHours)
	}
	return t.Hour()*60 + t.Minute(), nil
}
