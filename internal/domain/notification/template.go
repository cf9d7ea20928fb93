package notification

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/pkg/errs"
)

var ErrInvalidCategory = errs.New("invalid notification category")

// Placeholder used for {{timeSlot}} when an entry has no preferred slot.
const missingTimeSlot = "N/A"

type Category string

const (
	CategoryAvailability Category = "availability"
	CategoryReminder     Category = "reminder"
	CategoryExpiration   Category = "expiration"
	CategoryConfirmation Category = "confirmation"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAvailability, CategoryReminder, CategoryExpiration, CategoryConfirmation:
		return true
	default:
		return false
	}
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

type Template struct {
	ID        string
	Name      string
	Category  Category
	Channels  []waitlist.NotificationType
	Subject   string
	Content   string
	Variables []string
	Active    bool
}

// Render substitutes the fixed token set. Anything else in {{...}} is left as is.
func (t Template) Render(entry waitlist.Snapshot, dateLayout string) string {
	slot := missingTimeSlot
	if first, ok := entry.Details.FirstTimeSlot(); ok {
		slot = first.String()
	}
	if dateLayout == "" {
		dateLayout = waitlist.DateLayout
	}

	r := strings.NewReplacer(
		"{{customerName}}", entry.Details.Name,
		"{{guestCount}}", strconv.Itoa(entry.Details.PartySize),
		"{{date}}", entry.Details.PreferredDate.Midnight(time.UTC).Format(dateLayout),
		"{{timeSlot}}", slot,
		"{{position}}", strconv.Itoa(entry.Position),
		"{{estimatedWaitTime}}", strconv.Itoa(entry.EstimatedWait),
	)
	return r.Replace(t.Content)
}

// FirstEnabledChannel picks the first channel of the template allowed by enabled.
func (t Template) FirstEnabledChannel(enabled func(waitlist.NotificationType) bool) (waitlist.NotificationType, bool) {
	i := slices.IndexFunc(t.Channels, enabled)
	if i < 0 {
		return "", false
	}
	return t.Channels[i], true
}
