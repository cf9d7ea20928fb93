package waitlist

import (
	"fmt"
	"regexp"
	"time"

	"omiam-waitlist/internal/pkg/errs"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate     = errs.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeSlot = errs.New("invalid time slot, expected HH:MM")

	timeSlotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Date is a calendar day without time or zone.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errs.Mark(err, ErrInvalidDate)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Midnight returns the start of the day in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d Date) Before(o Date) bool {
	return d.Midnight(time.UTC).Before(o.Midnight(time.UTC))
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeSlot is a wall-clock start time such as "19:30".
type TimeSlot string

func NewTimeSlot(s string) (TimeSlot, error) {
	if !IsValidTimeSlot(s) {
		return "", ErrInvalidTimeSlot
	}
	return TimeSlot(s), nil
}

func IsValidTimeSlot(s string) bool {
	return timeSlotPattern.MatchString(s)
}

func (t TimeSlot) String() string {
	return string(t)
}

// AvailabilitySlot describes open capacity reported by the table manager.
type AvailabilitySlot struct {
	Date            Date
	TimeSlot        TimeSlot
	AvailableTables int
	SeatingTypes    []SeatingPreference
}

func (s AvailabilitySlot) Offers(pref SeatingPreference) bool {
	for _, st := range s.SeatingTypes {
		if st == pref {
			return true
		}
	}
	return false
}
