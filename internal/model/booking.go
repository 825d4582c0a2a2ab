package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category classifies a booked day.
type Category string

const (
	CategoryVacation Category = "VACATION"
	CategorySick     Category = "SICK"
	CategoryHoliday  Category = "HOLIDAY"
	CategoryMobile   Category = "MOBILE"
	CategoryOffice   Category = "OFFICE"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryVacation,
	CategorySick,
	CategoryHoliday,
	CategoryMobile,
	CategoryOffice,
}

// DefaultPause is the pause in hours assigned to new bookings.
const DefaultPause = 0.5

// UnknownCategoryError is returned when a string names no known category.
type UnknownCategoryError struct {
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q (valid: %s)", e.Value, CategoryNames())
}

// ParseCategory returns the category named by s. Matching is exact, as
// stored documents use the upper-case names.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", &UnknownCategoryError{Value: s}
}

// CategoryNames returns the valid category names joined by ", ".
func CategoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// UnmarshalJSON rejects values outside the enumeration.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Booking is the record of a single calendar day.
type Booking struct {
	CheckinTimestamp  *Timestamp `json:"checkin_timestamp"`
	CheckoutTimestamp *Timestamp `json:"checkout_timestamp"`
	Pause             float64    `json:"pause"`
	ProductiveTime    float64    `json:"productive_time"`
	Category          Category   `json:"category"`
	Description       *string    `json:"description"`
}

// NewBooking returns a booking carrying the field defaults.
func NewBooking() Booking {
	return Booking{
		Pause:    DefaultPause,
		Category: CategoryMobile,
	}
}

// UnmarshalJSON fills absent fields with the defaults of NewBooking.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	p := plain(NewBooking())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Booking(p)
	return nil
}

// CheckedIn reports whether a check-in has been recorded.
func (b Booking) CheckedIn() bool { return b.CheckinTimestamp != nil }

// CheckedOut reports whether a check-out has been recorded.
func (b Booking) CheckedOut() bool { return b.CheckoutTimestamp != nil }

// Bookings maps a day-key (YYYY-MM-DD) to its booking.
type Bookings map[string]Booking

// KeeperFile is the top-level structure of the keeper document.
type KeeperFile struct {
	Bookings Bookings `json:"bookings"`
}

// Timestamp is a date-time stored as a naive local ISO-8601 string.
type Timestamp struct {
	time.Time
}

// TimestampLayout is the layout written to the keeper document.
const TimestampLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp parses naive ISO-8601 date-times in the local zone and
// RFC 3339 values with an explicit offset.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(time.Local), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON writes the timestamp without zone information.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

// UnmarshalJSON accepts any layout understood by ParseTimestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
