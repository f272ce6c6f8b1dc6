package model

import (
	"time"

	"github.com/crochee/actionstore/pkg/json"
)

// Schedule is a due time plus an opaque recurrence. The store persists it and
// hands it back; computing the next occurrence belongs to the caller.
type Schedule struct {
	Date       time.Time `json:"date"`
	Recurrence string    `json:"recurrence,omitempty"`
}

// NewSchedule is a single run at date
func NewSchedule(date time.Time) Schedule {
	return Schedule{Date: Normalize(date)}
}

// NewRecurringSchedule starts at date and repeats according to recurrence
func NewRecurringSchedule(date time.Time, recurrence string) Schedule {
	return Schedule{Date: Normalize(date), Recurrence: recurrence}
}

// NullSchedule has no due time
func NullSchedule() Schedule {
	return Schedule{}
}

func (s Schedule) IsNull() bool {
	return s.Date.IsZero()
}

func (s Schedule) IsRecurring() bool {
	return !s.IsNull() && s.Recurrence != ""
}

// Equal compares due time and recurrence
func (s Schedule) Equal(o Schedule) bool {
	return s.Date.Equal(o.Date) && s.Recurrence == o.Recurrence
}

// EncodeSchedule serialises s for storage
func EncodeSchedule(s Schedule) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSchedule restores a stored schedule, anything unreadable becomes a null schedule
func DecodeSchedule(data []byte) Schedule {
	if len(data) == 0 {
		return NullSchedule()
	}
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return NullSchedule()
	}
	if s.IsNull() {
		return NullSchedule()
	}
	s.Date = Normalize(s.Date)
	return s
}

// Normalize drops sub-second precision and the zone. Every persisted
// timestamp goes through it so SQL comparisons see one format.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Second)
}

// WallClock renders t's wall clock in loc as a zone-less value, the shape of
// the *_local columns.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
}

// FromWallClock reinterprets a stored *_local value as a time in loc
func FromWallClock(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
