package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidOpeningHours is returned when the stored opening hours cannot be decoded
var ErrInvalidOpeningHours = errors.New("invalid opening hours")

// DaySchedule describes opening hours for a single weekday.
// When Closed is true Open and Close are ignored.
type DaySchedule struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// OpeningHours maps a lowercase English weekday name ("monday") to its schedule
type OpeningHours map[string]DaySchedule

// WeekdayKey returns the map key used for a weekday
func WeekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// ForDate returns the schedule of the date's weekday (date's own calendar day)
func (h OpeningHours) ForDate(date time.Time) (DaySchedule, bool) {
	if h == nil {
		return DaySchedule{}, false
	}
	schedule, ok := h[WeekdayKey(date.Weekday())]
	return schedule, ok
}

// Value implements driver.Valuer for the jsonb column
func (h OpeningHours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner for the jsonb column
func (h *OpeningHours) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*h = OpeningHours{}
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidOpeningHours, src)
	}

	decoded := OpeningHours{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOpeningHours, err)
	}

	// Ключи нормализуем, в базе встречаются "Monday" и "monday"
	normalized := make(OpeningHours, len(decoded))
	for day, schedule := range decoded {
		normalized[strings.ToLower(strings.TrimSpace(day))] = schedule
	}
	*h = normalized
	return nil
}

// Salon is a tenant offering services
type Salon struct {
	ID           int64
	Name         string
	OpeningHours OpeningHours
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location resolves the salon's IANA timezone, falling back to fallback (or UTC)
func (s *Salon) Location(fallback *time.Location) *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}
