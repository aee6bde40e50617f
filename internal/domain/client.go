package domain

import (
	"strings"
	"time"
)

// Client is an end customer identified by phone number
type Client struct {
	ID        int64
	Name      string
	Phone     string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientPatch holds optional profile edits
type ClientPatch struct {
	Name  *string
	Email *string
}

// IsEmpty returns true when nothing would change
func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// NormalizePhone strips formatting so that "+7 (900) 123-45-67" and
// "+79001234567" resolve to the same client. A leading plus is kept.
// Only ASCII digits survive, so digits from other scripts are dropped.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneDigits counts digits in a normalized phone
func PhoneDigits(phone string) int {
	return len(strings.TrimPrefix(phone, "+"))
}

// ValidEmail checks the shape of an address, not its deliverability:
// a non-empty local part and domain around the first "@", no whitespace.
func ValidEmail(email string) bool {
	if len(email) > MaxEmailLength {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
