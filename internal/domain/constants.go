package domain

// Default scheduling values
const (
	DefaultSlotStepMinutes = 30
	DefaultLeadTimeMinutes = 60 // 1 hour
	DefaultTimezone        = "UTC"
)

// Business validation constants
const (
	MaxClientNameLength = 120
	MaxEmailLength      = 254
	MaxNotesLength      = 500
	MinPhoneDigits      = 6
	MaxPhoneDigits      = 15
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
