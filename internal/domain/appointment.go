package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AllStatuses lists every known status
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// OccupyingStatuses are the statuses that hold a slot.
// Storage enforces one such appointment per (salon, date, time).
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// ParseAppointmentStatus validates a raw status value
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Appointment represents a booked visit
type Appointment struct {
	ID        int64
	SalonID   int64
	ServiceID int64
	ClientID  int64
	Date      time.Time // calendar day, UTC midnight
	Time      types.TimeString
	Status    AppointmentStatus
	Notes     *string

	// Denormalized at booking time
	ServicePrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// OccupiesSlot returns true if the appointment blocks its slot for others
func (a *Appointment) OccupiesSlot() bool {
	if a.IsDeleted() {
		return false
	}
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsDeleted returns true if the appointment was soft-deleted
func (a *Appointment) IsDeleted() bool {
	return a.DeletedAt != nil
}

// SalonAppointmentsFilter selects appointments of a salon
type SalonAppointmentsFilter struct {
	SalonID        int64
	Date           *time.Time
	Time           *types.TimeString
	Statuses       []AppointmentStatus // empty = any
	IncludeDeleted bool
}
