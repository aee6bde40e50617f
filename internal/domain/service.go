package domain

// Service is something a salon sells, e.g. a haircut
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
}

// IsBookableAt returns true if the service is active and belongs to the salon
func (s *Service) IsBookableAt(salonID int64) bool {
	return s.Active && s.SalonID == salonID
}
