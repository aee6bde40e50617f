package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// SessionKeyHeader заголовок с ключом сессии формы записи
const SessionKeyHeader = "X-Session-Key"

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SalonID   int64   `json:"salonId"`
	ServiceID int64   `json:"serviceId"`
	Date      string  `json:"date"` // "2025-06-02"
	Time      string  `json:"time"` // "10:00"
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64   `json:"id"`
	SalonID      int64   `json:"salonId"`
	ServiceID    int64   `json:"serviceId"`
	ClientID     int64   `json:"clientId"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Status       string  `json:"status"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Разбор даты и времени выполняет use case.
func (r *CreateBookingRequest) ToUseCaseRequest(sessionKey string) *createBooking.Request {
	return &createBooking.Request{
		SalonID:    r.SalonID,
		ServiceID:  r.ServiceID,
		Date:       r.Date,
		Time:       r.Time,
		Name:       r.Name,
		Phone:      r.Phone,
		Email:      r.Email,
		Notes:      r.Notes,
		SessionKey: sessionKey,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.ID,
		SalonID:      resp.SalonID,
		ServiceID:    resp.ServiceID,
		ClientID:     resp.ClientID,
		Date:         resp.Date.Format(domain.DateFormat),
		Time:         resp.Time.String(),
		Status:       resp.Status,
		ServicePrice: resp.ServicePrice,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
