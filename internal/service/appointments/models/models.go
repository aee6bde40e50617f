package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// GetSalonAppointmentsRequest запрос на получение записей салона
type GetSalonAppointmentsRequest struct {
	SalonID        int64
	Date           *string  // "2025-06-02", опционально
	Statuses       []string // пусто = любые
	IncludeDeleted bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetSalonAppointmentsRequest) ToDomainFilter() (domain.SalonAppointmentsFilter, error) {
	filter := domain.SalonAppointmentsFilter{
		SalonID:        r.SalonID,
		IncludeDeleted: r.IncludeDeleted,
	}

	if r.Date != nil {
		date, err := types.ParseDate(*r.Date)
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}

	for _, raw := range r.Statuses {
		status, ok := domain.ParseAppointmentStatus(raw)
		if !ok {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	SalonID      int64   `json:"salonId"`
	ServiceID    int64   `json:"serviceId"`
	ClientID     int64   `json:"clientId"`
	Date         string  `json:"date"` // "2025-06-02"
	Time         string  `json:"time"` // "10:00"
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	ServicePrice float64 `json:"servicePrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt *string   `json:"deletedAt,omitempty"` // ISO 8601
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:           a.ID,
		SalonID:      a.SalonID,
		ServiceID:    a.ServiceID,
		ClientID:     a.ClientID,
		Date:         a.Date.Format(domain.DateFormat),
		Time:         a.Time.String(),
		Status:       string(a.Status),
		Notes:        a.Notes,
		ServicePrice: a.ServicePrice,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.DeletedAt != nil {
		deleted := a.DeletedAt.Format(time.RFC3339)
		resp.DeletedAt = &deleted
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
