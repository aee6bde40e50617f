package change_status

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
)

const msgFinancialSyncWarning = "статус сохранён, но выручка не проведена"

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatusResponse HTTP response model
type ChangeStatusResponse struct {
	Appointment    *models.AppointmentResponse `json:"appointment"`
	PreviousStatus string                      `json:"previousStatus"`
	FinancialSync  string                      `json:"financialSync"` // not_required | posted | failed
	RetryScheduled bool                        `json:"retryScheduled,omitempty"`
	Warning        *string                     `json:"warning,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *changeStatus.Response) *ChangeStatusResponse {
	out := &ChangeStatusResponse{
		Appointment:    models.FromDomainAppointment(resp.Appointment),
		PreviousStatus: string(resp.PreviousStatus),
		FinancialSync:  string(resp.FinancialSync),
		RetryScheduled: resp.RetryScheduled,
	}

	if resp.Warning != nil {
		warning := msgFinancialSyncWarning
		out.Warning = &warning
	}

	return out
}
