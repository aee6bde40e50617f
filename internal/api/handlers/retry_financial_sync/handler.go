package retry_financial_sync

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	retryFinancialSync "github.com/m04kA/SMC-AppointmentService/internal/usecase/retry_financial_sync"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
	msgNotCompleted         = "проводка возможна только для завершённой записи"
	msgFinancialSyncFailed  = "финансовая система недоступна, попробуйте позже"
)

// RetryFinancialSyncResponse HTTP response model
type RetryFinancialSyncResponse struct {
	AppointmentID int64            `json:"appointmentId"`
	FinancialSync string           `json:"financialSync"`
	Job           *SyncJobResponse `json:"job,omitempty"`
}

// SyncJobResponse состояние задачи в очереди повторных проводок
type SyncJobResponse struct {
	Status    string  `json:"status"`
	Attempts  int     `json:"attempts"`
	LastError *string `json:"lastError,omitempty"`
}

type Handler struct {
	useCase RetryFinancialSyncUseCase
	logger  Logger
}

func NewHandler(useCase RetryFinancialSyncUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/financial-sync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/financial-sync - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &retryFinancialSync.Request{AppointmentID: appointmentID})
	if err != nil {
		switch {
		case errors.Is(err, retryFinancialSync.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/financial-sync - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, retryFinancialSync.ErrNotCompleted):
			h.logger.Warn("POST /appointments/{id}/financial-sync - Not completed: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotCompleted)

		case errors.Is(err, retryFinancialSync.ErrFinancialSync):
			h.logger.Warn("POST /appointments/{id}/financial-sync - Posting failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgFinancialSyncFailed)

		default:
			h.logger.Error("POST /appointments/{id}/financial-sync - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/financial-sync - Posted: appointment_id=%d", appointmentID)
	resp := RetryFinancialSyncResponse{
		AppointmentID: result.AppointmentID,
		FinancialSync: "posted",
	}
	if result.Job != nil {
		resp.Job = &SyncJobResponse{
			Status:    string(result.Job.Status),
			Attempts:  result.Job.Attempts,
			LastError: result.Job.LastError,
		}
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
