package change_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// FinancialSyncOutcome результат проводки при переходе
type FinancialSyncOutcome string

const (
	FinancialSyncNotRequired FinancialSyncOutcome = "not_required"
	FinancialSyncPosted      FinancialSyncOutcome = "posted"
	FinancialSyncFailed      FinancialSyncOutcome = "failed"
)

// Settings политика повторных проводок
type Settings struct {
	RetryEnabled bool
	RetryBackoff time.Duration // Задержка до первой повторной попытки
}

// Request модель запроса на смену статуса
type Request struct {
	AppointmentID int64
	Status        string
}

// Response модель ответа после перехода
type Response struct {
	Appointment    *domain.Appointment
	PreviousStatus domain.AppointmentStatus
	FinancialSync  FinancialSyncOutcome

	// Warning не nil, если переход сохранён, но проводка не прошла (оборачивает ErrFinancialSync)
	Warning error
	// RetryScheduled true, если проводка поставлена в очередь повторов
	RetryScheduled bool
}
