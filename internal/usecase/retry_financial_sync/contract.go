package retry_financial_sync

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// JobRepository интерфейс очереди повторных проводок
type JobRepository interface {
	Enqueue(ctx context.Context, appointmentID int64, lastError string, nextAttemptAt time.Time) error
	ClaimDue(ctx context.Context, now time.Time, limit int, leaseUntil time.Time) ([]*domain.FinancialSyncJob, error)
	MarkDone(ctx context.Context, appointmentID int64) error
	MarkAttemptFailed(ctx context.Context, appointmentID int64, lastError string, nextAttemptAt time.Time, exhausted bool) error
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.FinancialSyncJob, error)
}

// FinancePoster проводит выручку по завершённой записи
type FinancePoster interface {
	PostCompletion(ctx context.Context, appointmentID int64) error
}

// TransactionManager выполняет функцию в транзакции
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики проводок
type Metrics interface {
	IncFinancialSync(source, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
