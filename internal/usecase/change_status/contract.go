package change_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error)
}

// FinancePoster проводит выручку по завершённой записи
type FinancePoster interface {
	PostCompletion(ctx context.Context, appointmentID int64) error
}

// SyncQueue очередь повторных проводок
type SyncQueue interface {
	Enqueue(ctx context.Context, appointmentID int64, lastError string, nextAttemptAt time.Time) error
}

// Metrics метрики переходов и проводок
type Metrics interface {
	IncStatusTransition(from, to string)
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
