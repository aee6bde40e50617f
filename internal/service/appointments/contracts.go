package appointments

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListBySalon(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
	SoftDelete(ctx context.Context, id int64) (*domain.Appointment, error)
	Restore(ctx context.Context, id int64) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
