package salons

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SalonRepository интерфейс репозитория салонов и услуг
type SalonRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Salon, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
