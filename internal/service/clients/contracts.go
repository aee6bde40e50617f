package clients

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
