package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/salons"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// OccupiedTimes возвращает занятые (pending/confirmed, не удалённые) слоты салона на дату
	OccupiedTimes(ctx context.Context, salonID int64, date time.Time) ([]types.TimeString, error)
}

// CatalogService интерфейс сервиса каталога салонов
type CatalogService interface {
	ResolveOffer(ctx context.Context, salonID, serviceID int64) (*salons.Offer, error)
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
