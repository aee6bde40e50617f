package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/velocity"
	clientModels "github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/salons"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	FindActiveAtSlot(ctx context.Context, salonID int64, date time.Time, t types.TimeString) (*domain.Appointment, error)
}

// CatalogService интерфейс сервиса каталога салонов
type CatalogService interface {
	ResolveOffer(ctx context.Context, salonID, serviceID int64) (*salons.Offer, error)
}

// ClientResolver находит клиента по телефону или регистрирует нового
type ClientResolver interface {
	FindOrCreate(ctx context.Context, req clientModels.ResolveClientRequest) (*domain.Client, error)
}

// VelocityLimiter ограничивает количество записей с одного телефона
type VelocityLimiter interface {
	Allow(ctx context.Context, salonID int64, phone string) (*velocity.Result, error)
	Record(ctx context.Context, salonID int64, phone string) error
}

// Metrics метрики бронирований
type Metrics interface {
	IncBookingCreated()
	IncBookingConflict(stage string)
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
