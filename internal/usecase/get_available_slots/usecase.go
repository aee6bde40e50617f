package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/salons"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         CatalogService
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog CatalogService,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.StepMinutes <= 0 {
		settings.StepMinutes = domain.DefaultSlotStepMinutes
	}
	if settings.DefaultLocation == nil {
		settings.DefaultLocation = time.UTC
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Пустой список слотов это нормальный ответ, ошибка означает сбой получения данных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := types.DateOnly(req.Date)
	uc.logger.Info("GetAvailableSlots: salon=%d, service=%d, date=%s",
		req.SalonID, req.ServiceID, date.Format(domain.DateFormat))

	// 2. Салон и услуга
	offer, err := uc.catalog.ResolveOffer(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, salons.ErrSalonNotFound):
			return nil, ErrSalonNotFound
		case errors.Is(err, salons.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		default:
			uc.logger.Error("GetAvailableSlots: failed to resolve salon=%d service=%d: %v", req.SalonID, req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to resolve offer: %v", ErrInternal, err)
		}
	}

	response := &Response{
		Date:      date,
		SalonID:   req.SalonID,
		ServiceID: req.ServiceID,
		Slots:     []types.TimeString{},
	}

	// 3. Сетка слотов по расписанию
	candidates := GenerateSlots(date, offer.Salon.OpeningHours, uc.settings.StepMinutes)

	// Выходной: в базу не ходим
	if !hasAny(candidates) {
		uc.logger.Info("GetAvailableSlots: salon=%d is closed on %s", req.SalonID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 4. Занятые слоты
	occupied, err := uc.appointmentRepo.OccupiedTimes(ctx, req.SalonID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get occupied slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupied slots: %v", ErrInternal, err)
	}

	// 5. Фильтрация
	response.Slots = FilterAvailable(
		date,
		candidates,
		occupied,
		uc.timeProvider.Now(),
		uc.settings.LeadTime,
		offer.Salon.Location(uc.settings.DefaultLocation),
	)

	uc.logger.Info("GetAvailableSlots: %d free slots for salon=%d, date=%s (occupied=%d)",
		len(response.Slots), req.SalonID, date.Format(domain.DateFormat), len(occupied))

	return response, nil
}

func hasAny(seq iter.Seq[types.TimeString]) bool {
	for range seq {
		return true
	}
	return false
}
