package create_booking

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientModels "github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/salons"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking")

// UseCase use case для создания записи клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         CatalogService
	clients         ClientResolver
	limiter         VelocityLimiter
	metrics         Metrics
	conflicts       slotConflictChecker
	guard           *inFlightGuard
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// limiter и metrics могут быть nil.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog CatalogService,
	clients ClientResolver,
	limiter VelocityLimiter,
	metrics Metrics,
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
		clients:         clients,
		limiter:         limiter,
		metrics:         metrics,
		conflicts:       slotConflictChecker{repo: appointmentRepo},
		guard:           newInFlightGuard(),
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

// Execute выполняет use case создания записи.
// Шаги идут строго по порядку: валидация, проверка слота, клиент, вставка.
// Двойное бронирование слота исключает уникальный индекс в хранилище.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "create_booking.execute")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("CreateBooking: salon=%d, service=%d, date=%s, time=%s",
		req.SalonID, req.ServiceID, req.Date, req.Time)

	// 1. Валидация входных данных
	input, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("appointment.salon_id", input.SalonID),
		attribute.Int64("appointment.service_id", input.ServiceID),
		attribute.String("appointment.date", input.Date.Format(domain.DateFormat)),
		attribute.String("appointment.time", input.Time.String()),
	)

	// 2. Защита от повторной отправки той же формы
	release, ok := uc.guard.acquire(submissionKey(req, input.Phone))
	if !ok {
		uc.logger.Warn("CreateBooking: submission already in flight for salon=%d", input.SalonID)
		return nil, ErrSubmissionInFlight
	}
	defer release()

	// 3. Салон и услуга
	offer, err := uc.catalog.ResolveOffer(ctx, input.SalonID, input.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, salons.ErrSalonNotFound):
			return nil, ErrSalonNotFound
		case errors.Is(err, salons.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		default:
			uc.logger.Error("CreateBooking: failed to resolve salon=%d service=%d: %v", input.SalonID, input.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to resolve offer: %v", ErrInternal, err)
		}
	}

	// 4. Время должно попадать в сетку слотов дня
	if err := uc.validateSlot(offer.Salon, input); err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 5. Лимит записей с одного телефона (только чтение счётчика)
	if uc.limiter != nil {
		verdict, err := uc.limiter.Allow(ctx, input.SalonID, input.Phone)
		if err != nil {
			uc.logger.Error("CreateBooking: velocity check failed: %v", err)
		} else if !verdict.Allowed {
			return nil, fmt.Errorf("%w: %d of %d", ErrTooManyBookings, verdict.CurrentCount, verdict.MaxAllowed)
		}
	}

	// 6. Повторная проверка слота непосредственно перед вставкой
	if err := uc.conflicts.ensureFree(ctx, input.SalonID, input.Date, input.Time); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			uc.logger.Warn("CreateBooking: %v", err)
			uc.incConflict("precheck")
		} else {
			uc.logger.Error("CreateBooking: %v", err)
		}
		return nil, err
	}

	// 7. Клиент по телефону
	client, err := uc.clients.FindOrCreate(ctx, clientModels.ResolveClientRequest{
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve client: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve client: %v", ErrInternal, err)
	}

	// 8. Вставка записи, цена услуги фиксируется на момент записи
	created, err := uc.appointmentRepo.Create(ctx, &domain.Appointment{
		SalonID:      input.SalonID,
		ServiceID:    input.ServiceID,
		ClientID:     client.ID,
		Date:         input.Date,
		Time:         input.Time,
		Status:       domain.StatusPending,
		Notes:        input.Notes,
		ServicePrice: offer.Service.Price,
	})
	if err != nil {
		// Параллельная запись успела занять слот между проверкой и вставкой
		if errors.Is(err, appointmentRepo.ErrSlotOccupied) {
			uc.logger.Warn("CreateBooking: slot %s %s at salon=%d taken concurrently",
				input.Date.Format(domain.DateFormat), input.Time, input.SalonID)
			uc.incConflict("insert")
			return nil, ErrSlotTaken
		}
		// Услугу удалили между проверкой каталога и вставкой
		if errors.Is(err, appointmentRepo.ErrReferenceNotFound) {
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	// 9. Учитываем только созданные записи
	if uc.limiter != nil {
		if err := uc.limiter.Record(ctx, input.SalonID, input.Phone); err != nil {
			uc.logger.Error("CreateBooking: %v", err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.IncBookingCreated()
	}
	span.SetAttributes(attribute.Int64("appointment.id", created.ID))

	uc.logger.Info("CreateBooking: created appointment id=%d for client id=%d", created.ID, client.ID)

	return &Response{
		ID:           created.ID,
		SalonID:      created.SalonID,
		ServiceID:    created.ServiceID,
		ClientID:     created.ClientID,
		Date:         created.Date,
		Time:         created.Time,
		Status:       string(created.Status),
		Notes:        created.Notes,
		ServicePrice: created.ServicePrice,
		CreatedAt:    created.CreatedAt,
		UpdatedAt:    created.UpdatedAt,
	}, nil
}

// validateSlot проверяет рабочий день, сетку слотов и минимальный запас времени
func (uc *UseCase) validateSlot(salon *domain.Salon, input *validatedRequest) error {
	hours := salon.OpeningHours
	step := uc.settings.StepMinutes

	if !hasSlots(get_available_slots.GenerateSlots(input.Date, hours, step)) {
		return fmt.Errorf("%w: %s", ErrSalonClosed, input.Date.Format(domain.DateFormat))
	}

	if !get_available_slots.IsOnGrid(input.Date, hours, step, input.Time) {
		return fmt.Errorf("%w: %s is not on the schedule grid", ErrInvalidTimeSlot, input.Time)
	}

	start, err := input.Time.On(input.Date, salon.Location(uc.settings.DefaultLocation))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	earliest := uc.timeProvider.Now().Add(uc.settings.LeadTime)
	if !start.After(earliest) {
		return fmt.Errorf("%w: must book at least %s in advance", ErrTooLateToBook, uc.settings.LeadTime)
	}

	return nil
}

func (uc *UseCase) incConflict(stage string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingConflict(stage)
	}
}

func hasSlots(seq iter.Seq[types.TimeString]) bool {
	for range seq {
		return true
	}
	return false
}
