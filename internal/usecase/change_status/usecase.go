package change_status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status")

// UseCase use case смены статуса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	finance         FinancePoster
	queue           SyncQueue
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// queue и metrics могут быть nil.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	finance FinancePoster,
	queue SyncQueue,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		finance:         finance,
		queue:           queue,
		metrics:         metrics,
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

// Execute переводит запись в новый статус.
// Недопустимый переход отклоняется до записи в хранилище и без побочных эффектов.
// Переход в completed один раз вызывает проводку выручки; её сбой не откатывает статус,
// а возвращается в Response.Warning.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "change_status.execute")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("ChangeStatus: appointment=%d, status=%s", req.AppointmentID, req.Status)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	target, ok := domain.ParseAppointmentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	span.SetAttributes(
		attribute.Int64("appointment.id", req.AppointmentID),
		attribute.String("appointment.status.to", string(target)),
	)

	// 2. Текущее состояние
	current, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ChangeStatus: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ChangeStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if current.IsDeleted() {
		uc.logger.Warn("ChangeStatus: appointment id=%d is deleted", req.AppointmentID)
		return nil, ErrAppointmentNotFound
	}

	from := current.Status
	span.SetAttributes(attribute.String("appointment.status.from", string(from)))

	// 3. Проверка перехода по таблице
	if !CanTransition(from, target) {
		uc.logger.Warn("ChangeStatus: transition %s -> %s rejected for appointment id=%d", from, target, req.AppointmentID)
		return nil, fmt.Errorf("%w: %s -> %s, allowed: %s", ErrInvalidTransition, from, target, formatStatuses(AllowedTransitions(from)))
	}

	// 4. Одна команда обновления по ID
	updated, err := uc.appointmentRepo.UpdateStatus(ctx, req.AppointmentID, from, target)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// Запись удалили или её статус успели поменять между чтением и обновлением
			uc.logger.Warn("ChangeStatus: appointment id=%d changed concurrently", req.AppointmentID)
			return nil, fmt.Errorf("%w: status of appointment %d changed concurrently", ErrInvalidTransition, req.AppointmentID)
		}
		uc.logger.Error("ChangeStatus: failed to update appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.IncStatusTransition(string(from), string(target))
	}
	uc.logger.Info("ChangeStatus: appointment id=%d %s -> %s", req.AppointmentID, from, target)

	resp = &Response{
		Appointment:    updated,
		PreviousStatus: from,
		FinancialSync:  FinancialSyncNotRequired,
	}

	// 5. Проводка выручки только при переходе в completed
	// Статус уже сохранён: отключение клиента не должно прерывать проводку и постановку в очередь
	if target == domain.StatusCompleted {
		uc.postCompletion(context.WithoutCancel(ctx), resp)
	}

	return resp, nil
}

// postCompletion вызывает финансовую подсистему ровно один раз за переход
func (uc *UseCase) postCompletion(ctx context.Context, resp *Response) {
	id := resp.Appointment.ID

	postErr := uc.finance.PostCompletion(ctx, id)
	if postErr == nil {
		resp.FinancialSync = FinancialSyncPosted
		uc.incSync("posted")
		return
	}

	uc.logger.Error("ChangeStatus: financial sync failed for appointment id=%d: %v", id, postErr)
	uc.incSync("failed")

	resp.FinancialSync = FinancialSyncFailed
	resp.Warning = fmt.Errorf("%w: appointment %d: %v", ErrFinancialSync, id, postErr)

	if !uc.settings.RetryEnabled || uc.queue == nil {
		return
	}

	nextAttempt := uc.timeProvider.Now().Add(uc.settings.RetryBackoff)
	if err := uc.queue.Enqueue(ctx, id, postErr.Error(), nextAttempt); err != nil {
		uc.logger.Error("ChangeStatus: failed to enqueue financial sync for appointment id=%d: %v", id, err)
		return
	}

	resp.RetryScheduled = true
	uc.logger.Info("ChangeStatus: financial sync for appointment id=%d scheduled at %s", id, nextAttempt.Format(time.RFC3339))
}

func (uc *UseCase) incSync(result string) {
	if uc.metrics != nil {
		uc.metrics.IncFinancialSync("transition", result)
	}
}
