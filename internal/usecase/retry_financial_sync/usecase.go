package retry_financial_sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/financialsync"
)

// UseCase use case повторной проводки выручки
type UseCase struct {
	appointmentRepo AppointmentRepository
	jobs            JobRepository
	finance         FinancePoster
	txManager       TransactionManager
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	jobs JobRepository,
	finance FinancePoster,
	txManager TransactionManager,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		jobs:            jobs,
		finance:         finance,
		txManager:       txManager,
		metrics:         metrics,
		settings:        settings.withDefaults(),
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute вручную повторяет проводку по завершённой записи.
// Работает и при выключенных автоматических повторах, и для задач в статусе failed.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RetryFinancialSync: appointment=%d", req.AppointmentID)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RetryFinancialSync: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RetryFinancialSync: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if appointment.IsDeleted() {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status != domain.StatusCompleted {
		uc.logger.Warn("RetryFinancialSync: appointment id=%d has status %s", req.AppointmentID, appointment.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrNotCompleted, appointment.Status)
	}

	// Проводка и очередь не должны обрываться вместе с запросом администратора
	ctx = context.WithoutCancel(ctx)

	postErr := uc.finance.PostCompletion(ctx, req.AppointmentID)
	if postErr != nil {
		uc.logger.Error("RetryFinancialSync: posting failed for appointment id=%d: %v", req.AppointmentID, postErr)
		uc.incSync("manual", "failed")

		if uc.settings.RetryEnabled {
			nextAttempt := uc.timeProvider.Now().Add(uc.settings.Backoff)
			if err := uc.jobs.Enqueue(ctx, req.AppointmentID, postErr.Error(), nextAttempt); err != nil {
				uc.logger.Error("RetryFinancialSync: failed to enqueue appointment id=%d: %v", req.AppointmentID, err)
			}
		}
		return nil, fmt.Errorf("%w: appointment %d: %v", ErrFinancialSync, req.AppointmentID, postErr)
	}

	uc.incSync("manual", "posted")

	// Строки очереди может не быть, тогда обновление ничего не затронет
	if err := uc.jobs.MarkDone(ctx, req.AppointmentID); err != nil {
		uc.logger.Error("RetryFinancialSync: failed to mark job done for appointment id=%d: %v", req.AppointmentID, err)
	}

	uc.logger.Info("RetryFinancialSync: appointment id=%d posted", req.AppointmentID)

	return &Response{
		AppointmentID: req.AppointmentID,
		Posted:        true,
		Job:           uc.jobState(ctx, req.AppointmentID),
	}, nil
}

// jobState состояние задачи очереди для ответа; nil, если задачи нет
func (uc *UseCase) jobState(ctx context.Context, appointmentID int64) *domain.FinancialSyncJob {
	job, err := uc.jobs.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		if !errors.Is(err, financialsync.ErrJobNotFound) {
			uc.logger.Error("RetryFinancialSync: failed to read job for appointment id=%d: %v", appointmentID, err)
		}
		return nil
	}
	return job
}

// ProcessDue забирает созревшие задачи в короткой транзакции и повторяет проводку вне её.
// Забранные задачи арендуются до now + ClaimLease, поэтому другой воркер их не возьмёт.
// Ошибка проводки не прерывает проход; прерывает только ошибка хранилища.
func (uc *UseCase) ProcessDue(ctx context.Context) (*BatchResult, error) {
	result := &BatchResult{}
	now := uc.timeProvider.Now()
	leaseUntil := now.Add(uc.settings.ClaimLease)

	var jobs []*domain.FinancialSyncJob
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		claimed, err := uc.jobs.ClaimDue(txCtx, now, uc.settings.BatchSize, leaseUntil)
		if err != nil {
			return fmt.Errorf("claim due jobs: %w", err)
		}
		jobs = claimed
		return nil
	})
	if err != nil {
		uc.logger.Error("RetryFinancialSync: claim failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	result.Claimed = len(jobs)

	for _, job := range jobs {
		if err := uc.processJob(ctx, job, now, result); err != nil {
			uc.logger.Error("RetryFinancialSync: batch failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	if result.Claimed > 0 {
		uc.logger.Info("RetryFinancialSync: batch claimed=%d posted=%d failed=%d exhausted=%d",
			result.Claimed, result.Posted, result.Failed, result.Exhausted)
	}

	return result, nil
}

func (uc *UseCase) processJob(ctx context.Context, job *domain.FinancialSyncJob, now time.Time, result *BatchResult) error {
	postErr := uc.finance.PostCompletion(ctx, job.AppointmentID)
	if postErr == nil {
		if err := uc.jobs.MarkDone(ctx, job.AppointmentID); err != nil {
			return fmt.Errorf("mark job %d done: %w", job.AppointmentID, err)
		}
		result.Posted++
		uc.incSync("retry", "posted")
		return nil
	}

	attempts := job.Attempts + 1
	exhausted := attempts >= uc.settings.MaxAttempts
	nextAttempt := now.Add(uc.backoff(job.Attempts))

	if err := uc.jobs.MarkAttemptFailed(ctx, job.AppointmentID, postErr.Error(), nextAttempt, exhausted); err != nil {
		return fmt.Errorf("mark job %d failed: %w", job.AppointmentID, err)
	}

	result.Failed++
	uc.incSync("retry", "failed")
	if exhausted {
		result.Exhausted++
		uc.logger.Warn("RetryFinancialSync: appointment id=%d gave up after %d attempts: %v", job.AppointmentID, attempts, postErr)
	} else {
		uc.logger.Warn("RetryFinancialSync: appointment id=%d attempt %d failed: %v", job.AppointmentID, attempts, postErr)
	}
	return nil
}

// backoff экспоненциальная задержка: base, 2*base, 4*base ...
func (uc *UseCase) backoff(attempts int) time.Duration {
	shift := attempts - 1
	if shift < 0 {
		shift = 0
	}
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	return uc.settings.Backoff << shift
}

func (uc *UseCase) incSync(source, result string) {
	if uc.metrics != nil {
		uc.metrics.IncFinancialSync(source, result)
	}
}
