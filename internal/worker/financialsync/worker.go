// Package financialsync периодически повторяет неудавшиеся проводки выручки.
package financialsync

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule расписание по умолчанию
const DefaultSchedule = "@every 1m"

// Worker запускает Processor по cron-расписанию.
// Проход, не успевший завершиться к следующему тику, не перекрывается новым.
type Worker struct {
	cron      *cron.Cron
	processor Processor
	timeout   time.Duration
	logger    Logger
}

// NewWorker создает воркер. Пустое расписание заменяется DefaultSchedule.
func NewWorker(processor Processor, schedule string, timeout time.Duration, logger Logger) (*Worker, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	w := &Worker{
		cron:      cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		processor: processor,
		timeout:   timeout,
		logger:    logger,
	}

	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("financialsync: invalid schedule %q: %w", schedule, err)
	}

	return w, nil
}

// Start запускает планировщик в фоне
func (w *Worker) Start() {
	w.cron.Start()
	w.logger.Info("FinancialSyncWorker: started")
}

// Stop останавливает планировщик и ждёт завершения текущего прохода или отмены ctx
func (w *Worker) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		w.logger.Info("FinancialSyncWorker: stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce выполняет один проход по очереди
func (w *Worker) RunOnce(ctx context.Context) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	result, err := w.processor.ProcessDue(ctx)
	if err != nil {
		w.logger.Error("FinancialSyncWorker: pass failed: %v", err)
		return
	}
	if result != nil && result.Claimed > 0 {
		w.logger.Info("FinancialSyncWorker: processed %d jobs, posted=%d", result.Claimed, result.Posted)
	}
}
