package financialsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "financial_sync_jobs"

var columns = []string{
	"appointment_id",
	"status",
	"attempts",
	"last_error",
	"next_attempt_at",
	"created_at",
	"updated_at",
}

// Repository очередь повторных проводок выручки по завершённым записям
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue ставит запись в очередь повторной проводки.
// Первая неудачная попытка уже состоялась при переходе в completed, поэтому attempts = 1.
// Повторная постановка той же записи переводит задачу обратно в pending.
func (r *Repository) Enqueue(ctx context.Context, appointmentID int64, lastError string, nextAttemptAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("appointment_id", "status", "attempts", "last_error", "next_attempt_at").
		Values(appointmentID, domain.FinancialSyncPending, 1, lastError, nextAttemptAt).
		Suffix(`ON CONFLICT (appointment_id) DO UPDATE SET
			status = EXCLUDED.status,
			last_error = EXCLUDED.last_error,
			next_attempt_at = EXCLUDED.next_attempt_at,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Enqueue - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Enqueue - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// ClaimDue выбирает задачи, срок которых наступил, и сдвигает их next_attempt_at на leaseUntil.
// Должен вызываться внутри txmanager.Do: SKIP LOCKED не даёт двум воркерам взять одну задачу,
// а после коммита задача не видна другим воркерам до истечения аренды.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, limit int, leaseUntil time.Time) ([]*domain.FinancialSyncJob, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": domain.FinancialSyncPending}).
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		OrderBy("next_attempt_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - build select query: %v", ErrBuildQuery, err)
	}

	jobs, err := queryJobs(ctx, executor, query, args)
	if err != nil {
		return nil, fmt.Errorf("ClaimDue - %w", err)
	}
	if len(jobs) == 0 {
		return jobs, nil
	}

	ids := make([]int64, len(jobs))
	for i, job := range jobs {
		ids[i] = job.AppointmentID
	}

	query, args, err = psqlbuilder.Update(tableName).
		Set("next_attempt_at", leaseUntil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - build lease query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - execute lease update: %v", ErrExecQuery, err)
	}

	return jobs, nil
}

func queryJobs(ctx context.Context, executor DBExecutor, query string, args []any) ([]*domain.FinancialSyncJob, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	jobs := make([]*domain.FinancialSyncJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrScanRow, err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return jobs, nil
}

// MarkDone отмечает успешную проводку
func (r *Repository) MarkDone(ctx context.Context, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.FinancialSyncDone).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkDone - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkDone - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// MarkAttemptFailed фиксирует неудачную попытку.
// exhausted = true переводит задачу в failed, дальше её повторяет только администратор.
func (r *Repository) MarkAttemptFailed(ctx context.Context, appointmentID int64, lastError string, nextAttemptAt time.Time, exhausted bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	status := domain.FinancialSyncPending
	if exhausted {
		status = domain.FinancialSyncFailed
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", lastError).
		Set("next_attempt_at", nextAttemptAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkAttemptFailed - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkAttemptFailed - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByAppointmentID возвращает задачу по записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.FinancialSyncJob, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	job, err := scanJob(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - scan job: %v", ErrScanRow, err)
	}

	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.FinancialSyncJob, error) {
	var job domain.FinancialSyncJob
	err := row.Scan(
		&job.AppointmentID,
		&job.Status,
		&job.Attempts,
		&job.LastError,
		&job.NextAttemptAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
