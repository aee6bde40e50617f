package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"salon_id",
	"service_id",
	"client_id",
	"appointment_date",
	"appointment_time",
	"status",
	"notes",
	"service_price",
	"created_at",
	"updated_at",
	"deleted_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Уникальность слота обеспечивает частичный индекс по (salon_id, appointment_date, appointment_time)
// для статусов pending/confirmed: гонка двух вставок заканчивается ErrSlotOccupied для проигравшей.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"salon_id",
			"service_id",
			"client_id",
			"appointment_date",
			"appointment_time",
			"status",
			"notes",
			"service_price",
		).
		Values(
			a.SalonID,
			a.ServiceID,
			a.ClientID,
			a.Date.Format(domain.DateFormat),
			a.Time,
			a.Status,
			a.Notes,
			a.ServicePrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if _, ok := pgerr.IsUniqueViolation(err); ok {
			return nil, ErrSlotOccupied
		}
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: Create - %v", ErrReferenceNotFound, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает запись по ID, включая мягко удалённые
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// FindActiveAtSlot ищет неудалённую запись pending/confirmed на конкретный слот.
// Используется для повторной проверки слота перед вставкой.
func (r *Repository) FindActiveAtSlot(ctx context.Context, salonID int64, date time.Time, t types.TimeString) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"salon_id":         salonID,
			"appointment_date": date.Format(domain.DateFormat),
			"appointment_time": t.String(),
			"status":           occupyingStatusStrings(),
			"deleted_at":       nil,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveAtSlot - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveAtSlot - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// OccupiedTimes возвращает время всех слотов салона на дату, занятых записями pending/confirmed
func (r *Repository) OccupiedTimes(ctx context.Context, salonID int64, date time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("appointment_time").
		From(tableName).
		Where(squirrel.Eq{
			"salon_id":         salonID,
			"appointment_date": date.Format(domain.DateFormat),
			"status":           occupyingStatusStrings(),
			"deleted_at":       nil,
		}).
		OrderBy("appointment_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	occupied := make([]types.TimeString, 0)
	for rows.Next() {
		var t types.TimeString
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: OccupiedTimes - scan time: %v", ErrScanRow, err)
		}
		occupied = append(occupied, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupiedTimes - rows error: %v", ErrScanRow, err)
	}

	return occupied, nil
}

// ListBySalon получает записи салона с фильтрацией по дате, времени и статусам
func (r *Repository) ListBySalon(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"salon_id": filter.SalonID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.Time != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_time": filter.Time.String()})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}
	if !filter.IncludeDeleted {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"deleted_at": nil})
	}

	query, args, err := selectBuilder.
		OrderBy("appointment_date ASC", "appointment_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBySalon - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// UpdateStatus меняет статус одной командой UPDATE по ID и возвращает обновлённую запись.
// Обновление проходит, только если текущий статус равен from: из двух одновременных
// переходов из одного состояния применяется один. Иначе ErrAppointmentNotFound.
// Проверку допустимости перехода делает вызывающая сторона.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	return r.updateReturning(ctx, "UpdateStatus",
		psqlbuilder.Update(tableName).
			Set("status", to).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id, "status": from, "deleted_at": nil}),
	)
}

// SoftDelete помечает запись удалённой; слот при этом освобождается
func (r *Repository) SoftDelete(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.updateReturning(ctx, "SoftDelete",
		psqlbuilder.Update(tableName).
			Set("deleted_at", squirrel.Expr("NOW()")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id, "deleted_at": nil}),
	)
}

// Restore снимает пометку удаления.
// Если слот за это время занят, уникальный индекс вернёт ErrSlotOccupied.
func (r *Repository) Restore(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.updateReturning(ctx, "Restore",
		psqlbuilder.Update(tableName).
			Set("deleted_at", nil).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.NotEq{"deleted_at": nil}),
	)
}

func (r *Repository) updateReturning(ctx context.Context, op string, builder squirrel.UpdateBuilder) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		if _, ok := pgerr.IsUniqueViolation(err); ok {
			return nil, ErrSlotOccupied
		}
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var date time.Time

	err := row.Scan(
		&a.ID,
		&a.SalonID,
		&a.ServiceID,
		&a.ClientID,
		&date,
		&a.Time,
		&a.Status,
		&a.Notes,
		&a.ServicePrice,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Date = types.DateOnly(date)
	return &a, nil
}

func occupyingStatusStrings() []string {
	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
