package appointment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func appointmentRow(id int64, status domain.AppointmentStatus, deletedAt *time.Time) *sqlmock.Rows {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id, int64(1), int64(2), int64(3),
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		[]byte("10:00:00"),
		string(status),
		nil,
		1500.0,
		created, created, deletedAt,
	)
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(int64(1), int64(2), int64(3), "2025-06-02", types.TimeString("10:00"), domain.StatusPending, nil, 1500.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	a, err := repo.Create(context.Background(), &domain.Appointment{
		SalonID:      1,
		ServiceID:    2,
		ClientID:     3,
		Date:         time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Time:         "10:00",
		Status:       domain.StatusPending,
		ServicePrice: 1500,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO appointments`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "appointments_active_slot_uniq"})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Time: "10:00",
	})

	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestCreateForeignKeyViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO appointments`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "appointments_service_id_fkey"})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Time: "10:00",
	})

	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.NotErrorIs(t, err, ErrExecQuery)
}

func TestCreateOtherError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO appointments`).WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), &domain.Appointment{Time: "10:00"})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotOccupied)
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(appointmentRow(42, domain.StatusConfirmed, nil))

	a, err := repo.GetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), a.Time)
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), a.Date)
	assert.False(t, a.IsDeleted())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM appointments`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 7)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestOccupiedTimes(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT appointment_time FROM appointments WHERE .*deleted_at IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"appointment_time"}).
			AddRow([]byte("10:00:00")).
			AddRow("11:30"))

	occupied, err := repo.OccupiedTimes(context.Background(), 1, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "11:30"}, occupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveAtSlotNone(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE .* LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.FindActiveAtSlot(context.Background(), 1, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "10:00")

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListBySalonFilters(t *testing.T) {
	repo, mock := newMock(t)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE salon_id = \$1 AND appointment_date = \$2 AND status IN \(\$3\) AND deleted_at IS NULL ORDER BY`).
		WithArgs(int64(1), "2025-06-02", "confirmed").
		WillReturnRows(appointmentRow(1, domain.StatusConfirmed, nil).AddRow(
			int64(2), int64(1), int64(2), int64(4), date, "12:00", "confirmed", "window seat", 900.0, date, date, nil,
		))

	list, err := repo.ListBySalon(context.Background(), domain.SalonAppointmentsFilter{
		SalonID:  1,
		Date:     &date,
		Statuses: []domain.AppointmentStatus{domain.StatusConfirmed},
	})

	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[1].Notes)
	assert.Equal(t, "window seat", *list[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`UPDATE appointments SET status = \$1, updated_at = NOW\(\) WHERE .* RETURNING`).
		WithArgs(domain.StatusCompleted, int64(42), domain.StatusPending).
		WillReturnRows(appointmentRow(42, domain.StatusCompleted, nil))

	a, err := repo.UpdateStatus(context.Background(), 42, domain.StatusPending, domain.StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusStaleOrMissing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`UPDATE appointments`).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.UpdateStatus(context.Background(), 42, domain.StatusPending, domain.StatusConfirmed)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSoftDelete(t *testing.T) {
	repo, mock := newMock(t)
	deleted := time.Now()

	mock.ExpectQuery(`UPDATE appointments SET deleted_at = NOW\(\)`).
		WillReturnRows(appointmentRow(42, domain.StatusPending, &deleted))

	a, err := repo.SoftDelete(context.Background(), 42)

	require.NoError(t, err)
	assert.True(t, a.IsDeleted())
	assert.False(t, a.OccupiesSlot())
}

func TestRestoreSlotTaken(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`UPDATE appointments SET deleted_at = \$1`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Restore(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSlotOccupied)
}
