package salon

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestGetByIDDecodesOpeningHours(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, opening_hours, timezone, created_at, updated_at FROM salons WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "opening_hours", "timezone", "created_at", "updated_at"}).
			AddRow(int64(1), "Studio", []byte(`{"Monday":{"open":"09:00","close":"12:00"},"sunday":{"closed":true}}`), "Europe/Moscow", now, now))

	s, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", s.Timezone)
	assert.Equal(t, domain.DaySchedule{Open: "09:00", Close: "12:00"}, s.OpeningHours["monday"])
	assert.True(t, s.OpeningHours["sunday"].Closed)
}

func TestGetByIDNullTimezone(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM salons`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "opening_hours", "timezone", "created_at", "updated_at"}).
			AddRow(int64(1), "Studio", nil, nil, now, now))

	s, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, s.Timezone)
	assert.Empty(t, s.OpeningHours)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM salons`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 1)

	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestGetService(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, salon_id, name, duration_minutes, price, active FROM services WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "name", "duration_minutes", "price", "active"}).
			AddRow(int64(2), int64(1), "Haircut", 45, 1500.0, true))

	svc, err := repo.GetService(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, svc.IsBookableAt(1))
	assert.False(t, svc.IsBookableAt(3))
}

func TestGetServiceNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM services`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetService(context.Background(), 2)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}
