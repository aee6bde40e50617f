package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockAppointmentRepo) ListBySalon(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	if l := args.Get(0); l != nil {
		return l.([]*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) SoftDelete(ctx context.Context, id int64) (*domain.Appointment, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockAppointmentRepo) Restore(ctx context.Context, id int64) (*domain.Appointment, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockAppointmentRepo) result(args mock.Arguments) (*domain.Appointment, error) {
	if a := args.Get(0); a != nil {
		return a.(*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func sampleAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:        42,
		SalonID:   1,
		ServiceID: 2,
		ClientID:  3,
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Time:      "10:00",
		Status:    domain.StatusPending,
	}
}

func TestGetByID(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("GetByID", mock.Anything, int64(42)).Return(sampleAppointment(), nil)

	resp, err := NewService(repo, logger.NewNop()).GetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, "10:00", resp.Time)
	assert.Equal(t, "pending", resp.Status)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, appointmentRepo.ErrAppointmentNotFound)

	_, err := NewService(repo, logger.NewNop()).GetByID(context.Background(), 42)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetSalonAppointmentsBuildsFilter(t *testing.T) {
	repo := new(mockAppointmentRepo)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	repo.On("ListBySalon", mock.Anything, domain.SalonAppointmentsFilter{
		SalonID:  1,
		Date:     &date,
		Statuses: []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed},
	}).Return([]*domain.Appointment{sampleAppointment()}, nil)

	resp, err := NewService(repo, logger.NewNop()).GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID:  1,
		Date:     ptr.Ptr("2025-06-02"),
		Statuses: []string{"pending", "confirmed"},
	})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	repo.AssertExpectations(t)
}

func TestGetSalonAppointmentsInvalidFilter(t *testing.T) {
	svc := NewService(new(mockAppointmentRepo), logger.NewNop())

	_, err := svc.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID:  1,
		Statuses: []string{"archived"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
		SalonID: 1,
		Date:    ptr.Ptr("02.06.2025"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSoftDelete(t *testing.T) {
	repo := new(mockAppointmentRepo)
	deleted := sampleAppointment()
	now := time.Now()
	deleted.DeletedAt = &now
	repo.On("SoftDelete", mock.Anything, int64(42)).Return(deleted, nil)

	resp, err := NewService(repo, logger.NewNop()).SoftDelete(context.Background(), 42)

	require.NoError(t, err)
	assert.NotNil(t, resp.DeletedAt)
}

func TestRestoreSlotTaken(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("Restore", mock.Anything, int64(42)).Return(nil, appointmentRepo.ErrSlotOccupied)

	_, err := NewService(repo, logger.NewNop()).Restore(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRestoreStorageError(t *testing.T) {
	repo := new(mockAppointmentRepo)
	repo.On("Restore", mock.Anything, int64(42)).Return(nil, appointmentRepo.ErrExecQuery)

	_, err := NewService(repo, logger.NewNop()).Restore(context.Background(), 42)

	assert.ErrorIs(t, err, ErrInternal)
}
