package list_salon_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.AppointmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(3, "2025-06-02", "Pending, confirmed,", "true")
	require.NoError(t, err)

	assert.Equal(t, &models.GetSalonAppointmentsRequest{
		SalonID:        3,
		Date:           ptr.Ptr("2025-06-02"),
		Statuses:       []string{"pending", "confirmed"},
		IncludeDeleted: true,
	}, req)

	_, err = ToServiceRequest(3, "", "", "maybe")
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := new(mockService)
	svc.On("GetSalonAppointments", mock.Anything, &models.GetSalonAppointmentsRequest{SalonID: 3}).
		Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}, nil)
	svc.On("GetSalonAppointments", mock.Anything, mock.MatchedBy(func(r *models.GetSalonAppointmentsRequest) bool {
		return r.Date != nil && *r.Date == "bad"
	})).Return(nil, appointments.ErrInvalidInput)

	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/appointments", NewHandler(svc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/salons/3/appointments", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"appointments":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/salons/3/appointments?date=bad", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
