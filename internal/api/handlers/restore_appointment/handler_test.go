package restore_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Restore(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.AppointmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle(t *testing.T) {
	svc := new(mockService)
	svc.On("Restore", mock.Anything, int64(1)).Return(&models.AppointmentResponse{ID: 1, Status: "pending"}, nil)
	svc.On("Restore", mock.Anything, int64(2)).Return(nil, appointments.ErrSlotTaken)
	svc.On("Restore", mock.Anything, int64(3)).Return(nil, appointments.ErrAppointmentNotFound)

	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}/restore", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPost)

	for id, want := range map[string]int{
		"1":   http.StatusOK,
		"2":   http.StatusConflict,
		"3":   http.StatusNotFound,
		"abc": http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/"+id+"/restore", nil))
		assert.Equal(t, want, rec.Code, id)
	}
}
