package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*getAvailableSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc *mockUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/available-slots", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReturnsSlots(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{SalonID: 1, ServiceID: 2, Date: date}).
		Return(&getAvailableSlots.Response{
			Date:      date,
			SalonID:   1,
			ServiceID: 2,
			Slots:     []types.TimeString{"09:00", "09:30"},
		}, nil)

	rec := serve(uc, "/salons/1/available-slots?serviceId=2&date=2025-06-02")

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"09:00", "09:30"}, body.Slots)
	assert.Equal(t, "2025-06-02", body.Date)
}

func TestHandle_EmptyDayIsEmptyArray(t *testing.T) {
	date := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&getAvailableSlots.Response{Date: date, SalonID: 1, ServiceID: 2, Slots: []types.TimeString{}}, nil)

	rec := serve(uc, "/salons/1/available-slots?serviceId=2&date=2025-06-08")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_BadRequestsAndNotFound(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad salon", "/salons/abc/available-slots?serviceId=2&date=2025-06-02", nil, http.StatusBadRequest},
		{"missing service", "/salons/1/available-slots?date=2025-06-02", nil, http.StatusBadRequest},
		{"missing date", "/salons/1/available-slots?serviceId=2", nil, http.StatusBadRequest},
		{"bad date", "/salons/1/available-slots?serviceId=2&date=02.06.2025", nil, http.StatusBadRequest},
		{"unknown salon", "/salons/1/available-slots?serviceId=2&date=2025-06-02", getAvailableSlots.ErrSalonNotFound, http.StatusNotFound},
		{"unknown service", "/salons/1/available-slots?serviceId=2&date=2025-06-02", getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			if tt.err != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			assert.Equal(t, tt.want, serve(uc, tt.target).Code)
		})
	}
}
