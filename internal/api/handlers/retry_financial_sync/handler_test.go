package retry_financial_sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"

	retryFinancialSync "github.com/m04kA/SMC-AppointmentService/internal/usecase/retry_financial_sync"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *retryFinancialSync.Request) (*retryFinancialSync.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*retryFinancialSync.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, &retryFinancialSync.Request{AppointmentID: 1}).
		Return(&retryFinancialSync.Response{AppointmentID: 1, Posted: true}, nil)
	uc.On("Execute", mock.Anything, &retryFinancialSync.Request{AppointmentID: 2}).
		Return(nil, fmt.Errorf("%w: status is confirmed", retryFinancialSync.ErrNotCompleted))
	uc.On("Execute", mock.Anything, &retryFinancialSync.Request{AppointmentID: 3}).
		Return(nil, fmt.Errorf("%w: timeout", retryFinancialSync.ErrFinancialSync))
	uc.On("Execute", mock.Anything, &retryFinancialSync.Request{AppointmentID: 4}).
		Return(nil, retryFinancialSync.ErrAppointmentNotFound)

	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}/financial-sync", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	for id, want := range map[string]int{
		"1": http.StatusOK,
		"2": http.StatusConflict,
		"3": http.StatusBadGateway,
		"4": http.StatusNotFound,
		"0": http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/"+id+"/financial-sync", nil))
		assert.Equal(t, want, rec.Code, id)
	}
}

func TestHandleReportsJobState(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, &retryFinancialSync.Request{AppointmentID: 5}).
		Return(&retryFinancialSync.Response{
			AppointmentID: 5,
			Posted:        true,
			Job:           &domain.FinancialSyncJob{AppointmentID: 5, Status: domain.FinancialSyncDone, Attempts: 4},
		}, nil)
	uc.On("Execute", mock.Anything, &retryFinancialSync.Request{AppointmentID: 6}).
		Return(&retryFinancialSync.Response{AppointmentID: 6, Posted: true}, nil)

	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}/financial-sync", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/5/financial-sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body RetryFinancialSyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "posted", body.FinancialSync)
	require.NotNil(t, body.Job)
	assert.Equal(t, "done", body.Job.Status)
	assert.Equal(t, 4, body.Job.Attempts)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/6/financial-sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"job"`)
}
