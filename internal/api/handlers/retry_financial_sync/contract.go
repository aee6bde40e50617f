package retry_financial_sync

import (
	"context"

	retryFinancialSync "github.com/m04kA/SMC-AppointmentService/internal/usecase/retry_financial_sync"
)

type RetryFinancialSyncUseCase interface {
	Execute(ctx context.Context, req *retryFinancialSync.Request) (*retryFinancialSync.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
