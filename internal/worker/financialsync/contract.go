package financialsync

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/usecase/retry_financial_sync"
)

// Processor обрабатывает созревшие задачи очереди проводок
type Processor interface {
	ProcessDue(ctx context.Context) (*retry_financial_sync.BatchResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
