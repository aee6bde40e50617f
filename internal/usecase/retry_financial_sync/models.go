package retry_financial_sync

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	defaultMaxAttempts = 5
	defaultBatchSize   = 20
	defaultBackoff     = time.Minute
	defaultClaimLease  = 10 * time.Minute
	maxBackoffShift    = 6
)

// Settings политика повторных проводок
type Settings struct {
	RetryEnabled bool
	MaxAttempts  int           // После стольких попыток задача помечается failed
	BatchSize    int           // Сколько задач забирается за один проход
	Backoff      time.Duration // Базовая задержка, удваивается с каждой попыткой
	ClaimLease   time.Duration // На сколько забранная задача скрыта от других воркеров
}

func (s Settings) withDefaults() Settings {
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = defaultMaxAttempts
	}
	if s.BatchSize <= 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.Backoff <= 0 {
		s.Backoff = defaultBackoff
	}
	if s.ClaimLease <= 0 {
		s.ClaimLease = defaultClaimLease
	}
	return s
}

// Request модель запроса ручного повтора
type Request struct {
	AppointmentID int64
}

// Response модель ответа ручного повтора
type Response struct {
	AppointmentID int64
	Posted        bool
	Job           *domain.FinancialSyncJob // nil, если запись не попадала в очередь
}

// BatchResult итог одного прохода по очереди
type BatchResult struct {
	Claimed   int
	Posted    int
	Failed    int
	Exhausted int
}
