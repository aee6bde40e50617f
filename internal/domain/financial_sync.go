package domain

import "time"

// FinancialSyncStatus is the state of a queued financial posting retry
type FinancialSyncStatus string

const (
	FinancialSyncPending FinancialSyncStatus = "pending"
	FinancialSyncDone    FinancialSyncStatus = "done"
	FinancialSyncFailed  FinancialSyncStatus = "failed" // retries exhausted
)

// FinancialSyncJob tracks a completion whose revenue posting has not succeeded yet.
// One row per appointment.
type FinancialSyncJob struct {
	AppointmentID int64
	Status        FinancialSyncStatus
	Attempts      int
	LastError     *string
	NextAttemptAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
