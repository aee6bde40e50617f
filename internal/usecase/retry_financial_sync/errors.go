package retry_financial_sync

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или удалена
	ErrAppointmentNotFound = errors.New("retry_financial_sync: appointment not found")

	// ErrNotCompleted возвращается, если запись не в статусе completed
	ErrNotCompleted = errors.New("retry_financial_sync: appointment is not completed")

	// ErrFinancialSync возвращается, если повторная проводка снова не прошла
	ErrFinancialSync = errors.New("retry_financial_sync: financial sync failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("retry_financial_sync: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("retry_financial_sync: internal error")
)
