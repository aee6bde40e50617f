package change_status

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или удалена
	ErrAppointmentNotFound = errors.New("change_status: appointment not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("change_status: invalid status transition")

	// ErrFinancialSync предупреждение: статус сохранён, проводка выручки не прошла
	ErrFinancialSync = errors.New("change_status: financial sync failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_status: internal error")
)
