package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotOccupied возвращается при нарушении уникальности слота (salon, date, time)
	ErrSlotOccupied = errors.New("appointment.repository: slot already occupied")

	// ErrReferenceNotFound возвращается, когда салон, услуга или клиент исчезли до вставки
	ErrReferenceNotFound = errors.New("appointment.repository: referenced salon, service or client not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
