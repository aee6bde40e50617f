package create_booking

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("create_booking: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, отключена или из другого салона
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrSalonClosed возвращается, когда салон не работает в выбранный день
	ErrSalonClosed = errors.New("create_booking: salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом дня
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда до начала слота осталось меньше минимального запаса
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotTaken возвращается, когда слот уже занят записью pending/confirmed
	ErrSlotTaken = errors.New("create_booking: slot already taken")

	// ErrTooManyBookings возвращается при превышении лимита записей с одного телефона
	ErrTooManyBookings = errors.New("create_booking: too many bookings from this phone")

	// ErrSubmissionInFlight возвращается, пока предыдущая отправка той же сессии не завершилась
	ErrSubmissionInFlight = errors.New("create_booking: submission already in progress")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
