package finance

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента (построение запроса, сеть, таймаут)
	ErrInternal = errors.New("finance client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от финансового сервиса
	ErrInvalidResponse = errors.New("finance client: invalid response")

	// ErrRejected возвращается, когда сервис ответил success=false
	ErrRejected = errors.New("finance client: posting rejected")
)
