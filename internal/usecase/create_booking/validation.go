package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest проверяет и нормализует входные данные без обращения к хранилищу
func validateRequest(req *Request) (*validatedRequest, error) {
	if req.SalonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	rawDate := strings.TrimSpace(req.Date)
	if rawDate == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	// Дата собирается из выбранных год/месяц/день, без сдвига часового пояса
	date, err := types.ParseDate(rawDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rawTime := strings.TrimSpace(req.Time)
	if rawTime == "" {
		return nil, fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	slot, err := types.NewTimeStringFromString(rawTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxClientNameLength {
		return nil, fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	phone := domain.NormalizePhone(req.Phone)
	digits := domain.PhoneDigits(phone)
	if digits < domain.MinPhoneDigits || digits > domain.MaxPhoneDigits {
		return nil, fmt.Errorf("%w: phone must contain %d-%d digits", ErrInvalidInput, domain.MinPhoneDigits, domain.MaxPhoneDigits)
	}

	// Пустые опциональные поля равносильны отсутствующим
	var email *string
	if trimmed := strings.TrimSpace(ptr.Deref(req.Email)); trimmed != "" {
		if !domain.ValidEmail(trimmed) {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		email = ptr.Ptr(trimmed)
	}

	var notes *string
	if trimmed := strings.TrimSpace(ptr.Deref(req.Notes)); trimmed != "" {
		if utf8.RuneCountInString(trimmed) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		notes = ptr.Ptr(trimmed)
	}

	return &validatedRequest{
		SalonID:   req.SalonID,
		ServiceID: req.ServiceID,
		Date:      date,
		Time:      slot,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Notes:     notes,
	}, nil
}

// submissionKey ключ защиты от повторной отправки
func submissionKey(req *Request, phone string) string {
	if key := strings.TrimSpace(req.SessionKey); key != "" {
		return "session:" + key
	}
	return "phone:" + phone
}
