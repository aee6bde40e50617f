package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Settings параметры записи
type Settings struct {
	StepMinutes     int            // Шаг сетки слотов
	LeadTime        time.Duration  // Минимальный запас до начала слота
	DefaultLocation *time.Location // Часовой пояс салона без собственного
}

// Request модель запроса на создание записи
type Request struct {
	SalonID   int64   // ID салона
	ServiceID int64   // ID услуги
	Date      string  // Дата "2025-06-02", как её выбрал пользователь
	Time      string  // Время слота "10:00"
	Name      string  // Имя клиента
	Phone     string  // Телефон клиента
	Email     *string // Email (опционально)
	Notes     *string // Пожелания (опционально)

	// SessionKey ключ сессии для защиты от повторной отправки формы.
	// Если пустой, используется нормализованный телефон.
	SessionKey string
}

// Response модель ответа с созданной записью
type Response struct {
	ID           int64            // ID записи
	SalonID      int64            // ID салона
	ServiceID    int64            // ID услуги
	ClientID     int64            // ID клиента
	Date         time.Time        // Дата записи
	Time         types.TimeString // Время начала
	Status       string           // Статус (всегда pending)
	Notes        *string          // Пожелания
	ServicePrice float64          // Цена услуги на момент записи

	CreatedAt time.Time
	UpdatedAt time.Time
}

// validatedRequest запрос после разбора и нормализации
type validatedRequest struct {
	SalonID   int64
	ServiceID int64
	Date      time.Time
	Time      types.TimeString
	Name      string
	Phone     string
	Email     *string
	Notes     *string
}
