package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Settings параметры расписания
type Settings struct {
	StepMinutes     int            // Шаг сетки слотов
	LeadTime        time.Duration  // Минимальный запас до начала слота
	DefaultLocation *time.Location // Часовой пояс салона без собственного
}

// Request модель запроса на получение доступных слотов
type Request struct {
	SalonID   int64     // ID салона
	ServiceID int64     // ID услуги
	Date      time.Time // Календарный день (UTC полночь)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time          // Дата, на которую запрашивались слоты
	SalonID   int64              // ID салона
	ServiceID int64              // ID услуги
	Slots     []types.TimeString // Свободные слоты в порядке возрастания
}
