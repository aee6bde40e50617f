package get_available_slots

import (
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// GenerateSlots возвращает стартовые времена слотов на дату по расписанию салона.
// Слоты идут от открытия с шагом stepMinutes, каждый строго раньше закрытия.
// Выходной, отсутствующий день или некорректное расписание (open >= close, мусор в строке)
// дают пустую последовательность. Последовательность ленивая и перезапускаемая:
// каждый range начинает заново с открытия.
func GenerateSlots(date time.Time, hours domain.OpeningHours, stepMinutes int) iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		if stepMinutes <= 0 {
			return
		}

		schedule, ok := hours.ForDate(date)
		if !ok || schedule.Closed {
			return
		}

		openAt, closeAt := types.TimeString(schedule.Open), types.TimeString(schedule.Close)
		if !openAt.IsBefore(closeAt) {
			return
		}
		open, _ := openAt.Minutes()
		closeMin, _ := closeAt.Minutes()

		for m := open; m < closeMin; m += stepMinutes {
			slot, err := types.NewTimeStringFromMinutes(m)
			if err != nil {
				return
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// IsOnGrid проверяет, что время совпадает с одним из слотов дня
func IsOnGrid(date time.Time, hours domain.OpeningHours, stepMinutes int, t types.TimeString) bool {
	for slot := range GenerateSlots(date, hours, stepMinutes) {
		if slot == t {
			return true
		}
	}
	return false
}

// FilterAvailable убирает из кандидатов занятые слоты и слоты, начало которых
// не позже now + lead. Время слота переводится в момент в часовом поясе салона loc.
// Порядок кандидатов сохраняется.
func FilterAvailable(
	date time.Time,
	candidates iter.Seq[types.TimeString],
	occupied []types.TimeString,
	now time.Time,
	lead time.Duration,
	loc *time.Location,
) []types.TimeString {
	earliest := now.Add(lead)

	available := make([]types.TimeString, 0)
	for slot := range candidates {
		if slices.Contains(occupied, slot) {
			continue
		}

		start, err := slot.On(date, loc)
		if err != nil {
			continue
		}

		// Слот ровно в now + lead тоже недоступен
		if !start.After(earliest) {
			continue
		}

		available = append(available, slot)
	}

	return available
}
