package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// slotConflictChecker повторно проверяет слот прямо перед вставкой.
// Проверка сужает окно гонки, но не закрывает его: окончательное решение
// принимает уникальный индекс при вставке.
type slotConflictChecker struct {
	repo AppointmentRepository
}

// ensureFree возвращает ErrSlotTaken, если на слот уже есть запись pending/confirmed
func (c slotConflictChecker) ensureFree(ctx context.Context, salonID int64, date time.Time, t types.TimeString) error {
	existing, err := c.repo.FindActiveAtSlot(ctx, salonID, date, t)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil
		}
		return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
	}

	return fmt.Errorf("%w: appointment id=%d holds the slot", ErrSlotTaken, existing.ID)
}
