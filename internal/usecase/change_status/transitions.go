package change_status

import (
	"slices"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// transitions единственный источник допустимых переходов статусов.
// Из completed и cancelled переходов нет, переход в тот же статус запрещён.
var transitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.StatusPending:   {domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusConfirmed: {domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusCompleted: {},
	domain.StatusCancelled: {},
}

// CanTransition сообщает, разрешён ли переход from -> to
func CanTransition(from, to domain.AppointmentStatus) bool {
	return slices.Contains(transitions[from], to)
}

// AllowedTransitions возвращает статусы, в которые можно перейти из from
func AllowedTransitions(from domain.AppointmentStatus) []domain.AppointmentStatus {
	return slices.Clone(transitions[from])
}

func formatStatuses(statuses []domain.AppointmentStatus) string {
	if len(statuses) == 0 {
		return "none"
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
