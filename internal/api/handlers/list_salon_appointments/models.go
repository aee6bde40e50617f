package list_salon_appointments

import (
	"strconv"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров.
// status принимает список через запятую: "pending,confirmed".
func ToServiceRequest(salonID int64, dateStr, statusStr, includeDeletedStr string) (*models.GetSalonAppointmentsRequest, error) {
	req := &models.GetSalonAppointmentsRequest{SalonID: salonID}

	if dateStr != "" {
		req.Date = &dateStr
	}

	for _, s := range strings.Split(statusStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			req.Statuses = append(req.Statuses, strings.ToLower(s))
		}
	}

	if includeDeletedStr != "" {
		includeDeleted, err := strconv.ParseBool(includeDeletedStr)
		if err != nil {
			return nil, err
		}
		req.IncludeDeleted = includeDeleted
	}

	return req, nil
}
