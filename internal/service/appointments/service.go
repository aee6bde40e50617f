package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service административные операции над записями
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetSalonAppointments получает записи салона с фильтрацией по дате и статусам.
// Мягко удалённые записи возвращаются только при IncludeDeleted.
func (s *Service) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetSalonAppointments: fetching appointments for salon=%d", req.SalonID)
	if req.Date != nil {
		logMsg += ", date=" + *req.Date
	}
	if len(req.Statuses) > 0 {
		logMsg += ", statuses=" + strings.Join(req.Statuses, ",")
	}
	if req.IncludeDeleted {
		logMsg += ", includeDeleted=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonAppointments: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.appointmentRepo.ListBySalon(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonAppointments: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonAppointments: fetched %d appointments for salon=%d", len(list), req.SalonID)
	return models.FromDomainAppointmentList(list), nil
}

// SoftDelete мягко удаляет запись, слот становится свободным
func (s *Service) SoftDelete(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("SoftDelete: deleting appointment id=%d", id)

	appointment, err := s.appointmentRepo.SoftDelete(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("SoftDelete", id, err)
	}

	s.logger.Info("SoftDelete: appointment id=%d deleted", id)
	return models.FromDomainAppointment(appointment), nil
}

// Restore восстанавливает мягко удалённую запись.
// Если слот успели занять, возвращается ErrSlotTaken и запись остаётся удалённой.
func (s *Service) Restore(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Restore: restoring appointment id=%d", id)

	appointment, err := s.appointmentRepo.Restore(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Restore", id, err)
	}

	s.logger.Info("Restore: appointment id=%d restored", id)
	return models.FromDomainAppointment(appointment), nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	case errors.Is(err, appointmentRepo.ErrSlotOccupied):
		s.logger.Warn("%s: slot of appointment id=%d is taken", op, id)
		return ErrSlotTaken
	default:
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
