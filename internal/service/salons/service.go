package salons

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	salonRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/salon"
)

// Offer салон и услуга, на которую можно записаться
type Offer struct {
	Salon   *domain.Salon
	Service *domain.Service
}

// Service сервис каталога: салоны, их расписание и услуги
type Service struct {
	salonRepo SalonRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(salonRepo SalonRepository, logger Logger) *Service {
	return &Service{
		salonRepo: salonRepo,
		logger:    logger,
	}
}

// GetSalon получает салон по ID
func (s *Service) GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error) {
	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			s.logger.Warn("GetSalon: salon id=%d not found", salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("GetSalon: repository error for salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetSalon - repository error: %v", ErrInternal, err)
	}
	return salon, nil
}

// ResolveOffer проверяет, что услуга существует, активна и принадлежит салону,
// и возвращает её вместе с салоном
func (s *Service) ResolveOffer(ctx context.Context, salonID, serviceID int64) (*Offer, error) {
	service, err := s.salonRepo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrServiceNotFound) {
			s.logger.Warn("ResolveOffer: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("ResolveOffer: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: ResolveOffer - repository error: %v", ErrInternal, err)
	}

	// Неактивная услуга или услуга другого салона для клиента не существует
	if !service.IsBookableAt(salonID) {
		s.logger.Warn("ResolveOffer: service id=%d is not bookable at salon id=%d (salon=%d, active=%t)",
			serviceID, salonID, service.SalonID, service.Active)
		return nil, ErrServiceNotFound
	}

	salon, err := s.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	return &Offer{Salon: salon, Service: service}, nil
}
