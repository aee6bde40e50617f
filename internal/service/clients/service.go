package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

// Service находит или регистрирует клиентов по телефону
type Service struct {
	clientRepo ClientRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// FindByPhone ищет клиента по телефону (телефон нормализуется)
func (s *Service) FindByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	normalized := domain.NormalizePhone(phone)

	client, err := s.clientRepo.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("FindByPhone: repository error for phone=%s: %v", normalized, err)
		return nil, fmt.Errorf("%w: FindByPhone - repository error: %v", ErrInternal, err)
	}

	return client, nil
}

// Create регистрирует нового клиента
func (s *Service) Create(ctx context.Context, req models.ResolveClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		Name:  strings.TrimSpace(req.Name),
		Phone: domain.NormalizePhone(req.Phone),
		Email: normalizeEmail(req.Email),
	}

	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, clientRepo.ErrDuplicatePhone) {
			return nil, err
		}
		s.logger.Error("Create: repository error for phone=%s: %v", client.Phone, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: registered client id=%d", created.ID)
	return created, nil
}

// FindOrCreate возвращает существующего клиента с этим телефоном или создаёт нового.
// Если параллельный запрос успел создать клиента между поиском и вставкой,
// уникальный индекс по телефону вернёт конфликт, и клиент ищется повторно.
// Имя и email существующего клиента не перезаписываются.
func (s *Service) FindOrCreate(ctx context.Context, req models.ResolveClientRequest) (*domain.Client, error) {
	client, err := s.FindByPhone(ctx, req.Phone)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, ErrClientNotFound) {
		return nil, err
	}

	client, err = s.Create(ctx, req)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, clientRepo.ErrDuplicatePhone) {
		return nil, err
	}

	s.logger.Warn("FindOrCreate: concurrent registration for phone=%s, re-reading", domain.NormalizePhone(req.Phone))

	client, err = s.FindByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, fmt.Errorf("%w: FindOrCreate - client vanished after duplicate phone", ErrInternal)
		}
		return nil, err
	}

	return client, nil
}

// Update редактирует имя и email клиента
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("Update: updating client id=%d", id)

	patch := domain.ClientPatch{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > domain.MaxClientNameLength {
			return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxClientNameLength)
		}
		patch.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !domain.ValidEmail(email) {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		patch.Email = &email
	}

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	client, err := s.clientRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("Update: client id=%d not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("Update: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClient(client), nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
