package catalog

import (
	"context"
	"errors"
	"fmt"

	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SlotBooking/internal/service/catalog/models"
)

// Service каталог активных услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// ListActive возвращает все активные услуги
func (s *Service) ListActive(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListActive: found %d active services", len(services))
	return models.FromDomainServiceList(services), nil
}

// GetBySlug возвращает активную услугу по slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.ServiceResponse, error) {
	svc, err := s.serviceRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetBySlug: service %s not found", slug)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetBySlug: repository error for service %s: %v", slug, err)
		return nil, fmt.Errorf("%w: GetBySlug - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(svc), nil
}
