package models

import "github.com/m04kA/SMC-SlotBooking/internal/domain"

// ServiceResponse публичное описание услуги
type ServiceResponse struct {
	ID                  int64   `json:"id"`
	Slug                string  `json:"slug"`
	Name                string  `json:"name"`
	Description         *string `json:"description,omitempty"`
	SlotDurationMinutes int     `json:"slotDurationMinutes"`
	CleanupBreakMinutes int     `json:"cleanupBreakMinutes"`
	MaxClientsPerSlot   int     `json:"maxClientsPerSlot"`
	MaxDaysInFuture     int     `json:"maxDaysInFuture"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:                  s.ID,
		Slug:                s.Slug,
		Name:                s.Name,
		Description:         s.Description,
		SlotDurationMinutes: s.SlotDurationMinutes,
		CleanupBreakMinutes: s.CleanupBreakMinutes,
		MaxClientsPerSlot:   s.MaxClientsPerSlot,
		MaxDaysInFuture:     s.MaxDaysInFuture,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		if r := FromDomainService(s); r != nil {
			resp.Services = append(resp.Services, *r)
		}
	}
	return resp
}
