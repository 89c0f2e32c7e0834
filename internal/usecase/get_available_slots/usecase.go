package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	serviceRepo  ServiceRepository
	availability Availability
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	availability Availability,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		availability: availability,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
// Дата вне горизонта бронирования (прошлое или дальше max_days_in_future) дает пустой список
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceSlug, req.Date)

	// 1. Валидация входных данных
	date, err := parseRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	svc, err := uc.serviceRepo.GetBySlug(ctx, req.ServiceSlug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service %s not found", req.ServiceSlug)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service %s: %v", req.ServiceSlug, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	resp := &Response{
		Service: ServiceSummary{
			ID:                  svc.ID,
			Slug:                svc.Slug,
			Name:                svc.Name,
			SlotDurationMinutes: svc.SlotDurationMinutes,
			CleanupBreakMinutes: svc.CleanupBreakMinutes,
			MaxClientsPerSlot:   svc.MaxClientsPerSlot,
		},
		Date:  date,
		Slots: []Slot{},
	}

	// 3. Горизонт бронирования
	if !svc.IsWithinHorizon(date, uc.timeProvider.Now()) {
		uc.logger.Info("GetAvailableSlots: date %s out of horizon for service=%s", req.Date, svc.Slug)
		return resp, nil
	}

	// 4. Расчет слотов
	slots, err := uc.availability.SlotsForDate(ctx, svc, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots service=%d: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	for _, s := range slots {
		slot, err := toSlot(s)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: invalid slot bounds %d-%d: %v", s.Start, s.End, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		resp.Slots = append(resp.Slots, slot)
	}

	uc.logger.Info("GetAvailableSlots: found %d available slots for service=%s on %s",
		len(resp.Slots), svc.Slug, date.Format(domain.DateFormat))

	return resp, nil
}

func toSlot(s domain.Slot) (Slot, error) {
	start, err := types.NewTimeStringFromMinutes(s.Start)
	if err != nil {
		return Slot{}, err
	}
	end, err := types.NewTimeStringFromMinutes(s.End)
	if err != nil {
		return Slot{}, err
	}
	return Slot{StartTime: start, EndTime: end, AvailableSpots: s.Available}, nil
}
