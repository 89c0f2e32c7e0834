package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
)

// Service вычисляет доступные слоты услуги на дату
type Service struct {
	scheduleRepo ScheduleRepository
	capacityRepo CapacityRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	scheduleRepo ScheduleRepository,
	capacityRepo CapacityRepository,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		capacityRepo: capacityRepo,
		logger:       logger,
	}
}

// SlotsForDate возвращает упорядоченный список слотов со свободными местами
// Пустой список: нет шаблона на день недели или дата полностью закрыта
func (s *Service) SlotsForDate(ctx context.Context, svc *domain.Service, date time.Time) ([]domain.Slot, error) {
	return s.slots(ctx, svc, date, false)
}

// GridForDate как SlotsForDate, но включает полностью занятые слоты с Available = 0
// Внутри транзакции читает данные той же транзакции
func (s *Service) GridForDate(ctx context.Context, svc *domain.Service, date time.Time) ([]domain.Slot, error) {
	return s.slots(ctx, svc, date, true)
}

func (s *Service) slots(ctx context.Context, svc *domain.Service, date time.Time, includeFull bool) ([]domain.Slot, error) {
	if err := svc.Validate(); err != nil {
		s.logger.Error("SlotsForDate: service=%d has invalid configuration: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	// 1. Окно работы на день недели
	tpl, err := s.scheduleRepo.GetScheduleTemplate(ctx, svc.ID, int(date.Weekday()))
	if err != nil {
		if errors.Is(err, serviceRepo.ErrTemplateNotFound) {
			return []domain.Slot{}, nil
		}
		s.logger.Error("SlotsForDate: failed to get template service=%d: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: SlotsForDate - get template: %w", ErrInternal, err)
	}

	window := ResolveWindow(tpl)
	if window == nil {
		return []domain.Slot{}, nil
	}
	if window.End <= window.Start {
		s.logger.Warn("SlotsForDate: empty window service=%d day=%d", svc.ID, tpl.DayOfWeek)
		return nil, fmt.Errorf("%w: window %s-%s", ErrInvalidSchedule, tpl.StartTime, tpl.EndTime)
	}

	// 2. Полное закрытие на дату
	offs, err := s.scheduleRepo.ListPlannedOffs(ctx, svc.ID, date)
	if err != nil {
		s.logger.Error("SlotsForDate: failed to list planned offs service=%d: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: SlotsForDate - list planned offs: %w", ErrInternal, err)
	}
	if IsFullyClosed(offs, date) {
		return []domain.Slot{}, nil
	}

	breaks, err := s.scheduleRepo.ListBreaks(ctx, svc.ID)
	if err != nil {
		s.logger.Error("SlotsForDate: failed to list breaks service=%d: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: SlotsForDate - list breaks: %w", ErrInternal, err)
	}

	// 3. Занятость одним запросом на всю дату
	booked, err := s.capacityRepo.CountAttendeesBySlot(ctx, svc.ID, date)
	if err != nil {
		s.logger.Error("SlotsForDate: failed to count attendees service=%d: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: SlotsForDate - count attendees: %w", ErrInternal, err)
	}

	return GenerateSlots(GenerateParams{
		Window:          *window,
		SlotDuration:    svc.SlotDurationMinutes,
		CleanupBreak:    svc.CleanupBreakMinutes,
		Capacity:        svc.MaxClientsPerSlot,
		Breaks:          applicableBreaks(breaks, date),
		PartialClosures: partialClosures(offs, date),
		Booked:          booked,
		IncludeFull:     includeFull,
	}), nil
}
