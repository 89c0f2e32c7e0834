package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SlotBooking/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// GetByReference получает бронирование с участниками по номеру BK-YYYYMMDD-NNNNNN
func (s *Service) GetByReference(ctx context.Context, reference string) (*models.BookingResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByReference: booking %s not found", reference)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByReference: repository error for booking %s: %v", reference, err)
		return nil, fmt.Errorf("%w: GetByReference - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetServiceBookings получает бронирования услуги на дату (для оператора)
func (s *Service) GetServiceBookings(ctx context.Context, req *models.GetServiceBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetServiceBookings: service=%s, date=%s", req.ServiceSlug, req.Date)

	date, err := req.ParseDate()
	if err != nil {
		s.logger.Warn("GetServiceBookings: invalid date %q: %v", req.Date, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	svc, err := s.serviceRepo.GetBySlug(ctx, req.ServiceSlug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetServiceBookings: service %s not found", req.ServiceSlug)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetServiceBookings: failed to get service %s: %v", req.ServiceSlug, err)
		return nil, fmt.Errorf("%w: GetServiceBookings - get service: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListByServiceAndDate(ctx, svc.ID, date)
	if err != nil {
		s.logger.Error("GetServiceBookings: repository error for service=%d: %v", svc.ID, err)
		return nil, fmt.Errorf("%w: GetServiceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetServiceBookings: found %d bookings for service=%s", len(bookings), req.ServiceSlug)
	return models.FromDomainBookingList(bookings), nil
}
