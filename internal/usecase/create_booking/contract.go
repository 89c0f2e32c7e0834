package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Service, error)
}

// Availability интерфейс расчета сетки слотов
type Availability interface {
	// GridForDate возвращает слоты даты, включая полностью занятые
	GridForDate(ctx context.Context, svc *domain.Service, date time.Time) ([]domain.Slot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// LockSlot блокирует ключ (service, date, start, end) до конца транзакции
	LockSlot(ctx context.Context, serviceID int64, date time.Time, start, end types.TimeString) error
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateAttendees(ctx context.Context, bookingID int64, attendees []domain.Attendee) ([]domain.Attendee, error)
}

// SequenceGenerator генератор номеров бронирований
type SequenceGenerator interface {
	Generate(ctx context.Context, today time.Time) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики допуска бронирований
type Metrics interface {
	IncAdmission(outcome string)
	IncAdmissionRetry()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
