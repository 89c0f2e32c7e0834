package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// ScheduleRepository интерфейс чтения расписания услуги
type ScheduleRepository interface {
	GetScheduleTemplate(ctx context.Context, serviceID int64, dayOfWeek int) (*domain.ScheduleTemplate, error)
	ListBreaks(ctx context.Context, serviceID int64) ([]domain.ServiceBreak, error)
	ListPlannedOffs(ctx context.Context, serviceID int64, date time.Time) ([]domain.PlannedOff, error)
}

// CapacityRepository интерфейс подсчета занятых мест
type CapacityRepository interface {
	// CountAttendeesBySlot одним запросом возвращает количество участников по точному ключу (start, end)
	CountAttendeesBySlot(ctx context.Context, serviceID int64, date time.Time) (map[domain.SlotKey]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
