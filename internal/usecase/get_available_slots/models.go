package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceSlug string // slug услуги
	Date        string // дата в формате YYYY-MM-DD
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Service ServiceSummary
	Date    time.Time
	Slots   []Slot // упорядочены по времени начала, только со свободными местами
}

// ServiceSummary краткое описание услуги
type ServiceSummary struct {
	ID                  int64
	Slug                string
	Name                string
	SlotDurationMinutes int
	CleanupBreakMinutes int
	MaxClientsPerSlot   int
}

// Slot модель временного слота
type Slot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	AvailableSpots int
}
