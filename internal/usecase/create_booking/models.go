package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Request модель запроса на создание бронирования
// Дата и время приходят строками, разбор выполняется в usecase
type Request struct {
	ServiceSlug string          // slug услуги
	BookingDate string          // YYYY-MM-DD
	StartTime   string          // HH:MM
	EndTime     string          // HH:MM
	Attendees   []AttendeeInput // участники, каждый занимает одно место
}

// AttendeeInput участник в запросе
type AttendeeInput struct {
	FirstName string
	LastName  string
	Email     string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	Reference   string // BK-YYYYMMDD-NNNNNN
	ServiceID   int64
	ServiceSlug string
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Attendees   []Attendee
	CreatedAt   time.Time
}

// Attendee участник созданного бронирования
type Attendee struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// Options параметры повторов и таймаутов допуска
type Options struct {
	MaxAttempts    int           // всего попыток, включая первую
	BaseDelay      time.Duration // задержка перед первым повтором
	AttemptTimeout time.Duration // ограничение одной попытки
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		MaxAttempts:    5,
		BaseDelay:      20 * time.Millisecond,
		AttemptTimeout: 5 * time.Second,
	}
}
