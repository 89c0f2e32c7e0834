package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Booking represents an admitted booking of a slot
type Booking struct {
	ID          int64
	ServiceID   int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Reference   string
	Attendees   []Attendee
	CreatedAt   time.Time
}

// ClientCount returns the number of capacity units consumed by the booking
func (b *Booking) ClientCount() int {
	return len(b.Attendees)
}

// Attendee is one person attending a booking
type Attendee struct {
	ID        int64
	BookingID int64
	FirstName string
	LastName  string
	Email     string
}
