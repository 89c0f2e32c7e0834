package domain

// Time format constants
const (
	TimeFormat          = "15:04"      // HH:MM
	DateFormat          = "2006-01-02" // YYYY-MM-DD
	ReferenceDateFormat = "20060102"   // YYYYMMDD
)

// Booking reference format
const (
	ReferencePrefix = "BK"
	ReferenceDigits = 6
)

// Attendee limits
const (
	MaxNameLength  = 100
	MaxEmailLength = 255
)

// Service configuration bounds
const (
	MinSlotDurationMinutes = 1
	MaxSlotDurationMinutes = 1440
	MinClientsPerSlot      = 1
)
