package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Service represents a bookable service with its slot configuration
type Service struct {
	ID                  int64
	Slug                string
	Name                string
	Description         *string
	SlotDurationMinutes int
	CleanupBreakMinutes int // buffer after each slot
	MaxClientsPerSlot   int
	MaxDaysInFuture     int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ErrInvalidService is returned by Validate for a service the slot grid cannot be built from
var ErrInvalidService = errors.New("domain: invalid service configuration")

// Validate checks the slot configuration bounds
func (s *Service) Validate() error {
	switch {
	case s.SlotDurationMinutes < MinSlotDurationMinutes || s.SlotDurationMinutes > MaxSlotDurationMinutes:
		return fmt.Errorf("%w: slot duration %d", ErrInvalidService, s.SlotDurationMinutes)
	case s.CleanupBreakMinutes < 0:
		return fmt.Errorf("%w: cleanup break %d", ErrInvalidService, s.CleanupBreakMinutes)
	case s.MaxClientsPerSlot < MinClientsPerSlot:
		return fmt.Errorf("%w: max clients per slot %d", ErrInvalidService, s.MaxClientsPerSlot)
	case s.MaxDaysInFuture < 0:
		return fmt.Errorf("%w: max days in future %d", ErrInvalidService, s.MaxDaysInFuture)
	}
	return nil
}

// ScheduleTemplate is the open-hours window of a service for one day of week
type ScheduleTemplate struct {
	ID        int64
	ServiceID int64
	DayOfWeek int // 0 = Sunday ... 6 = Saturday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ServiceBreak is a recurring closed interval inside open hours
type ServiceBreak struct {
	ID        int64
	ServiceID int64
	DayOfWeek *int // nil = every day
	StartTime types.TimeString
	EndTime   types.TimeString
	Name      string
}

// AppliesTo returns true if the break is in effect on the given date
func (b *ServiceBreak) AppliesTo(date time.Time) bool {
	return b.DayOfWeek == nil || *b.DayOfWeek == int(date.Weekday())
}

// PlannedOff is an ad-hoc closure over a date range
// Both times nil means the whole days are closed, otherwise the time window is closed on every covered date
type PlannedOff struct {
	ID        int64
	ServiceID int64
	StartDate time.Time
	EndDate   time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Reason    *string
}

// IsFullDay returns true if the planned-off closes entire days
func (p *PlannedOff) IsFullDay() bool {
	return p.StartTime == nil && p.EndTime == nil
}

// Covers returns true if date lies within [StartDate, EndDate]
func (p *PlannedOff) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// DateOnly truncates t to midnight keeping its location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWithinHorizon returns true if date is between today and today + MaxDaysInFuture inclusive.
// today is reduced to its calendar date in its own zone and placed in the zone of date,
// so a UTC-parsed request date compares against the local calendar day.
func (s *Service) IsWithinHorizon(date, today time.Time) bool {
	d := DateOnly(date)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, date.Location())
	if d.Before(t) {
		return false
	}
	return !d.After(t.AddDate(0, 0, s.MaxDaysInFuture))
}
