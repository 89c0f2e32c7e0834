package domain

// Interval is a half-open time-of-day range [Start, End) in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// Overlaps uses half-open semantics: touching intervals do not overlap
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Window is the open-hours interval of a service on a date
type Window = Interval

// SlotKey identifies a slot of a service on a date by its exact bounds
type SlotKey struct {
	Start int
	End   int
}

// Slot represents a bookable time slot with remaining capacity
type Slot struct {
	Start     int
	End       int
	Available int
}

// Key returns the capacity key of the slot
func (s Slot) Key() SlotKey {
	return SlotKey{Start: s.Start, End: s.End}
}
