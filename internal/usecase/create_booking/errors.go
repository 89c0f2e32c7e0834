package create_booking

import (
	"errors"
	"fmt"
)

// ErrorKind вид отказа в бронировании
type ErrorKind string

const (
	KindStructuralValidation ErrorKind = "structural_validation"
	KindOutOfHorizon         ErrorKind = "out_of_horizon"
	KindSlotUnavailable      ErrorKind = "slot_unavailable"
	KindCapacityExceeded     ErrorKind = "capacity_exceeded"
	KindAttendeeInvalid      ErrorKind = "attendee_invalid"
	KindTransientConflict    ErrorKind = "transient_conflict"
)

var (
	// ErrStructuralValidation дата или время не разбираются, нет участников
	ErrStructuralValidation = errors.New("create_booking: structural validation failed")

	// ErrOutOfHorizon дата в прошлом или дальше max_days_in_future
	ErrOutOfHorizon = errors.New("create_booking: date is out of booking horizon")

	// ErrSlotUnavailable запрошенные границы не совпадают ни с одним открытым слотом
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrCapacityExceeded в слоте не хватает мест
	ErrCapacityExceeded = errors.New("create_booking: slot capacity exceeded")

	// ErrAttendeeInvalid некорректные данные участника
	ErrAttendeeInvalid = errors.New("create_booking: invalid attendee")

	// ErrTransientConflict конфликт блокировок не разрешился за отведенные попытки
	ErrTransientConflict = errors.New("create_booking: transient conflict, try again")

	// ErrServiceNotFound возвращается, когда активная услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

var kindErrors = map[ErrorKind]error{
	KindStructuralValidation: ErrStructuralValidation,
	KindOutOfHorizon:         ErrOutOfHorizon,
	KindSlotUnavailable:      ErrSlotUnavailable,
	KindCapacityExceeded:     ErrCapacityExceeded,
	KindAttendeeInvalid:      ErrAttendeeInvalid,
	KindTransientConflict:    ErrTransientConflict,
}

// AdmissionError отказ в бронировании с машиночитаемыми полями
// errors.Is(err, ErrCapacityExceeded) и т.п. работает через Unwrap
type AdmissionError struct {
	Kind    ErrorKind
	Message string
	// Remaining свободные места в слоте (для KindCapacityExceeded)
	Remaining int
	// AttendeeIndex индекс участника (для KindAttendeeInvalid), иначе -1
	AttendeeIndex int
	// Field поле запроса или участника, вызвавшее отказ
	Field string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("create_booking: %s: %s", e.Kind, e.Message)
}

func (e *AdmissionError) Unwrap() error {
	return kindErrors[e.Kind]
}

func newAdmissionError(kind ErrorKind, field, format string, args ...interface{}) *AdmissionError {
	return &AdmissionError{
		Kind:          kind,
		Message:       fmt.Sprintf(format, args...),
		AttendeeIndex: -1,
		Field:         field,
	}
}

func capacityExceeded(remaining, requested int) *AdmissionError {
	err := newAdmissionError(KindCapacityExceeded, "clients",
		"only %d spots remaining, %d requested", remaining, requested)
	err.Remaining = remaining
	return err
}

func attendeeInvalid(index int, field, format string, args ...interface{}) *AdmissionError {
	err := newAdmissionError(KindAttendeeInvalid, field, format, args...)
	err.AttendeeIndex = index
	return err
}
