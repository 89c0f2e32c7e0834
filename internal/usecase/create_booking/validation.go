package create_booking

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

var validate = validator.New()

// parsedRequest разобранный запрос
type parsedRequest struct {
	date      time.Time
	start     types.TimeString
	end       types.TimeString
	attendees []domain.Attendee
}

// parseRequest структурная проверка: дата, время, наличие участников
func parseRequest(req *Request) (*parsedRequest, *AdmissionError) {
	date, err := time.Parse(domain.DateFormat, req.BookingDate)
	if err != nil {
		return nil, newAdmissionError(KindStructuralValidation, "bookingDate",
			"invalid booking date %q, expected YYYY-MM-DD", req.BookingDate)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, newAdmissionError(KindStructuralValidation, "startTime",
			"invalid start time %q, expected HH:MM", req.StartTime)
	}

	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, newAdmissionError(KindStructuralValidation, "endTime",
			"invalid end time %q, expected HH:MM", req.EndTime)
	}

	if !start.IsBefore(end) {
		return nil, newAdmissionError(KindStructuralValidation, "endTime",
			"end time %s must be after start time %s", end, start)
	}

	if len(req.Attendees) == 0 {
		return nil, newAdmissionError(KindStructuralValidation, "clients", "at least one client is required")
	}

	attendees := make([]domain.Attendee, len(req.Attendees))
	for i, a := range req.Attendees {
		attendees[i] = domain.Attendee{
			FirstName: strings.TrimSpace(a.FirstName),
			LastName:  strings.TrimSpace(a.LastName),
			Email:     strings.TrimSpace(a.Email),
		}
	}

	return &parsedRequest{date: date, start: start, end: end, attendees: attendees}, nil
}

// validateAttendees проверяет имена и email всех участников, возвращает первую ошибку
func validateAttendees(attendees []domain.Attendee) *AdmissionError {
	for i, a := range attendees {
		if a.FirstName == "" {
			return attendeeInvalid(i, "firstName", "client %d: first name is required", i+1)
		}
		if utf8.RuneCountInString(a.FirstName) > domain.MaxNameLength {
			return attendeeInvalid(i, "firstName", "client %d: first name exceeds %d characters", i+1, domain.MaxNameLength)
		}
		if a.LastName == "" {
			return attendeeInvalid(i, "lastName", "client %d: last name is required", i+1)
		}
		if utf8.RuneCountInString(a.LastName) > domain.MaxNameLength {
			return attendeeInvalid(i, "lastName", "client %d: last name exceeds %d characters", i+1, domain.MaxNameLength)
		}
		if a.Email == "" {
			return attendeeInvalid(i, "email", "client %d: email is required", i+1)
		}
		if len(a.Email) > domain.MaxEmailLength {
			return attendeeInvalid(i, "email", "client %d: email exceeds %d characters", i+1, domain.MaxEmailLength)
		}
		if err := validate.Var(a.Email, "email"); err != nil {
			return attendeeInvalid(i, "email", "client %d: invalid email %q", i+1, a.Email)
		}
	}
	return nil
}
