package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SlotBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceSlug string          `json:"serviceSlug"`
	BookingDate string          `json:"bookingDate"` // "2026-03-09"
	StartTime   string          `json:"startTime"`   // "08:00"
	EndTime     string          `json:"endTime"`     // "08:10"
	Clients     []ClientRequest `json:"clients"`
}

// ClientRequest участник в запросе
type ClientRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64            `json:"id"`
	BookingReference string           `json:"bookingReference"`
	ServiceID        int64            `json:"serviceId"`
	ServiceSlug      string           `json:"serviceSlug"`
	BookingDate      string           `json:"bookingDate"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	Clients          []ClientResponse `json:"clients"`
	ClientCount      int              `json:"clientCount"`
	CreatedAt        string           `json:"createdAt"`
}

// ClientResponse участник в ответе
type ClientResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// RejectionResponse тело ответа при отказе в бронировании
type RejectionResponse struct {
	Error          string `json:"error"`
	Kind           string `json:"kind"`
	Details        string `json:"details"`
	Field          string `json:"field,omitempty"`
	ClientIndex    *int   `json:"clientIndex,omitempty"`
	AvailableSpots *int   `json:"availableSpots,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Разбор даты и времени выполняет use case, чтобы отказы были типизированы одинаково.
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	attendees := make([]createBooking.AttendeeInput, len(r.Clients))
	for i, c := range r.Clients {
		attendees[i] = createBooking.AttendeeInput{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
		}
	}

	return &createBooking.Request{
		ServiceSlug: r.ServiceSlug,
		BookingDate: r.BookingDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Attendees:   attendees,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	clients := make([]ClientResponse, len(resp.Attendees))
	for i, a := range resp.Attendees {
		clients[i] = ClientResponse{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
		}
	}

	return &BookingResponse{
		ID:               resp.ID,
		BookingReference: resp.Reference,
		ServiceID:        resp.ServiceID,
		ServiceSlug:      resp.ServiceSlug,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		Clients:          clients,
		ClientCount:      len(clients),
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
