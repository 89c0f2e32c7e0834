package models

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// Request модели

// GetServiceBookingsRequest запрос на получение бронирований услуги за дату
type GetServiceBookingsRequest struct {
	ServiceSlug string `json:"serviceSlug"`
	Date        string `json:"date"` // "2025-10-15"
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func (r *GetServiceBookingsRequest) ParseDate() (time.Time, error) {
	return time.Parse(domain.DateFormat, r.Date)
}

// Response модели

// AttendeeResponse участник бронирования
type AttendeeResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64              `json:"id"`
	BookingReference string             `json:"bookingReference"`
	ServiceID        int64              `json:"serviceId"`
	BookingDate      string             `json:"bookingDate"` // "2025-10-15"
	StartTime        string             `json:"startTime"`   // "10:00"
	EndTime          string             `json:"endTime"`     // "10:30"
	Clients          []AttendeeResponse `json:"clients"`
	ClientCount      int                `json:"clientCount"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	clients := make([]AttendeeResponse, len(b.Attendees))
	for i, a := range b.Attendees {
		clients[i] = AttendeeResponse{
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
		}
	}

	return &BookingResponse{
		ID:               b.ID,
		BookingReference: b.Reference,
		ServiceID:        b.ServiceID,
		BookingDate:      b.BookingDate.Format(domain.DateFormat),
		StartTime:        b.StartTime.String(),
		EndTime:          b.EndTime.String(),
		Clients:          clients,
		ClientCount:      b.ClientCount(),
		CreatedAt:        b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
