package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SlotBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidRequest     = "некорректные параметры бронирования"
	msgInvalidClient      = "некорректные данные участника"
	msgOutOfHorizon       = "дата бронирования вне допустимого периода"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgCapacityExceeded   = "в выбранном слоте недостаточно свободных мест"
	msgTryAgain           = "слот сейчас занят другим запросом, попробуйте еще раз"

	retryAfterSeconds = "1"
)

type Handler struct {
	useCase AdmissionUseCase
	logger  Logger
}

func NewHandler(useCase AdmissionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var admErr *createBooking.AdmissionError
		switch {
		case errors.As(err, &admErr):
			h.respondRejection(w, &req, admErr)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service=%s", req.ServiceSlug)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service=%s, date=%s, time=%s-%s, error=%v",
				req.ServiceSlug, req.BookingDate, req.StartTime, req.EndTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: reference=%s, service=%s, clients=%d",
		result.Reference, req.ServiceSlug, len(result.Attendees))
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondRejection(w http.ResponseWriter, req *CreateBookingRequest, admErr *createBooking.AdmissionError) {
	body := RejectionResponse{
		Kind:    string(admErr.Kind),
		Details: admErr.Message,
		Field:   admErr.Field,
	}

	var status int
	switch admErr.Kind {
	case createBooking.KindStructuralValidation:
		status, body.Error = http.StatusBadRequest, msgInvalidRequest
	case createBooking.KindAttendeeInvalid:
		status, body.Error = http.StatusBadRequest, msgInvalidClient
		idx := admErr.AttendeeIndex
		body.ClientIndex = &idx
	case createBooking.KindOutOfHorizon:
		status, body.Error = http.StatusUnprocessableEntity, msgOutOfHorizon
	case createBooking.KindSlotUnavailable:
		status, body.Error = http.StatusConflict, msgSlotNotAvailable
	case createBooking.KindCapacityExceeded:
		status, body.Error = http.StatusConflict, msgCapacityExceeded
		remaining := admErr.Remaining
		body.AvailableSpots = &remaining
	case createBooking.KindTransientConflict:
		status, body.Error = http.StatusServiceUnavailable, msgTryAgain
		w.Header().Set("Retry-After", retryAfterSeconds)
	default:
		h.logger.Error("POST /bookings - Unknown rejection kind %s: %s", admErr.Kind, admErr.Message)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Warn("POST /bookings - Booking rejected (%s): service=%s, date=%s, time=%s-%s, %s",
		admErr.Kind, req.ServiceSlug, req.BookingDate, req.StartTime, req.EndTime, admErr.Message)
	handlers.RespondJSON(w, status, body)
}
