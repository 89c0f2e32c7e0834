package get_service_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SlotBooking/internal/service/bookings/models"
)

const (
	msgMissingDate     = "дата обязательна"
	msgInvalidParams   = "некорректные параметры запроса"
	msgServiceNotFound = "услуга не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{slug}/bookings
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /services/{slug}/bookings - Missing date: service=%s", slug)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.service.GetServiceBookings(r.Context(), &models.GetServiceBookingsRequest{
		ServiceSlug: slug,
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /services/{slug}/bookings - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrServiceNotFound):
			h.logger.Warn("GET /services/{slug}/bookings - Service not found: service=%s", slug)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /services/{slug}/bookings - Failed to get bookings: service=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{slug}/bookings - Bookings retrieved successfully: service=%s, date=%s, count=%d",
		slug, date, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
