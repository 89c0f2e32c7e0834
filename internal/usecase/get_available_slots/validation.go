package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// parseRequest валидирует запрос и разбирает дату
func parseRequest(req *Request) (time.Time, error) {
	if strings.TrimSpace(req.ServiceSlug) == "" {
		return time.Time{}, fmt.Errorf("%w: service slug is required", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	return date, nil
}
