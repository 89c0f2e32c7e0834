package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// maxSequence наибольший номер, помещающийся в ReferenceDigits знаков
const maxSequence = 999999

// Service выдает номера бронирований вида BK-YYYYMMDD-NNNNNN
type Service struct {
	counter Counter
	backend string
	metrics Metrics
	logger  Logger
}

// NewService создает генератор номеров. backend используется только в метриках и логах
func NewService(counter Counter, backend string, metrics Metrics, logger Logger) *Service {
	return &Service{
		counter: counter,
		backend: backend,
		metrics: metrics,
		logger:  logger,
	}
}

// Generate выдает следующий номер на дату today
// Номера одной даты не повторяются, со сменой даты нумерация начинается с 1
func (s *Service) Generate(ctx context.Context, today time.Time) (string, error) {
	n, err := s.counter.Next(ctx, domain.DateOnly(today))
	if err != nil {
		return "", fmt.Errorf("%w: Generate - next (%s): %w", ErrInternal, s.backend, err)
	}
	if n <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSequence, n)
	}
	if n > maxSequence {
		s.logger.Error("Generate: sequence overflow date=%s n=%d", today.Format(domain.DateFormat), n)
		return "", fmt.Errorf("%w: %d", ErrSequenceOverflow, n)
	}

	if s.metrics != nil {
		s.metrics.IncReferenceMinted(s.backend)
	}

	return FormatReference(today, n), nil
}

// FormatReference BK-<YYYYMMDD>-<n, 6 знаков с ведущими нулями>
func FormatReference(date time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%0*d", domain.ReferencePrefix, date.Format(domain.ReferenceDateFormat), domain.ReferenceDigits, n)
}
