package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability"
	"github.com/m04kA/SMC-SlotBooking/pkg/retry"
	"github.com/m04kA/SMC-SlotBooking/pkg/txmanager"
)

const outcomeSuccess = "success"

// UseCase use case для создания бронирования (допуск в слот)
type UseCase struct {
	serviceRepo  ServiceRepository
	availability Availability
	bookingRepo  BookingRepository
	sequence     SequenceGenerator
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	opts         Options
	isTransient  func(error) bool
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	availability Availability,
	bookingRepo BookingRepository,
	sequence SequenceGenerator,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	opts Options,
) *UseCase {
	defaults := DefaultOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.BaseDelay < 0 {
		opts.BaseDelay = defaults.BaseDelay
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = defaults.AttemptTimeout
	}

	return &UseCase{
		serviceRepo:  serviceRepo,
		availability: availability,
		bookingRepo:  bookingRepo,
		sequence:     sequence,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		opts:         opts,
		isTransient:  txmanager.IsTransient,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
//
// Проверки идут по порядку и останавливаются на первой ошибке:
// структура запроса, горизонт, принадлежность сетке, вместимость, участники.
// Проверки слота и вставка выполняются в одной транзакции под блокировкой ключа слота,
// поэтому конкурирующие запросы в один слот не превышают вместимость.
// Временные конфликты повторяются с экспоненциальной задержкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%s, date=%s, time=%s-%s, clients=%d",
		req.ServiceSlug, req.BookingDate, req.StartTime, req.EndTime, len(req.Attendees))

	// 1. Структурная проверка
	parsed, admErr := parseRequest(req)
	if admErr != nil {
		return nil, uc.reject(admErr)
	}

	// 2. Получаем услугу
	svc, err := uc.serviceRepo.GetBySlug(ctx, req.ServiceSlug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service %s not found", req.ServiceSlug)
			uc.observe("service_not_found")
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service %s: %v", req.ServiceSlug, err)
		uc.observe("error")
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Горизонт бронирования
	now := uc.timeProvider.Now()
	if !svc.IsWithinHorizon(parsed.date, now) {
		return nil, uc.reject(newAdmissionError(KindOutOfHorizon, "bookingDate",
			"booking date %s must be between today and %d days ahead",
			parsed.date.Format(domain.DateFormat), svc.MaxDaysInFuture))
	}

	// 4. Допуск в транзакции с повторами
	var result *domain.Booking
	err = retry.Do(ctx,
		func(ctx context.Context) error {
			booking, err := uc.attempt(ctx, svc, parsed, now)
			if err != nil {
				return err
			}
			result = booking
			return nil
		},
		retry.WithMaxAttempts(uc.opts.MaxAttempts),
		retry.WithBaseDelay(uc.opts.BaseDelay),
		retry.WithRetryable(uc.isTransient),
		retry.WithOnRetry(func(attempt int, err error) {
			uc.logger.Warn("CreateBooking: transient conflict on %s %s-%s, retry %d: %v",
				parsed.date.Format(domain.DateFormat), parsed.start, parsed.end, attempt, err)
			if uc.metrics != nil {
				uc.metrics.IncAdmissionRetry()
			}
		}),
	)
	if err != nil {
		var admErr *AdmissionError
		switch {
		case errors.As(err, &admErr):
			return nil, uc.reject(admErr)
		case uc.isTransient(err):
			return nil, uc.reject(newAdmissionError(KindTransientConflict, "",
				"slot %s-%s is busy, try again", parsed.start, parsed.end))
		default:
			uc.logger.Error("CreateBooking: failed to admit booking service=%d: %v", svc.ID, err)
			uc.observe("error")
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: booking %s created, service=%s, slot=%s %s-%s, clients=%d",
		result.Reference, svc.Slug, result.BookingDate.Format(domain.DateFormat),
		result.StartTime, result.EndTime, result.ClientCount())
	uc.observe(outcomeSuccess)

	return toResponse(result, svc), nil
}

// attempt одна попытка допуска, ограниченная AttemptTimeout
func (uc *UseCase) attempt(ctx context.Context, svc *domain.Service, req *parsedRequest, now time.Time) (*domain.Booking, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, uc.opts.AttemptTimeout)
	defer cancel()

	var result *domain.Booking
	err := uc.txManager.Do(attemptCtx, func(txCtx context.Context) error {
		booking, err := uc.admit(txCtx, svc, req, now)
		if err != nil {
			return err
		}
		result = booking
		return nil
	})

	// таймаут попытки при живом родительском контексте считается временным конфликтом
	var admErr *AdmissionError
	if err != nil && !errors.As(err, &admErr) &&
		errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: attempt timed out after %s: %w", txmanager.ErrTransient, uc.opts.AttemptTimeout, err)
	}

	return result, err
}

// admit проверки слота и запись бронирования внутри транзакции
func (uc *UseCase) admit(ctx context.Context, svc *domain.Service, req *parsedRequest, now time.Time) (*domain.Booking, error) {
	// Блокировка ключа слота до конца транзакции, затем свежий пересчет
	if err := uc.bookingRepo.LockSlot(ctx, svc.ID, req.date, req.start, req.end); err != nil {
		return nil, fmt.Errorf("%w: lock slot: %w", ErrInternal, err)
	}

	grid, err := uc.availability.GridForDate(ctx, svc, req.date)
	if err != nil {
		return nil, fmt.Errorf("%w: compute slots: %w", ErrInternal, err)
	}

	// Принадлежность сетке: окно, перерывы, закрытия и выравнивание одной проверкой
	slot, ok := availability.FindSlot(grid, req.start.Minutes(), req.end.Minutes())
	if !ok {
		return nil, newAdmissionError(KindSlotUnavailable, "startTime",
			"slot %s-%s is not available on %s", req.start, req.end, req.date.Format(domain.DateFormat))
	}

	if slot.Available < len(req.attendees) {
		return nil, capacityExceeded(slot.Available, len(req.attendees))
	}

	if admErr := validateAttendees(req.attendees); admErr != nil {
		return nil, admErr
	}

	// Номер после блокировки слота: порядок блокировок всегда слот, затем счетчик
	reference, err := uc.sequence.Generate(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%w: generate reference: %w", ErrInternal, err)
	}

	booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		ServiceID:   svc.ID,
		BookingDate: req.date,
		StartTime:   req.start,
		EndTime:     req.end,
		Reference:   reference,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create booking: %w", ErrInternal, err)
	}

	attendees, err := uc.bookingRepo.CreateAttendees(ctx, booking.ID, req.attendees)
	if err != nil {
		return nil, fmt.Errorf("%w: create attendees: %w", ErrInternal, err)
	}
	booking.Attendees = attendees

	return booking, nil
}

func (uc *UseCase) reject(err *AdmissionError) error {
	uc.logger.Warn("CreateBooking: rejected (%s): %s", err.Kind, err.Message)
	uc.observe(string(err.Kind))
	return err
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncAdmission(outcome)
	}
}

func toResponse(b *domain.Booking, svc *domain.Service) *Response {
	attendees := make([]Attendee, len(b.Attendees))
	for i, a := range b.Attendees {
		attendees[i] = Attendee{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
		}
	}

	return &Response{
		ID:          b.ID,
		Reference:   b.Reference,
		ServiceID:   svc.ID,
		ServiceSlug: svc.Slug,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Attendees:   attendees,
		CreatedAt:   b.CreatedAt,
	}
}
