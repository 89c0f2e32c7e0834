package create_booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability"
	"github.com/m04kA/SMC-SlotBooking/internal/service/sequence"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
	"github.com/m04kA/SMC-SlotBooking/pkg/ptr"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type metricsRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
	retries  int
}

func (m *metricsRecorder) IncAdmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *metricsRecorder) IncAdmissionRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
}

// 2026-03-09 понедельник
var (
	now    = time.Date(2026, 3, 9, 7, 30, 0, 0, time.UTC)
	monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store   *memStore
	metrics *metricsRecorder
	uc      *UseCase
	svc     *domain.Service
}

func newFixture(capacity int, opts Options) *fixture {
	store := newMemStore()
	svc := &domain.Service{
		ID:                  1,
		Slug:                "yoga",
		Name:                "Yoga",
		SlotDurationMinutes: 10,
		CleanupBreakMinutes: 5,
		MaxClientsPerSlot:   capacity,
		MaxDaysInFuture:     30,
		IsActive:            true,
	}
	store.addService(svc)
	store.addTemplate(svc.ID, int(time.Monday), "08:00", "12:00")
	store.breaks[svc.ID] = []domain.ServiceBreak{{StartTime: "10:00", EndTime: "10:30", Name: "Обед"}}

	avail := availability.NewService(store, store, logger.Nop())
	seq := sequence.NewService(store, "memory", nil, logger.Nop())
	m := &metricsRecorder{}

	uc := NewUseCase(store, avail, store, seq, store, m, logger.Nop(), opts).
		WithTimeProvider(fixedClock{now: now})

	return &fixture{store: store, metrics: m, uc: uc, svc: svc}
}

func request(start, end string, clients ...AttendeeInput) *Request {
	if len(clients) == 0 {
		clients = []AttendeeInput{{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}}
	}
	return &Request{
		ServiceSlug: "yoga",
		BookingDate: "2026-03-09",
		StartTime:   start,
		EndTime:     end,
		Attendees:   clients,
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind) *AdmissionError {
	t.Helper()
	var admErr *AdmissionError
	require.True(t, errors.As(err, &admErr), "expected AdmissionError, got %v", err)
	require.Equal(t, kind, admErr.Kind, admErr.Message)
	return admErr
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(3, DefaultOptions())

	resp, err := f.uc.Execute(context.Background(), request("08:15", "08:25",
		AttendeeInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		AttendeeInput{FirstName: " Alan ", LastName: "Turing", Email: "alan@example.com"},
	))

	require.NoError(t, err)
	assert.Equal(t, "BK-20260309-000001", resp.Reference)
	assert.Equal(t, "08:15", resp.StartTime.String())
	assert.Equal(t, "08:25", resp.EndTime.String())
	require.Len(t, resp.Attendees, 2)
	assert.Equal(t, "Alan", resp.Attendees[1].FirstName)

	committed := f.store.committed()
	require.Len(t, committed, 1)
	assert.Len(t, committed[0].Attendees, 2)
	assert.Equal(t, 1, f.metrics.outcomes[outcomeSuccess])
}

func TestUseCase_Execute_CapacityExceededReportsRemaining(t *testing.T) {
	t.Run("full slot reports zero", func(t *testing.T) {
		f := newFixture(3, DefaultOptions())
		f.store.seedBooking(1, monday, "08:00", "08:10", 3)

		_, err := f.uc.Execute(context.Background(), request("08:00", "08:10"))

		admErr := requireKind(t, err, KindCapacityExceeded)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, 0, admErr.Remaining)
	})

	t.Run("group larger than remaining", func(t *testing.T) {
		f := newFixture(3, DefaultOptions())
		f.store.seedBooking(1, monday, "08:00", "08:10", 2)

		_, err := f.uc.Execute(context.Background(), request("08:00", "08:10",
			AttendeeInput{FirstName: "A", LastName: "A", Email: "a@example.com"},
			AttendeeInput{FirstName: "B", LastName: "B", Email: "b@example.com"},
		))

		admErr := requireKind(t, err, KindCapacityExceeded)
		assert.Equal(t, 1, admErr.Remaining)
		assert.Len(t, f.store.committed(), 1)
	})
}

func TestUseCase_Execute_PastDateIsOutOfHorizon(t *testing.T) {
	f := newFixture(3, DefaultOptions())
	req := request("08:00", "08:10")
	req.BookingDate = "2026-03-08"

	_, err := f.uc.Execute(context.Background(), req)

	requireKind(t, err, KindOutOfHorizon)
	assert.ErrorIs(t, err, ErrOutOfHorizon)

	req.BookingDate = "2026-04-09"
	_, err = f.uc.Execute(context.Background(), req)
	requireKind(t, err, KindOutOfHorizon)
}

func TestUseCase_Execute_TodayOnNonUTCClock(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		// 2026-03-10 01:00 UTC, по местному времени ещё 9 марта
		{"west of UTC evening", time.Date(2026, 3, 9, 20, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))},
		// 2026-03-08 22:00 UTC, по местному времени уже 9 марта
		{"east of UTC early morning", time.Date(2026, 3, 9, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3, DefaultOptions())
			f.uc.WithTimeProvider(fixedClock{now: tt.now})

			resp, err := f.uc.Execute(context.Background(), request("08:00", "08:10"))

			require.NoError(t, err)
			assert.Equal(t, "BK-20260309-000001", resp.Reference)
		})
	}
}

func TestUseCase_Execute_StructuralValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   *Request
		field string
	}{
		{"bad date", &Request{ServiceSlug: "yoga", BookingDate: "09-03-2026", StartTime: "08:00", EndTime: "08:10", Attendees: []AttendeeInput{{}}}, "bookingDate"},
		{"bad start", &Request{ServiceSlug: "yoga", BookingDate: "2026-03-09", StartTime: "8:00", EndTime: "08:10", Attendees: []AttendeeInput{{}}}, "startTime"},
		{"bad end", &Request{ServiceSlug: "yoga", BookingDate: "2026-03-09", StartTime: "08:00", EndTime: "24:00", Attendees: []AttendeeInput{{}}}, "endTime"},
		{"end before start", &Request{ServiceSlug: "yoga", BookingDate: "2026-03-09", StartTime: "08:10", EndTime: "08:00", Attendees: []AttendeeInput{{}}}, "endTime"},
		{"no clients", &Request{ServiceSlug: "yoga", BookingDate: "2026-03-09", StartTime: "08:00", EndTime: "08:10"}, "clients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3, DefaultOptions())

			_, err := f.uc.Execute(context.Background(), tt.req)

			admErr := requireKind(t, err, KindStructuralValidation)
			assert.Equal(t, tt.field, admErr.Field)
		})
	}
}

func TestUseCase_Execute_SlotUnavailable(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		start, end string
	}{
		{"off grid", "2026-03-09", "08:05", "08:15"},
		{"wrong duration", "2026-03-09", "08:00", "08:20"},
		{"inside break", "2026-03-09", "10:00", "10:10"},
		{"outside window", "2026-03-09", "12:00", "12:10"},
		{"no template on tuesday", "2026-03-10", "08:00", "08:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3, DefaultOptions())
			req := request(tt.start, tt.end)
			req.BookingDate = tt.date

			_, err := f.uc.Execute(context.Background(), req)

			requireKind(t, err, KindSlotUnavailable)
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		})
	}

	t.Run("partial closure", func(t *testing.T) {
		f := newFixture(3, DefaultOptions())
		f.store.offs[1] = []domain.PlannedOff{{
			StartDate: monday,
			EndDate:   monday,
			StartTime: ptr.Ptr[types.TimeString]("08:00"),
			EndTime:   ptr.Ptr[types.TimeString]("09:00"),
		}}

		_, err := f.uc.Execute(context.Background(), request("08:30", "08:40"))

		requireKind(t, err, KindSlotUnavailable)
	})

	t.Run("full day closure", func(t *testing.T) {
		f := newFixture(3, DefaultOptions())
		f.store.offs[1] = []domain.PlannedOff{{StartDate: monday.AddDate(0, 0, -2), EndDate: monday}}

		_, err := f.uc.Execute(context.Background(), request("08:00", "08:10"))

		requireKind(t, err, KindSlotUnavailable)
	})
}

func TestUseCase_Execute_AttendeeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		bad   AttendeeInput
		field string
	}{
		{"empty first name", AttendeeInput{FirstName: "  ", LastName: "X", Email: "x@example.com"}, "firstName"},
		{"empty last name", AttendeeInput{FirstName: "X", Email: "x@example.com"}, "lastName"},
		{"malformed email", AttendeeInput{FirstName: "X", LastName: "Y", Email: "not-an-email"}, "email"},
		{"long name", AttendeeInput{FirstName: strings.Repeat("а", 101), LastName: "Y", Email: "x@example.com"}, "firstName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3, DefaultOptions())

			_, err := f.uc.Execute(context.Background(), request("08:00", "08:10",
				AttendeeInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
				tt.bad,
			))

			admErr := requireKind(t, err, KindAttendeeInvalid)
			assert.Equal(t, 1, admErr.AttendeeIndex)
			assert.Equal(t, tt.field, admErr.Field)
			assert.Empty(t, f.store.committed())
		})
	}
}

func TestUseCase_Execute_AttendeeInsertFailureRollsBack(t *testing.T) {
	f := newFixture(3, DefaultOptions())
	f.store.failAttendees = true

	_, err := f.uc.Execute(context.Background(), request("08:00", "08:10"))

	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.store.committed())

	// номер отката не переиспользуется
	f.store.failAttendees = false
	resp, err := f.uc.Execute(context.Background(), request("08:00", "08:10"))
	require.NoError(t, err)
	assert.Equal(t, "BK-20260309-000002", resp.Reference)
}

func TestUseCase_Execute_TransientConflictAfterRetries(t *testing.T) {
	f := newFixture(3, Options{MaxAttempts: 3, BaseDelay: time.Millisecond, AttemptTimeout: 20 * time.Millisecond})

	// слот занят чужой транзакцией на все время теста
	lock := f.store.slotLock(1, monday, "08:00", "08:10")
	lock <- struct{}{}
	defer func() { <-lock }()

	_, err := f.uc.Execute(context.Background(), request("08:00", "08:10"))

	requireKind(t, err, KindTransientConflict)
	assert.ErrorIs(t, err, ErrTransientConflict)
	assert.Equal(t, 2, f.metrics.retries)
	assert.Empty(t, f.store.committed())
}

func TestUseCase_Execute_UnknownService(t *testing.T) {
	f := newFixture(3, DefaultOptions())
	req := request("08:00", "08:10")
	req.ServiceSlug = "pilates"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_ConcurrentAdmissionsNeverOvershoot(t *testing.T) {
	const (
		capacity = 5
		workers  = 40
	)
	f := newFixture(capacity, DefaultOptions())

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []string
		rejected  int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			resp, err := f.uc.Execute(context.Background(), request("09:00", "09:10"))
			mu.Lock()
			defer mu.Unlock()
			var admErr *AdmissionError
			switch {
			case err == nil:
				successes = append(successes, resp.Reference)
			case errors.As(err, &admErr) && admErr.Kind == KindCapacityExceeded:
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Len(t, successes, capacity)
	assert.Equal(t, workers-capacity, rejected)

	unique := make(map[string]struct{}, len(successes))
	for _, ref := range successes {
		unique[ref] = struct{}{}
	}
	assert.Len(t, unique, capacity)

	total := 0
	for _, b := range f.store.committed() {
		total += len(b.Attendees)
	}
	assert.Equal(t, capacity, total)
}
