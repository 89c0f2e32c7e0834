package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SlotBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// memStore хранилище в памяти с тем же контрактом, что у postgres:
// LockSlot держит блокировку ключа до конца транзакции, записи видны только после commit
type memStore struct {
	mu            sync.Mutex
	services      map[string]*domain.Service
	templates     map[int64]map[int]*domain.ScheduleTemplate
	breaks        map[int64][]domain.ServiceBreak
	offs          map[int64][]domain.PlannedOff
	bookings      []*domain.Booking
	nextID        int64
	sequences     map[string]int64
	slotLocks     sync.Map
	failAttendees bool
}

type memTx struct {
	locks   []chan struct{}
	pending []*domain.Booking
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		services:  make(map[string]*domain.Service),
		templates: make(map[int64]map[int]*domain.ScheduleTemplate),
		breaks:    make(map[int64][]domain.ServiceBreak),
		offs:      make(map[int64][]domain.PlannedOff),
		sequences: make(map[string]int64),
	}
}

func (s *memStore) addService(svc *domain.Service) {
	s.services[svc.Slug] = svc
	s.templates[svc.ID] = make(map[int]*domain.ScheduleTemplate)
}

func (s *memStore) addTemplate(serviceID int64, dow int, start, end types.TimeString) {
	s.templates[serviceID][dow] = &domain.ScheduleTemplate{ServiceID: serviceID, DayOfWeek: dow, StartTime: start, EndTime: end}
}

// seedBooking добавляет уже подтвержденное бронирование с clients участниками
func (s *memStore) seedBooking(serviceID int64, date time.Time, start, end types.TimeString, clients int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b := &domain.Booking{ID: s.nextID, ServiceID: serviceID, BookingDate: date, StartTime: start, EndTime: end}
	for i := 0; i < clients; i++ {
		b.Attendees = append(b.Attendees, domain.Attendee{FirstName: "Seed", LastName: "Client", Email: "seed@example.com"})
	}
	s.bookings = append(s.bookings, b)
}

func (s *memStore) committed() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// TransactionManager

func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}

	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))
	if err == nil {
		s.mu.Lock()
		s.bookings = append(s.bookings, tx.pending...)
		s.mu.Unlock()
	}
	for _, l := range tx.locks {
		<-l
	}
	return err
}

// ServiceRepository

func (s *memStore) GetBySlug(_ context.Context, slug string) (*domain.Service, error) {
	svc, ok := s.services[slug]
	if !ok || !svc.IsActive {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

// availability.ScheduleRepository

func (s *memStore) GetScheduleTemplate(_ context.Context, serviceID int64, dayOfWeek int) (*domain.ScheduleTemplate, error) {
	tpl, ok := s.templates[serviceID][dayOfWeek]
	if !ok {
		return nil, serviceRepo.ErrTemplateNotFound
	}
	return tpl, nil
}

func (s *memStore) ListBreaks(_ context.Context, serviceID int64) ([]domain.ServiceBreak, error) {
	return s.breaks[serviceID], nil
}

func (s *memStore) ListPlannedOffs(_ context.Context, serviceID int64, date time.Time) ([]domain.PlannedOff, error) {
	result := make([]domain.PlannedOff, 0)
	for _, off := range s.offs[serviceID] {
		if off.Covers(date) {
			result = append(result, off)
		}
	}
	return result, nil
}

// availability.CapacityRepository

func (s *memStore) CountAttendeesBySlot(_ context.Context, serviceID int64, date time.Time) (map[domain.SlotKey]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[domain.SlotKey]int)
	for _, b := range s.bookings {
		if b.ServiceID != serviceID || !domain.DateOnly(b.BookingDate).Equal(domain.DateOnly(date)) {
			continue
		}
		counts[domain.SlotKey{Start: b.StartTime.Minutes(), End: b.EndTime.Minutes()}] += len(b.Attendees)
	}
	return counts, nil
}

// BookingRepository

func (s *memStore) LockSlot(ctx context.Context, serviceID int64, date time.Time, start, end types.TimeString) error {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return errors.New("memstore: lock outside transaction")
	}
	ch := s.slotLock(serviceID, date, start, end)
	select {
	case ch <- struct{}{}:
		tx.locks = append(tx.locks, ch)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: lock wait: %v", txmanager.ErrTransient, ctx.Err())
	}
}

func (s *memStore) slotLock(serviceID int64, date time.Time, start, end types.TimeString) chan struct{} {
	key := fmt.Sprintf("%d:%s:%s-%s", serviceID, date.Format(domain.DateFormat), start, end)
	v, _ := s.slotLocks.LoadOrStore(key, make(chan struct{}, 1))
	return v.(chan struct{})
}

func (s *memStore) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	tx := ctx.Value(memTxKey{}).(*memTx)
	s.mu.Lock()
	s.nextID++
	booking.ID = s.nextID
	s.mu.Unlock()
	booking.CreatedAt = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	tx.pending = append(tx.pending, booking)
	return booking, nil
}

func (s *memStore) CreateAttendees(ctx context.Context, bookingID int64, attendees []domain.Attendee) ([]domain.Attendee, error) {
	if s.failAttendees {
		return nil, errors.New("memstore: attendee insert failed")
	}
	tx := ctx.Value(memTxKey{}).(*memTx)
	created := make([]domain.Attendee, len(attendees))
	for i, a := range attendees {
		a.ID = int64(i + 1)
		a.BookingID = bookingID
		created[i] = a
	}
	for _, b := range tx.pending {
		if b.ID == bookingID {
			b.Attendees = created
		}
	}
	return created, nil
}

// sequence.Counter, вне транзакции: номер отката не переиспользуется

func (s *memStore) Next(_ context.Context, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := date.Format(domain.DateFormat)
	s.sequences[key]++
	return s.sequences[key], nil
}
