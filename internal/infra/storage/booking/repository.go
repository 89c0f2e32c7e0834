package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"service_id",
	"booking_date",
	"start_time",
	"end_time",
	"booking_reference",
	"created_at",
}

// Repository репозиторий для работы с бронированиями
// Ошибки драйвера оборачиваются через %w, чтобы txmanager мог распознать временные конфликты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockSlot берет транзакционную advisory-блокировку на ключ (service, date, start, end)
// Блокировка держится до commit/rollback. Ожидание ограничено lock_timeout транзакции.
func (r *Repository) LockSlot(ctx context.Context, serviceID int64, date time.Time, start, end types.TimeString) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNotInTransaction
	}

	key := SlotLockKey(serviceID, date, start, end)
	query, args, err := lockSlotQuery(key)
	if err != nil {
		return fmt.Errorf("%w: LockSlot - build query: %v", ErrBuildQuery, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockSlot - acquire %s: %w", ErrExecQuery, key, err)
	}

	return nil
}

func lockSlotQuery(key string) (string, []interface{}, error) {
	return psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", key)).
		ToSql()
}

// SlotLockKey ключ блокировки слота
func SlotLockKey(serviceID int64, date time.Time, start, end types.TimeString) string {
	return fmt.Sprintf("%d:%s:%s-%s", serviceID, date.Format(domain.DateFormat), start, end)
}

// Create создает бронирование без участников
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"service_id",
			"booking_date",
			"start_time",
			"end_time",
			"booking_reference",
		).
		Values(
			booking.ServiceID,
			domain.DateOnly(booking.BookingDate),
			booking.StartTime,
			booking.EndTime,
			booking.Reference,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, booking.Reference)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	return booking, nil
}

// CreateAttendees добавляет участников бронирования одним запросом
func (r *Repository) CreateAttendees(ctx context.Context, bookingID int64, attendees []domain.Attendee) ([]domain.Attendee, error) {
	if len(attendees) == 0 {
		return attendees, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("booking_attendees").
		Columns("booking_id", "first_name", "last_name", "email")
	for _, a := range attendees {
		builder = builder.Values(bookingID, a.FirstName, a.LastName, a.Email)
	}

	query, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAttendees - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAttendees - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	created := make([]domain.Attendee, len(attendees))
	copy(created, attendees)

	// RETURNING отдает строки в порядке VALUES
	i := 0
	for rows.Next() {
		if i >= len(created) {
			break
		}
		if err := rows.Scan(&created[i].ID); err != nil {
			return nil, fmt.Errorf("%w: CreateAttendees - scan id: %v", ErrScanRow, err)
		}
		created[i].BookingID = bookingID
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CreateAttendees - rows error: %w", ErrExecQuery, err)
	}

	return created, nil
}

// CountAttendeesBySlot считает участников по точному ключу (start_time, end_time) за дату одним запросом
func (r *Repository) CountAttendeesBySlot(ctx context.Context, serviceID int64, date time.Time) (map[domain.SlotKey]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := countAttendeesQuery(serviceID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: CountAttendeesBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountAttendeesBySlot - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.SlotKey]int)
	for rows.Next() {
		var (
			start, end types.TimeString
			count      int
		)
		if err := rows.Scan(&start, &end, &count); err != nil {
			return nil, fmt.Errorf("%w: CountAttendeesBySlot - scan row: %v", ErrScanRow, err)
		}
		counts[domain.SlotKey{Start: start.Minutes(), End: end.Minutes()}] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountAttendeesBySlot - rows error: %w", ErrExecQuery, err)
	}

	return counts, nil
}

// countAttendeesQuery число участников по каждому интервалу за дату
func countAttendeesQuery(serviceID int64, date time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select("b.start_time", "b.end_time", "COUNT(a.id)").
		From("bookings b").
		Join("booking_attendees a ON a.booking_id = b.id").
		Where(squirrel.Eq{"b.service_id": serviceID, "b.booking_date": domain.DateOnly(date)}).
		GroupBy("b.start_time", "b.end_time").
		ToSql()
}

// GetByReference получает бронирование с участниками по номеру
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_reference": reference}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReference - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReference - scan booking: %v", ErrScanRow, err)
	}

	if err := r.attachAttendees(ctx, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// ListByServiceAndDate получает бронирования услуги на дату с участниками, по времени начала
func (r *Repository) ListByServiceAndDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"service_id": serviceID, "booking_date": domain.DateOnly(date)}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByServiceAndDate - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - rows error: %v", ErrScanRow, err)
	}

	if err := r.attachAttendees(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// attachAttendees загружает участников для всех бронирований одним запросом
func (r *Repository) attachAttendees(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
		b.Attendees = make([]domain.Attendee, 0)
	}

	query, args, err := psqlbuilder.Select("id", "booking_id", "first_name", "last_name", "email").
		From("booking_attendees").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachAttendees - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachAttendees - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Attendee
		if err := rows.Scan(&a.ID, &a.BookingID, &a.FirstName, &a.LastName, &a.Email); err != nil {
			return fmt.Errorf("%w: attachAttendees - scan attendee: %v", ErrScanRow, err)
		}
		if b, ok := byID[a.BookingID]; ok {
			b.Attendees = append(b.Attendees, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachAttendees - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b         domain.Booking
		createdAt sql.NullTime
	)
	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Reference,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Time
	return &b, nil
}
