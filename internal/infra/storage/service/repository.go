package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/psqlbuilder"
)

var serviceColumns = []string{
	"id",
	"slug",
	"name",
	"description",
	"slot_duration",
	"cleanup_break",
	"max_clients_per_slot",
	"max_days_in_future",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий услуг и их расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug получает активную услугу по slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"slug": slug, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - build select query: %v", ErrBuildQuery, err)
	}

	svc, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - scan service: %v", ErrScanRow, err)
	}

	return svc, nil
}

// ListActive получает все активные услуги, отсортированные по названию
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan service: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetScheduleTemplate получает окно работы услуги на день недели (0 = воскресенье)
func (r *Repository) GetScheduleTemplate(ctx context.Context, serviceID int64, dayOfWeek int) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "service_id", "day_of_week", "start_time", "end_time").
		From("schedule_templates").
		Where(squirrel.Eq{"service_id": serviceID, "day_of_week": dayOfWeek}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleTemplate - build select query: %v", ErrBuildQuery, err)
	}

	var tpl domain.ScheduleTemplate
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tpl.ID,
		&tpl.ServiceID,
		&tpl.DayOfWeek,
		&tpl.StartTime,
		&tpl.EndTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleTemplate - scan template: %v", ErrScanRow, err)
	}

	return &tpl, nil
}

// ListBreaks получает все перерывы услуги, включая ежедневные (day_of_week IS NULL)
func (r *Repository) ListBreaks(ctx context.Context, serviceID int64) ([]domain.ServiceBreak, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "service_id", "day_of_week", "start_time", "end_time", "name").
		From("service_breaks").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]domain.ServiceBreak, 0)
	for rows.Next() {
		var (
			b         domain.ServiceBreak
			dayOfWeek sql.NullInt32
		)
		if err := rows.Scan(&b.ID, &b.ServiceID, &dayOfWeek, &b.StartTime, &b.EndTime, &b.Name); err != nil {
			return nil, fmt.Errorf("%w: ListBreaks - scan break: %v", ErrScanRow, err)
		}
		if dayOfWeek.Valid {
			dow := int(dayOfWeek.Int32)
			b.DayOfWeek = &dow
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - rows error: %v", ErrScanRow, err)
	}

	return breaks, nil
}

// ListPlannedOffs получает закрытия услуги, диапазон дат которых покрывает date
func (r *Repository) ListPlannedOffs(ctx context.Context, serviceID int64, date time.Time) ([]domain.PlannedOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := domain.DateOnly(date)
	query, args, err := psqlbuilder.Select("id", "service_id", "start_date", "end_date", "start_time", "end_time", "reason").
		From("planned_offs").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPlannedOffs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPlannedOffs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	offs := make([]domain.PlannedOff, 0)
	for rows.Next() {
		var off domain.PlannedOff
		if err := rows.Scan(
			&off.ID,
			&off.ServiceID,
			&off.StartDate,
			&off.EndDate,
			&off.StartTime,
			&off.EndTime,
			&off.Reason,
		); err != nil {
			return nil, fmt.Errorf("%w: ListPlannedOffs - scan planned off: %v", ErrScanRow, err)
		}
		offs = append(offs, off)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPlannedOffs - rows error: %v", ErrScanRow, err)
	}

	return offs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var (
		svc                  domain.Service
		createdAt, updatedAt sql.NullTime
	)
	err := row.Scan(
		&svc.ID,
		&svc.Slug,
		&svc.Name,
		&svc.Description,
		&svc.SlotDurationMinutes,
		&svc.CleanupBreakMinutes,
		&svc.MaxClientsPerSlot,
		&svc.MaxDaysInFuture,
		&svc.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time
	return &svc, nil
}
