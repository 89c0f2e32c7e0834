package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/psqlbuilder"
)

// BackendPostgres имя бэкенда для метрик и конфигурации
const BackendPostgres = "postgres"

// PostgresCounter счетчик в таблице booking_sequences
// Инкремент выполняется одним UPSERT под блокировкой строки даты
// Внутри транзакции блокировка держится до её завершения
type PostgresCounter struct {
	db dbmetrics.DBExecutor
}

// NewPostgresCounter создает счетчик поверх postgres
func NewPostgresCounter(db dbmetrics.DBExecutor) *PostgresCounter {
	return &PostgresCounter{db: db}
}

// Next увеличивает счетчик даты и возвращает новое значение, первая выдача за дату равна 1
func (c *PostgresCounter) Next(ctx context.Context, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, c.db)

	query, args, err := nextSequenceQuery(date)
	if err != nil {
		return 0, fmt.Errorf("%w: Next - build upsert query: %v", ErrBuildQuery, err)
	}

	var n int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: Next - execute upsert: %w", ErrExecQuery, err)
	}

	return n, nil
}

func nextSequenceQuery(date time.Time) (string, []interface{}, error) {
	return psqlbuilder.Insert("booking_sequences").
		Columns("sequence_date", "last_sequence").
		Values(domain.DateOnly(date), 1).
		Suffix("ON CONFLICT (sequence_date) DO UPDATE SET last_sequence = booking_sequences.last_sequence + 1, updated_at = NOW() RETURNING last_sequence").
		ToSql()
}
