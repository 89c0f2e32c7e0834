package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
)

var (
	// ErrTransaction ошибка управления транзакцией (begin/commit)
	ErrTransaction = errors.New("txmanager: transaction failed")
	// ErrTransient временный конфликт: ожидание блокировки, deadlock, serialization failure
	// Операцию можно повторить
	ErrTransient = errors.New("txmanager: transient conflict")
)

// Коды PostgreSQL, после которых транзакцию имеет смысл повторить
var transientCodes = map[pq.ErrorCode]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available (lock_timeout)
	"57014": {}, // query_canceled (statement_timeout)
}

// Beginner умеет открывать транзакцию
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Manager выполняет функцию в транзакции READ COMMITTED с ограниченным ожиданием блокировок
type Manager struct {
	db          Beginner
	lockTimeout time.Duration
}

// Option настройка Manager
type Option func(*Manager)

// WithLockTimeout ограничивает ожидание любой блокировки внутри транзакции
func WithLockTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.lockTimeout = d
	}
}

// New создает менеджер транзакций
func New(db Beginner, opts ...Option) *Manager {
	m := &Manager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции. Если транзакция уже есть в контексте, fn выполняется в ней.
// Временные ошибки PostgreSQL оборачиваются в ErrTransient.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify(fmt.Errorf("%w: begin: %w", ErrTransaction, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if m.lockTimeout > 0 {
		// SET LOCAL не принимает плейсхолдеры
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return classify(fmt.Errorf("%w: set lock_timeout: %w", ErrTransaction, err))
		}
	}

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}

	if err = tx.Commit(); err != nil {
		return classify(fmt.Errorf("%w: commit: %w", ErrTransaction, err))
	}

	return nil
}

// IsTransient сообщает, что ошибку вызвал временный конфликт и операцию можно повторить
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		_, ok := transientCodes[pqErr.Code]
		return ok
	}
	return false
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrTransient) || !IsTransient(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}
