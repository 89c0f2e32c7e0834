package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts  = 5
	defaultBaseDelay    = 20 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts max attempts must be positive
	ErrInvalidMaxAttempts = errors.New("retry: max attempts must be positive")
	// ErrNegativeBaseDelay base delay must not be negative
	ErrNegativeBaseDelay = errors.New("retry: base delay must not be negative")
	// ErrInvalidJitterFactor jitter factor must be between 0.0 and 1.0
	ErrInvalidJitterFactor = errors.New("retry: jitter factor must be between 0.0 and 1.0")
)

// Func функция, которую можно повторить
type Func func(ctx context.Context) error

type config struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	retryable    func(error) bool
	onRetry      func(attempt int, err error)
}

// Option настройка повторов
type Option func(*config) error

// Do выполняет fn, повторяя её с экспоненциальной задержкой, пока ошибка retryable.
// Задержки: 0, base, base*2, base*4, ... плюс jitter.
// Без WithRetryable повторяется любая ошибка.
// Возвращает последнюю ошибку fn или ошибку контекста.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryable:    func(error) bool { return true },
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * cfg.jitterFactor //nolint:gosec
			timer := time.NewTimer(delay + time.Duration(jitter))

			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cfg.retryable(lastErr) {
			return lastErr
		}
		if cfg.onRetry != nil && attempt < cfg.maxAttempts-1 {
			cfg.onRetry(attempt+1, lastErr)
		}
	}

	return lastErr
}

// WithMaxAttempts общее число попыток, включая первую
func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay задержка перед первым повтором
func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = delay
		return nil
	}
}

// WithJitterFactor доля случайной добавки к задержке, от 0.0 до 1.0
func WithJitterFactor(factor float64) Option {
	return func(c *config) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = factor
		return nil
	}
}

// WithRetryable задает, какие ошибки повторять
func WithRetryable(fn func(error) bool) Option {
	return func(c *config) error {
		c.retryable = fn
		return nil
	}
}

// WithOnRetry вызывается перед каждым повтором
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *config) error {
		c.onRetry = fn
		return nil
	}
}
