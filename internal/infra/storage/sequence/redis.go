package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

const (
	// BackendRedis имя бэкенда для метрик и конфигурации
	BackendRedis = "redis"

	redisKeyPrefix = "booking:sequence:"
	// ключ даты живет двое суток, дальше нумерация этой даты не нужна
	redisKeyTTL = 48 * time.Hour
)

// RedisCounter счетчик на атомарном INCR
// Выполняется вне транзакции postgres: при откате номер теряется, но не выдается повторно
type RedisCounter struct {
	client redis.UniversalClient
}

// NewRedisCounter создает счетчик поверх redis
func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

// Next увеличивает счетчик даты и возвращает новое значение, первая выдача за дату равна 1
func (c *RedisCounter) Next(ctx context.Context, date time.Time) (int64, error) {
	key := RedisKey(date)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, redisKeyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: Next - incr %s: %w", ErrExecQuery, key, err)
	}

	return incr.Val(), nil
}

// RedisKey ключ счетчика даты
func RedisKey(date time.Time) string {
	return redisKeyPrefix + date.Format(domain.ReferenceDateFormat)
}
