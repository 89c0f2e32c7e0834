package sequence

import (
	"context"
	"time"
)

// Counter атомарный счетчик номеров по календарной дате
// Next увеличивает счетчик даты (создавая его со значением 0) и возвращает новое значение
type Counter interface {
	Next(ctx context.Context, date time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик выданных номеров
type Metrics interface {
	IncReferenceMinted(backend string)
}
