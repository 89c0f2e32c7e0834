package create_booking

import (
	"context"

	createBooking "github.com/m04kA/SMC-SlotBooking/internal/usecase/create_booking"
)

// AdmissionUseCase допуск бронирования в слот
type AdmissionUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// Logger логгер обработчика
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
