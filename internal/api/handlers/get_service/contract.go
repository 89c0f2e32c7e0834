package get_service

import (
	"context"

	"github.com/m04kA/SMC-SlotBooking/internal/service/catalog/models"
)

type CatalogService interface {
	GetBySlug(ctx context.Context, slug string) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
