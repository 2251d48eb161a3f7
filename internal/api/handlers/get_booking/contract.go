package get_booking

import (
	"context"

	"github.com/m04kA/FGV-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByToken(ctx context.Context, token string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
