package get_day_bookings

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListDayBookings(ctx context.Context, date time.Time, includeCancelled bool) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
