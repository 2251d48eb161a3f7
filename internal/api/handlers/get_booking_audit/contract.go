package get_booking_audit

import (
	"context"

	"github.com/m04kA/FGV-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetAuditTrail(ctx context.Context, bookingID int64) (*models.AuditTrailResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
