package bookings

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	ListByDate(ctx context.Context, date time.Time, includeCancelled bool) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// AuditRepository интерфейс журнала бронирований
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.AuditEntry, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений. Реализация не блокирует вызывающего.
type Notifier interface {
	BookingCancelled(booking *domain.Booking)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
