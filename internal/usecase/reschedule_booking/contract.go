package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetSlotUsage(ctx context.Context, date time.Time, label domain.TimeLabel) (domain.SlotUsage, error)
	UpdateSchedule(ctx context.Context, id int64, newDate time.Time, newLabel domain.TimeLabel) error
}

// ScheduleRepository интерфейс репозитория материализованного расписания
type ScheduleRepository interface {
	GetSlotByDateAndLabel(ctx context.Context, date time.Time, label domain.TimeLabel) (*domain.TimeSlot, error)
}

// AuditRepository интерфейс журнала бронирований
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений. Реализация не блокирует вызывающего.
type Notifier interface {
	BookingRescheduled(booking *domain.Booking)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
