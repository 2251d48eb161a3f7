package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория материализованного расписания
type ScheduleRepository interface {
	ListOpenDaysFrom(ctx context.Context, from time.Time) ([]*domain.OpenDay, error)
	ListActiveSlotsFrom(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListSlotUsageFrom(ctx context.Context, from time.Time) ([]domain.SlotUsageEntry, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
