package schedule

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// RulesRepository интерфейс репозитория правил расписания
type RulesRepository interface {
	GetRules(ctx context.Context) (*domain.ScheduleRules, error)
	ListHolidays(ctx context.Context, includeDisabled bool) ([]*domain.Holiday, error)
}

// ScheduleRepository интерфейс репозитория материализованного расписания
type ScheduleRepository interface {
	UpsertOpenDay(ctx context.Context, date time.Time, isOpen bool) error
	UpsertSlot(ctx context.Context, slot *domain.TimeSlot) error
	ListSlotsByDate(ctx context.Context, date time.Time) ([]*domain.TimeSlot, error)
	DeleteSlot(ctx context.Context, id int64) error
	MarkSlotLegacy(ctx context.Context, id int64) error
	MaxDay(ctx context.Context) (time.Time, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetSlotUsage(ctx context.Context, date time.Time, label domain.TimeLabel) (domain.SlotUsage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
