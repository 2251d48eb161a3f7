package rules

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	"github.com/m04kA/FGV-BookingService/internal/service/schedule"
)

// RulesRepository интерфейс репозитория правил расписания
type RulesRepository interface {
	GetRules(ctx context.Context) (*domain.ScheduleRules, error)
	SaveRules(ctx context.Context, rules *domain.ScheduleRules) (*domain.ScheduleRules, error)
	CreateHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error)
	ListHolidays(ctx context.Context, includeDisabled bool) ([]*domain.Holiday, error)
	DisableHoliday(ctx context.Context, id int64) error
}

// Materializer интерфейс материализатора расписания
type Materializer interface {
	Materialize(ctx context.Context, from time.Time, horizonDays int) (*schedule.MaterializeResult, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
