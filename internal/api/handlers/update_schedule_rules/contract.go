package update_schedule_rules

import (
	"context"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

type RulesService interface {
	UpdateRules(ctx context.Context, rules *domain.ScheduleRules) (*domain.ScheduleRules, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
