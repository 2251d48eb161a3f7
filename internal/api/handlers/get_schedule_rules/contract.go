package get_schedule_rules

import (
	"context"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

type RulesService interface {
	GetRules(ctx context.Context) (*domain.ScheduleRules, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
