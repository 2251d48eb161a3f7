package list_holidays

import (
	"context"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

type RulesService interface {
	ListHolidays(ctx context.Context, includeDisabled bool) ([]*domain.Holiday, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
