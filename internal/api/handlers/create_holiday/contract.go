package create_holiday

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

type RulesService interface {
	CreateHoliday(ctx context.Context, date time.Time, title string) (*domain.Holiday, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
