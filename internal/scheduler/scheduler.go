package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/service/schedule"
)

type horizonExtender interface {
	EnsureHorizon(ctx context.Context, today time.Time) (*schedule.ExtendResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически продлевает горизонт материализованного расписания
type Scheduler struct {
	extender horizonExtender
	interval time.Duration
	logger   Logger
}

func New(extender horizonExtender, interval time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		extender: extender,
		interval: interval,
		logger:   logger,
	}
}

// Start запускает цикл продления. Первый прогон выполняется сразу,
// дальше - по тикеру, до отмены контекста.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("horizon scheduler started: interval=%s", s.interval)

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("horizon scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	result, err := s.extender.EnsureHorizon(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to ensure schedule horizon: %v", err)
		return
	}

	if result.Extended {
		s.logger.Info("schedule horizon extended: days_added=%d", result.DaysAdded)
	}
}
