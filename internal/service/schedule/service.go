package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	rulesstorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/rules"
	schedulestorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
)

// MaterializeResult результат материализации окна расписания
type MaterializeResult struct {
	DaysWritten  int
	SlotsWritten int
}

// ExtendResult результат продления горизонта планирования
type ExtendResult struct {
	Extended  bool
	DaysAdded int
}

// Service сервис материализации расписания и продления горизонта
type Service struct {
	rulesRepo    RulesRepository
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	logger       Logger

	horizonDays  int
	minDaysAhead int
	batchSize    int
}

func NewService(
	rulesRepo RulesRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	logger Logger,
	horizonDays, minDaysAhead, batchSize int,
) *Service {
	return &Service{
		rulesRepo:    rulesRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		logger:       logger,
		horizonDays:  horizonDays,
		minDaysAhead: minDaysAhead,
		batchSize:    batchSize,
	}
}

// Materialize проецирует действующие правила на дни [from, from+horizonDays].
// Операция идемпотентна: повторный прогон с теми же правилами ничего не меняет.
// Слоты с подтверждёнными бронированиями никогда не удаляются - они помечаются
// как legacy и перестают принимать новые бронирования.
func (s *Service) Materialize(ctx context.Context, from time.Time, horizonDays int) (*MaterializeResult, error) {
	rules, err := s.rulesRepo.GetRules(ctx)
	if err != nil {
		if errors.Is(err, rulesstorage.ErrRulesNotFound) {
			return nil, fmt.Errorf("%w: Materialize - get rules", ErrRulesNotConfigured)
		}
		return nil, fmt.Errorf("%w: Materialize - get rules: %v", ErrInternal, err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: Materialize - validate rules: %v", ErrInvalidRules, err)
	}

	holidays, err := s.rulesRepo.ListHolidays(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: Materialize - list holidays: %v", ErrInternal, err)
	}
	holidaySet := domain.NewHolidaySet(holidays)

	result := &MaterializeResult{}
	start := normalizeDay(from)

	for offset := 0; offset <= horizonDays; offset++ {
		day := start.AddDate(0, 0, offset)

		isOpen, labels := rules.EvaluateDay(day, holidaySet)

		if err := s.scheduleRepo.UpsertOpenDay(ctx, day, isOpen); err != nil {
			return nil, fmt.Errorf("%w: Materialize - upsert open day %s: %v", ErrInternal, day.Format(domain.DateFormat), err)
		}
		result.DaysWritten++

		validLabels := make(map[domain.TimeLabel]struct{}, len(labels))
		for position, label := range labels {
			validLabels[label] = struct{}{}

			slot := &domain.TimeSlot{
				Date:        day,
				Label:       label,
				Position:    position,
				MaxBookings: rules.MaxBookingsPerSlot,
				MaxBouquets: rules.MaxBouquetsPerSlot,
			}
			if err := s.scheduleRepo.UpsertSlot(ctx, slot); err != nil {
				return nil, fmt.Errorf("%w: Materialize - upsert slot %s %s: %v", ErrInternal, day.Format(domain.DateFormat), label, err)
			}
			result.SlotsWritten++
		}

		if err := s.reconcileDay(ctx, day, validLabels); err != nil {
			return nil, err
		}
	}

	s.logger.Info("schedule materialized: from=%s days=%d slots=%d",
		start.Format(domain.DateFormat), result.DaysWritten, result.SlotsWritten)

	return result, nil
}

// reconcileDay убирает слоты, которые больше не соответствуют правилам.
// Пустой слот удаляется, слот с бронированиями помечается как legacy.
func (s *Service) reconcileDay(ctx context.Context, day time.Time, validLabels map[domain.TimeLabel]struct{}) error {
	existing, err := s.scheduleRepo.ListSlotsByDate(ctx, day)
	if err != nil {
		if errors.Is(err, schedulestorage.ErrSlotNotFound) {
			return nil
		}
		return fmt.Errorf("%w: reconcileDay - list slots %s: %v", ErrInternal, day.Format(domain.DateFormat), err)
	}

	for _, slot := range existing {
		if _, ok := validLabels[slot.Label]; ok {
			continue
		}
		if slot.IsLegacy {
			continue
		}

		usage, err := s.bookingRepo.GetSlotUsage(ctx, day, slot.Label)
		if err != nil {
			return fmt.Errorf("%w: reconcileDay - get slot usage %s %s: %v", ErrInternal, day.Format(domain.DateFormat), slot.Label, err)
		}

		if usage.BookingCount == 0 {
			if err := s.scheduleRepo.DeleteSlot(ctx, slot.ID); err != nil {
				return fmt.Errorf("%w: reconcileDay - delete slot %d: %v", ErrInternal, slot.ID, err)
			}
			continue
		}

		s.logger.Warn("slot has confirmed bookings, marking legacy: date=%s label=%s bookings=%d",
			day.Format(domain.DateFormat), slot.Label, usage.BookingCount)
		if err := s.scheduleRepo.MarkSlotLegacy(ctx, slot.ID); err != nil {
			return fmt.Errorf("%w: reconcileDay - mark slot legacy %d: %v", ErrInternal, slot.ID, err)
		}
	}

	return nil
}

// EnsureHorizon проверяет глубину материализованного окна и при необходимости
// продлевает его до horizonDays дней вперёд. Продление идёт ограниченными
// пакетами, чтобы один вызов не держал длинную транзакцию.
func (s *Service) EnsureHorizon(ctx context.Context, today time.Time) (*ExtendResult, error) {
	today = normalizeDay(today)

	daysAhead := -1
	maxDay, err := s.scheduleRepo.MaxDay(ctx)
	if err != nil {
		if !errors.Is(err, schedulestorage.ErrNoDays) {
			return nil, fmt.Errorf("%w: EnsureHorizon - max day: %v", ErrInternal, err)
		}
	} else {
		daysAhead = int(normalizeDay(maxDay).Sub(today).Hours() / 24)
	}

	if daysAhead >= s.minDaysAhead {
		return &ExtendResult{Extended: false}, nil
	}

	s.logger.Info("schedule horizon below threshold: days_ahead=%d min=%d target=%d",
		daysAhead, s.minDaysAhead, s.horizonDays)

	startOffset := daysAhead + 1
	if startOffset < 0 {
		startOffset = 0
	}

	for batchStart := startOffset; batchStart <= s.horizonDays; batchStart += s.batchSize {
		batchDays := s.batchSize - 1
		if batchStart+batchDays > s.horizonDays {
			batchDays = s.horizonDays - batchStart
		}

		batchFrom := today.AddDate(0, 0, batchStart)
		if _, err := s.Materialize(ctx, batchFrom, batchDays); err != nil {
			return nil, fmt.Errorf("EnsureHorizon - materialize batch from %s: %w", batchFrom.Format(domain.DateFormat), err)
		}
	}

	added := s.horizonDays - daysAhead
	s.logger.Info("schedule horizon extended: days_added=%d", added)

	return &ExtendResult{Extended: true, DaysAdded: added}, nil
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
