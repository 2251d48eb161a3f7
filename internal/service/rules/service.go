package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	rulesstorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/rules"
)

// Service сервис администрирования правил расписания и праздников.
// Любое изменение правил или праздников немедленно перепроецируется на
// материализованное окно, так что "применено" означает "расписание обновлено".
type Service struct {
	repo         RulesRepository
	materializer Materializer
	timeProvider TimeProvider
	logger       Logger

	horizonDays int
}

func NewService(repo RulesRepository, materializer Materializer, logger Logger, horizonDays int) *Service {
	return &Service{
		repo:         repo,
		materializer: materializer,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		horizonDays:  horizonDays,
	}
}

// GetRules возвращает действующие правила расписания
func (s *Service) GetRules(ctx context.Context) (*domain.ScheduleRules, error) {
	rules, err := s.repo.GetRules(ctx)
	if err != nil {
		if errors.Is(err, rulesstorage.ErrRulesNotFound) {
			return nil, fmt.Errorf("%w: GetRules", ErrRulesNotConfigured)
		}
		return nil, fmt.Errorf("%w: GetRules: %v", ErrInternal, err)
	}
	return rules, nil
}

// UpdateRules валидирует и сохраняет новые правила, затем перепроецирует
// всё материализованное окно. Вырожденный набор правил отклоняется до записи.
func (s *Service) UpdateRules(ctx context.Context, rules *domain.ScheduleRules) (*domain.ScheduleRules, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: UpdateRules: %v", ErrInvalidRules, err)
	}

	saved, err := s.repo.SaveRules(ctx, rules)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateRules - save: %v", ErrInternal, err)
	}

	if err := s.rematerialize(ctx, "UpdateRules"); err != nil {
		return nil, err
	}

	s.logger.Info("schedule rules updated: weekdays=%v labels=%d max_bookings=%d max_bouquets=%d",
		saved.OperatingWeekdays, len(saved.SlotLabels), saved.MaxBookingsPerSlot, saved.MaxBouquetsPerSlot)

	return saved, nil
}

// CreateHoliday добавляет праздник и перепроецирует расписание
func (s *Service) CreateHoliday(ctx context.Context, date time.Time, title string) (*domain.Holiday, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > domain.MaxHolidayTitleLength {
		return nil, fmt.Errorf("%w: CreateHoliday - title must be 1..%d characters", ErrInvalidHoliday, domain.MaxHolidayTitleLength)
	}

	holiday, err := s.repo.CreateHoliday(ctx, &domain.Holiday{Date: date, Title: title})
	if err != nil {
		if errors.Is(err, rulesstorage.ErrHolidayExists) {
			return nil, fmt.Errorf("%w: CreateHoliday - date %s", ErrHolidayExists, date.Format(domain.DateFormat))
		}
		return nil, fmt.Errorf("%w: CreateHoliday: %v", ErrInternal, err)
	}

	if err := s.rematerialize(ctx, "CreateHoliday"); err != nil {
		return nil, err
	}

	s.logger.Info("holiday created: id=%d date=%s title=%q", holiday.ID, date.Format(domain.DateFormat), title)

	return holiday, nil
}

// DisableHoliday отключает праздник, не удаляя его запись, и перепроецирует
// расписание: день снова открывается, если правила это позволяют
func (s *Service) DisableHoliday(ctx context.Context, id int64) error {
	if err := s.repo.DisableHoliday(ctx, id); err != nil {
		if errors.Is(err, rulesstorage.ErrHolidayNotFound) {
			return fmt.Errorf("%w: DisableHoliday - id %d", ErrHolidayNotFound, id)
		}
		return fmt.Errorf("%w: DisableHoliday: %v", ErrInternal, err)
	}

	if err := s.rematerialize(ctx, "DisableHoliday"); err != nil {
		return err
	}

	s.logger.Info("holiday disabled: id=%d", id)

	return nil
}

// ListHolidays возвращает список праздников
func (s *Service) ListHolidays(ctx context.Context, includeDisabled bool) ([]*domain.Holiday, error) {
	holidays, err := s.repo.ListHolidays(ctx, includeDisabled)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays: %v", ErrInternal, err)
	}
	return holidays, nil
}

func (s *Service) rematerialize(ctx context.Context, method string) error {
	result, err := s.materializer.Materialize(ctx, s.timeProvider.Now(), s.horizonDays)
	if err != nil {
		return fmt.Errorf("%w: %s - rematerialize: %v", ErrInternal, method, err)
	}
	s.logger.Info("%s: schedule rematerialized, days=%d slots=%d", method, result.DaysWritten, result.SlotsWritten)
	return nil
}
