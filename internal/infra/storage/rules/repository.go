package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	"github.com/m04kA/FGV-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FGV-BookingService/pkg/psqlbuilder"
)

// Правила расписания хранятся единственной строкой с фиксированным id
const singletonRulesID = 1

const pgUniqueViolation = "23505"

// Repository репозиторий правил расписания и праздников
// Все поля правил хранятся строго типизированными колонками (массивы, числа),
// никакого JSON: сериализация происходит ровно один раз на границе БД
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRules получает текущие правила расписания
// Возвращает ErrRulesNotFound, если правила ещё не настроены
func (r *Repository) GetRules(ctx context.Context) (*domain.ScheduleRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"operating_weekdays",
		"season_start_month",
		"season_start_day",
		"season_end_month",
		"season_end_day",
		"slot_labels",
		"max_bookings_per_slot",
		"max_bouquets_per_slot",
		"created_at",
		"updated_at",
	).
		From("schedule_rules").
		Where(squirrel.Eq{"id": singletonRulesID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - build select query: %v", ErrBuildQuery, err)
	}

	var (
		rules      domain.ScheduleRules
		weekdays   []int64
		labels     []string
		startMonth int
		endMonth   int
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.ID,
		pq.Array(&weekdays),
		&startMonth,
		&rules.SeasonStart.Day,
		&endMonth,
		&rules.SeasonEnd.Day,
		pq.Array(&labels),
		&rules.MaxBookingsPerSlot,
		&rules.MaxBouquetsPerSlot,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - scan rules: %v", ErrScanRow, err)
	}

	rules.SeasonStart.Month = time.Month(startMonth)
	rules.SeasonEnd.Month = time.Month(endMonth)
	rules.OperatingWeekdays = toWeekdays(weekdays)
	rules.SlotLabels = toLabels(labels)
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return &rules, nil
}

// SaveRules сохраняет правила расписания (insert или update единственной строки)
func (r *Repository) SaveRules(ctx context.Context, rules *domain.ScheduleRules) (*domain.ScheduleRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_rules").
		Columns(
			"id",
			"operating_weekdays",
			"season_start_month",
			"season_start_day",
			"season_end_month",
			"season_end_day",
			"slot_labels",
			"max_bookings_per_slot",
			"max_bouquets_per_slot",
		).
		Values(
			singletonRulesID,
			pq.Array(fromWeekdays(rules.OperatingWeekdays)),
			int(rules.SeasonStart.Month),
			rules.SeasonStart.Day,
			int(rules.SeasonEnd.Month),
			rules.SeasonEnd.Day,
			pq.Array(fromLabels(rules.SlotLabels)),
			rules.MaxBookingsPerSlot,
			rules.MaxBouquetsPerSlot,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			operating_weekdays = EXCLUDED.operating_weekdays,
			season_start_month = EXCLUDED.season_start_month,
			season_start_day = EXCLUDED.season_start_day,
			season_end_month = EXCLUDED.season_end_month,
			season_end_day = EXCLUDED.season_end_day,
			slot_labels = EXCLUDED.slot_labels,
			max_bookings_per_slot = EXCLUDED.max_bookings_per_slot,
			max_bouquets_per_slot = EXCLUDED.max_bouquets_per_slot,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SaveRules - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: SaveRules - execute upsert: %v", ErrExecQuery, err)
	}

	rules.ID = singletonRulesID
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

// CreateHoliday создает праздник на указанную дату
// Дата уникальна: повторная попытка возвращает ErrHolidayExists
func (r *Repository) CreateHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("holiday_date", "title", "is_disabled").
		Values(holiday.Date, holiday.Title, holiday.Disabled).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateHoliday - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&holiday.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrHolidayExists
		}
		return nil, fmt.Errorf("%w: CreateHoliday - execute insert: %v", ErrExecQuery, err)
	}

	holiday.CreatedAt = createdAt.Time
	holiday.UpdatedAt = updatedAt.Time

	return holiday, nil
}

// ListHolidays получает список праздников, упорядоченный по дате
// При includeDisabled=false отключённые праздники исключаются
func (r *Repository) ListHolidays(ctx context.Context, includeDisabled bool) ([]*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"holiday_date",
		"title",
		"is_disabled",
		"created_at",
		"updated_at",
	).
		From("holidays").
		OrderBy("holiday_date ASC")

	if !includeDisabled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_disabled": false})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]*domain.Holiday, 0)

	for rows.Next() {
		var holiday domain.Holiday
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&holiday.ID,
			&holiday.Date,
			&holiday.Title,
			&holiday.Disabled,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListHolidays - scan row: %v", ErrScanRow, err)
		}

		holiday.CreatedAt = createdAt.Time
		holiday.UpdatedAt = updatedAt.Time

		holidays = append(holidays, &holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}

// DisableHoliday мягко отключает праздник: дата остаётся в истории,
// но перестаёт блокировать расписание
func (r *Repository) DisableHoliday(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holidays").
		Set("is_disabled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DisableHoliday - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DisableHoliday - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DisableHoliday - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHolidayNotFound
	}

	return nil
}

func toWeekdays(values []int64) []time.Weekday {
	weekdays := make([]time.Weekday, 0, len(values))
	for _, v := range values {
		weekdays = append(weekdays, time.Weekday(v))
	}
	return weekdays
}

func fromWeekdays(weekdays []time.Weekday) []int64 {
	values := make([]int64, 0, len(weekdays))
	for _, wd := range weekdays {
		values = append(values, int64(wd))
	}
	return values
}

func toLabels(values []string) []domain.TimeLabel {
	labels := make([]domain.TimeLabel, 0, len(values))
	for _, v := range values {
		labels = append(labels, domain.TimeLabel(v))
	}
	return labels
}

func fromLabels(labels []domain.TimeLabel) []string {
	values := make([]string, 0, len(labels))
	for _, label := range labels {
		values = append(values, string(label))
	}
	return values
}
