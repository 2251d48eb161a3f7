package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	"github.com/m04kA/FGV-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FGV-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий материализованного расписания (дни и слоты)
// Потолки слотов пишет только материализатор; бронирования к ним не прикасаются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertOpenDay создает или обновляет материализованный день
func (r *Repository) UpsertOpenDay(ctx context.Context, date time.Time, isOpen bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("open_days").
		Columns("day_date", "is_open").
		Values(date, isOpen).
		Suffix(`ON CONFLICT (day_date) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertOpenDay - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertOpenDay - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// UpsertSlot создает или обновляет временной слот
//
// Обновление защищает вместимость: новый потолок никогда не опускается ниже
// текущей загрузки слота (GREATEST с агрегатом по подтверждённым бронированиям),
// поэтому материализацию безопасно запускать параллельно с созданием бронирований
// Слот, ранее помеченный legacy, при возврате в правила снова становится обычным
func (r *Repository) UpsertSlot(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns("day_date", "time_label", "position", "max_bookings", "max_bouquets", "is_legacy").
		Values(slot.Date, string(slot.Label), slot.Position, slot.MaxBookings, slot.MaxBouquets, false).
		Suffix(`ON CONFLICT (day_date, time_label) DO UPDATE SET
			position = EXCLUDED.position,
			max_bookings = GREATEST(EXCLUDED.max_bookings, (
				SELECT COUNT(*)
				FROM bookings b
				WHERE b.day_date = time_slots.day_date
				  AND b.time_label = time_slots.time_label
				  AND b.status = 'confirmed')),
			max_bouquets = GREATEST(EXCLUDED.max_bouquets, (
				SELECT COALESCE(SUM(b.bouquet_count), 0)
				FROM bookings b
				WHERE b.day_date = time_slots.day_date
				  AND b.time_label = time_slots.time_label
				  AND b.status = 'confirmed')),
			is_legacy = false,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertSlot - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertSlot - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSlotByDateAndLabel получает слот по дате и метке
// Внутри транзакции строка блокируется (FOR UPDATE) - на этом держится
// сериализация проверки вместимости при создании бронирования
func (r *Repository) GetSlotByDateAndLabel(ctx context.Context, date time.Time, label domain.TimeLabel) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"day_date",
		"time_label",
		"position",
		"max_bookings",
		"max_bouquets",
		"is_legacy",
		"created_at",
		"updated_at",
	).
		From("time_slots").
		Where(squirrel.Eq{"day_date": date}).
		Where(squirrel.Eq{"time_label": string(label)})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotByDateAndLabel - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotByDateAndLabel - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListSlotsByDate получает все слоты на дату, включая legacy, в порядке позиций
func (r *Repository) ListSlotsByDate(ctx context.Context, date time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_date",
		"time_label",
		"position",
		"max_bookings",
		"max_bouquets",
		"is_legacy",
		"created_at",
		"updated_at",
	).
		From("time_slots").
		Where(squirrel.Eq{"day_date": date}).
		OrderBy("position ASC, time_label ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSlotsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSlotsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ListActiveSlotsFrom получает не-legacy слоты начиная с даты
// Используется чтением доступности
func (r *Repository) ListActiveSlotsFrom(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_date",
		"time_label",
		"position",
		"max_bookings",
		"max_bouquets",
		"is_legacy",
		"created_at",
		"updated_at",
	).
		From("time_slots").
		Where(squirrel.GtOrEq{"day_date": from}).
		Where(squirrel.Eq{"is_legacy": false}).
		OrderBy("day_date ASC, position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveSlotsFrom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveSlotsFrom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ListOpenDaysFrom получает открытые дни начиная с даты
func (r *Repository) ListOpenDaysFrom(ctx context.Context, from time.Time) ([]*domain.OpenDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"day_date",
		"is_open",
		"created_at",
		"updated_at",
	).
		From("open_days").
		Where(squirrel.GtOrEq{"day_date": from}).
		Where(squirrel.Eq{"is_open": true}).
		OrderBy("day_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenDaysFrom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenDaysFrom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.OpenDay, 0)

	for rows.Next() {
		var day domain.OpenDay
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&day.Date, &day.IsOpen, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListOpenDaysFrom - scan row: %v", ErrScanRow, err)
		}

		day.CreatedAt = createdAt.Time
		day.UpdatedAt = updatedAt.Time

		days = append(days, &day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOpenDaysFrom - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// DeleteSlot удаляет слот
// Вызывается материализатором только для слотов без активных бронирований
func (r *Repository) DeleteSlot(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteSlot - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteSlot - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteSlot - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// MarkSlotLegacy помечает слот как legacy, не трогая его потолки
func (r *Repository) MarkSlotLegacy(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_legacy", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSlotLegacy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkSlotLegacy - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkSlotLegacy - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// MaxDay возвращает последнюю материализованную дату
// Возвращает ErrNoDays, если расписание ещё не материализовано
func (r *Repository) MaxDay(ctx context.Context) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("MAX(day_date)").
		From("open_days").
		ToSql()

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: MaxDay - build select query: %v", ErrBuildQuery, err)
	}

	var maxDay sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&maxDay); err != nil {
		return time.Time{}, fmt.Errorf("%w: MaxDay - scan: %v", ErrScanRow, err)
	}

	if !maxDay.Valid {
		return time.Time{}, ErrNoDays
	}

	return maxDay.Time, nil
}

func (r *Repository) scanSlot(row *sql.Row) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var label string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&label,
		&slot.Position,
		&slot.MaxBookings,
		&slot.MaxBouquets,
		&slot.IsLegacy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Label = domain.TimeLabel(label)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		var slot domain.TimeSlot
		var label string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.Date,
			&label,
			&slot.Position,
			&slot.MaxBookings,
			&slot.MaxBouquets,
			&slot.IsLegacy,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		slot.Label = domain.TimeLabel(label)
		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
