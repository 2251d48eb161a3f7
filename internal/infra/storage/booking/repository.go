package booking

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

// Repository репозиторий бронирований
// Пишет только строки бронирований: потолки слотов - зона ответственности
// материализатора, загрузка всегда выводится агрегатом на момент запроса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается только внутри сериализуемой транзакции ledger'а:
// проверка вместимости и вставка должны быть одним атомарным блоком
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"day_date",
			"time_label",
			"bouquet_count",
			"status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes",
			"cancellation_token",
		).
		Values(
			booking.Date,
			string(booking.Label),
			booking.BouquetCount,
			booking.Status,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.CustomerEmail,
			booking.Notes,
			booking.CancellationToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByToken получает бронирование по токену отмены
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"cancellation_token": token}, "GetByToken")
}

// GetSlotUsage вычисляет текущую загрузку слота из подтверждённых бронирований
// Вызывается после блокировки строки слота: под ней агрегат стабилен
func (r *Repository) GetSlotUsage(ctx context.Context, date time.Time, label domain.TimeLabel) (domain.SlotUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(bouquet_count), 0)",
	).
		From("bookings").
		Where(squirrel.Eq{"day_date": date}).
		Where(squirrel.Eq{"time_label": string(label)}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return domain.SlotUsage{}, fmt.Errorf("%w: GetSlotUsage - build select query: %v", ErrBuildQuery, err)
	}

	var usage domain.SlotUsage
	err = executor.QueryRowContext(ctx, query, args...).Scan(&usage.BookingCount, &usage.BouquetCount)
	if err != nil {
		return domain.SlotUsage{}, fmt.Errorf("%w: GetSlotUsage - scan usage: %v", ErrScanRow, err)
	}

	return usage, nil
}

// ListSlotUsageFrom получает загрузку всех слотов начиная с даты одним запросом
// Используется чтением доступности: лёгкое отставание от параллельных
// бронирований здесь допустимо
func (r *Repository) ListSlotUsageFrom(ctx context.Context, from time.Time) ([]domain.SlotUsageEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"day_date",
		"time_label",
		"COUNT(*)",
		"COALESCE(SUM(bouquet_count), 0)",
	).
		From("bookings").
		Where(squirrel.GtOrEq{"day_date": from}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		GroupBy("day_date", "time_label").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSlotUsageFrom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSlotUsageFrom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.SlotUsageEntry, 0)

	for rows.Next() {
		var entry domain.SlotUsageEntry
		var label string

		err := rows.Scan(&entry.Date, &label, &entry.Usage.BookingCount, &entry.Usage.BouquetCount)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSlotUsageFrom - scan row: %v", ErrScanRow, err)
		}

		entry.Label = domain.TimeLabel(label)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSlotUsageFrom - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// ListByDate получает бронирования на дату, упорядоченные по метке слота
func (r *Repository) ListByDate(ctx context.Context, date time.Time, includeCancelled bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(squirrel.Eq{"day_date": date}).
		OrderBy("time_label ASC, created_at ASC")

	if !includeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Cancel отменяет бронирование с указанием причины
// Обновляются только подтверждённые записи: отмена - терминальный статус,
// повторная отмена не затирает cancelled_at и причину первой.
// Физическое удаление не поддерживается: история сохраняется всегда
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateSchedule переносит бронирование на другой слот
// Вызывается только внутри сериализуемой транзакции переноса
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, newDate time.Time, newLabel domain.TimeLabel) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("day_date", newDate).
		Set("time_label", string(newLabel)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var booking domain.Booking
	var label string
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Date,
		&label,
		&booking.BouquetCount,
		&booking.Status,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.CustomerEmail,
		&booking.Notes,
		&booking.CancellationToken,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	booking.Label = domain.TimeLabel(label)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var label string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.Date,
			&label,
			&booking.BouquetCount,
			&booking.Status,
			&booking.CustomerName,
			&booking.CustomerPhone,
			&booking.CustomerEmail,
			&booking.Notes,
			&booking.CancellationToken,
			&booking.CancellationReason,
			&booking.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.Label = domain.TimeLabel(label)
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func bookingColumns() []string {
	return []string{
		"id",
		"day_date",
		"time_label",
		"bouquet_count",
		"status",
		"customer_name",
		"customer_phone",
		"customer_email",
		"notes",
		"cancellation_token",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	}
}
