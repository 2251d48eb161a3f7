package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	"github.com/m04kA/FGV-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FGV-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий append-only журнала бронирований
// Записи только добавляются: ни UPDATE, ни DELETE у журнала нет
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал
// Внутри транзакции ledger'а запись фиксируется атомарно с самим переходом
func (r *Repository) Append(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_audit").
		Columns("booking_id", "action", "actor", "details").
		Values(entry.BookingID, entry.Action, entry.Actor, []byte(entry.Details)).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// ListByBooking получает историю бронирования в хронологическом порядке
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"action",
		"actor",
		"details",
		"created_at",
	).
		From("booking_audit").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)

	for rows.Next() {
		var entry domain.AuditEntry
		var details []byte
		var createdAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.Action,
			&entry.Actor,
			&details,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %v", ErrScanRow, err)
		}

		entry.Details = details
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
