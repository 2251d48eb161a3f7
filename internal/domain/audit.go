package domain

import (
	"encoding/json"
	"time"
)

// AuditAction тип события в журнале бронирований
type AuditAction string

const (
	AuditActionCreated     AuditAction = "created"
	AuditActionCancelled   AuditAction = "cancelled"
	AuditActionRescheduled AuditAction = "rescheduled"
)

// AuditEntry запись append-only журнала переходов бронирования
// Записи никогда не изменяются и не удаляются
type AuditEntry struct {
	ID        int64
	BookingID int64
	Action    AuditAction
	Actor     string // "customer" или идентификатор администратора
	Details   json.RawMessage
	CreatedAt time.Time
}

// BookingSnapshot снимок состояния бронирования для журнала
type BookingSnapshot struct {
	Date         string        `json:"date"`
	Label        TimeLabel     `json:"label"`
	BouquetCount int           `json:"bouquetCount"`
	Status       BookingStatus `json:"status"`
}

// SnapshotOf строит снимок бронирования
func SnapshotOf(b *Booking) BookingSnapshot {
	return BookingSnapshot{
		Date:         b.Date.Format(DateFormat),
		Label:        b.Label,
		BouquetCount: b.BouquetCount,
		Status:       b.Status,
	}
}

// AuditDetails содержимое поля Details журнала: состояние до и после перехода
type AuditDetails struct {
	Before *BookingSnapshot `json:"before,omitempty"`
	After  *BookingSnapshot `json:"after,omitempty"`
	Reason *string          `json:"reason,omitempty"`
}

// Marshal сериализует детали для записи в журнал
func (d AuditDetails) Marshal() (json.RawMessage, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
