package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking бронирование визита в сад на конкретный слот
// Создаётся только через Booking Ledger, никогда не удаляется:
// отмена - это смена статуса с сохранением истории
type Booking struct {
	ID           int64
	Date         time.Time
	Label        TimeLabel
	BouquetCount int
	Status       BookingStatus

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Notes         *string

	// Токен для самостоятельной отмены/просмотра покупателем
	CancellationToken string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts toward slot usage
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another slot
// Из статуса cancelled переходов нет
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusConfirmed
}
