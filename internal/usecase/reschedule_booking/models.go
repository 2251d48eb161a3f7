package reschedule_booking

import (
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64            // ID переносимого бронирования
	NewDate   time.Time        // Новая дата визита
	NewLabel  domain.TimeLabel // Новая метка слота
	Actor     string           // Идентификатор администратора
	Reason    *string          // Причина переноса (опционально)
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID           int64            // ID бронирования
	Date         time.Time        // Дата визита после переноса
	TimeLabel    domain.TimeLabel // Метка слота после переноса
	BouquetCount int              // Количество букетов
	Status       string           // Статус бронирования
	Moved        bool             // false, если целевой слот совпал с текущим
}

func toResponse(b *domain.Booking, moved bool) *Response {
	return &Response{
		ID:           b.ID,
		Date:         b.Date,
		TimeLabel:    b.Label,
		BouquetCount: b.BouquetCount,
		Status:       string(b.Status),
		Moved:        moved,
	}
}
