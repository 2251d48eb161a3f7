package create_booking

import (
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Date          time.Time        // Дата визита (без времени)
	TimeLabel     domain.TimeLabel // Метка слота (например, "morning")
	BouquetCount  int              // Количество букетов для сборки
	CustomerName  string           // Имя посетителя
	CustomerPhone string           // Телефон посетителя
	CustomerEmail *string          // Email (опционально)
	Notes         *string          // Пожелания (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                int64            // ID созданного бронирования
	Date              time.Time        // Дата визита
	TimeLabel         domain.TimeLabel // Метка слота
	BouquetCount      int              // Количество букетов
	Status            string           // Статус бронирования
	CustomerName      string           // Имя посетителя
	CustomerPhone     string           // Телефон посетителя
	CustomerEmail     *string          // Email
	Notes             *string          // Пожелания
	CancellationToken string           // Токен для отмены без авторизации

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                b.ID,
		Date:              b.Date,
		TimeLabel:         b.Label,
		BouquetCount:      b.BouquetCount,
		Status:            string(b.Status),
		CustomerName:      b.CustomerName,
		CustomerPhone:     b.CustomerPhone,
		CustomerEmail:     b.CustomerEmail,
		Notes:             b.Notes,
		CancellationToken: b.CancellationToken,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
