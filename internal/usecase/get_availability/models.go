package get_availability

import "time"

// Request модель запроса доступности
type Request struct {
	From time.Time // Начальная дата окна (нулевое значение - с сегодняшнего дня)
	Days int       // Глубина просмотра в днях от начала окна (0 - вся материализованная глубина)
}

// SlotAvailability свободный слот в выдаче
type SlotAvailability struct {
	TimeLabel         string `json:"timeLabel"`
	RemainingBookings int    `json:"remainingBookings"`
	RemainingBouquets int    `json:"remainingBouquets"`
}

// DayAvailability день с хотя бы одним свободным слотом
type DayAvailability struct {
	Date  string             `json:"date"` // "2025-07-04"
	Slots []SlotAvailability `json:"slots"`
}

// Response модель ответа: дни упорядочены по дате, слоты - по порядку меток
type Response struct {
	Days []DayAvailability `json:"days"`
}
