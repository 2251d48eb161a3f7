package domain

import "time"

// TimeSlot материализованный временной слот на конкретную дату
// Уникален по паре (дата, метка)
// IsLegacy=true означает, что слот больше не генерируется текущими правилами,
// но удерживает хотя бы одно активное бронирование: такой слот не удаляется,
// скрывается из доступности и не принимает новые бронирования
type TimeSlot struct {
	ID          int64
	Date        time.Time
	Label       TimeLabel
	Position    int // порядковый номер метки в правилах, для сортировки
	MaxBookings int
	MaxBouquets int
	IsLegacy    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SlotUsage текущая загрузка слота, выводится из подтверждённых бронирований
// Никогда не кэшируется между проверкой вместимости и записью
type SlotUsage struct {
	BookingCount int // количество подтверждённых бронирований
	BouquetCount int // суммарное количество букетов в них
}

// SlotUsageEntry загрузка одного слота в выборке по диапазону дат
type SlotUsageEntry struct {
	Date  time.Time
	Label TimeLabel
	Usage SlotUsage
}

// HasBookingCapacity проверяет, остаётся ли место по потолку бронирований
func (s *TimeSlot) HasBookingCapacity(usage SlotUsage) bool {
	return usage.BookingCount < s.MaxBookings
}

// HasBouquetCapacity проверяет, поместятся ли ещё bouquets букетов
func (s *TimeSlot) HasBouquetCapacity(usage SlotUsage, bouquets int) bool {
	return usage.BouquetCount+bouquets <= s.MaxBouquets
}

// IsAvailable сообщает, виден ли слот покупателям как доступный
// (не legacy и оба потолка не достигнуты)
func (s *TimeSlot) IsAvailable(usage SlotUsage) bool {
	return !s.IsLegacy &&
		usage.BookingCount < s.MaxBookings &&
		usage.BouquetCount < s.MaxBouquets
}
