package domain

import "time"

// Holiday праздничная дата, в которую сад закрыт независимо от правил
// Отключённый праздник (Disabled=true) хранится, но не блокирует дату
type Holiday struct {
	ID        int64
	Date      time.Time
	Title     string
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking сообщает, блокирует ли праздник свою дату
func (h *Holiday) IsBlocking() bool {
	return !h.Disabled
}

// HolidaySet множество действующих праздничных дат для быстрых проверок
type HolidaySet map[string]struct{}

// NewHolidaySet строит множество из списка праздников, пропуская отключённые
func NewHolidaySet(holidays []*Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		if h.IsBlocking() {
			set[h.Date.Format(DateFormat)] = struct{}{}
		}
	}
	return set
}

// Contains проверяет, входит ли дата в множество
func (s HolidaySet) Contains(date time.Time) bool {
	_, ok := s[date.Format(DateFormat)]
	return ok
}
