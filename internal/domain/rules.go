package domain

import (
	"fmt"
	"time"
)

// TimeLabel человекочитаемая метка временного слота (например, "10:00 AM")
// Метки применяются к дням как есть, без парсинга - порядок задаётся правилами
type TimeLabel string

// MonthDay пара (месяц, день) для границ сезонного окна
type MonthDay struct {
	Month time.Month
	Day   int
}

// Ordinal возвращает позицию внутри года для сравнения границ окна
func (md MonthDay) Ordinal() int {
	return int(md.Month)*100 + md.Day
}

// Valid проверяет корректность пары (месяц, день)
func (md MonthDay) Valid() bool {
	if md.Month < time.January || md.Month > time.December {
		return false
	}
	// 29 февраля допустимо: в невисокосные годы такая граница просто не совпадёт ни с одной датой,
	// а окно сравнивается по ординалам, не по конкретной дате
	return md.Day >= 1 && md.Day <= daysInMonthMax(md.Month)
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func daysInMonthMax(m time.Month) int {
	switch m {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		return 29
	default:
		return 31
	}
}

// ScheduleRules правила генерации расписания сада
// Единственная запись (id=1), редактируется только администратором
// Каждое изменение применяется только после повторной материализации расписания
type ScheduleRules struct {
	ID                 int64
	OperatingWeekdays  []time.Weekday // дни недели, когда сад открыт
	SeasonStart        MonthDay       // начало сезонного окна (включительно)
	SeasonEnd          MonthDay       // конец сезонного окна (включительно), может переходить через Новый год
	SlotLabels         []TimeLabel    // упорядоченный список слотов на каждый открытый день
	MaxBookingsPerSlot int            // потолок по количеству бронирований в слоте
	MaxBouquetsPerSlot int            // потолок по количеству букетов в слоте
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate проверяет, что правила полностью и корректно заполнены
// Частично сконфигурированные правила не должны доходить до материализации
func (r *ScheduleRules) Validate() error {
	if len(r.OperatingWeekdays) == 0 {
		return fmt.Errorf("%w: operating weekdays are empty", ErrInvalidRules)
	}

	seen := make(map[time.Weekday]bool, len(r.OperatingWeekdays))
	for _, wd := range r.OperatingWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidRules, wd)
		}
		if seen[wd] {
			return fmt.Errorf("%w: duplicate weekday %s", ErrInvalidRules, wd)
		}
		seen[wd] = true
	}

	if !r.SeasonStart.Valid() {
		return fmt.Errorf("%w: invalid season start %s", ErrInvalidRules, r.SeasonStart)
	}
	if !r.SeasonEnd.Valid() {
		return fmt.Errorf("%w: invalid season end %s", ErrInvalidRules, r.SeasonEnd)
	}

	if len(r.SlotLabels) == 0 {
		return fmt.Errorf("%w: slot labels are empty", ErrInvalidRules)
	}
	if len(r.SlotLabels) > MaxSlotLabels {
		return fmt.Errorf("%w: too many slot labels (%d > %d)", ErrInvalidRules, len(r.SlotLabels), MaxSlotLabels)
	}

	seenLabels := make(map[TimeLabel]bool, len(r.SlotLabels))
	for _, label := range r.SlotLabels {
		if label == "" {
			return fmt.Errorf("%w: empty slot label", ErrInvalidRules)
		}
		if seenLabels[label] {
			return fmt.Errorf("%w: duplicate slot label %q", ErrInvalidRules, label)
		}
		seenLabels[label] = true
	}

	if r.MaxBookingsPerSlot < MinBookingsPerSlot || r.MaxBookingsPerSlot > MaxBookingsPerSlot {
		return fmt.Errorf("%w: max bookings per slot must be in [%d, %d]",
			ErrInvalidRules, MinBookingsPerSlot, MaxBookingsPerSlot)
	}

	if r.MaxBouquetsPerSlot < MinBouquetsPerSlot || r.MaxBouquetsPerSlot > MaxBouquetsPerSlot {
		return fmt.Errorf("%w: max bouquets per slot must be in [%d, %d]",
			ErrInvalidRules, MinBouquetsPerSlot, MaxBouquetsPerSlot)
	}

	return nil
}

// InSeason проверяет, попадает ли дата в сезонное окно (границы включительно)
// Если начало окна позже конца (например, ноябрь - февраль), окно переходит
// через границу года: дата подходит, когда она >= начала ИЛИ <= конца
func (r *ScheduleRules) InSeason(date time.Time) bool {
	ord := int(date.Month())*100 + date.Day()
	start := r.SeasonStart.Ordinal()
	end := r.SeasonEnd.Ordinal()

	if start > end {
		return ord >= start || ord <= end
	}
	return ord >= start && ord <= end
}

// IsOperatingWeekday проверяет, входит ли день недели в рабочие
func (r *ScheduleRules) IsOperatingWeekday(wd time.Weekday) bool {
	for _, operating := range r.OperatingWeekdays {
		if operating == wd {
			return true
		}
	}
	return false
}

// EvaluateDay чистая функция оценки календарного дня
// День открыт, когда его день недели рабочий, дата внутри сезонного окна
// и дата не является действующим праздником
// Для открытого дня возвращает метки слотов как есть, иначе nil
// Результат детерминирован: зависит только от аргументов, текущее время не читается
func (r *ScheduleRules) EvaluateDay(date time.Time, holidays HolidaySet) (bool, []TimeLabel) {
	if !r.IsOperatingWeekday(date.Weekday()) {
		return false, nil
	}

	if !r.InSeason(date) {
		return false, nil
	}

	if holidays.Contains(date) {
		return false, nil
	}

	labels := make([]TimeLabel, len(r.SlotLabels))
	copy(labels, r.SlotLabels)
	return true, labels
}
