package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	rulesstorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/rules"
	schedulestorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRulesRepo struct {
	rules    *domain.ScheduleRules
	holidays []*domain.Holiday
}

func (f *fakeRulesRepo) GetRules(context.Context) (*domain.ScheduleRules, error) {
	if f.rules == nil {
		return nil, rulesstorage.ErrRulesNotFound
	}
	return f.rules, nil
}

func (f *fakeRulesRepo) ListHolidays(_ context.Context, includeDisabled bool) ([]*domain.Holiday, error) {
	if includeDisabled {
		return f.holidays, nil
	}
	active := make([]*domain.Holiday, 0, len(f.holidays))
	for _, h := range f.holidays {
		if !h.Disabled {
			active = append(active, h)
		}
	}
	return active, nil
}

type fakeScheduleRepo struct {
	days   map[string]bool
	slots  map[string]*domain.TimeSlot // ключ "date/label"
	nextID int64

	// bookings повторяет агрегат по подтверждённым бронированиям из
	// GREATEST-обновления репозитория; nil означает нулевую загрузку
	bookings *fakeBookingRepo
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		days:  make(map[string]bool),
		slots: make(map[string]*domain.TimeSlot),
	}
}

func slotKey(date time.Time, label domain.TimeLabel) string {
	return fmt.Sprintf("%s/%s", date.Format(domain.DateFormat), label)
}

func (f *fakeScheduleRepo) UpsertOpenDay(_ context.Context, date time.Time, isOpen bool) error {
	f.days[date.Format(domain.DateFormat)] = isOpen
	return nil
}

func (f *fakeScheduleRepo) UpsertSlot(_ context.Context, slot *domain.TimeSlot) error {
	key := slotKey(slot.Date, slot.Label)
	if existing, ok := f.slots[key]; ok {
		usage := f.usageFor(slot.Date, slot.Label)
		existing.Position = slot.Position
		existing.MaxBookings = max(slot.MaxBookings, usage.BookingCount)
		existing.MaxBouquets = max(slot.MaxBouquets, usage.BouquetCount)
		existing.IsLegacy = false
		return nil
	}

	f.nextID++
	stored := *slot
	stored.ID = f.nextID
	f.slots[key] = &stored
	return nil
}

func (f *fakeScheduleRepo) usageFor(date time.Time, label domain.TimeLabel) domain.SlotUsage {
	if f.bookings == nil {
		return domain.SlotUsage{}
	}
	return f.bookings.usage[slotKey(date, label)]
}

func (f *fakeScheduleRepo) ListSlotsByDate(_ context.Context, date time.Time) ([]*domain.TimeSlot, error) {
	out := make([]*domain.TimeSlot, 0)
	for _, slot := range f.slots {
		if slot.Date.Equal(date) {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) DeleteSlot(_ context.Context, id int64) error {
	for key, slot := range f.slots {
		if slot.ID == id {
			delete(f.slots, key)
			return nil
		}
	}
	return schedulestorage.ErrSlotNotFound
}

func (f *fakeScheduleRepo) MarkSlotLegacy(_ context.Context, id int64) error {
	for _, slot := range f.slots {
		if slot.ID == id {
			slot.IsLegacy = true
			return nil
		}
	}
	return schedulestorage.ErrSlotNotFound
}

func (f *fakeScheduleRepo) MaxDay(context.Context) (time.Time, error) {
	var max time.Time
	for date := range f.days {
		parsed, _ := time.Parse(domain.DateFormat, date)
		if parsed.After(max) {
			max = parsed
		}
	}
	if max.IsZero() {
		return time.Time{}, schedulestorage.ErrNoDays
	}
	return max, nil
}

type fakeBookingRepo struct {
	usage map[string]domain.SlotUsage
}

func (f *fakeBookingRepo) GetSlotUsage(_ context.Context, date time.Time, label domain.TimeLabel) (domain.SlotUsage, error) {
	return f.usage[slotKey(date, label)], nil
}

func gardenRules() *domain.ScheduleRules {
	return &domain.ScheduleRules{
		ID:                 1,
		OperatingWeekdays:  []time.Weekday{time.Wednesday, time.Friday},
		SeasonStart:        domain.MonthDay{Month: time.May, Day: 1},
		SeasonEnd:          domain.MonthDay{Month: time.September, Day: 30},
		SlotLabels:         []domain.TimeLabel{"morning", "noon", "evening"},
		MaxBookingsPerSlot: 4,
		MaxBouquetsPerSlot: 12,
	}
}

func newTestService(rules *fakeRulesRepo, sched *fakeScheduleRepo, bookings *fakeBookingRepo) *Service {
	return NewService(rules, sched, bookings, nopLogger{}, 90, 30, 14)
}

func TestService_Materialize(t *testing.T) {
	ctx := context.Background()
	// 2025-07-01 - вторник
	from := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fails without configured rules", func(t *testing.T) {
		svc := newTestService(&fakeRulesRepo{}, newFakeScheduleRepo(), &fakeBookingRepo{})

		_, err := svc.Materialize(ctx, from, 14)
		assert.ErrorIs(t, err, ErrRulesNotConfigured)
	})

	t.Run("refuses degenerate rules", func(t *testing.T) {
		rules := gardenRules()
		rules.SlotLabels = nil
		svc := newTestService(&fakeRulesRepo{rules: rules}, newFakeScheduleRepo(), &fakeBookingRepo{})

		_, err := svc.Materialize(ctx, from, 14)
		assert.ErrorIs(t, err, ErrInvalidRules)
	})

	t.Run("projects rules onto two weeks", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		rules := &fakeRulesRepo{
			rules: gardenRules(),
			holidays: []*domain.Holiday{
				// 2025-07-04 - пятница, праздник закрывает день
				{Date: time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC), Title: "Garden festival"},
			},
		}
		svc := newTestService(rules, sched, &fakeBookingRepo{})

		result, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		// Каждый день окна получает запись open_days
		assert.Equal(t, 15, result.DaysWritten)

		// Открыты среды 2 и 9 июля и пятница 11 июля; пятница 4 июля закрыта праздником
		assert.True(t, sched.days["2025-07-02"])
		assert.True(t, sched.days["2025-07-09"])
		assert.True(t, sched.days["2025-07-11"])
		assert.False(t, sched.days["2025-07-04"])
		assert.False(t, sched.days["2025-07-01"])

		// По три слота на каждый из трёх открытых дней
		assert.Equal(t, 9, result.SlotsWritten)
		assert.Len(t, sched.slots, 9)

		slot := sched.slots["2025-07-02/morning"]
		require.NotNil(t, slot)
		assert.Equal(t, 0, slot.Position)
		assert.Equal(t, 4, slot.MaxBookings)
		assert.Equal(t, 12, slot.MaxBouquets)
	})

	t.Run("is idempotent", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		svc := newTestService(&fakeRulesRepo{rules: gardenRules()}, sched, &fakeBookingRepo{})

		first, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		second, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		assert.Equal(t, first.DaysWritten, second.DaysWritten)
		assert.Equal(t, first.SlotsWritten, second.SlotsWritten)
		assert.Len(t, sched.slots, 9)
	})

	t.Run("deletes unbooked slot when label removed", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		rules := &fakeRulesRepo{rules: gardenRules()}
		svc := newTestService(rules, sched, &fakeBookingRepo{usage: map[string]domain.SlotUsage{}})

		_, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		rules.rules.SlotLabels = []domain.TimeLabel{"morning", "noon"}

		_, err = svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		assert.Nil(t, sched.slots["2025-07-02/evening"])
		assert.NotNil(t, sched.slots["2025-07-02/morning"])
	})

	t.Run("marks booked slot legacy instead of deleting", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		rules := &fakeRulesRepo{rules: gardenRules()}
		bookings := &fakeBookingRepo{usage: map[string]domain.SlotUsage{
			"2025-07-02/evening": {BookingCount: 2, BouquetCount: 5},
		}}
		svc := newTestService(rules, sched, bookings)

		_, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		rules.rules.SlotLabels = []domain.TimeLabel{"morning", "noon"}

		_, err = svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		legacy := sched.slots["2025-07-02/evening"]
		require.NotNil(t, legacy)
		assert.True(t, legacy.IsLegacy)
	})

	t.Run("revives legacy slot when label returns", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		rules := &fakeRulesRepo{rules: gardenRules()}
		bookings := &fakeBookingRepo{usage: map[string]domain.SlotUsage{
			"2025-07-02/evening": {BookingCount: 2, BouquetCount: 5},
		}}
		svc := newTestService(rules, sched, bookings)

		_, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		rules.rules.SlotLabels = []domain.TimeLabel{"morning", "noon"}
		_, err = svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		rules.rules.SlotLabels = []domain.TimeLabel{"morning", "noon", "evening"}
		_, err = svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		revived := sched.slots["2025-07-02/evening"]
		require.NotNil(t, revived)
		assert.False(t, revived.IsLegacy)
	})

	t.Run("lowered ceilings never drop below current usage", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		rules := &fakeRulesRepo{rules: gardenRules()}
		bookings := &fakeBookingRepo{usage: map[string]domain.SlotUsage{}}
		sched.bookings = bookings
		svc := newTestService(rules, sched, bookings)

		_, err := svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		// в "morning" 2 июля уже три бронирования на 12 букетов
		bookings.usage["2025-07-02/morning"] = domain.SlotUsage{BookingCount: 3, BouquetCount: 12}

		lowered := gardenRules()
		lowered.MaxBookingsPerSlot = 1
		lowered.MaxBouquetsPerSlot = 5
		rules.rules = lowered

		_, err = svc.Materialize(ctx, from, 14)
		require.NoError(t, err)

		// загруженный слот сохраняет действующую загрузку как потолок
		busy := sched.slots["2025-07-02/morning"]
		require.NotNil(t, busy)
		assert.Equal(t, 3, busy.MaxBookings)
		assert.Equal(t, 12, busy.MaxBouquets)

		// пустой слот принимает новые потолки как есть
		idle := sched.slots["2025-07-02/noon"]
		require.NotNil(t, idle)
		assert.Equal(t, 1, idle.MaxBookings)
		assert.Equal(t, 5, idle.MaxBouquets)
	})
}

func TestService_EnsureHorizon(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	t.Run("extends empty schedule to full horizon", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		svc := newTestService(&fakeRulesRepo{rules: gardenRules()}, sched, &fakeBookingRepo{})

		result, err := svc.EnsureHorizon(ctx, today)
		require.NoError(t, err)

		assert.True(t, result.Extended)
		assert.Equal(t, 91, result.DaysAdded)

		// Окно покрывает сегодня и каждый день до границы горизонта
		assert.Contains(t, sched.days, "2025-07-01")
		assert.Contains(t, sched.days, "2025-09-29") // today + 90
		assert.NotContains(t, sched.days, "2025-09-30")
	})

	t.Run("does nothing when depth is sufficient", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		svc := newTestService(&fakeRulesRepo{rules: gardenRules()}, sched, &fakeBookingRepo{})

		_, err := svc.EnsureHorizon(ctx, today)
		require.NoError(t, err)

		written := len(sched.days)

		result, err := svc.EnsureHorizon(ctx, today)
		require.NoError(t, err)

		assert.False(t, result.Extended)
		assert.Len(t, sched.days, written)
	})

	t.Run("extends again once depth drops below threshold", func(t *testing.T) {
		sched := newFakeScheduleRepo()
		svc := newTestService(&fakeRulesRepo{rules: gardenRules()}, sched, &fakeBookingRepo{})

		_, err := svc.EnsureHorizon(ctx, today)
		require.NoError(t, err)

		// Спустя два месяца запас меньше порога - горизонт продлевается
		later := today.AddDate(0, 2, 0)
		result, err := svc.EnsureHorizon(ctx, later)
		require.NoError(t, err)

		assert.True(t, result.Extended)
		assert.Contains(t, sched.days, later.AddDate(0, 0, 90).Format(domain.DateFormat))
	})
}
