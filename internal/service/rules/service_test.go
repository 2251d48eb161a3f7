package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	rulesstorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/rules"
	"github.com/m04kA/FGV-BookingService/internal/service/schedule"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRulesRepo struct {
	rules    *domain.ScheduleRules
	holidays map[int64]*domain.Holiday
	nextID   int64
}

func (f *fakeRulesRepo) GetRules(context.Context) (*domain.ScheduleRules, error) {
	if f.rules == nil {
		return nil, rulesstorage.ErrRulesNotFound
	}
	return f.rules, nil
}

func (f *fakeRulesRepo) SaveRules(_ context.Context, rules *domain.ScheduleRules) (*domain.ScheduleRules, error) {
	saved := *rules
	saved.ID = 1
	saved.UpdatedAt = time.Now()
	f.rules = &saved
	return &saved, nil
}

func (f *fakeRulesRepo) CreateHoliday(_ context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	for _, existing := range f.holidays {
		if existing.Date.Equal(holiday.Date) {
			return nil, rulesstorage.ErrHolidayExists
		}
	}
	f.nextID++
	stored := *holiday
	stored.ID = f.nextID
	if f.holidays == nil {
		f.holidays = make(map[int64]*domain.Holiday)
	}
	f.holidays[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeRulesRepo) ListHolidays(_ context.Context, includeDisabled bool) ([]*domain.Holiday, error) {
	out := make([]*domain.Holiday, 0, len(f.holidays))
	for _, holiday := range f.holidays {
		if !includeDisabled && holiday.Disabled {
			continue
		}
		out = append(out, holiday)
	}
	return out, nil
}

func (f *fakeRulesRepo) DisableHoliday(_ context.Context, id int64) error {
	holiday, ok := f.holidays[id]
	if !ok {
		return rulesstorage.ErrHolidayNotFound
	}
	holiday.Disabled = true
	return nil
}

type fakeMaterializer struct {
	calls int
}

func (f *fakeMaterializer) Materialize(context.Context, time.Time, int) (*schedule.MaterializeResult, error) {
	f.calls++
	return &schedule.MaterializeResult{DaysWritten: 91, SlotsWritten: 42}, nil
}

func validRules() *domain.ScheduleRules {
	return &domain.ScheduleRules{
		OperatingWeekdays:  []time.Weekday{time.Wednesday, time.Friday},
		SeasonStart:        domain.MonthDay{Month: time.May, Day: 1},
		SeasonEnd:          domain.MonthDay{Month: time.September, Day: 30},
		SlotLabels:         []domain.TimeLabel{"morning", "evening"},
		MaxBookingsPerSlot: 4,
		MaxBouquetsPerSlot: 12,
	}
}

func newFixture() (*Service, *fakeRulesRepo, *fakeMaterializer) {
	repo := &fakeRulesRepo{}
	materializer := &fakeMaterializer{}
	svc := NewService(repo, materializer, nopLogger{}, 90)
	svc.timeProvider = fixedTime{now: time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)}
	return svc, repo, materializer
}

func TestService_UpdateRules(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and rematerializes", func(t *testing.T) {
		svc, repo, materializer := newFixture()

		saved, err := svc.UpdateRules(ctx, validRules())
		require.NoError(t, err)

		assert.Equal(t, int64(1), saved.ID)
		assert.NotNil(t, repo.rules)
		assert.Equal(t, 1, materializer.calls)
	})

	t.Run("rejects degenerate rules before saving", func(t *testing.T) {
		svc, repo, materializer := newFixture()

		broken := validRules()
		broken.SlotLabels = nil

		_, err := svc.UpdateRules(ctx, broken)
		assert.ErrorIs(t, err, ErrInvalidRules)
		assert.Nil(t, repo.rules)
		assert.Equal(t, 0, materializer.calls)
	})
}

func TestService_GetRules(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFixture()

	_, err := svc.GetRules(ctx)
	assert.ErrorIs(t, err, ErrRulesNotConfigured)

	repo.rules = validRules()

	got, err := svc.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, repo.rules, got)
}

func TestService_Holidays(t *testing.T) {
	ctx := context.Background()
	holidayDate := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)

	t.Run("create triggers rematerialization", func(t *testing.T) {
		svc, _, materializer := newFixture()

		holiday, err := svc.CreateHoliday(ctx, holidayDate, "Garden festival")
		require.NoError(t, err)

		assert.Equal(t, int64(1), holiday.ID)
		assert.Equal(t, 1, materializer.calls)
	})

	t.Run("duplicate date is rejected", func(t *testing.T) {
		svc, _, _ := newFixture()

		_, err := svc.CreateHoliday(ctx, holidayDate, "Garden festival")
		require.NoError(t, err)

		_, err = svc.CreateHoliday(ctx, holidayDate, "Duplicate")
		assert.ErrorIs(t, err, ErrHolidayExists)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		svc, _, _ := newFixture()

		_, err := svc.CreateHoliday(ctx, holidayDate, "   ")
		assert.ErrorIs(t, err, ErrInvalidHoliday)
	})

	t.Run("disable keeps the record and rematerializes", func(t *testing.T) {
		svc, repo, materializer := newFixture()

		holiday, err := svc.CreateHoliday(ctx, holidayDate, "Garden festival")
		require.NoError(t, err)

		require.NoError(t, svc.DisableHoliday(ctx, holiday.ID))

		assert.True(t, repo.holidays[holiday.ID].Disabled)
		assert.Equal(t, 2, materializer.calls)

		all, err := svc.ListHolidays(ctx, true)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		active, err := svc.ListHolidays(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("disabling unknown holiday is not found", func(t *testing.T) {
		svc, _, _ := newFixture()

		err := svc.DisableHoliday(ctx, 42)
		assert.ErrorIs(t, err, ErrHolidayNotFound)
	})
}
