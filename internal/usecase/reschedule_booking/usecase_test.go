package reschedule_booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	bookingstorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/booking"
	schedulestorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type memScheduleRepo struct {
	slots map[string]*domain.TimeSlot
}

func slotKey(date time.Time, label domain.TimeLabel) string {
	return fmt.Sprintf("%s/%s", date.Format(domain.DateFormat), label)
}

func (m *memScheduleRepo) GetSlotByDateAndLabel(_ context.Context, date time.Time, label domain.TimeLabel) (*domain.TimeSlot, error) {
	slot, ok := m.slots[slotKey(date, label)]
	if !ok {
		return nil, schedulestorage.ErrSlotNotFound
	}
	return slot, nil
}

type memBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (m *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *memBookingRepo) GetSlotUsage(_ context.Context, date time.Time, label domain.TimeLabel) (domain.SlotUsage, error) {
	var usage domain.SlotUsage
	for _, b := range m.bookings {
		if b.Status == domain.StatusConfirmed && b.Date.Equal(date) && b.Label == label {
			usage.BookingCount++
			usage.BouquetCount += b.BouquetCount
		}
	}
	return usage, nil
}

func (m *memBookingRepo) UpdateSchedule(_ context.Context, id int64, newDate time.Time, newLabel domain.TimeLabel) error {
	booking, ok := m.bookings[id]
	if !ok {
		return bookingstorage.ErrBookingNotFound
	}
	booking.Date = newDate
	booking.Label = newLabel
	return nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	stored := *entry
	stored.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, &stored)
	return &stored, nil
}

type fakeNotifier struct {
	rescheduled []int64
}

func (f *fakeNotifier) BookingRescheduled(b *domain.Booking) {
	f.rescheduled = append(f.rescheduled, b.ID)
}

var (
	oldDate = time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	newDate = time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc       *UseCase
	bookings *memBookingRepo
	audit    *fakeAuditRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	schedule := &memScheduleRepo{slots: map[string]*domain.TimeSlot{
		slotKey(oldDate, "morning"): {ID: 1, Date: oldDate, Label: "morning", MaxBookings: 4, MaxBouquets: 12},
		slotKey(newDate, "morning"): {ID: 2, Date: newDate, Label: "morning", MaxBookings: 4, MaxBouquets: 12},
		slotKey(newDate, "noon"):    {ID: 3, Date: newDate, Label: "noon", MaxBookings: 1, MaxBouquets: 3},
	}}

	f := &fixture{
		bookings: &memBookingRepo{bookings: map[int64]*domain.Booking{
			1: {ID: 1, Date: oldDate, Label: "morning", BouquetCount: 2, Status: domain.StatusConfirmed},
			2: {ID: 2, Date: newDate, Label: "noon", BouquetCount: 1, Status: domain.StatusConfirmed},
			3: {ID: 3, Date: oldDate, Label: "morning", BouquetCount: 1, Status: domain.StatusCancelled},
		}},
		audit:    &fakeAuditRepo{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewUseCase(f.bookings, schedule, f.audit, &fakeTxManager{}, f.notifier, nopLogger{})
	f.uc.timeProvider = fixedTime{now: time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)}
	return f
}

func validRequest() *Request {
	return &Request{
		BookingID: 1,
		NewDate:   newDate,
		NewLabel:  "morning",
		Actor:     "admin",
	}
}

func TestRescheduleBooking_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("moves booking and writes audit entry", func(t *testing.T) {
		f := newFixture()

		resp, err := f.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.True(t, resp.Moved)
		assert.Equal(t, newDate, resp.Date)

		stored := f.bookings.bookings[1]
		assert.Equal(t, newDate, stored.Date)
		assert.Equal(t, domain.TimeLabel("morning"), stored.Label)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, domain.AuditActionRescheduled, f.audit.entries[0].Action)
		assert.Equal(t, "admin", f.audit.entries[0].Actor)

		assert.Equal(t, []int64{1}, f.notifier.rescheduled)
	})

	t.Run("same slot is a no-op", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.NewDate = oldDate

		resp, err := f.uc.Execute(ctx, req)
		require.NoError(t, err)

		assert.False(t, resp.Moved)
		assert.Empty(t, f.audit.entries)
		assert.Empty(t, f.notifier.rescheduled)
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.BookingID = 99

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("cancelled booking cannot be moved", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.BookingID = 3

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrBookingCancelled)
	})

	t.Run("unknown target slot is not found", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.NewLabel = "midnight"

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("full target slot rejects the move atomically", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.NewLabel = "noon" // единственное место уже занято booking id=2

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrTargetCapacityExceeded)

		// Бронирование осталось на исходном слоте, журнал не пополнился
		stored := f.bookings.bookings[1]
		assert.Equal(t, oldDate, stored.Date)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("bouquet ceiling counts toward target capacity", func(t *testing.T) {
		f := newFixture()

		// После отмены booking id=2 в слоте noon снова есть место
		// и по бронированиям, и по букетам
		f.bookings.bookings[2].Status = domain.StatusCancelled

		req := validRequest()
		req.NewLabel = "noon"

		resp, err := f.uc.Execute(ctx, req)
		require.NoError(t, err)
		assert.True(t, resp.Moved)
	})

	t.Run("past target date is rejected", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.NewDate = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrPastDate)
	})
}
