package create_booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	schedulestorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/FGV-BookingService/pkg/ptr"
	"github.com/m04kA/FGV-BookingService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeTxManager сериализует транзакции мьютексом, как это делает
// сериализуемая изоляция в Postgres
type fakeTxManager struct {
	mu  sync.Mutex
	err error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
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
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (m *memBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	stored := *booking
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.bookings = append(m.bookings, &stored)
	return &stored, nil
}

func (m *memBookingRepo) GetSlotUsage(_ context.Context, date time.Time, label domain.TimeLabel) (domain.SlotUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var usage domain.SlotUsage
	for _, b := range m.bookings {
		if b.Status == domain.StatusConfirmed && b.Date.Equal(date) && b.Label == label {
			usage.BookingCount++
			usage.BouquetCount += b.BouquetCount
		}
	}
	return usage, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *entry
	stored.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, &stored)
	return &stored, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []int64
}

func (f *fakeNotifier) BookingCreated(b *domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, b.ID)
}

type fixture struct {
	uc       *UseCase
	bookings *memBookingRepo
	audit    *fakeAuditRepo
	notifier *fakeNotifier
	txMgr    *fakeTxManager
}

func newFixture() *fixture {
	visit := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)

	schedule := &memScheduleRepo{slots: map[string]*domain.TimeSlot{
		slotKey(visit, "morning"): {ID: 1, Date: visit, Label: "morning", MaxBookings: 4, MaxBouquets: 12},
		slotKey(visit, "noon"):    {ID: 2, Date: visit, Label: "noon", MaxBookings: 4, MaxBouquets: 12, IsLegacy: true},
	}}

	f := &fixture{
		bookings: &memBookingRepo{},
		audit:    &fakeAuditRepo{},
		notifier: &fakeNotifier{},
		txMgr:    &fakeTxManager{},
	}
	f.uc = NewUseCase(f.bookings, schedule, f.audit, f.txMgr, f.notifier, nopLogger{})
	f.uc.timeProvider = fixedTime{now: time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)}
	return f
}

func validRequest() *Request {
	return &Request{
		Date:          time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC),
		TimeLabel:     "morning",
		BouquetCount:  2,
		CustomerName:  "Anna",
		CustomerPhone: "+79001234567",
		CustomerEmail: ptr.Ptr("anna@example.com"),
	}
}

func TestCreateBooking_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates booking with cancellation token and audit entry", func(t *testing.T) {
		f := newFixture()

		resp, err := f.uc.Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.Equal(t, "confirmed", resp.Status)
		assert.NotEmpty(t, resp.CancellationToken)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, domain.AuditActionCreated, f.audit.entries[0].Action)
		assert.Equal(t, resp.ID, f.audit.entries[0].BookingID)

		assert.Equal(t, []int64{resp.ID}, f.notifier.created)
	})

	t.Run("rejects invalid bouquet count", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.BouquetCount = domain.MaxBouquetsPerBooking + 1

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects past date", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.Date = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("allows booking for today", func(t *testing.T) {
		f := newFixture()
		req := validRequest()

		// Вечер дня визита: бронирование на сегодня допустимо
		f.uc.timeProvider = fixedTime{now: time.Date(2025, time.July, 4, 18, 0, 0, 0, time.UTC)}

		_, err := f.uc.Execute(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("unknown slot is not found", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.TimeLabel = "midnight"

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("legacy slot is not found", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.TimeLabel = "noon"

		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("enforces booking ceiling", func(t *testing.T) {
		f := newFixture()

		for i := 0; i < 4; i++ {
			req := validRequest()
			req.BouquetCount = 1
			_, err := f.uc.Execute(ctx, req)
			require.NoError(t, err)
		}

		_, err := f.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrBookingLimitReached)
	})

	t.Run("enforces bouquet ceiling independently", func(t *testing.T) {
		f := newFixture()

		// Три бронирования по 4 букета выбирают потолок букетов (12),
		// хотя мест по количеству бронирований ещё хватает
		for i := 0; i < 3; i++ {
			req := validRequest()
			req.BouquetCount = 4
			_, err := f.uc.Execute(ctx, req)
			require.NoError(t, err)
		}

		req := validRequest()
		req.BouquetCount = 1
		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrBouquetLimitReached)
	})

	t.Run("maps serialization failure to slot busy", func(t *testing.T) {
		f := newFixture()
		f.txMgr.err = txmanager.ErrSerializationFailure

		_, err := f.uc.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, ErrSlotBusy)
	})

	t.Run("never oversells under concurrency", func(t *testing.T) {
		f := newFixture()

		const attempts = 9 // потолок 4 + 5 лишних

		var wg sync.WaitGroup
		errs := make([]error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				req := validRequest()
				req.BouquetCount = 1
				_, errs[n] = f.uc.Execute(ctx, req)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		rejected := 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrBookingLimitReached):
				rejected++
			}
		}

		assert.Equal(t, 4, succeeded)
		assert.Equal(t, 5, rejected)
		assert.Len(t, f.bookings.bookings, 4)
	})
}
