package bookings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	bookingstorage "github.com/m04kA/FGV-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/FGV-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking

	// readGate задерживает чтения, пока два конкурирующих вызова не
	// получат одну и ту же ещё не отменённую запись
	readGate chan struct{}
	reads    int32
}

func (m *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if m.readGate != nil {
		if atomic.AddInt32(&m.reads, 1) == 2 {
			close(m.readGate)
		}
		<-m.readGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *memBookingRepo) GetByToken(_ context.Context, token string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.bookings {
		if booking.CancellationToken == token {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, bookingstorage.ErrBookingNotFound
}

func (m *memBookingRepo) ListByDate(_ context.Context, date time.Time, includeCancelled bool) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Booking, 0)
	for _, booking := range m.bookings {
		if !booking.Date.Equal(date) {
			continue
		}
		if !includeCancelled && booking.IsCancelled() {
			continue
		}
		copied := *booking
		out = append(out, &copied)
	}
	return out, nil
}

// Cancel повторяет условный UPDATE репозитория: затрагиваются только
// подтверждённые записи, иначе rowsAffected = 0
func (m *memBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok || booking.IsCancelled() {
		return bookingstorage.ErrBookingNotFound
	}
	now := time.Now()
	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &now
	if reason != "" {
		booking.CancellationReason = &reason
	}
	return nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	stored := *entry
	stored.ID = int64(len(f.entries) + 1)
	stored.CreatedAt = time.Now()
	f.entries = append(f.entries, &stored)
	return &stored, nil
}

func (f *fakeAuditRepo) ListByBooking(_ context.Context, bookingID int64) ([]*domain.AuditEntry, error) {
	out := make([]*domain.AuditEntry, 0)
	for _, entry := range f.entries {
		if entry.BookingID == bookingID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	cancelled []int64
}

func (f *fakeNotifier) BookingCancelled(b *domain.Booking) {
	f.cancelled = append(f.cancelled, b.ID)
}

func newFixture() (*Service, *memBookingRepo, *fakeAuditRepo, *fakeNotifier) {
	visit := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)

	repo := &memBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID:                1,
			Date:              visit,
			Label:             "morning",
			BouquetCount:      2,
			Status:            domain.StatusConfirmed,
			CustomerName:      "Anna",
			CustomerPhone:     "+79001234567",
			CancellationToken: "token-1",
		},
	}}
	audit := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, audit, fakeTxManager{}, notifier, nopLogger{})
	return svc, repo, audit, notifier
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel by token writes audit and notifies", func(t *testing.T) {
		svc, repo, audit, notifier := newFixture()

		resp, err := svc.CancelByToken(ctx, "token-1", ptr.Ptr("plans changed"))
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		assert.True(t, repo.bookings[1].IsCancelled())

		require.Len(t, audit.entries, 1)
		assert.Equal(t, domain.AuditActionCancelled, audit.entries[0].Action)
		assert.Equal(t, ActorCustomer, audit.entries[0].Actor)

		assert.Equal(t, []int64{1}, notifier.cancelled)
	})

	t.Run("second cancel reports already cancelled", func(t *testing.T) {
		svc, _, audit, _ := newFixture()

		_, err := svc.CancelByToken(ctx, "token-1", nil)
		require.NoError(t, err)

		_, err = svc.CancelByToken(ctx, "token-1", nil)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)

		// Повторная отмена не добавляет записей журнала
		assert.Len(t, audit.entries, 1)
	})

	t.Run("cancel by id uses admin actor", func(t *testing.T) {
		svc, _, audit, _ := newFixture()

		_, err := svc.CancelByID(ctx, 1, "admin", nil)
		require.NoError(t, err)

		require.Len(t, audit.entries, 1)
		assert.Equal(t, "admin", audit.entries[0].Actor)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		svc, _, _, _ := newFixture()

		_, err := svc.CancelByToken(ctx, "missing", nil)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("concurrent cancels agree on a single winner", func(t *testing.T) {
		svc, repo, audit, notifier := newFixture()
		// обе горутины видят бронирование подтверждённым до первой записи
		repo.readGate = make(chan struct{})

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.CancelByID(ctx, 1, "admin", nil)
			}(i)
		}
		wg.Wait()

		var cancelled, alreadyCancelled int
		for _, err := range errs {
			switch {
			case err == nil:
				cancelled++
			case errors.Is(err, ErrAlreadyCancelled):
				alreadyCancelled++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, 1, cancelled)
		assert.Equal(t, 1, alreadyCancelled)
		assert.Len(t, audit.entries, 1)
		assert.Equal(t, []int64{1}, notifier.cancelled)
	})
}

func TestService_GetAuditTrail(t *testing.T) {
	ctx := context.Background()
	svc, _, audit, _ := newFixture()

	_, err := svc.CancelByID(ctx, 1, "admin", nil)
	require.NoError(t, err)

	trail, err := svc.GetAuditTrail(ctx, 1)
	require.NoError(t, err)

	require.Equal(t, 1, trail.Total)
	assert.Equal(t, string(domain.AuditActionCancelled), trail.Entries[0].Action)

	_, err = svc.GetAuditTrail(ctx, 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	assert.Len(t, audit.entries, 1)
}

func TestService_ListDayBookings(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newFixture()

	visit := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	repo.bookings[2] = &domain.Booking{
		ID: 2, Date: visit, Label: "noon", BouquetCount: 1,
		Status: domain.StatusCancelled, CancellationToken: "token-2",
	}

	active, err := svc.ListDayBookings(ctx, visit, false)
	require.NoError(t, err)
	assert.Equal(t, 1, active.Total)

	all, err := svc.ListDayBookings(ctx, visit, true)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
}
