package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/FGV-BookingService/internal/service/schedule"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeExtender struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeExtender) EnsureHorizon(context.Context, time.Time) (*schedule.ExtendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &schedule.ExtendResult{Extended: true, DaysAdded: 1}, nil
}

func (f *fakeExtender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestScheduler_RunsImmediatelyAndByTicker(t *testing.T) {
	extender := &fakeExtender{}
	s := New(extender, 20*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	s.Start(ctx)

	// первый прогон сразу, дальше минимум ещё один по тикеру
	assert.GreaterOrEqual(t, extender.callCount(), 2)
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	extender := &fakeExtender{}
	s := New(extender, time.Hour, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}

	assert.Equal(t, 1, extender.callCount())
}

func TestScheduler_SurvivesExtenderErrors(t *testing.T) {
	extender := &fakeExtender{err: errors.New("db unavailable")}
	s := New(extender, 20*time.Millisecond, nopLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	s.Start(ctx)

	assert.GreaterOrEqual(t, extender.callCount(), 2)
}
