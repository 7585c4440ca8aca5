package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/calendar"
	"github.com/koda/inbox-triage/internal/core"
)

func makeBooking(id string, start time.Time, d time.Duration) core.Booking {
	return core.Booking{
		ID:     id,
		Start:  start,
		End:    start.Add(d),
		Status: core.BookingStatusConfirmed,
	}
}

func TestCommitAndQuery(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.Commit(context.Background(), makeBooking("a", base, time.Hour)); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	// Adjacent interval, no overlap under the half-open test
	if err := store.Commit(context.Background(), makeBooking("b", base.Add(time.Hour), time.Hour)); err != nil {
		t.Fatalf("adjacent commit failed: %v", err)
	}

	overlapping, err := store.Query(context.Background(), base.Add(30*time.Minute), base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(overlapping) != 2 {
		t.Errorf("got %d overlapping bookings, want 2", len(overlapping))
	}

	empty, err := store.Query(context.Background(), base.Add(3*time.Hour), base.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d bookings outside the window, want 0", len(empty))
	}
}

func TestCommitRejectsOverlap(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.Commit(context.Background(), makeBooking("a", base, time.Hour)); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}

	err := store.Commit(context.Background(), makeBooking("b", base.Add(30*time.Minute), time.Hour))
	if !errors.Is(err, calendar.ErrSlotUnavailable) {
		t.Errorf("overlapping commit error = %v, want ErrSlotUnavailable", err)
	}
}

func TestConcurrentCommitsSameSlot(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Commit(context.Background(), makeBooking("x", base, time.Hour))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, calendar.ErrSlotUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d concurrent commits succeeded for one slot, want exactly 1", succeeded)
	}
}
