package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
)

// testStore is a minimal in-memory BookingStore for engine tests
type testStore struct {
	bookings []core.Booking
}

func (s *testStore) Query(_ context.Context, from, to time.Time) ([]core.Booking, error) {
	var overlapping []core.Booking
	for _, b := range s.bookings {
		if from.Before(b.End) && to.After(b.Start) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping, nil
}

func (s *testStore) Commit(_ context.Context, booking core.Booking) error {
	for _, b := range s.bookings {
		if booking.Start.Before(b.End) && booking.End.After(b.Start) {
			return ErrSlotUnavailable
		}
	}
	s.bookings = append(s.bookings, booking)
	return nil
}

// monday is 2025-03-10, a Monday
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestEngine(store BookingStore, now time.Time) *Engine {
	return NewEngine(DefaultBusinessHours(), store, zap.NewNop(), fixedClock(now))
}

func TestListAvailabilityFullDay(t *testing.T) {
	engine := newTestEngine(&testStore{}, monday.Add(8*time.Hour))

	slots, err := engine.ListAvailability(context.Background(), 1, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}

	// 9:00 through 16:00, one slot per hour
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	if got := slots[0].Start.Hour(); got != 9 {
		t.Errorf("first slot starts at hour %d, want 9", got)
	}
	if got := slots[len(slots)-1].Start.Hour(); got != 16 {
		t.Errorf("last slot starts at hour %d, want 16", got)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.After(slots[i-1].Start) {
			t.Fatalf("slots not chronological at index %d", i)
		}
	}
}

func TestListAvailabilityOnlyFutureSlots(t *testing.T) {
	// Mid-day: 12:30 on Monday. The 12:00 slot has started and is excluded.
	engine := newTestEngine(&testStore{}, monday.Add(12*time.Hour+30*time.Minute))

	slots, err := engine.ListAvailability(context.Background(), 1, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}

	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4 (13:00-16:00)", len(slots))
	}
	if got := slots[0].Start.Hour(); got != 13 {
		t.Errorf("first slot starts at hour %d, want 13", got)
	}
}

func TestListAvailabilitySkipsWeekend(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	engine := newTestEngine(&testStore{}, saturday.Add(8*time.Hour))

	// Saturday and Sunday only
	slots, err := engine.ListAvailability(context.Background(), 2, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("got %d slots on a weekend window, want 0", len(slots))
	}
}

func TestListAvailabilityZeroDays(t *testing.T) {
	engine := newTestEngine(&testStore{}, monday.Add(8*time.Hour))

	slots, err := engine.ListAvailability(context.Background(), 0, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("got %d slots for a zero-day window, want 0", len(slots))
	}
}

func TestListAvailabilityExcludesBookedSlots(t *testing.T) {
	store := &testStore{bookings: []core.Booking{{
		ID:    "bk_1",
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	}}}
	engine := newTestEngine(store, monday.Add(8*time.Hour))

	slots, err := engine.ListAvailability(context.Background(), 1, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}

	if len(slots) != 7 {
		t.Fatalf("got %d slots, want 7 with one booked", len(slots))
	}
	for _, slot := range slots {
		if slot.Start.Hour() == 10 {
			t.Errorf("booked 10:00 slot still offered")
		}
	}
}

func TestListAvailabilityIsIdempotent(t *testing.T) {
	engine := newTestEngine(&testStore{}, monday.Add(8*time.Hour))

	first, err := engine.ListAvailability(context.Background(), 3, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}
	second, err := engine.ListAvailability(context.Background(), 3, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("slot counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) {
			t.Fatalf("slot %d differs: %v vs %v", i, first[i].Start, second[i].Start)
		}
	}
}

func TestNextAvailableSlotsUrgencyWindows(t *testing.T) {
	tests := []struct {
		urgency  core.Urgency
		maxStart time.Time
	}{
		{core.UrgencyEmergency, monday.AddDate(0, 0, 1)},
		{core.UrgencyToday, monday.AddDate(0, 0, 1)},
		{core.UrgencyThisWeek, monday.AddDate(0, 0, 7)},
		{core.UrgencyFlexible, monday.AddDate(0, 0, 14)},
		{core.UrgencyUnknown, monday.AddDate(0, 0, 14)},
	}

	for _, tt := range tests {
		t.Run(string(tt.urgency), func(t *testing.T) {
			engine := newTestEngine(&testStore{}, monday.Add(8*time.Hour))

			slots, err := engine.NextAvailableSlots(context.Background(), 100, tt.urgency)
			if err != nil {
				t.Fatalf("NextAvailableSlots returned error: %v", err)
			}
			if len(slots) == 0 {
				t.Fatal("no slots returned")
			}
			for _, slot := range slots {
				if !slot.Start.Before(tt.maxStart) {
					t.Errorf("slot %v outside the %s window ending %v", slot.Start, tt.urgency, tt.maxStart)
				}
			}
		})
	}
}

func TestNextAvailableSlotsLimitsCount(t *testing.T) {
	engine := newTestEngine(&testStore{}, monday.Add(8*time.Hour))

	slots, err := engine.NextAvailableSlots(context.Background(), 4, core.UrgencyFlexible)
	if err != nil {
		t.Fatalf("NextAvailableSlots returned error: %v", err)
	}
	if len(slots) != 4 {
		t.Errorf("got %d slots, want 4", len(slots))
	}
}

func TestBookCommitsAndConflicts(t *testing.T) {
	store := &testStore{}
	engine := newTestEngine(store, monday.Add(8*time.Hour))

	req := core.BookingRequest{
		Start:           monday.Add(10 * time.Hour),
		DurationMinutes: 60,
		CustomerName:    "Dana",
		CustomerEmail:   "dana@example.com",
		ServiceType:     core.ServiceHVACRepair,
	}

	confirmation, err := engine.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if confirmation.BookingID == "" {
		t.Error("confirmation has no booking ID")
	}
	if !confirmation.End.Equal(req.Start.Add(time.Hour)) {
		t.Errorf("confirmation end = %v, want %v", confirmation.End, req.Start.Add(time.Hour))
	}

	// The booked hour disappears from availability
	slots, err := engine.ListAvailability(context.Background(), 1, 60)
	if err != nil {
		t.Fatalf("ListAvailability returned error: %v", err)
	}
	for _, slot := range slots {
		if slot.Start.Hour() == 10 {
			t.Error("booked slot still offered")
		}
	}

	// A second booking for the same interval is rejected
	if _, err := engine.Book(context.Background(), req); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("double booking error = %v, want ErrSlotUnavailable", err)
	}
}

func TestFormatSlot(t *testing.T) {
	engine := newTestEngine(&testStore{}, monday)

	slot := core.TimeSlot{Start: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)}
	got := engine.FormatSlot(slot)
	want := "Wednesday, Mar 12 at 10:00 AM"
	if got != want {
		t.Errorf("FormatSlot = %q, want %q", got, want)
	}
}
