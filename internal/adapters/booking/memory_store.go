package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/calendar"
	"github.com/koda/inbox-triage/internal/core"
)

// MemoryStore is the in-memory implementation of the BookingStore interface.
// Bookings live for the process lifetime only; a restart loses them, which
// is the accepted limitation of the mock engine.
type MemoryStore struct {
	bookings []core.Booking
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewMemoryStore creates a new in-memory booking store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		bookings: []core.Booking{},
		logger:   logger,
	}
}

// Query returns bookings overlapping the half-open interval [from, to)
func (s *MemoryStore) Query(_ context.Context, from, to time.Time) ([]core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overlapping []core.Booking
	for _, b := range s.bookings {
		if overlaps(from, to, b) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping, nil
}

// Commit appends a booking after checking for overlap. The check and the
// append happen under one lock: two concurrent commits for overlapping
// intervals cannot both succeed.
func (s *MemoryStore) Commit(_ context.Context, booking core.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if overlaps(booking.Start, booking.End, b) {
			return calendar.ErrSlotUnavailable
		}
	}

	s.bookings = append(s.bookings, booking)
	s.logger.Debug("Booking committed",
		zap.String("booking_id", booking.ID),
		zap.Int("total_bookings", len(s.bookings)))
	return nil
}

// overlaps is the half-open interval test: [from, to) intersects the booking
func overlaps(from, to time.Time, b core.Booking) bool {
	return from.Before(b.End) && to.After(b.Start)
}
