// Package calendar implements the appointment availability engine: slot
// generation from a fixed weekly schedule, filtered against committed
// bookings held in a pluggable store.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
)

// ErrSlotUnavailable is returned when a booking request overlaps an
// existing booking
var ErrSlotUnavailable = errors.New("time slot is no longer available")

// DefaultSlotMinutes is the appointment length used when none is requested
const DefaultSlotMinutes = 60

// BusinessHours is the weekly schedule slots are generated from. Read-only
// after construction.
type BusinessHours struct {
	StartHour   int
	EndHour     int
	WorkingDays map[time.Weekday]bool
}

// DefaultBusinessHours is 9 to 5, Monday through Friday
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		StartHour: 9,
		EndHour:   17,
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
	}
}

// BookingStore is the storage capability behind the engine. The in-memory
// implementation is the default; a real calendar backend implements the same
// contract. Commit must perform its overlap check and append atomically.
type BookingStore interface {
	// Query returns bookings overlapping the half-open interval [from, to)
	Query(ctx context.Context, from, to time.Time) ([]core.Booking, error)

	// Commit stores a booking, failing with ErrSlotUnavailable if its
	// interval overlaps an existing booking
	Commit(ctx context.Context, booking core.Booking) error
}

// Engine generates available slots and commits bookings. Slot generation is
// a pure function of the clock, the business hours, and the booking set.
type Engine struct {
	hours  BusinessHours
	store  BookingStore
	logger *zap.Logger
	clock  func() time.Time
}

// NewEngine creates an availability engine. A nil clock means time.Now;
// tests inject a fixed clock for deterministic output.
func NewEngine(hours BusinessHours, store BookingStore, logger *zap.Logger, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		hours:  hours,
		store:  store,
		logger: logger,
		clock:  clock,
	}
}

// ListAvailability returns all open slots on working days over the next
// daysAhead days. Slots start on the hour from StartHour up to (not
// including) EndHour, are strictly in the future, exclude anything
// overlapping a committed booking, and come back chronologically ascending.
func (e *Engine) ListAvailability(ctx context.Context, daysAhead, durationMinutes int) ([]core.TimeSlot, error) {
	if durationMinutes <= 0 {
		durationMinutes = DefaultSlotMinutes
	}

	now := e.clock()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots := []core.TimeSlot{}
	for offset := 0; offset < daysAhead; offset++ {
		day := dayStart.AddDate(0, 0, offset)
		if !e.hours.WorkingDays[day.Weekday()] {
			continue
		}

		for hour := e.hours.StartHour; hour < e.hours.EndHour; hour++ {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			end := start.Add(time.Duration(durationMinutes) * time.Minute)

			if !start.After(now) {
				continue
			}

			booked, err := e.isBooked(ctx, start, end)
			if err != nil {
				return nil, err
			}
			if booked {
				continue
			}

			slots = append(slots, core.TimeSlot{
				Start:           start,
				End:             end,
				DurationMinutes: durationMinutes,
			})
		}
	}

	return slots, nil
}

// NextAvailableSlots maps urgency to a lookahead window and returns the
// first count slots within it. Emergencies and same-day requests look one
// day out, this-week requests seven, everything else fourteen.
func (e *Engine) NextAvailableSlots(ctx context.Context, count int, urgency core.Urgency) ([]core.TimeSlot, error) {
	var daysAhead int
	switch urgency {
	case core.UrgencyEmergency, core.UrgencyToday:
		daysAhead = 1
	case core.UrgencyThisWeek:
		daysAhead = 7
	default:
		daysAhead = 14
	}

	slots, err := e.ListAvailability(ctx, daysAhead, DefaultSlotMinutes)
	if err != nil {
		return nil, err
	}

	if len(slots) > count {
		slots = slots[:count]
	}
	return slots, nil
}

// Book commits an appointment. The overlap check happens inside the store's
// Commit so concurrent bookings against the same interval cannot both
// succeed.
func (e *Engine) Book(ctx context.Context, req core.BookingRequest) (*core.BookingConfirmation, error) {
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = DefaultSlotMinutes
	}

	end := req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	booking := core.Booking{
		ID:            fmt.Sprintf("bk_%d", req.Start.Unix()),
		Start:         req.Start,
		End:           end,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ServiceType:   req.ServiceType,
		Status:        core.BookingStatusConfirmed,
		CreatedAt:     e.clock(),
	}

	if err := e.store.Commit(ctx, booking); err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			e.logger.Info("Booking rejected, slot taken",
				zap.Time("start", req.Start),
				zap.String("customer", req.CustomerEmail))
		}
		return nil, err
	}

	e.logger.Info("Booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.Time("start", booking.Start),
		zap.String("service_type", string(booking.ServiceType)))

	return &core.BookingConfirmation{
		BookingID: booking.ID,
		Start:     booking.Start,
		End:       booking.End,
	}, nil
}

// FormatSlot renders a slot like "Wednesday, Feb 12 at 10:00 AM"
func (e *Engine) FormatSlot(slot core.TimeSlot) string {
	return slot.Start.Format("Monday, Jan 2 at 3:04 PM")
}

func (e *Engine) isBooked(ctx context.Context, start, end time.Time) (bool, error) {
	overlapping, err := e.store.Query(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to query bookings: %w", err)
	}
	return len(overlapping) > 0, nil
}
