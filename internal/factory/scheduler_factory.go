package factory

import (
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/adapters/booking"
	"github.com/koda/inbox-triage/internal/calendar"
	"github.com/koda/inbox-triage/internal/config"
	"github.com/koda/inbox-triage/internal/core"
)

// SchedulerFactory creates the availability engine from configuration
type SchedulerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSchedulerFactory creates a new scheduler factory
func NewSchedulerFactory(cfg *config.Config, logger *zap.Logger) *SchedulerFactory {
	return &SchedulerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateScheduler creates the availability engine over an in-memory booking
// store
func (f *SchedulerFactory) CreateScheduler() (core.Scheduler, error) {
	hoursCfg := f.cfg.GetBusinessHours()

	hours := calendar.BusinessHours{
		StartHour:   hoursCfg.StartHour,
		EndHour:     hoursCfg.EndHour,
		WorkingDays: make(map[time.Weekday]bool, len(hoursCfg.WorkingDays)),
	}
	for _, day := range hoursCfg.WorkingDays {
		hours.WorkingDays[time.Weekday(day)] = true
	}

	store := booking.NewMemoryStore(f.logger)
	return calendar.NewEngine(hours, store, f.logger, nil), nil
}
