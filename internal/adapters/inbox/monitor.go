package inbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
	"github.com/koda/inbox-triage/internal/ports"
)

// Monitor polls a remote mailbox and drives each new message through triage
// and routing
type Monitor struct {
	mailbox      ports.Mailbox
	service      *core.TriageService
	router       *core.ActionRouter
	logger       *zap.Logger
	batchSize    int
	pollInterval time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewMonitor creates a new polling inbox monitor
func NewMonitor(
	mailbox ports.Mailbox,
	service *core.TriageService,
	router *core.ActionRouter,
	logger *zap.Logger,
	batchSize int,
	pollInterval time.Duration,
) *Monitor {
	return &Monitor{
		mailbox:      mailbox,
		service:      service,
		router:       router,
		logger:       logger,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start begins polling the mailbox in a background goroutine
func (m *Monitor) Start() error {
	m.logger.Info("Inbox monitor starting",
		zap.Int("batch_size", m.batchSize),
		zap.Duration("poll_interval", m.pollInterval))

	go m.pollLoop()
	return nil
}

// Stop halts polling and waits for the current cycle to finish
func (m *Monitor) Stop() error {
	close(m.stopCh)
	<-m.doneCh
	return nil
}

func (m *Monitor) pollLoop() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	// Run one cycle immediately so a short-lived process still does work
	if err := m.ProcessBatch(context.Background()); err != nil {
		m.logger.Error("Failed to process inbox batch", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := m.ProcessBatch(context.Background()); err != nil {
				m.logger.Error("Failed to process inbox batch", zap.Error(err))
			}
		case <-m.stopCh:
			return
		}
	}
}

// ProcessBatch fetches the most recent messages and handles each one. A
// failure on one message is logged and does not stop the rest of the batch.
func (m *Monitor) ProcessBatch(ctx context.Context) error {
	messages, err := m.mailbox.FetchRecent(ctx, m.batchSize)
	if err != nil {
		return err
	}

	m.logger.Debug("Fetched inbox messages", zap.Int("count", len(messages)))

	for i := range messages {
		msg := &messages[i]

		result := m.service.Triage(ctx, msg)

		decision, err := m.router.Route(ctx, msg, result)
		if err != nil {
			m.logger.Error("Failed to route message",
				zap.Error(err),
				zap.String("message_id", msg.ID),
				zap.String("from", msg.From))
			continue
		}

		m.logger.Info("Handled message",
			zap.String("message_id", msg.ID),
			zap.String("from", msg.From),
			zap.String("intent", string(result.Intent)),
			zap.String("urgency", string(result.Urgency)),
			zap.String("action", string(decision.Action)),
			zap.Bool("reply_sent", decision.ReplySent),
			zap.Bool("needs_human", decision.NeedsHuman))
	}

	return nil
}
