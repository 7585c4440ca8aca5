package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/adapters/inbox"
	"github.com/koda/inbox-triage/internal/adapters/mailbox"
	"github.com/koda/inbox-triage/internal/config"
	"github.com/koda/inbox-triage/internal/core"
	"github.com/koda/inbox-triage/internal/ports"
)

// ProcessorFactory creates the mailbox client and the inbox processor based
// on configuration
type ProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProcessorFactory creates a new processor factory
func NewProcessorFactory(cfg *config.Config, logger *zap.Logger) *ProcessorFactory {
	return &ProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailbox creates the mailbox API client. Missing credentials fail
// fast at startup instead of at first use: polling cannot work without them,
// and neither can live sending.
func (f *ProcessorFactory) CreateMailbox() (ports.Mailbox, error) {
	mailboxCfg := f.cfg.GetMailbox()

	credsMissing := mailboxCfg.APIKey == "" || mailboxCfg.InboxID == ""
	if mailboxCfg.Source == "poll" && credsMissing {
		return nil, fmt.Errorf("mailbox api_key and inbox_id are required for the poll source")
	}
	if f.cfg.GetBool("router.send_enabled") && credsMissing {
		return nil, fmt.Errorf("mailbox api_key and inbox_id are required when sending is enabled")
	}

	httpTimeout, err := f.cfg.GetDuration("mailbox.http_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid mailbox HTTP timeout: %w", err)
	}

	return mailbox.NewAgentmailClient(
		mailboxCfg.BaseURL,
		mailboxCfg.APIKey,
		mailboxCfg.InboxID,
		httpTimeout,
		f.logger,
	), nil
}

// CreateInboxProcessor creates the configured message source
func (f *ProcessorFactory) CreateInboxProcessor(
	service *core.TriageService,
	router *core.ActionRouter,
	mbox ports.Mailbox,
) (ports.InboxProcessor, error) {
	mailboxCfg := f.cfg.GetMailbox()

	switch mailboxCfg.Source {
	case "poll":
		pollInterval, err := f.cfg.GetDuration("mailbox.poll_interval")
		if err != nil {
			return nil, fmt.Errorf("invalid mailbox poll interval: %w", err)
		}
		return inbox.NewMonitor(
			mbox,
			service,
			router,
			f.logger,
			mailboxCfg.BatchSize,
			pollInterval,
		), nil
	case "smtp":
		return inbox.NewSMTPSource(
			service,
			router,
			f.logger,
			f.cfg.GetString("smtp.listen_address"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported mailbox source: %s", mailboxCfg.Source)
	}
}
