package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/config"
	"github.com/koda/inbox-triage/internal/core"
	"github.com/koda/inbox-triage/internal/factory"
	"github.com/koda/inbox-triage/internal/logging"
	"github.com/koda/inbox-triage/internal/ports"
	"github.com/koda/inbox-triage/internal/utils"
	"github.com/koda/inbox-triage/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSchedulerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register triage cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.TriageCache, error) {
		return f.CreateTriageCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register trusted-sender checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetStringSlice("triage.trusted_domains"), logger)
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register scheduler
	if err := container.Provide(func(f *factory.SchedulerFactory) (core.Scheduler, error) {
		return f.CreateScheduler()
	}); err != nil {
		return nil, err
	}

	// Register mailbox client
	if err := container.Provide(func(f *factory.ProcessorFactory) (ports.Mailbox, error) {
		return f.CreateMailbox()
	}); err != nil {
		return nil, err
	}

	// Register mail sender. The mailbox client doubles as the reply sender.
	if err := container.Provide(func(mbox ports.Mailbox) core.MailSender {
		return mbox
	}); err != nil {
		return nil, err
	}

	// Register router configuration
	if err := container.Provide(func(cfg *config.Config) core.RouterConfig {
		schedulerCfg := cfg.GetScheduler()
		routerCfg := cfg.GetRouter()
		return core.RouterConfig{
			SendEnabled:    routerCfg.SendEnabled,
			SlotOfferCount: schedulerCfg.SlotOfferCount,
			SlotMinutes:    schedulerCfg.SlotDurationMinutes,
			BusinessPhone:  routerCfg.BusinessPhone,
		}
	}); err != nil {
		return nil, err
	}

	// Register action router
	if err := container.Provide(core.NewActionRouter); err != nil {
		return nil, err
	}

	// Register inbox processor
	if err := container.Provide(func(
		f *factory.ProcessorFactory,
		service *core.TriageService,
		router *core.ActionRouter,
		mbox ports.Mailbox,
	) (ports.InboxProcessor, error) {
		return f.CreateInboxProcessor(service, router, mbox)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
