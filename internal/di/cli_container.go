package di

import (
	"flag"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/adapters/mailbox"
	"github.com/koda/inbox-triage/internal/config"
	"github.com/koda/inbox-triage/internal/core"
	"github.com/koda/inbox-triage/internal/factory"
	"github.com/koda/inbox-triage/internal/logging"
	"github.com/koda/inbox-triage/internal/utils"
	"github.com/koda/inbox-triage/internal/whitelist"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Classifier flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Routing flags
	Send          bool
	BusinessPhone string
	MailboxAPIKey string
	InboxID       string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Classifier flags
	flag.StringVar(&flags.Provider, "provider", "rules", "Classifier provider (rules, bedrock, gemini, openai)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1024, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 2000, "Maximum message body size to send to the LLM")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Routing flags
	flag.BoolVar(&flags.Send, "send", false, "Actually send the composed reply (default is dry run)")
	flag.StringVar(&flags.BusinessPhone, "business-phone", "", "Phone number included in replies")
	flag.StringVar(&flags.MailboxAPIKey, "mailbox-api-key", "", "Mailbox API key (required with -send)")
	flag.StringVar(&flags.InboxID, "inbox-id", "", "Mailbox inbox ID (required with -send)")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input message file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSchedulerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
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

	// Register triage service with no cache and no trusted domains
	if err := container.Provide(func(
		classifier core.Classifier,
		logger *zap.Logger,
	) *core.TriageService {
		return core.NewTriageService(
			classifier,
			nil, // No cache for CLI
			whitelist.NewChecker(nil, logger),
			logger,
			false,            // Cache disabled
			time.Duration(0), // No TTL
		)
	}); err != nil {
		return nil, err
	}

	// Register scheduler
	if err := container.Provide(func(f *factory.SchedulerFactory) (core.Scheduler, error) {
		return f.CreateScheduler()
	}); err != nil {
		return nil, err
	}

	// Register mail sender
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.MailSender {
		mailboxCfg := cfg.GetMailbox()
		return mailbox.NewAgentmailClient(
			mailboxCfg.BaseURL,
			mailboxCfg.APIKey,
			mailboxCfg.InboxID,
			15*time.Second,
			logger,
		)
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

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set classifier provider
	v.Set("llm.provider", flags.Provider)
	v.Set("llm.max_body_size", flags.MaxBodySize)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	// Set routing configuration
	v.Set("router.send_enabled", flags.Send)
	v.Set("router.business_phone", flags.BusinessPhone)
	v.Set("mailbox.api_key", flags.MailboxAPIKey)
	v.Set("mailbox.inbox_id", flags.InboxID)

	return config.NewFromViper(v)
}
