package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/adapters/bedrock"
	"github.com/koda/inbox-triage/internal/adapters/gemini"
	"github.com/koda/inbox-triage/internal/adapters/openai"
	"github.com/koda/inbox-triage/internal/config"
	"github.com/koda/inbox-triage/internal/core"
	"github.com/koda/inbox-triage/internal/utils"
)

// ClassifierFactory creates classifiers based on configuration
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a classifier based on the configured provider.
// "rules" is the deterministic keyword classifier; the remaining providers
// wrap an LLM backend with fallback to the default result on failure.
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "rules":
		return core.NewRuleClassifier(f.logger), nil
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		client, err := factory.CreateLLMClient()
		if err != nil {
			return nil, err
		}
		return core.NewLLMClassifier(client, f.logger), nil
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.textProcessor)
		client, err := factory.CreateLLMClient()
		if err != nil {
			return nil, err
		}
		return core.NewLLMClassifier(client, f.logger), nil
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor)
		client, err := factory.CreateLLMClient()
		if err != nil {
			return nil, err
		}
		return core.NewLLMClassifier(client, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", llmConfig.Provider)
	}
}
