package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LLMClassifier adapts an LLMClient to the Classifier contract. A backend
// failure of any kind (network, malformed output) is recovered into the
// default other/low result with the causing error recorded in the reasoning
// field; classification never propagates a crash.
type LLMClassifier struct {
	client LLMClient
	logger *zap.Logger
}

// NewLLMClassifier creates a classifier backed by an LLM client
func NewLLMClassifier(client LLMClient, logger *zap.Logger) *LLMClassifier {
	return &LLMClassifier{
		client: client,
		logger: logger,
	}
}

// Classify runs the model and falls back to FallbackResult on any error
func (c *LLMClassifier) Classify(ctx context.Context, msg *Message) *TriageResult {
	result, err := c.client.AnalyzeMessage(ctx, msg)
	if err != nil {
		c.logger.Warn("LLM triage failed, falling back to default result",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return FallbackResult(msg, err)
	}
	result.Normalize()
	if result.AnalyzedAt.IsZero() {
		result.AnalyzedAt = time.Now()
	}
	return result
}

// FallbackResult is the recovery result used when a classification backend
// fails: intent other, confidence low, the error text preserved for audit.
func FallbackResult(msg *Message, cause error) *TriageResult {
	summary := msg.Subject
	if summary == "" {
		summary = msg.Body
	}
	return &TriageResult{
		Intent:         IntentOther,
		ServiceType:    ServiceOther,
		Urgency:        UrgencyUnknown,
		Confidence:     ConfidenceLow,
		Summary:        clip(summary, 100),
		Reasoning:      fmt.Sprintf("classification backend error: %v", cause),
		PreferredTimes: []string{},
		AnalyzedAt:     time.Now(),
		ModelUsed:      "fallback",
	}
}
