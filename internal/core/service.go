package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/whitelist"
)

// TriageService is the core service for message triage. It wraps the
// configured classifier with the trusted-sender check and the optional
// result cache.
type TriageService struct {
	classifier   Classifier
	cache        TriageCache
	trusted      *whitelist.Checker
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewTriageService creates a new triage service
func NewTriageService(
	classifier Classifier,
	cache TriageCache,
	trusted *whitelist.Checker,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *TriageService {
	return &TriageService{
		classifier:   classifier,
		cache:        cache,
		trusted:      trusted,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// Triage classifies a message, consulting the cache first. It always returns
// a valid result.
func (s *TriageService) Triage(ctx context.Context, msg *Message) *TriageResult {
	if s.cacheEnabled && msg.ID != "" {
		if entry, err := s.cache.Get(ctx, msg.ID); err == nil {
			s.logger.Debug("Cache hit for message", zap.String("message_id", msg.ID))
			result := entry.Result
			return &result
		}
	}

	result := s.classifier.Classify(ctx, msg)

	// A known customer is never spam. The message still reaches a human via
	// the catch-all escalation instead of being dropped.
	if result.Intent == IntentSpam && s.trusted.IsTrusted(msg.From) {
		s.logger.Info("Suppressing spam intent for trusted sender",
			zap.String("sender", msg.From))
		result.Intent = IntentOther
		result.Confidence = ConfidenceMedium
		result.Reasoning += " Sender domain is trusted; spam intent suppressed."
	}

	if s.cacheEnabled && msg.ID != "" {
		entry := &CacheEntry{
			MessageID: msg.ID,
			Result:    *result,
			LastSeen:  time.Now(),
			ExpiresAt: time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update triage cache", zap.Error(err))
		}
	}

	return result
}
