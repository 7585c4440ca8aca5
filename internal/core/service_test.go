package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/whitelist"
)

type countingClassifier struct {
	result TriageResult
	calls  int
}

func (c *countingClassifier) Classify(_ context.Context, _ *Message) *TriageResult {
	c.calls++
	result := c.result
	return &result
}

type stubCache struct {
	entries map[string]*CacheEntry
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*CacheEntry)}
}

func (s *stubCache) Get(_ context.Context, messageID string) (*CacheEntry, error) {
	entry, ok := s.entries[messageID]
	if !ok {
		return nil, errors.New("not found")
	}
	return entry, nil
}

func (s *stubCache) Set(_ context.Context, entry *CacheEntry) error {
	s.sets++
	s.entries[entry.MessageID] = entry
	return nil
}

func (s *stubCache) Delete(_ context.Context, messageID string) error {
	delete(s.entries, messageID)
	return nil
}

func (s *stubCache) Cleanup(_ context.Context) error { return nil }

func TestTriageUsesCache(t *testing.T) {
	classifier := &countingClassifier{result: TriageResult{Intent: IntentBooking, Urgency: UrgencyToday}}
	cache := newStubCache()
	service := NewTriageService(classifier, cache, whitelist.NewChecker(nil, nil), zap.NewNop(), true, time.Hour)

	msg := &Message{ID: "m1", From: "customer@example.com", Body: "schedule a visit"}

	first := service.Triage(context.Background(), msg)
	second := service.Triage(context.Background(), msg)

	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
	if cache.sets != 1 {
		t.Errorf("cache set %d times, want 1", cache.sets)
	}
	if first.Intent != second.Intent || first.Urgency != second.Urgency {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestTriageCacheDisabled(t *testing.T) {
	classifier := &countingClassifier{result: TriageResult{Intent: IntentQuestion}}
	cache := newStubCache()
	service := NewTriageService(classifier, cache, whitelist.NewChecker(nil, nil), zap.NewNop(), false, 0)

	msg := &Message{ID: "m1", From: "customer@example.com"}
	service.Triage(context.Background(), msg)
	service.Triage(context.Background(), msg)

	if classifier.calls != 2 {
		t.Errorf("classifier called %d times, want 2", classifier.calls)
	}
	if cache.sets != 0 {
		t.Errorf("cache set %d times, want 0", cache.sets)
	}
}

func TestTriageSkipsCacheWithoutMessageID(t *testing.T) {
	classifier := &countingClassifier{result: TriageResult{Intent: IntentOther}}
	cache := newStubCache()
	service := NewTriageService(classifier, cache, whitelist.NewChecker(nil, nil), zap.NewNop(), true, time.Hour)

	msg := &Message{From: "customer@example.com"}
	service.Triage(context.Background(), msg)

	if cache.sets != 0 {
		t.Errorf("cache set %d times for a message without ID, want 0", cache.sets)
	}
}

func TestTriageSuppressesSpamForTrustedSender(t *testing.T) {
	classifier := &countingClassifier{result: TriageResult{
		Intent:     IntentSpam,
		Confidence: ConfidenceHigh,
		Reasoning:  "Detected spam intent based on keywords (marketing).",
	}}
	checker := whitelist.NewChecker([]string{"example.com"}, nil)
	service := NewTriageService(classifier, newStubCache(), checker, zap.NewNop(), false, 0)

	msg := &Message{ID: "m1", From: "Bob <bob@example.com>", Body: "marketing stuff"}
	result := service.Triage(context.Background(), msg)

	if result.Intent != IntentOther {
		t.Errorf("intent = %q, want other for trusted sender", result.Intent)
	}
	if result.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %q, want medium", result.Confidence)
	}
	if !strings.Contains(result.Reasoning, "trusted") {
		t.Errorf("reasoning does not note the suppression: %q", result.Reasoning)
	}
}

func TestTriageKeepsSpamForUnknownSender(t *testing.T) {
	classifier := &countingClassifier{result: TriageResult{Intent: IntentSpam}}
	checker := whitelist.NewChecker([]string{"example.com"}, nil)
	service := NewTriageService(classifier, newStubCache(), checker, zap.NewNop(), false, 0)

	msg := &Message{ID: "m1", From: "stranger@elsewhere.net"}
	result := service.Triage(context.Background(), msg)

	if result.Intent != IntentSpam {
		t.Errorf("intent = %q, want spam for unknown sender", result.Intent)
	}
}
