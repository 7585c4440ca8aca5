package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubLLMClient struct {
	result *TriageResult
	err    error
}

func (s *stubLLMClient) AnalyzeMessage(_ context.Context, _ *Message) (*TriageResult, error) {
	return s.result, s.err
}

func TestLLMClassifierFallsBackOnError(t *testing.T) {
	client := &stubLLMClient{err: errors.New("model unavailable")}
	classifier := NewLLMClassifier(client, zap.NewNop())

	msg := &Message{ID: "m1", Subject: "AC broken", Body: "help"}
	result := classifier.Classify(context.Background(), msg)

	if result.Intent != IntentOther {
		t.Errorf("intent = %q, want other", result.Intent)
	}
	if result.Urgency != UrgencyUnknown {
		t.Errorf("urgency = %q, want unknown", result.Urgency)
	}
	if result.Confidence != ConfidenceLow {
		t.Errorf("confidence = %q, want low", result.Confidence)
	}
	if result.Summary != "AC broken" {
		t.Errorf("summary = %q, want the subject", result.Summary)
	}
	if !strings.Contains(result.Reasoning, "model unavailable") {
		t.Errorf("reasoning does not carry the cause: %q", result.Reasoning)
	}
	if result.ModelUsed != "fallback" {
		t.Errorf("model used = %q, want fallback", result.ModelUsed)
	}
}

func TestLLMClassifierNormalizesPartialResult(t *testing.T) {
	client := &stubLLMClient{result: &TriageResult{Intent: IntentBooking}}
	classifier := NewLLMClassifier(client, zap.NewNop())

	result := classifier.Classify(context.Background(), &Message{ID: "m1"})

	if result.Intent != IntentBooking {
		t.Errorf("intent = %q, want booking", result.Intent)
	}
	if result.ServiceType != ServiceOther {
		t.Errorf("service type = %q, want other default", result.ServiceType)
	}
	if result.Urgency != UrgencyUnknown {
		t.Errorf("urgency = %q, want unknown default", result.Urgency)
	}
	if result.PreferredTimes == nil {
		t.Error("preferred times not defaulted to empty slice")
	}
	if result.AnalyzedAt.IsZero() {
		t.Error("analyzed at not stamped")
	}
}
