package core

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestRuleClassifierClassify(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		body        string
		wantIntent  Intent
		wantService ServiceType
		wantUrgency Urgency
	}{
		{
			name:        "hvac repair needed today",
			subject:     "AC not working - need help today!",
			body:        "Hi, our air conditioning stopped working this morning. It's getting hot in here. Can someone come out today? We need this fixed as soon as possible.",
			wantIntent:  IntentBooking,
			wantService: ServiceHVACRepair,
			wantUrgency: UrgencyToday,
		},
		{
			name:        "complaint wins over booking keywords",
			subject:     "Technician never showed up",
			body:        "I'm very unhappy. The technician never showed up for my appointment yesterday.",
			wantIntent:  IntentComplaint,
			wantService: ServiceOther,
			wantUrgency: UrgencyFlexible,
		},
		{
			name:        "negation suppresses booking",
			subject:     "Wrong invoice",
			body:        "We didn't book any service last month, please check your records.",
			wantIntent:  IntentOther,
			wantService: ServiceOther,
			wantUrgency: UrgencyFlexible,
		},
		{
			name:        "pricing question",
			subject:     "Furnace tune-up pricing",
			body:        "How much does a furnace tune-up cost for a two story house",
			wantIntent:  IntentQuestion,
			wantService: ServiceHVACMaintenance,
			wantUrgency: UrgencyFlexible,
		},
		{
			name:        "plumbing clog is a repair",
			subject:     "Kitchen sink is clogged",
			body:        "The drain has a bad clog. Can you schedule a visit sometime",
			wantIntent:  IntentBooking,
			wantService: ServicePlumbingRepair,
			wantUrgency: UrgencyFlexible,
		},
		{
			name:        "emergency leak",
			subject:     "EMERGENCY: water leaking everywhere",
			body:        "A pipe burst and water is leaking into the basement. Please send someone immediately.",
			wantIntent:  IntentUrgent,
			wantService: ServicePlumbingRepair,
			wantUrgency: UrgencyEmergency,
		},
		{
			name:        "marketing spam",
			subject:     "Grow your business fast",
			body:        "Our marketing platform gets results. Click here to learn more. Reply unsubscribe to opt out.",
			wantIntent:  IntentSpam,
			wantService: ServiceOther,
			wantUrgency: UrgencyFlexible,
		},
		{
			name:        "nothing matches",
			subject:     "Hello",
			body:        "Just wanted to say thanks for the great work last month.",
			wantIntent:  IntentOther,
			wantService: ServiceOther,
			wantUrgency: UrgencyFlexible,
		},
		{
			name:        "this week landscaping",
			subject:     "Lawn service",
			body:        "Our yard needs mowing. Could you schedule us in soon?",
			wantIntent:  IntentBooking,
			wantService: ServiceLandscaping,
			wantUrgency: UrgencyThisWeek,
		},
	}

	classifier := NewRuleClassifier(zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{ID: "m1", From: "customer@example.com", Subject: tt.subject, Body: tt.body}
			result := classifier.Classify(context.Background(), msg)

			if result.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q (reasoning: %s)", result.Intent, tt.wantIntent, result.Reasoning)
			}
			if result.ServiceType != tt.wantService {
				t.Errorf("service type = %q, want %q", result.ServiceType, tt.wantService)
			}
			if result.Urgency != tt.wantUrgency {
				t.Errorf("urgency = %q, want %q", result.Urgency, tt.wantUrgency)
			}
			if result.Summary == "" {
				t.Error("summary is empty")
			}
			if result.Reasoning == "" {
				t.Error("reasoning is empty")
			}
			if result.ModelUsed != "rules" {
				t.Errorf("model used = %q, want %q", result.ModelUsed, "rules")
			}
			if result.PreferredTimes == nil {
				t.Error("preferred times is nil, want empty slice")
			}
		})
	}
}

func TestRuleClassifierReasoningNamesKeywords(t *testing.T) {
	classifier := NewRuleClassifier(zap.NewNop())
	msg := &Message{Subject: "Please schedule a visit", Body: "We would like to book an appointment."}

	result := classifier.Classify(context.Background(), msg)

	if result.Intent != IntentBooking {
		t.Fatalf("intent = %q, want booking", result.Intent)
	}
	for _, kw := range []string{"book", "schedule", "appointment"} {
		if !strings.Contains(result.Reasoning, kw) {
			t.Errorf("reasoning %q does not mention matched keyword %q", result.Reasoning, kw)
		}
	}
}

func TestRuleClassifierConfidence(t *testing.T) {
	classifier := NewRuleClassifier(zap.NewNop())

	booking := classifier.Classify(context.Background(), &Message{Body: "please schedule a visit"})
	if booking.Confidence != ConfidenceHigh {
		t.Errorf("booking confidence = %q, want high", booking.Confidence)
	}

	question := classifier.Classify(context.Background(), &Message{Body: "how much is a tune-up"})
	if question.Confidence != ConfidenceMedium {
		t.Errorf("question confidence = %q, want medium", question.Confidence)
	}

	unmatched := classifier.Classify(context.Background(), &Message{Body: "greetings"})
	if unmatched.Confidence != ConfidenceMedium {
		t.Errorf("unmatched confidence = %q, want medium", unmatched.Confidence)
	}
}
