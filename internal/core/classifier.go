package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// intentRule is one entry in the ordered intent rule table. The first rule
// whose keywords match (and whose negations do not) wins.
type intentRule struct {
	intent     Intent
	confidence Confidence
	keywords   []string
	negations  []string
}

// serviceRule classifies the service family. Families are checked in order
// and only the first matching family applies; within a family the failure
// keywords select repair over maintenance.
type serviceRule struct {
	keywords    []string
	repair      ServiceType
	maintenance ServiceType
}

// urgencyRule maps keyword sets to urgency levels, checked in order
type urgencyRule struct {
	urgency  Urgency
	keywords []string
}

var failureKeywords = []string{"broken", "not working", "stopped", "repair", "fix"}

// Rule tables. Order is the precedence contract: complaints are checked
// before bookings so "didn't show" never reads as a scheduling request.
var (
	intentRules = []intentRule{
		{
			intent:     IntentComplaint,
			confidence: ConfidenceHigh,
			keywords:   []string{"complaint", "unhappy", "disappointed", "didn't show", "late", "never showed", "no show"},
		},
		{
			intent:     IntentUrgent,
			confidence: ConfidenceHigh,
			keywords:   []string{"emergency", "urgent", "asap", "immediately", "critical"},
		},
		{
			intent:     IntentBooking,
			confidence: ConfidenceHigh,
			keywords:   []string{"book", "schedule", "appointment", "come out", "visit"},
			negations:  []string{"didn't", "never"},
		},
		{
			intent:     IntentQuestion,
			confidence: ConfidenceMedium,
			keywords:   []string{"how much", "cost", "price", "question", "?"},
		},
		{
			intent:     IntentSpam,
			confidence: ConfidenceHigh,
			keywords:   []string{"unsubscribe", "spam", "marketing", "click here"},
		},
	}

	serviceRules = []serviceRule{
		{
			keywords:    []string{"ac ", "air condition", "hvac", "heat", "furnace", "cooling"},
			repair:      ServiceHVACRepair,
			maintenance: ServiceHVACMaintenance,
		},
		{
			keywords:    []string{"plumb", "leak", "drain", "pipe", "toilet", "sink", "water"},
			repair:      ServicePlumbingRepair,
			maintenance: ServicePlumbingMaintenance,
		},
		{
			keywords:    []string{"electric", "wiring", "outlet", "breaker", "power"},
			repair:      ServiceElectricalRepair,
			maintenance: ServiceElectricalMaintenance,
		},
		{
			keywords:    []string{"clean", "maid", "house"},
			repair:      ServiceCleaning,
			maintenance: ServiceCleaning,
		},
		{
			keywords:    []string{"lawn", "grass", "landscape", "yard"},
			repair:      ServiceLandscaping,
			maintenance: ServiceLandscaping,
		},
	}

	// Plumbing failure indicators differ from the generic set: a clog is a
	// repair call even though nothing is "broken".
	plumbingFailureKeywords = []string{"leak", "broken", "clog"}

	urgencyRules = []urgencyRule{
		{urgency: UrgencyEmergency, keywords: []string{"emergency", "asap", "immediately", "critical", "dangerous"}},
		{urgency: UrgencyToday, keywords: []string{"today", "right now", "this morning", "this afternoon"}},
		{urgency: UrgencyThisWeek, keywords: []string{"this week", "soon", "quickly"}},
	}
)

// RuleClassifier is the deterministic keyword-based classifier. It is the
// default backend and the fallback reference for model-backed ones.
type RuleClassifier struct {
	logger *zap.Logger
}

// NewRuleClassifier creates a new rule-based classifier
func NewRuleClassifier(logger *zap.Logger) *RuleClassifier {
	return &RuleClassifier{logger: logger}
}

// Classify applies the ordered rule tables to a message. It always returns a
// valid result; a message matching nothing comes back as intent "other" with
// medium confidence.
func (c *RuleClassifier) Classify(_ context.Context, msg *Message) *TriageResult {
	text := strings.ToLower(msg.Subject + " " + msg.Body)

	result := &TriageResult{
		Intent:         IntentOther,
		ServiceType:    ServiceOther,
		Urgency:        UrgencyFlexible,
		Confidence:     ConfidenceMedium,
		PreferredTimes: []string{},
		ModelUsed:      "rules",
	}

	var matchedIntent []string
	for _, rule := range intentRules {
		matched := matchAny(text, rule.keywords)
		if len(matched) == 0 {
			continue
		}
		if len(matchAny(text, rule.negations)) > 0 {
			continue
		}
		result.Intent = rule.intent
		result.Confidence = rule.confidence
		matchedIntent = matched
		break
	}

	for _, rule := range serviceRules {
		if len(matchAny(text, rule.keywords)) == 0 {
			continue
		}
		failures := failureKeywords
		if rule.repair == ServicePlumbingRepair {
			failures = plumbingFailureKeywords
		}
		if len(matchAny(text, failures)) > 0 {
			result.ServiceType = rule.repair
		} else {
			result.ServiceType = rule.maintenance
		}
		break
	}

	for _, rule := range urgencyRules {
		if len(matchAny(text, rule.keywords)) > 0 {
			result.Urgency = rule.urgency
			break
		}
	}

	result.Summary = c.summarize(msg, result)
	result.Reasoning = c.trace(result, matchedIntent)

	c.logger.Debug("Classified message",
		zap.String("message_id", msg.ID),
		zap.String("intent", string(result.Intent)),
		zap.String("service_type", string(result.ServiceType)),
		zap.String("urgency", string(result.Urgency)),
		zap.Strings("matched_keywords", matchedIntent))

	return result
}

// summarize builds a templated summary for recognized intents and falls back
// to the subject (or body) for everything else
func (c *RuleClassifier) summarize(msg *Message, result *TriageResult) string {
	if result.Intent != IntentOther {
		return fmt.Sprintf("%s request for %s, urgency: %s",
			titleCase(string(result.Intent)),
			strings.ReplaceAll(string(result.ServiceType), "_", " "),
			result.Urgency)
	}
	if msg.Subject != "" {
		return clip(msg.Subject, 100)
	}
	return clip(msg.Body, 100)
}

// trace records which rules fired. The reasoning field is part of the
// contract: it is the audit trail for why a message was routed as it was.
func (c *RuleClassifier) trace(result *TriageResult, matchedIntent []string) string {
	if len(matchedIntent) == 0 {
		return fmt.Sprintf("No intent keywords matched. Service type: %s. Urgency: %s.",
			result.ServiceType, result.Urgency)
	}
	return fmt.Sprintf("Detected %s intent based on keywords (%s). Service type: %s. Urgency: %s.",
		result.Intent, strings.Join(matchedIntent, ", "), result.ServiceType, result.Urgency)
}

// matchAny returns the subset of keywords present in text
func matchAny(text string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
