package core

import (
	"context"
)

// Classifier turns a raw message into a structured triage result. It never
// fails: malformed or ambiguous input yields a best-effort result with
// default fields rather than an error.
type Classifier interface {
	Classify(ctx context.Context, msg *Message) *TriageResult
}

// LLMClient defines the interface for model-backed triage backends
type LLMClient interface {
	// AnalyzeMessage classifies a message using an LLM
	AnalyzeMessage(ctx context.Context, msg *Message) (*TriageResult, error)
}

// Scheduler exposes appointment availability and booking
type Scheduler interface {
	// ListAvailability returns all open slots within business hours over the
	// next daysAhead days, strictly in the future, chronologically ascending
	ListAvailability(ctx context.Context, daysAhead, durationMinutes int) ([]TimeSlot, error)

	// NextAvailableSlots maps urgency to a lookahead window and returns the
	// first count slots within it
	NextAvailableSlots(ctx context.Context, count int, urgency Urgency) ([]TimeSlot, error)

	// Book commits an appointment, failing if the interval overlaps an
	// existing booking
	Book(ctx context.Context, req BookingRequest) (*BookingConfirmation, error)

	// FormatSlot renders a slot in a customer-friendly way
	FormatSlot(slot TimeSlot) string
}

// TriageCache caches triage results by message ID so repeated polls of the
// same inbox do not re-run classification
type TriageCache interface {
	// Get retrieves a cached entry for a message
	Get(ctx context.Context, messageID string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, messageID string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// MailSender sends outbound replies
type MailSender interface {
	// SendReply sends a reply and returns the provider message ID
	SendReply(ctx context.Context, to, subject, text string) (string, error)
}
