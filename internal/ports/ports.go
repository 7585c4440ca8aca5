package ports

import (
	"context"

	"github.com/koda/inbox-triage/internal/core"
)

// InboxProcessor consumes incoming customer messages and drives them through
// triage and routing
type InboxProcessor interface {
	// Start begins processing messages
	Start() error

	// Stop halts processing and releases resources
	Stop() error

	// ProcessBatch runs a single fetch-and-handle cycle
	ProcessBatch(ctx context.Context) error
}

// Mailbox provides access to a remote mailbox for reading customer messages
// and sending replies
type Mailbox interface {
	// FetchRecent returns the most recent messages in the inbox
	FetchRecent(ctx context.Context, limit int) ([]core.Message, error)

	// SendReply sends a plain-text reply and returns the provider message ID
	SendReply(ctx context.Context, to, subject, text string) (string, error)
}
