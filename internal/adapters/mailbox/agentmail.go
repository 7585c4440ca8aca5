package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
)

// AgentmailClient talks to the Agentmail REST API for reading inbox messages
// and sending replies
type AgentmailClient struct {
	baseURL    string
	apiKey     string
	inboxID    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAgentmailClient creates a new Agentmail API client
func NewAgentmailClient(baseURL, apiKey, inboxID string, timeout time.Duration, logger *zap.Logger) *AgentmailClient {
	return &AgentmailClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		inboxID:    inboxID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type agentmailMessage struct {
	MessageID string    `json:"message_id"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

type listMessagesResponse struct {
	Messages []agentmailMessage `json:"messages"`
}

type sendMessageRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type sendMessageResponse struct {
	MessageID string `json:"message_id"`
}

// FetchRecent returns the most recent messages in the inbox
func (c *AgentmailClient) FetchRecent(ctx context.Context, limit int) ([]core.Message, error) {
	endpoint := fmt.Sprintf("%s/inboxes/%s/messages?limit=%d",
		c.baseURL, url.PathEscape(c.inboxID), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list messages returned status %d: %s", resp.StatusCode, string(body))
	}

	var listResp listMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode message list: %w", err)
	}

	messages := make([]core.Message, 0, len(listResp.Messages))
	for _, m := range listResp.Messages {
		body := m.Text
		if body == "" {
			body = m.Preview
		}
		messages = append(messages, core.Message{
			ID:         m.MessageID,
			From:       m.From,
			Subject:    m.Subject,
			Body:       body,
			ReceivedAt: m.CreatedAt,
		})
	}

	return messages, nil
}

// SendReply sends a plain-text reply and returns the provider message ID
func (c *AgentmailClient) SendReply(ctx context.Context, to, subject, text string) (string, error) {
	endpoint := fmt.Sprintf("%s/inboxes/%s/messages/send",
		c.baseURL, url.PathEscape(c.inboxID))

	payload, err := json.Marshal(sendMessageRequest{
		To:      to,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("send reply returned status %d: %s", resp.StatusCode, string(body))
	}

	var sendResp sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return "", fmt.Errorf("failed to decode send response: %w", err)
	}

	c.logger.Info("Sent reply",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("message_id", sendResp.MessageID))

	return sendResp.MessageID, nil
}
