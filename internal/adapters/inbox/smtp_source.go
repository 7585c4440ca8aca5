package inbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
)

// SMTPSource accepts customer messages over SMTP and drives them through
// triage and routing. It always accepts the message; triage failures are
// logged rather than bounced back to the customer.
type SMTPSource struct {
	service    *core.TriageService
	router     *core.ActionRouter
	logger     *zap.Logger
	listenAddr string
	server     *smtp.Server
}

// NewSMTPSource creates a new SMTP ingestion source
func NewSMTPSource(
	service *core.TriageService,
	router *core.ActionRouter,
	logger *zap.Logger,
	listenAddr string,
) *SMTPSource {
	return &SMTPSource{
		service:    service,
		router:     router,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// Start starts the SMTP server
func (s *SMTPSource) Start() error {
	s.server = smtp.NewServer(&smtpBackend{source: s})

	s.server.Addr = s.listenAddr
	s.server.Domain = "localhost"
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = 10 * 1024 * 1024 // 10MB
	s.server.MaxRecipients = 10
	s.server.AllowInsecureAuth = true

	s.logger.Info("SMTP source starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				s.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (s *SMTPSource) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// ProcessBatch is a no-op for the SMTP source; messages arrive through the
// server instead of being pulled.
func (s *SMTPSource) ProcessBatch(_ context.Context) error {
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	source *SMTPSource
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{source: b.source}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	source *SMTPSource
	sender string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// AuthPlain handles PLAIN authentication (not needed for this source)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts any recipient; there is only one inbox behind this source
func (s *smtpSession) Rcpt(_ string, _ *smtp.RcptOptions) error {
	return nil
}

// Data handles the message data
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.source.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.source.logger.Error("Failed to parse message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.source.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	from := s.sender
	if header := msg.Header.Get("From"); header != "" {
		from = header
	}

	message := &core.Message{
		ID:         messageID(msg),
		From:       from,
		Subject:    msg.Header.Get("Subject"),
		Body:       textContent,
		ReceivedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := s.source.service.Triage(ctx, message)

	decision, err := s.source.router.Route(ctx, message, result)
	if err != nil {
		// Never bounce customer mail over an internal failure
		s.source.logger.Error("Failed to route message",
			zap.Error(err),
			zap.String("from", message.From))
		return nil
	}

	s.source.logger.Info("Handled message",
		zap.String("message_id", message.ID),
		zap.String("from", message.From),
		zap.String("intent", string(result.Intent)),
		zap.String("urgency", string(result.Urgency)),
		zap.String("action", string(decision.Action)),
		zap.Bool("reply_sent", decision.ReplySent))

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}

// messageID uses the Message-ID header when present, otherwise synthesizes
// a stable-enough identifier from sender and time
func messageID(msg *mail.Message) string {
	if id := msg.Header.Get("Message-ID"); id != "" {
		return strings.Trim(id, "<>")
	}
	return fmt.Sprintf("smtp-%d", time.Now().UnixNano())
}
