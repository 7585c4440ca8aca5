package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RouterConfig holds the routing knobs. SendEnabled is the safety switch:
// when false the router still composes and logs reply text but sends nothing.
type RouterConfig struct {
	SendEnabled    bool
	SlotOfferCount int
	SlotMinutes    int
	BusinessPhone  string
}

// ActionRouter maps a (message, triage result) pair to exactly one action.
// It is a single-step state machine with fixed precedence and no state of
// its own beyond the injected collaborators.
type ActionRouter struct {
	scheduler Scheduler
	sender    MailSender
	logger    *zap.Logger
	cfg       RouterConfig
}

// NewActionRouter creates a new router
func NewActionRouter(scheduler Scheduler, sender MailSender, logger *zap.Logger, cfg RouterConfig) *ActionRouter {
	if cfg.SlotOfferCount <= 0 {
		cfg.SlotOfferCount = 4
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 60
	}
	if cfg.BusinessPhone == "" {
		cfg.BusinessPhone = "[BUSINESS_PHONE]"
	}
	return &ActionRouter{
		scheduler: scheduler,
		sender:    sender,
		logger:    logger,
		cfg:       cfg,
	}
}

// Route decides and executes the action for one triaged message. Precedence,
// first match wins:
//
//  1. emergency urgency  -> escalate urgent (acknowledgment reply)
//  2. booking intent     -> offer slots, or report no availability
//  3. question intent    -> escalate for review
//  4. complaint intent   -> escalate complaint
//  5. spam intent        -> mark spam, no reply
//  6. anything else      -> escalate unknown
//
// A send failure is returned alongside the decision; the decision itself is
// always valid so one message's failure never aborts the batch.
func (r *ActionRouter) Route(ctx context.Context, msg *Message, triage *TriageResult) (*RouteDecision, error) {
	switch {
	case triage.Urgency == UrgencyEmergency:
		return r.escalateUrgent(ctx, msg, triage)
	case triage.Intent == IntentBooking:
		return r.handleBooking(ctx, msg, triage)
	case triage.Intent == IntentQuestion:
		r.logger.Info("Question escalated for review",
			zap.String("sender", msg.From),
			zap.String("summary", triage.Summary))
		return &RouteDecision{Action: ActionEscalateForReview, NeedsHuman: true}, nil
	case triage.Intent == IntentComplaint:
		r.logger.Warn("Complaint escalated",
			zap.String("sender", msg.From),
			zap.String("summary", triage.Summary))
		return &RouteDecision{Action: ActionEscalateComplaint, NeedsHuman: true}, nil
	case triage.Intent == IntentSpam:
		r.logger.Info("Message marked as spam",
			zap.String("sender", msg.From),
			zap.String("subject", msg.Subject))
		return &RouteDecision{Action: ActionMarkSpam}, nil
	default:
		r.logger.Info("Unclassified message escalated",
			zap.String("sender", msg.From),
			zap.String("summary", triage.Summary))
		return &RouteDecision{Action: ActionEscalateUnknown, NeedsHuman: true}, nil
	}
}

// escalateUrgent acknowledges the customer and flags for immediate human
// contact. No calendar lookup: a human dispatches emergencies.
func (r *ActionRouter) escalateUrgent(ctx context.Context, msg *Message, triage *TriageResult) (*RouteDecision, error) {
	r.logger.Warn("Urgent escalation",
		zap.String("sender", msg.From),
		zap.String("summary", triage.Summary))

	reply := r.composeUrgentReply(triage)
	decision := &RouteDecision{
		Action:     ActionEscalateUrgent,
		Reply:      reply,
		NeedsHuman: true,
	}
	err := r.deliver(ctx, msg, reply, decision)
	return decision, err
}

// handleBooking offers the next available slots for the triaged urgency
func (r *ActionRouter) handleBooking(ctx context.Context, msg *Message, triage *TriageResult) (*RouteDecision, error) {
	slots, err := r.scheduler.NextAvailableSlots(ctx, r.cfg.SlotOfferCount, triage.Urgency)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}

	if len(slots) == 0 {
		// A legitimate business outcome, not an error: someone has to call
		// the customer back.
		r.logger.Warn("No availability for booking request",
			zap.String("sender", msg.From),
			zap.String("urgency", string(triage.Urgency)))
		return &RouteDecision{Action: ActionNoAvailability, NeedsHuman: true}, nil
	}

	reply := r.composeBookingReply(triage.ServiceType, slots)
	decision := &RouteDecision{
		Action:       ActionBookingOptionsSent,
		Reply:        reply,
		OfferedSlots: slots,
	}
	err = r.deliver(ctx, msg, reply, decision)

	offered := make([]string, len(slots))
	for i, s := range slots {
		offered[i] = r.scheduler.FormatSlot(s)
	}
	r.logger.Info("Booking options prepared",
		zap.String("sender", msg.From),
		zap.Strings("slots", offered))

	return decision, err
}

// deliver sends the composed reply when sending is enabled. In dry-run mode
// the reply is logged instead, which is a supported operating mode rather
// than a debug path.
func (r *ActionRouter) deliver(ctx context.Context, msg *Message, reply string, decision *RouteDecision) error {
	subject := "Re: " + msg.Subject
	if msg.Subject == "" {
		subject = "Re: Your request"
	}

	if !r.cfg.SendEnabled {
		r.logger.Info("Dry run: reply composed but not sent",
			zap.String("to", msg.From),
			zap.String("subject", subject),
			zap.Int("reply_bytes", len(reply)))
		return nil
	}

	messageID, err := r.sender.SendReply(ctx, msg.From, subject, reply)
	if err != nil {
		r.logger.Error("Failed to send reply",
			zap.String("to", msg.From),
			zap.Error(err))
		return fmt.Errorf("failed to send reply to %s: %w", msg.From, err)
	}

	decision.ReplySent = true
	r.logger.Info("Reply sent",
		zap.String("to", msg.From),
		zap.String("provider_message_id", messageID))
	return nil
}

func (r *ActionRouter) composeUrgentReply(triage *TriageResult) string {
	return fmt.Sprintf(`Thank you for contacting us. We've received your urgent request.

We're escalating this to our team immediately and will contact you as soon as possible.

If you haven't already, please call us directly at: %s

Summary of your request: %s

Best regards,
Customer Service Team`, r.cfg.BusinessPhone, triage.Summary)
}

func (r *ActionRouter) composeBookingReply(serviceType ServiceType, slots []TimeSlot) string {
	var offers strings.Builder
	for i, slot := range slots {
		fmt.Fprintf(&offers, "- Option %d: %s\n", i+1, r.scheduler.FormatSlot(slot))
	}

	return fmt.Sprintf(`Thank you for your %s request.

We have the following times available:

%s
Please reply with your preferred option number (1-%d) and we'll get you scheduled right away.

For urgent matters, you can also call us directly at: %s

Best regards,
Scheduling Team`,
		strings.ReplaceAll(string(serviceType), "_", " "),
		offers.String(),
		len(slots),
		r.cfg.BusinessPhone)
}
