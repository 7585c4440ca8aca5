package core

import (
	"time"
)

// Intent is the classified purpose of a customer message
type Intent string

const (
	IntentBooking   Intent = "booking"
	IntentQuestion  Intent = "question"
	IntentComplaint Intent = "complaint"
	IntentUrgent    Intent = "urgent"
	IntentSpam      Intent = "spam"
	IntentOther     Intent = "other"
)

// ServiceType is the detected line of business a message relates to
type ServiceType string

const (
	ServiceHVACRepair            ServiceType = "hvac_repair"
	ServiceHVACMaintenance       ServiceType = "hvac_maintenance"
	ServicePlumbingRepair        ServiceType = "plumbing_repair"
	ServicePlumbingMaintenance   ServiceType = "plumbing_maintenance"
	ServiceElectricalRepair      ServiceType = "electrical_repair"
	ServiceElectricalMaintenance ServiceType = "electrical_maintenance"
	ServiceCleaning              ServiceType = "cleaning"
	ServiceLandscaping           ServiceType = "landscaping"
	ServiceOther                 ServiceType = "other"
)

// Urgency is how soon the customer needs service
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyToday     Urgency = "today"
	UrgencyThisWeek  Urgency = "this_week"
	UrgencyFlexible  Urgency = "flexible"
	UrgencyUnknown   Urgency = "unknown"
)

// Confidence is the classifier's confidence in its own result
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Message represents an inbound customer message
type Message struct {
	ID         string
	From       string
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// TriageResult represents the structured classification of a message
type TriageResult struct {
	Intent          Intent      `json:"intent"`
	ServiceType     ServiceType `json:"service_type"`
	Urgency         Urgency     `json:"urgency"`
	Confidence      Confidence  `json:"confidence"`
	Summary         string      `json:"summary"`
	Reasoning       string      `json:"reasoning"`
	PreferredTimes  []string    `json:"preferred_times"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	CustomerAddress string      `json:"customer_address,omitempty"`
	AnalyzedAt      time.Time   `json:"-"`
	ModelUsed       string      `json:"-"`
}

// Normalize fills in missing required fields with their documented defaults
// so downstream code never sees an absent value.
func (r *TriageResult) Normalize() {
	if r.Intent == "" {
		r.Intent = IntentOther
	}
	if r.ServiceType == "" {
		r.ServiceType = ServiceOther
	}
	if r.Urgency == "" {
		r.Urgency = UrgencyUnknown
	}
	if r.Confidence == "" {
		r.Confidence = ConfidenceLow
	}
	if r.Summary == "" {
		r.Summary = "unknown"
	}
	if r.PreferredTimes == nil {
		r.PreferredTimes = []string{}
	}
}

// TimeSlot is a bookable interval within business hours. Slots are generated
// on demand and never persisted until one of them is booked.
type TimeSlot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// BookingStatusConfirmed is the only status the in-memory engine produces
const BookingStatusConfirmed = "confirmed"

// Booking is a committed appointment. Bookings are append-only: created on
// confirmation, never mutated in place.
type Booking struct {
	ID            string
	Start         time.Time
	End           time.Time
	CustomerName  string
	CustomerEmail string
	ServiceType   ServiceType
	Status        string
	CreatedAt     time.Time
}

// BookingRequest carries the details needed to commit an appointment
type BookingRequest struct {
	Start           time.Time
	DurationMinutes int
	CustomerName    string
	CustomerEmail   string
	ServiceType     ServiceType
}

// BookingConfirmation is returned on a successful booking
type BookingConfirmation struct {
	BookingID string
	Start     time.Time
	End       time.Time
}

// CacheEntry is a cached triage result for a previously seen message
type CacheEntry struct {
	MessageID string
	Result    TriageResult
	LastSeen  time.Time
	ExpiresAt time.Time
}

// Action is the terminal routing outcome for a message. Every message maps
// to exactly one action; unclear messages escalate rather than drop.
type Action string

const (
	ActionEscalateUrgent     Action = "escalated_urgent"
	ActionBookingOptionsSent Action = "booking_options_sent"
	ActionNoAvailability     Action = "no_availability"
	ActionEscalateForReview  Action = "escalated_for_review"
	ActionEscalateComplaint  Action = "escalated_complaint"
	ActionMarkSpam           Action = "marked_spam"
	ActionEscalateUnknown    Action = "escalated_unknown"
)

// RouteDecision is the outcome of routing one triaged message
type RouteDecision struct {
	Action       Action
	Reply        string
	ReplySent    bool
	NeedsHuman   bool
	OfferedSlots []TimeSlot
}
