package domain

import "time"

// TicketStatus enumerates lifecycle states for incident tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Ticket is the support ticket raised for a crisis event. CrisisEventID is
// a structured reference; the description also mentions the crisis event id
// in free text so operators can cross-reference by eye. SubscriberID holds
// the representative subscriber (the first affected one) and is nil when
// the blast radius contains no subscribers.
type Ticket struct {
	ID             string
	ExternalKey    string
	CrisisEventID  string
	SubscriberID   *string
	Subject        string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	OrganizationID string
	CreatedAt      time.Time
}
