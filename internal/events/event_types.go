package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCrisisOpened    EventType = "crisis_opened"
	EventCrisisResolved  EventType = "crisis_resolved"
	EventTicketOpened    EventType = "ticket_opened"
	EventAlertSuppressed EventType = "alert_suppressed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	CrisisEventID string      `json:"crisis_event_id,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// CrisisOpenedPayload payload.
type CrisisOpenedPayload struct {
	RootDeviceID        string `json:"root_device_id"`
	OrganizationID      string `json:"organization_id"`
	AffectedDevices     int    `json:"affected_devices"`
	AffectedSubscribers int    `json:"affected_subscribers"`
}

// CrisisResolvedPayload payload.
type CrisisResolvedPayload struct {
	RootDeviceID string    `json:"root_device_id"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	TicketID     string  `json:"ticket_id"`
	ExternalKey  string  `json:"external_key"`
	SubscriberID *string `json:"subscriber_id,omitempty"`
}

// AlertSuppressedPayload payload.
type AlertSuppressedPayload struct {
	RootDeviceID string `json:"root_device_id"`
	DeviceIP     string `json:"device_ip"`
}
