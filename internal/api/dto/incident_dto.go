package dto

import "time"

// CrisisEventResponse is the operator API shape of a crisis event.
type CrisisEventResponse struct {
	ID                    string     `json:"id"`
	RootDeviceID          string     `json:"root_device_id"`
	Status                string     `json:"status"`
	Description           string     `json:"description"`
	AffectedSubscriberIDs []string   `json:"affected_subscriber_ids"`
	OrganizationID        string     `json:"organization_id"`
	StartedAt             time.Time  `json:"started_at"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
}

// TicketResponse is the operator API shape of a ticket.
type TicketResponse struct {
	ID             string    `json:"id"`
	ExternalKey    string    `json:"external_key"`
	CrisisEventID  string    `json:"crisis_event_id"`
	SubscriberID   *string   `json:"subscriber_id,omitempty"`
	Subject        string    `json:"subject"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}
