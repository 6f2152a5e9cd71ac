package domain

import "time"

// CrisisStatus enumerates the lifecycle of a crisis event.
type CrisisStatus string

const (
	CrisisStatusOngoing  CrisisStatus = "ongoing"
	CrisisStatusResolved CrisisStatus = "resolved"
)

// CrisisEvent is one detected outage and its scope: the root-cause device,
// every subscriber inside the blast radius, and a description a NOC
// operator can read without cross-referencing another system. Exactly one
// crisis event is created per resolved blast radius.
type CrisisEvent struct {
	ID                    string
	RootDeviceID          string
	Status                CrisisStatus
	Description           string
	AffectedSubscriberIDs []string
	OrganizationID        string
	StartedAt             time.Time
	ResolvedAt            *time.Time
}
