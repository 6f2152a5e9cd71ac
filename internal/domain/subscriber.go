package domain

import "time"

// Subscriber is an active service record. CPEDeviceID is the subscriber's
// point of attachment to the network: zero or one CPE device at any time,
// and a CPE device serves at most one active subscriber.
type Subscriber struct {
	ID             string
	Name           string
	CPEDeviceID    *string
	OrganizationID string
	CreatedAt      time.Time
}
