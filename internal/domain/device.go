package domain

import "time"

// DeviceType categorizes network equipment, ordered roughly core to edge.
type DeviceType string

const (
	DeviceTypeCoreRouter  DeviceType = "core-router"
	DeviceTypeSwitch      DeviceType = "switch"
	DeviceTypeAccessPoint DeviceType = "access-point"
	DeviceTypeStation     DeviceType = "station"
	DeviceTypeCPE         DeviceType = "cpe"
)

// Device is one node of the physical network topology. ParentID references
// the device one hop closer to the network core; devices without a parent
// are roots of the topology forest, typically core routers. The parent
// relationship must stay acyclic, but traversal code never assumes it is.
type Device struct {
	ID             string
	Name           string
	Type           DeviceType
	ParentID       *string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRoot reports whether the device has no upstream parent.
func (d *Device) IsRoot() bool {
	return d.ParentID == nil || *d.ParentID == ""
}
