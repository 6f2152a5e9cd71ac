package domain

// IPAssignment binds a management-plane IP address to the device it is
// provisioned on. Monitoring alerts arrive keyed by address; this record is
// the hop from address to device.
type IPAssignment struct {
	Address  string
	DeviceID string
}
