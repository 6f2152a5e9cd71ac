package dto

// DeviceDownRequest is the inbound monitoring alert body. Older probes
// send "ip" instead of "deviceIp"; both are accepted.
type DeviceDownRequest struct {
	DeviceIP string `json:"deviceIp"`
	IP       string `json:"ip"`
	Source   string `json:"source"`
}

// Address returns the device address, preferring the canonical field.
func (r DeviceDownRequest) Address() string {
	if r.DeviceIP != "" {
		return r.DeviceIP
	}
	return r.IP
}

// AlertResponse reports how the alert was handled.
type AlertResponse struct {
	Status        string  `json:"status"`
	CrisisEventID *string `json:"crisisEventId,omitempty"`
	TicketID      *string `json:"ticketId,omitempty"`
}
