package domain

// BlastRadius is the computed downstream scope of a single failed device:
// every device reachable from the root by child links (the root included)
// and the subscribers attached to CPE devices inside that set. It is
// recomputed on every alert and never persisted.
type BlastRadius struct {
	RootDeviceID string

	// DeviceIDs is the visited-device set of the traversal.
	DeviceIDs map[string]struct{}

	// SubscriberIDs is ordered by first discovery and contains no
	// duplicates.
	SubscriberIDs []string

	// Truncated is set when the traversal stopped at the device ceiling
	// before the queue drained.
	Truncated bool
}

// ContainsDevice reports whether the device is inside the blast radius.
func (b BlastRadius) ContainsDevice(id string) bool {
	_, ok := b.DeviceIDs[id]
	return ok
}

// DeviceCount returns the number of affected devices.
func (b BlastRadius) DeviceCount() int {
	return len(b.DeviceIDs)
}

// SubscriberCount returns the number of affected subscribers.
func (b BlastRadius) SubscriberCount() int {
	return len(b.SubscriberIDs)
}
