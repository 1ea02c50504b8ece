package types

// DeviceIdentity names this node on the network. All three URNs are opaque
// stable strings; they are fixed at boot and never change for the life of the
// process.
type DeviceIdentity struct {
	DeviceURN   string `json:"device_urn"`
	LocationURN string `json:"location_urn"`
	SelfURN     string `json:"self_urn"`
}

// Valid reports whether every URN is present.
func (id DeviceIdentity) Valid() bool {
	return id.DeviceURN != "" && id.LocationURN != "" && id.SelfURN != ""
}

// Child derives the URN of a component owned by this identity.
func (id DeviceIdentity) Child(name string) string {
	return id.SelfURN + ":" + name
}
