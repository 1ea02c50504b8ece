package types

// Config is the parsed boot configuration. The sensing core receives it
// already validated; it never reads files or the environment itself.
type Config struct {
	DeviceURN     string        `json:"device_urn"`
	LocationURN   string        `json:"location_urn"`
	WifiSSID      string        `json:"wifi_ssid"`
	WifiPassword  string        `json:"wifi_password"`
	ServerBaseURL string        `json:"server_base_url"`
	Sensors       SensorsConfig `json:"sensors"`
	// ReportPeriodS is the seconds between sensing cycles. 0 means the
	// service default.
	ReportPeriodS int `json:"report_period_s,omitempty"`
}

// SensorsConfig selects the active sensor set from the fixed catalog.
type SensorsConfig struct {
	// Include is an ordered list of catalog short-names. Duplicates are
	// collapsed at registry build; the first occurrence keeps its position.
	Include []string `json:"include"`
}
