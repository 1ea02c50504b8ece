package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgNode0 = `{
  "device_urn": "urn:dev:node0",
  "location_urn": "urn:loc:lab",
  "wifi_ssid": "",
  "wifi_password": "",
  "server_base_url": "http://192.168.1.10:8080",
  "report_period_s": 60,
  "sensors": {
    "include": ["bh1750", "bme280", "ds3231sn", "vl53l0x"]
  }
}`

var embeddedConfigs = map[string][]byte{
	"node0": []byte(cfgNode0),
}
