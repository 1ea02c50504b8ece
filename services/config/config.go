// Package config resolves the per-device boot configuration from JSON
// embedded at build time. The rest of the firmware only ever sees a
// validated types.Config.
package config

import (
	"encoding/json"

	"sensenode-go/errcode"
	"sensenode-go/types"
	"sensenode-go/x/strx"
)

// defaultDevice is used when the caller passes no device id.
const defaultDevice = "node0"

// EmbeddedConfigLookup allows overriding how raw configs are resolved;
// tests swap it out.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Load resolves, parses and validates the configuration for device.
func Load(device string) (types.Config, error) {
	var cfg types.Config
	device = strx.Coalesce(device, defaultDevice)
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, &errcode.E{C: errcode.NotFound, Op: "config.Load", Msg: "no embedded config for device: " + device}
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, &errcode.E{C: errcode.ProtocolError, Op: "config.Load", Msg: device, Err: err}
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields the sensing core cannot run without. Wifi
// credentials are left to the platform layer; a bench build legitimately has
// none.
func Validate(cfg types.Config) error {
	missing := ""
	switch {
	case cfg.DeviceURN == "":
		missing = "device_urn"
	case cfg.LocationURN == "":
		missing = "location_urn"
	case cfg.ServerBaseURL == "":
		missing = "server_base_url"
	}
	if missing != "" {
		return &errcode.E{C: errcode.Error, Op: "config.Validate", Msg: "missing " + missing}
	}
	if cfg.ReportPeriodS < 0 {
		return &errcode.E{C: errcode.Error, Op: "config.Validate", Msg: "negative report_period_s"}
	}
	return nil
}
