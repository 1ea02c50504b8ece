// Package sensing owns the sensor catalog, the polymorphic Sensor
// capability, the registry that constructs drivers over the shared bus, and
// the orchestrator that folds per-sensor reads into one report record.
package sensing

import (
	"context"
	"errors"
	"time"

	"sensenode-go/errcode"
	"sensenode-go/types"
)

// Catalog short-names. These are the only values accepted in
// SensorsConfig.Include.
const (
	NameBH1750         = "bh1750"
	NameBME280         = "bme280"
	NameBME680         = "bme680"
	NameDS3231SN       = "ds3231sn"
	NameLSM303DLHAccel = "lsm303dlhaccel"
	NameLSM303DLHMag   = "lsm303dlhmag"
	NameVL53L0X        = "vl53l0x"
)

// catalog maps each short-name to the measurement kind its driver produces.
var catalog = map[string]types.Kind{
	NameBH1750:         types.KindIlluminance,
	NameBME280:         types.KindAtmosphere,
	NameBME680:         types.KindAtmosphere,
	NameDS3231SN:       types.KindClock,
	NameLSM303DLHAccel: types.KindAcceleration,
	NameLSM303DLHMag:   types.KindAcceleration,
	NameVL53L0X:        types.KindRange,
}

// catalogOrder is the stable listing order for diagnostics.
var catalogOrder = []string{
	NameBH1750, NameBME280, NameBME680, NameDS3231SN,
	NameLSM303DLHAccel, NameLSM303DLHMag, NameVL53L0X,
}

// Catalog returns the known short-names in stable order.
func Catalog() []string {
	out := make([]string, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}

// KindOf returns the measurement kind a catalog name produces, "" if the
// name is unknown.
func KindOf(name string) types.Kind { return catalog[name] }

// Sensor is the capability every driver adaptor exposes. Read re-samples the
// hardware on every call and keeps no state between calls beyond the
// immutable driver handle; it may suspend while waiting for the bus.
type Sensor interface {
	URN() string
	DeviceURN() string
	LocationURN() string
	Name() string
	Read(ctx context.Context) (types.Measurement, error)
}

// meta carries the identity facet shared by all adaptors.
type meta struct {
	urn         string
	deviceURN   string
	locationURN string
	name        string
}

func newMeta(id types.DeviceIdentity, name string) meta {
	return meta{
		urn:         id.Child(name),
		deviceURN:   id.DeviceURN,
		locationURN: id.LocationURN,
		name:        name,
	}
}

func (m meta) URN() string         { return m.urn }
func (m meta) DeviceURN() string   { return m.deviceURN }
func (m meta) LocationURN() string { return m.locationURN }
func (m meta) Name() string        { return m.name }

// readErr normalises an adaptor-level error to a per-read code: cancellation
// wins, bare and wrapped codes pass through, anything else becomes fallback.
func readErr(err error, fallback errcode.Code) errcode.Code {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errcode.Timeout
	}
	if c := errcode.Of(err); c != errcode.Error {
		return c
	}
	var c errcode.Code
	if errors.As(err, &c) {
		return c
	}
	return fallback
}

// sleepCtx waits d without holding the bus, honouring cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
