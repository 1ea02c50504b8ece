package sensing

import (
	"context"
	"errors"

	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/drivers/bme280"
	"sensenode-go/errcode"
	"sensenode-go/types"
)

// bme280Sensor runs one forced conversion per read. Calibration is pulled on
// the first read so an absent chip costs a per-read failure, never a boot
// failure.
type bme280Sensor struct {
	meta
	arb *bus.Arbiter
	dev bme280.Device
}

func newBME280(id types.DeviceIdentity, arb *bus.Arbiter) *bme280Sensor {
	d := bme280.New()
	d.Configure()
	return &bme280Sensor{meta: newMeta(id, NameBME280), arb: arb, dev: d}
}

func (s *bme280Sensor) Read(ctx context.Context) (types.Measurement, error) {
	var m bme280.Measurement
	err := s.arb.WithBus(ctx, func(b drivers.I2C) error {
		if !s.dev.Ready() {
			if err := s.dev.Init(b); err != nil {
				return err
			}
		}
		var e error
		m, e = s.dev.Read(b)
		return e
	})
	if err != nil {
		switch {
		case errors.Is(err, bme280.ErrBadID):
			return nil, errcode.ProtocolError
		case errors.Is(err, bme280.ErrRange):
			return nil, errcode.OutOfRange
		}
		return nil, readErr(err, errcode.DeviceNotResponding)
	}
	return types.Atmosphere{
		TemperatureC: m.TemperatureC,
		HumidityPct:  m.HumidityPct,
		PressureHPa:  m.PressureHPa,
	}, nil
}
