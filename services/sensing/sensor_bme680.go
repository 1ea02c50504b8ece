package sensing

import (
	"context"
	"errors"

	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/drivers/bme680"
	"sensenode-go/errcode"
	"sensenode-go/types"
)

// bme680Sensor mirrors the BME280 adaptor; the gas channel stays disabled.
type bme680Sensor struct {
	meta
	arb *bus.Arbiter
	dev bme680.Device
}

func newBME680(id types.DeviceIdentity, arb *bus.Arbiter) *bme680Sensor {
	d := bme680.New()
	d.Configure()
	return &bme680Sensor{meta: newMeta(id, NameBME680), arb: arb, dev: d}
}

func (s *bme680Sensor) Read(ctx context.Context) (types.Measurement, error) {
	var m bme680.Measurement
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
		if errors.Is(err, bme680.ErrBadID) {
			return nil, errcode.ProtocolError
		}
		return nil, readErr(err, errcode.DeviceNotResponding)
	}
	return types.Atmosphere{
		TemperatureC: m.TemperatureC,
		HumidityPct:  m.HumidityPct,
		PressureHPa:  m.PressureHPa,
	}, nil
}
