package sensing

import (
	"context"

	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/drivers/bh1750"
	"sensenode-go/errcode"
	"sensenode-go/types"
)

// bh1750Sensor reads ambient light and classifies it. The conversion wait
// happens off the bus: one short hold to trigger, one to collect.
type bh1750Sensor struct {
	meta
	arb *bus.Arbiter
	dev bh1750.Device
}

func newBH1750(id types.DeviceIdentity, arb *bus.Arbiter) *bh1750Sensor {
	d := bh1750.New()
	d.Configure()
	return &bh1750Sensor{meta: newMeta(id, NameBH1750), arb: arb, dev: d}
}

func (s *bh1750Sensor) Read(ctx context.Context) (types.Measurement, error) {
	err := s.arb.WithBus(ctx, func(b drivers.I2C) error {
		return s.dev.Trigger(b)
	})
	if err != nil {
		return nil, readErr(err, errcode.DeviceNotResponding)
	}

	if err := sleepCtx(ctx, s.dev.MeasureTime()); err != nil {
		return nil, errcode.Timeout
	}

	var raw uint16
	err = s.arb.WithBus(ctx, func(b drivers.I2C) error {
		var e error
		raw, e = s.dev.RawLux(b)
		return e
	})
	if err != nil {
		return nil, readErr(err, errcode.DeviceNotResponding)
	}

	lux := bh1750.Lux(raw)
	return types.Illuminance{Lux: lux, Condition: types.ClassifyLux(lux)}, nil
}
