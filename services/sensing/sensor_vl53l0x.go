package sensing

import (
	"context"

	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/drivers/vl53l0x"
	"sensenode-go/errcode"
	"sensenode-go/types"
)

// vl53l0xSensor ranges single-shot. Hardware trouble (bad id, NAK, ranging
// timeout) degrades to the sentinel measurement {65535, UNKNOWN} rather than
// a read failure; only arbitration and cancellation surface as errors.
type vl53l0xSensor struct {
	meta
	arb    *bus.Arbiter
	dev    vl53l0x.Device
	probed bool
}

func newVL53L0X(id types.DeviceIdentity, arb *bus.Arbiter) *vl53l0xSensor {
	d := vl53l0x.New()
	d.Configure()
	return &vl53l0xSensor{meta: newMeta(id, NameVL53L0X), arb: arb, dev: d}
}

func (s *vl53l0xSensor) Read(ctx context.Context) (types.Measurement, error) {
	var mm uint16
	err := s.arb.WithBus(ctx, func(b drivers.I2C) error {
		if !s.probed {
			if err := s.dev.Probe(b); err != nil {
				return err
			}
			s.probed = true
		}
		var e error
		mm, e = s.dev.RangeSingleMM(b)
		return e
	})
	if err != nil {
		switch readErr(err, errcode.DeviceNotResponding) {
		case errcode.Timeout:
			return nil, errcode.Timeout
		case errcode.BusBusy:
			return nil, errcode.BusBusy
		}
		return types.Range{DistanceMM: vl53l0x.RangeMax, Status: types.ProximityUnknown}, nil
	}
	return types.Range{DistanceMM: mm, Status: types.ClassifyRange(mm)}, nil
}
