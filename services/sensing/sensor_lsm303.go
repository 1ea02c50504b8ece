package sensing

import (
	"context"

	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/drivers/lsm303dlh"
	"sensenode-go/errcode"
	"sensenode-go/types"
	"sensenode-go/x/mathx"
)

// accelSensor reads the accelerometer die of the LSM303DLH e-compass. The
// part's mode registers are written lazily on the first read.
type accelSensor struct {
	meta
	arb        *bus.Arbiter
	dev        lsm303dlh.Accel
	configured bool
}

func newAccel(id types.DeviceIdentity, arb *bus.Arbiter) *accelSensor {
	return &accelSensor{
		meta: newMeta(id, NameLSM303DLHAccel),
		arb:  arb,
		dev:  lsm303dlh.NewAccel(),
	}
}

// vector samples the three axes in m/s² under one bus hold.
func (s *accelSensor) vector(ctx context.Context) (x, y, z float32, err error) {
	err = s.arb.WithBus(ctx, func(b drivers.I2C) error {
		if !s.configured {
			if e := s.dev.Configure(b); e != nil {
				return e
			}
			s.configured = true
		}
		cx, cy, cz, e := s.dev.RawCounts(b)
		if e != nil {
			return e
		}
		x, y, z = lsm303dlh.MS2(cx), lsm303dlh.MS2(cy), lsm303dlh.MS2(cz)
		return nil
	})
	return
}

func (s *accelSensor) Read(ctx context.Context) (types.Measurement, error) {
	x, y, z, err := s.vector(ctx)
	if err != nil {
		return nil, readErr(err, errcode.DeviceNotResponding)
	}
	return types.Acceleration{
		X:         x,
		Y:         y,
		Z:         z,
		Magnitude: mathx.Magnitude3(x, y, z),
		Tilt:      mathx.TiltDeg(x, y, z),
	}, nil
}

// magSensor reads the magnetometer die. Tilt comes from its companion
// accelerometer, sampled under a separate bus hold before the magnetometer
// itself; the two holds are sequential, never nested.
type magSensor struct {
	meta
	arb        *bus.Arbiter
	dev        lsm303dlh.Mag
	accel      *accelSensor
	configured bool
}

func newMag(id types.DeviceIdentity, arb *bus.Arbiter, accel *accelSensor) *magSensor {
	return &magSensor{
		meta:  newMeta(id, NameLSM303DLHMag),
		arb:   arb,
		dev:   lsm303dlh.NewMag(),
		accel: accel,
	}
}

func (s *magSensor) Read(ctx context.Context) (types.Measurement, error) {
	ax, ay, az, err := s.accel.vector(ctx)
	if err != nil {
		return nil, readErr(err, errcode.DeviceNotResponding)
	}

	var x, y, z float32
	err = s.arb.WithBus(ctx, func(b drivers.I2C) error {
		if !s.configured {
			if e := s.dev.Configure(b); e != nil {
				return e
			}
			s.configured = true
		}
		cx, cy, cz, e := s.dev.RawCounts(b)
		if e != nil {
			return e
		}
		x = lsm303dlh.MicroTeslaXY(cx)
		y = lsm303dlh.MicroTeslaXY(cy)
		z = lsm303dlh.MicroTeslaZ(cz)
		return nil
	})
	if err != nil {
		return nil, readErr(err, errcode.DeviceNotResponding)
	}
	return types.Acceleration{
		X:         x,
		Y:         y,
		Z:         z,
		Magnitude: mathx.Magnitude3(x, y, z),
		Tilt:      mathx.TiltDeg(ax, ay, az),
	}, nil
}
