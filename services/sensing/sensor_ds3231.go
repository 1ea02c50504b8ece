package sensing

import (
	"context"
	"errors"

	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/drivers/ds3231"
	"sensenode-go/errcode"
	"sensenode-go/types"
	"sensenode-go/x/timex"
)

// ds3231Sensor reads the RTC as civil UTC. Before the first read it seeds a
// stopped clock from the supplied unix-seconds oracle; a running clock is
// never overwritten, so time survives reboots.
type ds3231Sensor struct {
	meta
	arb    *bus.Arbiter
	dev    ds3231.Device
	now    func() int64
	seeded bool
}

func newDS3231(id types.DeviceIdentity, arb *bus.Arbiter, now func() int64) *ds3231Sensor {
	return &ds3231Sensor{
		meta: newMeta(id, NameDS3231SN),
		arb:  arb,
		dev:  ds3231.New(),
		now:  now,
	}
}

func (s *ds3231Sensor) Read(ctx context.Context) (types.Measurement, error) {
	var y, mo, d, h, mi, sec int
	err := s.arb.WithBus(ctx, func(b drivers.I2C) error {
		if !s.seeded {
			yy, mm, dd, hh, mn, ss := timex.CivilFromUnix(s.now())
			if _, err := s.dev.SeedIfStopped(b, yy, mm, dd, hh, mn, ss); err != nil {
				return err
			}
			s.seeded = true
		}
		var e error
		y, mo, d, h, mi, sec, e = s.dev.ReadTime(b)
		return e
	})
	if err != nil {
		if errors.Is(err, ds3231.ErrBadClock) || errors.Is(err, ds3231.ErrBadTime) {
			return nil, errcode.ProtocolError
		}
		return nil, readErr(err, errcode.DeviceNotResponding)
	}
	return types.Clock{ISO8601: timex.ISO8601(y, mo, d, h, mi, sec)}, nil
}
