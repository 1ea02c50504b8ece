package sensing

import (
	"sensenode-go/bus"
	"sensenode-go/errcode"
	"sensenode-go/types"
	"sensenode-go/x/timex"
)

// Entry pairs a short-name with its constructed sensor.
type Entry struct {
	Name   string
	Sensor Sensor
}

// Registry holds the sensors built from the include list, in include order
// with duplicates collapsed to the first occurrence.
type Registry struct {
	identity types.DeviceIdentity
	active   []Entry
	index    map[string]Sensor
}

// Options tunes registry construction.
type Options struct {
	// Now is the unix-seconds oracle used to seed a stopped RTC. Defaults
	// to the local wall clock.
	Now func() int64
}

// Build validates the include list and constructs one sensor per distinct
// name. An unknown name fails the whole build: a misconfigured node should
// not limp along half-populated. No hardware is touched here; drivers defer
// their first bus traffic to the first read.
func Build(id types.DeviceIdentity, cfg types.SensorsConfig, arb *bus.Arbiter, opts Options) (*Registry, error) {
	if opts.Now == nil {
		opts.Now = func() int64 { return timex.NowMs() / 1000 }
	}

	if !id.Valid() {
		return nil, &errcode.E{C: errcode.Error, Op: "sensing.Build", Msg: "incomplete device identity"}
	}

	for _, name := range cfg.Include {
		if _, ok := catalog[name]; !ok {
			return nil, &errcode.E{C: errcode.UnknownSensor, Op: "sensing.Build", Msg: name}
		}
	}

	r := &Registry{identity: id, index: map[string]Sensor{}}

	// The magnetometer borrows the accelerometer for tilt. If only the
	// magnetometer is configured, a private companion is built for it and
	// stays out of the registry.
	var accel *accelSensor
	companion := func() *accelSensor {
		if accel == nil {
			accel = newAccel(id, arb)
		}
		return accel
	}

	for _, name := range cfg.Include {
		if _, dup := r.index[name]; dup {
			continue
		}
		var s Sensor
		switch name {
		case NameBH1750:
			s = newBH1750(id, arb)
		case NameBME280:
			s = newBME280(id, arb)
		case NameBME680:
			s = newBME680(id, arb)
		case NameDS3231SN:
			s = newDS3231(id, arb, opts.Now)
		case NameLSM303DLHAccel:
			s = companion()
		case NameLSM303DLHMag:
			s = newMag(id, arb, companion())
		case NameVL53L0X:
			s = newVL53L0X(id, arb)
		}
		r.index[name] = s
		r.active = append(r.active, Entry{Name: name, Sensor: s})
	}
	return r, nil
}

// Identity returns the identity the registry was built with.
func (r *Registry) Identity() types.DeviceIdentity { return r.identity }

// Get returns the sensor registered under name.
func (r *Registry) Get(name string) (Sensor, error) {
	s, ok := r.index[name]
	if !ok {
		return nil, errcode.NotFound
	}
	return s, nil
}

// Active returns the constructed sensors in include order.
func (r *Registry) Active() []Entry { return r.active }

// Len returns the number of distinct active sensors.
func (r *Registry) Len() int { return len(r.active) }
