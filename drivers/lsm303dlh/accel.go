// Package lsm303dlh provides drivers for the two dies of the LSM303DLH
// e-compass: a three-axis accelerometer and a three-axis magnetometer. They
// sit at separate I2C addresses and are driven independently; tilt
// compensation is the caller's business.
package lsm303dlh

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C addresses.
const (
	AccelAddress = 0x19
	MagAddress   = 0x1E
)

// Accelerometer registers.
const (
	regCtrl1A = 0x20
	regOutXLA = 0x28

	ctrl1Normal50Hz = 0x27 // normal mode, 50 Hz, all axes enabled
	autoIncrement   = 0x80
)

// Standard gravity, for count → m/s² conversion.
const gravity = 9.80665

// ErrNotConfigured is returned when a data read precedes Configure.
var ErrNotConfigured = errors.New("lsm303dlh: not configured")

// Accel wraps the accelerometer die. ±2g full scale: 1 mg per count after
// alignment.
type Accel struct {
	Address uint16

	configured bool
	buf        [6]byte
}

// NewAccel creates an accelerometer handle. It does not touch hardware.
func NewAccel() Accel {
	return Accel{Address: AccelAddress}
}

// Configure enables normal mode at 50 Hz on all axes.
func (d *Accel) Configure(bus drivers.I2C) error {
	if err := bus.Tx(d.Address, []byte{regCtrl1A, ctrl1Normal50Hz}, nil); err != nil {
		return err
	}
	d.configured = true
	return nil
}

// RawCounts reads the three axes as aligned 12-bit signed counts.
func (d *Accel) RawCounts(bus drivers.I2C) (x, y, z int16, err error) {
	if !d.configured {
		return 0, 0, 0, ErrNotConfigured
	}
	if err = bus.Tx(d.Address, []byte{regOutXLA | autoIncrement}, d.buf[:6]); err != nil {
		return
	}
	// Little-endian, left-justified 12-bit values.
	x = int16(uint16(d.buf[0])|uint16(d.buf[1])<<8) >> 4
	y = int16(uint16(d.buf[2])|uint16(d.buf[3])<<8) >> 4
	z = int16(uint16(d.buf[4])|uint16(d.buf[5])<<8) >> 4
	return
}

// MS2 converts an aligned count to m/s² (1 mg/LSB at ±2g).
func MS2(count int16) float32 {
	return float32(count) * 0.001 * gravity
}
