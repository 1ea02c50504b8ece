// Package bh1750 provides a driver for the BH1750 ambient light sensor.
// Measurements are one-shot: Trigger starts a high-resolution conversion and
// RawLux fetches the result once the conversion time has passed.
//
//	d.Trigger(bus)                  // power up + start one-shot (fast)
//	time.Sleep(d.MeasureTime())     // conversion, off the bus
//	raw, err := d.RawLux(bus)
//
// The device powers itself down after a one-shot read, so every cycle
// re-samples the hardware from scratch.
package bh1750

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C addresses. ADDR pin low selects Address, high selects AddressAlt.
const (
	Address    = 0x23
	AddressAlt = 0x5C
)

// Opcodes (per datasheet).
const (
	cmdPowerDown   = 0x00
	cmdPowerOn     = 0x01
	cmdReset       = 0x07
	cmdOneTimeHRes = 0x20
)

// ErrShortRead is returned when the device answers with a truncated sample.
var ErrShortRead = errors.New("bh1750: short read")

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x23 if zero.
	Address uint16
	// MeasureTime is the conversion wait after Trigger. The datasheet gives
	// 120 ms typical / 180 ms max for high resolution; default 180 ms.
	MeasureTime time.Duration
}

// Device wraps the BH1750 protocol. Methods take the bus explicitly; the
// caller decides when the shared bus is held.
type Device struct {
	Address uint16

	cfg Config
	buf [2]byte
}

// New creates a Device with default addressing. It does not touch hardware.
func New() Device {
	return Device{Address: Address}
}

// Configure applies optional config. No bus traffic.
func (d *Device) Configure(cfgs ...Config) {
	c := Config{}
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}
	if c.MeasureTime <= 0 {
		c.MeasureTime = 180 * time.Millisecond
	}
	d.cfg = c
}

// MeasureTime returns the conversion wait to observe between Trigger and
// RawLux.
func (d *Device) MeasureTime() time.Duration {
	if d.cfg.MeasureTime > 0 {
		return d.cfg.MeasureTime
	}
	return 180 * time.Millisecond
}

// Trigger powers the device up and starts a one-shot high-resolution
// measurement. Two quick writes, no blocking.
func (d *Device) Trigger(bus drivers.I2C) error {
	if err := bus.Tx(d.Address, []byte{cmdPowerOn}, nil); err != nil {
		return err
	}
	return bus.Tx(d.Address, []byte{cmdOneTimeHRes}, nil)
}

// RawLux reads the 16-bit conversion result. Call it MeasureTime after
// Trigger; earlier reads return the previous (stale) count.
func (d *Device) RawLux(bus drivers.I2C) (uint16, error) {
	if err := bus.Tx(d.Address, nil, d.buf[:2]); err != nil {
		return 0, err
	}
	return uint16(d.buf[0])<<8 | uint16(d.buf[1]), nil
}

// Lux converts a raw high-resolution count to lux (datasheet factor 1.2).
func Lux(raw uint16) float32 {
	return float32(raw) / 1.2
}
