// Package vl53l0x provides a driver for the VL53L0X time-of-flight ranger.
// Only single-shot ranging is implemented: start a measurement, poll the
// result interrupt, read the range in millimetres, clear the interrupt.
//
// RangeMax is the sentinel distance reported by callers on hardware failure;
// the driver itself returns errors and never fabricates a distance.
package vl53l0x

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address (default; the part allows reprogramming, which we don't use).
const Address = 0x29

// RangeMax is the largest representable distance and doubles as the
// "no valid reading" sentinel in measurement records.
const RangeMax = 0xFFFF

// Registers (per ST API).
const (
	regSysrangeStart         = 0x00
	regResultInterruptStatus = 0x13
	regResultRange           = 0x14
	regInterruptClear        = 0x0B
	regModelID               = 0xC0

	modelID = 0xEE

	sysrangeStartSingle = 0x01
	interruptRangeMask  = 0x07
)

// Errors returned by the driver.
var (
	ErrBadID   = errors.New("vl53l0x: unexpected model id")
	ErrTimeout = errors.New("vl53l0x: ranging timeout")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x29 if zero.
	Address uint16
	// PollInterval between result-interrupt checks. Default 5 ms.
	PollInterval time.Duration
	// RangingTimeout bounds one single-shot measurement. Default 80 ms,
	// chosen to fit inside the bus arbiter's hold budget.
	RangingTimeout time.Duration
}

// Device wraps the VL53L0X protocol. Methods take the bus explicitly.
type Device struct {
	Address uint16

	cfg Config
	buf [12]byte
}

// New creates a Device. It does not touch hardware.
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
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Millisecond
	}
	if c.RangingTimeout <= 0 {
		c.RangingTimeout = 80 * time.Millisecond
	}
	d.cfg = c
}

// Probe verifies the model id register. Cheap liveness/identity check.
func (d *Device) Probe(bus drivers.I2C) error {
	if err := bus.Tx(d.Address, []byte{regModelID}, d.buf[:1]); err != nil {
		return err
	}
	if d.buf[0] != modelID {
		return ErrBadID
	}
	return nil
}

// RangeSingleMM performs one blocking single-shot measurement: start, poll
// the result interrupt, read the 16-bit range, clear the interrupt. The
// caller is expected to hold the bus for the whole sequence.
func (d *Device) RangeSingleMM(bus drivers.I2C) (uint16, error) {
	if d.cfg.PollInterval == 0 {
		d.Configure()
	}
	if err := bus.Tx(d.Address, []byte{regSysrangeStart, sysrangeStartSingle}, nil); err != nil {
		return 0, err
	}

	deadline := time.Now().Add(d.cfg.RangingTimeout)
	for {
		if err := bus.Tx(d.Address, []byte{regResultInterruptStatus}, d.buf[:1]); err != nil {
			return 0, err
		}
		if d.buf[0]&interruptRangeMask != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, ErrTimeout
		}
		time.Sleep(d.cfg.PollInterval)
	}

	// The result block is 12 bytes; range in mm lives in bytes 10..11.
	if err := bus.Tx(d.Address, []byte{regResultRange}, d.buf[:12]); err != nil {
		return 0, err
	}
	mm := uint16(d.buf[10])<<8 | uint16(d.buf[11])

	if err := bus.Tx(d.Address, []byte{regInterruptClear, 0x01}, nil); err != nil {
		return 0, err
	}
	return mm, nil
}
