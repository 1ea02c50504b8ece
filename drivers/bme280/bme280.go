// Package bme280 provides a driver for the BME280 combined
// temperature/humidity/pressure sensor in forced mode: every read arms a
// single conversion, waits for the measuring flag to clear, then compensates
// the raw counts with the chip's factory calibration.
//
// Compensation follows the datasheet's integer reference implementation
// (32-bit temperature, 64-bit pressure, 32-bit humidity).
package bme280

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C addresses. SDO low selects Address, high selects AddressAlt.
const (
	Address    = 0x76
	AddressAlt = 0x77
)

// Registers (per datasheet).
const (
	regChipID   = 0xD0
	regReset    = 0xE0
	regCalib00  = 0x88 // 26 bytes: T1..T3, P1..P9, H1
	regCalib26  = 0xE1 // 7 bytes: H2..H6
	regCtrlHum  = 0xF2
	regStatus   = 0xF3
	regCtrlMeas = 0xF4
	regData     = 0xF7 // 8 bytes: press, temp, hum

	chipID = 0x60

	statusMeasuring = 0x08

	// Oversampling x1 on all channels, forced mode.
	ctrlHumOS1   = 0x01
	ctrlMeasOS1F = 0x25 // osrs_t=1, osrs_p=1, mode=forced
)

// Errors returned by the driver.
var (
	ErrBadID   = errors.New("bme280: unexpected chip id")
	ErrTimeout = errors.New("bme280: conversion timeout")
	ErrRange   = errors.New("bme280: measurement out of range")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x76 if zero.
	Address uint16
	// PollInterval between status checks during a forced conversion.
	// Default 2 ms.
	PollInterval time.Duration
	// ConvTimeout bounds one forced conversion. Default 50 ms (x1
	// oversampling completes in under 10 ms).
	ConvTimeout time.Duration
}

// Device wraps the BME280 protocol and holds the calibration snapshot read
// once at Init.
type Device struct {
	Address uint16

	cfg   Config
	cal   calibration
	ready bool
	buf   [26]byte
}

// Measurement is one compensated triple.
type Measurement struct {
	TemperatureC float32
	HumidityPct  float32
	PressureHPa  float32
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
		c.PollInterval = 2 * time.Millisecond
	}
	if c.ConvTimeout <= 0 {
		c.ConvTimeout = 50 * time.Millisecond
	}
	d.cfg = c
}

// Init probes the chip id and snapshots the factory calibration. Call once
// while holding the bus, before the first Read.
func (d *Device) Init(bus drivers.I2C) error {
	if d.cfg.PollInterval == 0 {
		d.Configure()
	}
	if err := bus.Tx(d.Address, []byte{regChipID}, d.buf[:1]); err != nil {
		return err
	}
	if d.buf[0] != chipID {
		return ErrBadID
	}

	if err := bus.Tx(d.Address, []byte{regCalib00}, d.buf[:26]); err != nil {
		return err
	}
	d.cal.loadGroup1(d.buf[:26])

	if err := bus.Tx(d.Address, []byte{regCalib26}, d.buf[:7]); err != nil {
		return err
	}
	d.cal.loadGroup2(d.buf[:7])

	d.ready = true
	return nil
}

// Ready reports whether Init has completed.
func (d *Device) Ready() bool { return d.ready }

// Read runs one forced-mode conversion and returns the compensated triple.
// The caller is expected to hold the bus for the whole sequence.
func (d *Device) Read(bus drivers.I2C) (Measurement, error) {
	var m Measurement
	if !d.ready {
		return m, errors.New("bme280: not initialised")
	}

	if err := bus.Tx(d.Address, []byte{regCtrlHum, ctrlHumOS1}, nil); err != nil {
		return m, err
	}
	if err := bus.Tx(d.Address, []byte{regCtrlMeas, ctrlMeasOS1F}, nil); err != nil {
		return m, err
	}

	deadline := time.Now().Add(d.cfg.ConvTimeout)
	for {
		if err := bus.Tx(d.Address, []byte{regStatus}, d.buf[:1]); err != nil {
			return m, err
		}
		if d.buf[0]&statusMeasuring == 0 {
			break
		}
		if time.Now().After(deadline) {
			return m, ErrTimeout
		}
		time.Sleep(d.cfg.PollInterval)
	}

	if err := bus.Tx(d.Address, []byte{regData}, d.buf[:8]); err != nil {
		return m, err
	}
	adcP := int32(d.buf[0])<<12 | int32(d.buf[1])<<4 | int32(d.buf[2])>>4
	adcT := int32(d.buf[3])<<12 | int32(d.buf[4])<<4 | int32(d.buf[5])>>4
	adcH := int32(d.buf[6])<<8 | int32(d.buf[7])

	tc, tFine := d.cal.temperature(adcT)
	p, err := d.cal.pressure(adcP, tFine)
	if err != nil {
		return m, err
	}
	m.TemperatureC = tc
	m.PressureHPa = p
	m.HumidityPct = d.cal.humidity(adcH, tFine)
	return m, nil
}

// calibration is the factory trim snapshot.
type calibration struct {
	t1         uint16
	t2, t3     int16
	p1         uint16
	p2, p3, p4 int16
	p5, p6, p7 int16
	p8, p9     int16
	h1, h3     uint8
	h2, h4, h5 int16
	h6         int8
}

func u16le(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func s16le(b []byte) int16  { return int16(u16le(b)) }

func (c *calibration) loadGroup1(b []byte) {
	c.t1 = u16le(b[0:])
	c.t2 = s16le(b[2:])
	c.t3 = s16le(b[4:])
	c.p1 = u16le(b[6:])
	c.p2 = s16le(b[8:])
	c.p3 = s16le(b[10:])
	c.p4 = s16le(b[12:])
	c.p5 = s16le(b[14:])
	c.p6 = s16le(b[16:])
	c.p7 = s16le(b[18:])
	c.p8 = s16le(b[20:])
	c.p9 = s16le(b[22:])
	c.h1 = b[25]
}

func (c *calibration) loadGroup2(b []byte) {
	c.h2 = s16le(b[0:])
	c.h3 = b[2]
	c.h4 = int16(b[3])<<4 | int16(b[4]&0x0F)
	c.h5 = int16(b[5])<<4 | int16(b[4]>>4)
	c.h6 = int8(b[6])
}

// temperature returns °C and the shared t_fine term.
func (c *calibration) temperature(adc int32) (float32, int32) {
	var1 := (((adc >> 3) - (int32(c.t1) << 1)) * int32(c.t2)) >> 11
	var2 := (((((adc >> 4) - int32(c.t1)) * ((adc >> 4) - int32(c.t1))) >> 12) * int32(c.t3)) >> 14
	tFine := var1 + var2
	t := (tFine*5 + 128) >> 8 // centi-°C
	return float32(t) / 100, tFine
}

// pressure returns hPa using the 64-bit fixed-point reference formula.
func (c *calibration) pressure(adc, tFine int32) (float32, error) {
	var1 := int64(tFine) - 128000
	var2 := var1 * var1 * int64(c.p6)
	var2 += (var1 * int64(c.p5)) << 17
	var2 += int64(c.p4) << 35
	var1 = ((var1 * var1 * int64(c.p3)) >> 8) + ((var1 * int64(c.p2)) << 12)
	var1 = ((int64(1) << 47) + var1) * int64(c.p1) >> 33
	if var1 == 0 {
		return 0, ErrRange
	}
	p := int64(1048576 - adc)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (int64(c.p9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.p8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.p7) << 4)
	// p is Pa in Q24.8; report hPa.
	return float32(p) / 256 / 100, nil
}

// humidity returns %RH, clamped to [0, 100].
func (c *calibration) humidity(adc, tFine int32) float32 {
	v := tFine - 76800
	v = (((adc << 14) - (int32(c.h4) << 20) - int32(c.h5)*v + 16384) >> 15) *
		(((((((v*int32(c.h6))>>10)*(((v*int32(c.h3))>>11)+32768))>>10)+2097152)*int32(c.h2) + 8192) >> 14)
	v -= (((v >> 15) * (v >> 15)) >> 7) * int32(c.h1) >> 4
	if v < 0 {
		v = 0
	}
	if v > 419430400 {
		v = 419430400
	}
	return float32(v>>12) / 1024
}
