// Package bme680 provides a driver for the BME680 environmental sensor.
// Only the temperature/humidity/pressure channels are read; the gas
// resistance channel is left disabled. Forced mode, one conversion per Read.
//
// Compensation follows the datasheet's floating-point reference
// implementation.
package bme680

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
	regCoeff1   = 0x89 // 25 bytes
	regCoeff2   = 0xE1 // 16 bytes
	regCtrlHum  = 0x72
	regCtrlMeas = 0x74
	regMeasStat = 0x1D // field 0 status; bit 7 = new data
	regData     = 0x1F // press[3] temp[3] hum[2]

	chipID = 0x61

	newDataMask = 0x80

	ctrlHumOS1   = 0x01
	ctrlMeasOS1F = 0x25 // osrs_t=1, osrs_p=1, mode=forced
)

// Errors returned by the driver.
var (
	ErrBadID   = errors.New("bme680: unexpected chip id")
	ErrTimeout = errors.New("bme680: conversion timeout")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x76 if zero.
	Address uint16
	// PollInterval between new-data checks. Default 2 ms.
	PollInterval time.Duration
	// ConvTimeout bounds one forced conversion. Default 50 ms.
	ConvTimeout time.Duration
}

// Device wraps the BME680 protocol and the calibration snapshot.
type Device struct {
	Address uint16

	cfg   Config
	cal   calibration
	ready bool
	buf   [25]byte
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

// Init probes the chip id and snapshots the factory calibration.
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

	if err := bus.Tx(d.Address, []byte{regCoeff1}, d.buf[:25]); err != nil {
		return err
	}
	d.cal.loadCoeff1(d.buf[:25])

	if err := bus.Tx(d.Address, []byte{regCoeff2}, d.buf[:16]); err != nil {
		return err
	}
	d.cal.loadCoeff2(d.buf[:16])

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
		return m, errors.New("bme680: not initialised")
	}

	if err := bus.Tx(d.Address, []byte{regCtrlHum, ctrlHumOS1}, nil); err != nil {
		return m, err
	}
	if err := bus.Tx(d.Address, []byte{regCtrlMeas, ctrlMeasOS1F}, nil); err != nil {
		return m, err
	}

	deadline := time.Now().Add(d.cfg.ConvTimeout)
	for {
		if err := bus.Tx(d.Address, []byte{regMeasStat}, d.buf[:1]); err != nil {
			return m, err
		}
		if d.buf[0]&newDataMask != 0 {
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
	adcP := uint32(d.buf[0])<<12 | uint32(d.buf[1])<<4 | uint32(d.buf[2])>>4
	adcT := uint32(d.buf[3])<<12 | uint32(d.buf[4])<<4 | uint32(d.buf[5])>>4
	adcH := uint32(d.buf[6])<<8 | uint32(d.buf[7])

	tc, tFine := d.cal.temperature(adcT)
	m.TemperatureC = tc
	m.PressureHPa = d.cal.pressure(adcP, tFine)
	m.HumidityPct = d.cal.humidity(adcH, tc)
	return m, nil
}

// calibration is the factory trim snapshot (TPH channels only).
type calibration struct {
	t1     uint16
	t2     int16
	t3     int8
	p1     uint16
	p2     int16
	p3     int8
	p4, p5 int16
	p6, p7 int8
	p8, p9 int16
	p10    uint8
	h1, h2 uint16
	h3, h4 int8
	h5, h7 int8
	h6     uint8
}

func u16le(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func s16le(b []byte) int16  { return int16(u16le(b)) }

// loadCoeff1 unpacks the 0x89.. block (offsets per the Bosch reference).
func (c *calibration) loadCoeff1(b []byte) {
	c.t2 = s16le(b[1:])
	c.t3 = int8(b[3])
	c.p1 = u16le(b[5:])
	c.p2 = s16le(b[7:])
	c.p3 = int8(b[9])
	c.p4 = s16le(b[11:])
	c.p5 = s16le(b[13:])
	c.p7 = int8(b[15])
	c.p6 = int8(b[16])
	c.p8 = s16le(b[19:])
	c.p9 = s16le(b[21:])
	c.p10 = b[23]
}

// loadCoeff2 unpacks the 0xE1.. block.
func (c *calibration) loadCoeff2(b []byte) {
	c.h2 = uint16(b[0])<<4 | uint16(b[1])>>4
	c.h1 = uint16(b[2])<<4 | uint16(b[1])&0x0F
	c.h3 = int8(b[3])
	c.h4 = int8(b[4])
	c.h5 = int8(b[5])
	c.h6 = b[6]
	c.h7 = int8(b[7])
	c.t1 = u16le(b[8:])
}

// temperature returns °C and t_fine.
func (c *calibration) temperature(adc uint32) (float32, float64) {
	a := float64(adc)
	var1 := (a/16384 - float64(c.t1)/1024) * float64(c.t2)
	d := a/131072 - float64(c.t1)/8192
	var2 := d * d * float64(c.t3) * 16
	tFine := var1 + var2
	return float32(tFine / 5120), tFine
}

// pressure returns hPa.
func (c *calibration) pressure(adc uint32, tFine float64) float32 {
	var1 := tFine/2 - 64000
	var2 := var1 * var1 * float64(c.p6) / 131072
	var2 += var1 * float64(c.p5) * 2
	var2 = var2/4 + float64(c.p4)*65536
	var1 = (float64(c.p3)*var1*var1/16384 + float64(c.p2)*var1) / 524288
	var1 = (1 + var1/32768) * float64(c.p1)
	if var1 == 0 {
		return 0
	}
	p := 1048576 - float64(adc)
	p = (p - var2/4096) * 6250 / var1
	var1 = float64(c.p9) * p * p / 2147483648
	var2 = p * float64(c.p8) / 32768
	q := p / 256
	var3 := q * q * q * float64(c.p10) / 131072
	p += (var1 + var2 + var3 + float64(c.p7)*128) / 16
	return float32(p / 100)
}

// humidity returns %RH, clamped to [0, 100].
func (c *calibration) humidity(adc uint32, tempC float32) float32 {
	t := float64(tempC)
	var1 := float64(adc) - (float64(c.h1)*16 + float64(c.h3)/2*t)
	var2 := var1 * (float64(c.h2) / 262144 *
		(1 + float64(c.h4)/16384*t + float64(c.h5)/1048576*t*t))
	var3 := float64(c.h6) / 16384
	var4 := float64(c.h7) / 2097152
	h := var2 + (var3+var4*t)*var2*var2
	if h < 0 {
		h = 0
	}
	if h > 100 {
		h = 100
	}
	return float32(h)
}
