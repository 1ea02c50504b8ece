// Package ds3231 provides a driver for the DS3231 real-time clock.
//
// The chip keeps time across power cycles as long as its backup supply
// holds. The status register's oscillator-stop flag (OSF) marks a clock that
// has lost time; SeedIfStopped uses it as the "initialized" marker so a
// running clock is never overwritten on reboot.
package ds3231

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address (fixed).
const Address = 0x68

// Register map (per datasheet).
const (
	regSeconds = 0x00 // 7 BCD bytes: sec, min, hour, weekday, day, month, year
	regControl = 0x0E
	regStatus  = 0x0F

	statusOSF  = 0x80 // oscillator stopped since last cleared
	monthMask  = 0x1F // bit 7 of the month register is the century flag
	hourMask24 = 0x3F
)

// Errors returned by the driver.
var (
	ErrBadClock = errors.New("ds3231: invalid clock data")
	ErrBadTime  = errors.New("ds3231: time out of range")
)

// Device wraps the DS3231 protocol. Methods take the bus explicitly.
type Device struct {
	Address uint16

	buf [8]byte
}

// New creates a Device. It does not touch hardware.
func New() Device {
	return Device{Address: Address}
}

// OscillatorStopped reports whether the OSF flag is set, i.e. the clock
// contents are not trustworthy and need seeding.
func (d *Device) OscillatorStopped(bus drivers.I2C) (bool, error) {
	if err := bus.Tx(d.Address, []byte{regStatus}, d.buf[:1]); err != nil {
		return false, err
	}
	return d.buf[0]&statusOSF != 0, nil
}

// SetTime writes the clock registers (24-hour mode) and clears the OSF flag.
func (d *Device) SetTime(bus drivers.I2C, year, month, day, hour, min, sec int) error {
	if year < 2000 || year > 2099 || month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return ErrBadTime
	}
	w := d.buf[:8]
	w[0] = regSeconds
	w[1] = encBCD(sec)
	w[2] = encBCD(min)
	w[3] = encBCD(hour) // 24-hour mode: bit 6 clear
	w[4] = 1            // weekday unused; keep in the 1..7 window
	w[5] = encBCD(day)
	w[6] = encBCD(month)
	w[7] = encBCD(year - 2000)
	if err := bus.Tx(d.Address, w, nil); err != nil {
		return err
	}
	return d.clearOSF(bus)
}

// SeedIfStopped seeds the clock from civil UTC fields only when the OSF flag
// says the clock is uninitialized. It reports whether a seed was performed.
func (d *Device) SeedIfStopped(bus drivers.I2C, year, month, day, hour, min, sec int) (bool, error) {
	stopped, err := d.OscillatorStopped(bus)
	if err != nil {
		return false, err
	}
	if !stopped {
		return false, nil
	}
	if err := d.SetTime(bus, year, month, day, hour, min, sec); err != nil {
		return false, err
	}
	return true, nil
}

// ReadTime returns the clock's civil UTC fields.
func (d *Device) ReadTime(bus drivers.I2C) (year, month, day, hour, min, sec int, err error) {
	if err = bus.Tx(d.Address, []byte{regSeconds}, d.buf[:7]); err != nil {
		return
	}
	sec = decBCD(d.buf[0] & 0x7F)
	min = decBCD(d.buf[1] & 0x7F)
	hour = decBCD(d.buf[2] & hourMask24)
	day = decBCD(d.buf[4] & 0x3F)
	month = decBCD(d.buf[5] & monthMask)
	year = 2000 + decBCD(d.buf[6])
	if sec > 59 || min > 59 || hour > 23 || day < 1 || day > 31 || month < 1 || month > 12 {
		err = ErrBadClock
	}
	return
}

func (d *Device) clearOSF(bus drivers.I2C) error {
	if err := bus.Tx(d.Address, []byte{regStatus}, d.buf[:1]); err != nil {
		return err
	}
	st := d.buf[0] &^ statusOSF
	return bus.Tx(d.Address, []byte{regStatus, st}, nil)
}

func encBCD(v int) byte {
	return byte(v/10)<<4 | byte(v%10)
}

func decBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}
