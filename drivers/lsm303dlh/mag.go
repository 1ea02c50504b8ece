package lsm303dlh

import "tinygo.org/x/drivers"

// Magnetometer registers.
const (
	regCRAM  = 0x00
	regCRBM  = 0x01
	regMRM   = 0x02
	regOutXM = 0x03 // big-endian, axis order X, Z, Y

	cra15Hz       = 0x10
	crbGain1_3    = 0x20 // ±1.3 gauss: 1100 LSB/gauss XY, 980 LSB/gauss Z
	mrContinuous  = 0x00
	gaussToMicroT = 100.0
)

// Mag wraps the magnetometer die.
type Mag struct {
	Address uint16

	configured bool
	buf        [6]byte
}

// NewMag creates a magnetometer handle. It does not touch hardware.
func NewMag() Mag {
	return Mag{Address: MagAddress}
}

// Configure selects 15 Hz continuous conversion at ±1.3 gauss.
func (d *Mag) Configure(bus drivers.I2C) error {
	if err := bus.Tx(d.Address, []byte{regCRAM, cra15Hz}, nil); err != nil {
		return err
	}
	if err := bus.Tx(d.Address, []byte{regCRBM, crbGain1_3}, nil); err != nil {
		return err
	}
	if err := bus.Tx(d.Address, []byte{regMRM, mrContinuous}, nil); err != nil {
		return err
	}
	d.configured = true
	return nil
}

// RawCounts reads the three axes as signed counts. The register file orders
// the axes X, Z, Y.
func (d *Mag) RawCounts(bus drivers.I2C) (x, y, z int16, err error) {
	if !d.configured {
		return 0, 0, 0, ErrNotConfigured
	}
	if err = bus.Tx(d.Address, []byte{regOutXM}, d.buf[:6]); err != nil {
		return
	}
	x = int16(uint16(d.buf[0])<<8 | uint16(d.buf[1]))
	z = int16(uint16(d.buf[2])<<8 | uint16(d.buf[3]))
	y = int16(uint16(d.buf[4])<<8 | uint16(d.buf[5]))
	return
}

// MicroTeslaXY converts an XY-axis count to µT at the ±1.3 gauss gain.
func MicroTeslaXY(count int16) float32 {
	return float32(count) / 1100.0 * gaussToMicroT
}

// MicroTeslaZ converts a Z-axis count to µT at the ±1.3 gauss gain.
func MicroTeslaZ(count int16) float32 {
	return float32(count) / 980.0 * gaussToMicroT
}
