//go:build !rp2040

package platform

import (
	"errors"
	"sync"
)

// SimBus emulates the bench board's sensor chain: a BH1750 at 0x23, a DS3231
// at 0x68, a VL53L0X at 0x29 and the LSM303DLH pair at 0x19/0x1E. The BME
// parts are deliberately absent so a simulated cycle exercises the
// partial-failure path.
type SimBus struct {
	mu sync.Mutex

	rtc [0x13]byte

	bhPowered bool
	bhArmed   bool
	bhRaw     uint16

	rangerArmed bool
	rangerMM    uint16
}

// NewSimBus returns a simulated chain with a fresh (stopped) RTC, a 400 lux
// scene and a target at 842 mm.
func NewSimBus() *SimBus {
	b := &SimBus{bhRaw: 480, rangerMM: 842}
	b.rtc[0x0F] = 0x80
	return b
}

func (s *SimBus) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch addr {
	case 0x23:
		return s.lightTx(w, r)
	case 0x68:
		return s.rtcTx(w, r)
	case 0x29:
		return s.rangerTx(w, r)
	case 0x19:
		return s.accelTx(w, r)
	case 0x1E:
		return s.magTx(w, r)
	}
	return errors.New("sim: nak")
}

func (s *SimBus) lightTx(w, r []byte) error {
	if len(w) == 0 {
		if !s.bhArmed {
			return errors.New("sim: bh1750 not armed")
		}
		r[0] = byte(s.bhRaw >> 8)
		r[1] = byte(s.bhRaw)
		s.bhArmed, s.bhPowered = false, false // one-shot powers down
		return nil
	}
	switch w[0] {
	case 0x01:
		s.bhPowered = true
	case 0x20:
		if !s.bhPowered {
			return errors.New("sim: bh1750 measurement while off")
		}
		s.bhArmed = true
	}
	return nil
}

func (s *SimBus) rtcTx(w, r []byte) error {
	if len(w) == 0 {
		for i := range r {
			r[i] = s.rtc[i]
		}
		return nil
	}
	reg := int(w[0])
	copy(s.rtc[reg:], w[1:])
	for i := range r {
		r[i] = s.rtc[reg+i]
	}
	return nil
}

func (s *SimBus) rangerTx(w, r []byte) error {
	if len(w) == 0 {
		return nil
	}
	switch w[0] {
	case 0xC0:
		r[0] = 0xEE
	case 0x00:
		s.rangerArmed = true
	case 0x13:
		if s.rangerArmed {
			r[0] = 0x07
		}
	case 0x14:
		r[10] = byte(s.rangerMM >> 8)
		r[11] = byte(s.rangerMM)
	case 0x0B:
		s.rangerArmed = false
	}
	return nil
}

func (s *SimBus) accelTx(w, r []byte) error {
	if len(w) == 0 {
		return nil
	}
	if w[0]&0x7F == 0x28 && len(r) == 6 {
		// Flat and still: 1 g on Z, left-justified 12-bit little-endian.
		put12le(r[0:2], 0)
		put12le(r[2:4], 0)
		put12le(r[4:6], 1000)
	}
	return nil
}

func (s *SimBus) magTx(w, r []byte) error {
	if len(w) == 0 {
		return nil
	}
	if w[0] == 0x03 && len(r) == 6 {
		// Big-endian, axis order X, Z, Y; roughly a mid-latitude field.
		put16be(r[0:2], 220)  // x
		put16be(r[2:4], -430) // z
		put16be(r[4:6], 0)    // y
	}
	return nil
}

func put12le(dst []byte, v int16) {
	u := uint16(v) << 4
	dst[0] = byte(u)
	dst[1] = byte(u >> 8)
}

func put16be(dst []byte, v int16) {
	dst[0] = byte(uint16(v) >> 8)
	dst[1] = byte(uint16(v))
}
