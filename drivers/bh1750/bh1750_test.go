package bh1750

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*fakeBH1750)(nil)

// Scripted BH1750-like fake: powers on, arms a one-shot, serves one result.
type fakeBH1750 struct {
	powered bool
	armed   bool
	raw     uint16
	fail    error
}

func (f *fakeBH1750) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	if addr != Address {
		return errors.New("wrong address")
	}
	if len(w) == 1 {
		switch w[0] {
		case cmdPowerOn:
			f.powered = true
		case cmdOneTimeHRes:
			if !f.powered {
				return errors.New("one-shot before power on")
			}
			f.armed = true
		case cmdPowerDown:
			f.powered = false
		}
		return nil
	}
	if len(w) == 0 && len(r) == 2 {
		if !f.armed {
			return errors.New("read without measurement")
		}
		r[0] = byte(f.raw >> 8)
		r[1] = byte(f.raw)
		f.armed = false
		f.powered = false // one-shot auto power-down
		return nil
	}
	return errors.New("unexpected transaction")
}

func TestOneShotRead(t *testing.T) {
	f := &fakeBH1750{raw: 300} // 300/1.2 = 250 lux
	d := New()
	d.Configure()

	if err := d.Trigger(f); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	raw, err := d.RawLux(f)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if raw != 300 {
		t.Fatalf("raw = %d, want 300", raw)
	}
	if lux := Lux(raw); lux < 249.9 || lux > 250.1 {
		t.Fatalf("lux = %v, want 250", lux)
	}

	// Each read is a full fresh sample: a second RawLux without Trigger
	// must fail on the scripted device.
	if _, err := d.RawLux(f); err == nil {
		t.Fatal("second read without trigger succeeded")
	}
}

func TestBusErrorPropagates(t *testing.T) {
	boom := errors.New("nak")
	f := &fakeBH1750{fail: boom}
	d := New()
	d.Configure()
	if err := d.Trigger(f); !errors.Is(err, boom) {
		t.Fatalf("trigger err = %v, want nak", err)
	}
}

func TestLuxScale(t *testing.T) {
	type C struct {
		raw  uint16
		want float32
	}
	for _, c := range []C{{0, 0}, {12, 10}, {1200, 1000}, {65535, 54612.5}} {
		got := Lux(c.raw)
		if got < c.want-0.1 || got > c.want+0.1 {
			t.Fatalf("Lux(%d) = %v, want %v", c.raw, got, c.want)
		}
	}
}
