package vl53l0x

import (
	"errors"
	"testing"
	"time"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*fakeRanger)(nil)

// fakeRanger scripts the single-shot protocol: measurement becomes ready
// after readyAfter polls of the interrupt register.
type fakeRanger struct {
	mm         uint16
	readyAfter int
	polls      int
	started    bool
	cleared    bool
	fail       error
}

func (f *fakeRanger) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	if addr != Address {
		return errors.New("wrong address")
	}
	switch {
	case len(w) == 1 && w[0] == regModelID && len(r) == 1:
		r[0] = modelID
	case len(w) == 2 && w[0] == regSysrangeStart:
		f.started = true
		f.polls = 0
	case len(w) == 1 && w[0] == regResultInterruptStatus && len(r) == 1:
		if !f.started {
			return errors.New("poll without start")
		}
		f.polls++
		if f.polls > f.readyAfter {
			r[0] = 0x04
		} else {
			r[0] = 0x00
		}
	case len(w) == 1 && w[0] == regResultRange && len(r) == 12:
		r[10] = byte(f.mm >> 8)
		r[11] = byte(f.mm)
	case len(w) == 2 && w[0] == regInterruptClear:
		f.cleared = true
		f.started = false
	default:
		return errors.New("unexpected transaction")
	}
	return nil
}

func TestProbe(t *testing.T) {
	f := &fakeRanger{}
	d := New()
	d.Configure()
	if err := d.Probe(f); err != nil {
		t.Fatalf("probe: %v", err)
	}
}

func TestRangeSingle(t *testing.T) {
	f := &fakeRanger{mm: 842, readyAfter: 2}
	d := New()
	d.Configure(Config{PollInterval: time.Millisecond})

	mm, err := d.RangeSingleMM(f)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if mm != 842 {
		t.Fatalf("mm = %d, want 842", mm)
	}
	if !f.cleared {
		t.Fatal("interrupt not cleared")
	}
}

func TestRangeTimeout(t *testing.T) {
	f := &fakeRanger{mm: 100, readyAfter: 1 << 30} // never ready
	d := New()
	d.Configure(Config{PollInterval: time.Millisecond, RangingTimeout: 10 * time.Millisecond})

	if _, err := d.RangeSingleMM(f); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestBusErrorPropagates(t *testing.T) {
	boom := errors.New("nak")
	f := &fakeRanger{fail: boom}
	d := New()
	d.Configure()
	if _, err := d.RangeSingleMM(f); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want nak", err)
	}
}
