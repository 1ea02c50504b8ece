package sensing

import (
	"errors"
	"testing"

	"sensenode-go/bus"
	"sensenode-go/errcode"
	"sensenode-go/types"
)

// inertBus satisfies the arbiter for construction-only tests; Build must not
// touch it.
type inertBus struct{ touched bool }

func (b *inertBus) Tx(addr uint16, w, r []byte) error {
	b.touched = true
	return errors.New("unexpected bus traffic")
}

func TestBuildRejectsUnknownSensor(t *testing.T) {
	raw := &inertBus{}
	cfg := types.SensorsConfig{Include: []string{NameBH1750, "thermocouple9000"}}

	_, err := Build(testIdentity, cfg, bus.NewArbiter(raw, 0), Options{})
	if err == nil {
		t.Fatal("build accepted an unknown sensor name")
	}
	if errcode.Of(err) != errcode.UnknownSensor {
		t.Fatalf("code = %q, want UnknownSensor", errcode.Of(err))
	}
}

func TestBuildKeepsIncludeOrderAndDedupes(t *testing.T) {
	raw := &inertBus{}
	cfg := types.SensorsConfig{Include: []string{
		NameVL53L0X, NameBH1750, NameVL53L0X, NameDS3231SN,
	}}

	r, err := Build(testIdentity, cfg, bus.NewArbiter(raw, 0), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{NameVL53L0X, NameBH1750, NameDS3231SN}
	if r.Len() != len(want) {
		t.Fatalf("len = %d, want %d", r.Len(), len(want))
	}
	for i, ent := range r.Active() {
		if ent.Name != want[i] {
			t.Fatalf("active[%d] = %q, want %q", i, ent.Name, want[i])
		}
	}
	if raw.touched {
		t.Fatal("build touched the bus")
	}
}

func TestBuildAssignsChildURNs(t *testing.T) {
	cfg := types.SensorsConfig{Include: []string{NameBH1750}}
	r, err := Build(testIdentity, cfg, bus.NewArbiter(&inertBus{}, 0), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s, err := r.Get(NameBH1750)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if want := testIdentity.SelfURN + ":" + NameBH1750; s.URN() != want {
		t.Fatalf("urn = %q, want %q", s.URN(), want)
	}
	if s.DeviceURN() != testIdentity.DeviceURN || s.LocationURN() != testIdentity.LocationURN {
		t.Fatal("sensor identity does not match the device identity")
	}
}

func TestBuildRejectsIncompleteIdentity(t *testing.T) {
	bare := types.DeviceIdentity{DeviceURN: "urn:dev:node0"}
	_, err := Build(bare, types.SensorsConfig{}, bus.NewArbiter(&inertBus{}, 0), Options{})
	if err == nil {
		t.Fatal("build accepted an incomplete identity")
	}
}

func TestGetUnknownName(t *testing.T) {
	r, err := Build(testIdentity, types.SensorsConfig{}, bus.NewArbiter(&inertBus{}, 0), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := r.Get(NameBME280); errcode.Of(err) != errcode.NotFound {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestMagnetometerSharesConfiguredAccelerometer(t *testing.T) {
	cfg := types.SensorsConfig{Include: []string{NameLSM303DLHAccel, NameLSM303DLHMag}}
	r, err := Build(testIdentity, cfg, bus.NewArbiter(&inertBus{}, 0), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	accel, _ := r.Get(NameLSM303DLHAccel)
	mag, _ := r.Get(NameLSM303DLHMag)
	if mag.(*magSensor).accel != accel.(*accelSensor) {
		t.Fatal("magnetometer should borrow the registered accelerometer")
	}
}

func TestMagnetometerAloneGetsPrivateCompanion(t *testing.T) {
	cfg := types.SensorsConfig{Include: []string{NameLSM303DLHMag}}
	r, err := Build(testIdentity, cfg, bus.NewArbiter(&inertBus{}, 0), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1 (companion must stay unregistered)", r.Len())
	}
	mag, _ := r.Get(NameLSM303DLHMag)
	if mag.(*magSensor).accel == nil {
		t.Fatal("magnetometer has no companion accelerometer")
	}
	if _, err := r.Get(NameLSM303DLHAccel); errcode.Of(err) != errcode.NotFound {
		t.Fatal("companion accelerometer leaked into the registry")
	}
}
