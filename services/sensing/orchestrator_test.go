package sensing

import (
	"context"
	"errors"
	"testing"
	"time"

	"sensenode-go/errcode"
	"sensenode-go/types"
)

var testIdentity = types.DeviceIdentity{
	DeviceURN:   "urn:dev:node0",
	LocationURN: "urn:loc:lab",
	SelfURN:     "urn:dev:node0:sensing",
}

// stubSensor scripts one sensor slot for orchestrator tests.
type stubSensor struct {
	meta
	m     types.Measurement
	err   error
	delay time.Duration
	calls int
}

func (s *stubSensor) Read(ctx context.Context) (types.Measurement, error) {
	s.calls++
	if s.delay > 0 {
		if err := sleepCtx(ctx, s.delay); err != nil {
			return nil, errcode.Timeout
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.m, nil
}

func stubRegistry(stubs ...*stubSensor) *Registry {
	r := &Registry{identity: testIdentity, index: map[string]Sensor{}}
	for _, s := range stubs {
		r.index[s.Name()] = s
		r.active = append(r.active, Entry{Name: s.Name(), Sensor: s})
	}
	return r
}

func TestCyclePartialFailure(t *testing.T) {
	light := &stubSensor{
		meta: newMeta(testIdentity, NameBH1750),
		m:    types.Illuminance{Lux: 320, Condition: types.LightNormal},
	}
	air := &stubSensor{
		meta: newMeta(testIdentity, NameBME280),
		err:  errcode.DeviceNotResponding,
	}
	rng := &stubSensor{
		meta: newMeta(testIdentity, NameVL53L0X),
		m:    types.Range{DistanceMM: 842, Status: types.ProximityMedium},
	}

	o := NewOrchestrator(testIdentity, stubRegistry(light, air, rng))
	rec := o.Cycle(context.Background())

	if len(rec.Data) != 3 {
		t.Fatalf("slots = %d, want 3", len(rec.Data))
	}
	if !rec.Partial() {
		t.Fatal("record with a failed slot must be partial")
	}
	if got := rec.Data["BME280"]; got.Err != errcode.DeviceNotResponding {
		t.Fatalf("BME280 err = %q, want DeviceNotResponding", got.Err)
	}
	if got := rec.Data["BH1750"]; !got.OK() {
		t.Fatalf("BH1750 should have succeeded, got err %q", got.Err)
	}
	if got := rec.Data["VL53L0X"]; !got.OK() {
		t.Fatalf("VL53L0X should have succeeded, got err %q", got.Err)
	}
}

func TestCycleKeysAreUppercasedIncludeOrder(t *testing.T) {
	a := &stubSensor{meta: newMeta(testIdentity, NameDS3231SN), m: types.Clock{ISO8601: "2025-01-02T01:24:05Z"}}
	b := &stubSensor{meta: newMeta(testIdentity, NameBH1750), m: types.Illuminance{Lux: 5}}
	o := NewOrchestrator(testIdentity, stubRegistry(a, b))

	rec := o.Cycle(context.Background())
	want := []string{"DS3231SN", "BH1750"}
	if len(rec.Order) != len(want) {
		t.Fatalf("order = %v, want %v", rec.Order, want)
	}
	for i, k := range want {
		if rec.Order[i] != k {
			t.Fatalf("order[%d] = %q, want %q", i, rec.Order[i], k)
		}
	}
}

func TestCycleIDMonotonic(t *testing.T) {
	o := NewOrchestrator(testIdentity, stubRegistry())
	for want := uint64(0); want < 4; want++ {
		if got := o.Cycle(context.Background()).CycleID; got != want {
			t.Fatalf("cycle id = %d, want %d", got, want)
		}
	}
}

func TestCycleDeadlineFillsRemainingSlots(t *testing.T) {
	slow := &stubSensor{
		meta:  newMeta(testIdentity, NameBME680),
		m:     types.Atmosphere{TemperatureC: 21},
		delay: 200 * time.Millisecond,
	}
	skipped := &stubSensor{
		meta: newMeta(testIdentity, NameVL53L0X),
		m:    types.Range{DistanceMM: 100, Status: types.ProximityClose},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	o := NewOrchestrator(testIdentity, stubRegistry(slow, skipped))
	rec := o.Cycle(ctx)

	if len(rec.Data) != 2 {
		t.Fatalf("slots = %d, want 2 (record must stay structurally complete)", len(rec.Data))
	}
	if got := rec.Data["BME680"]; got.Err != errcode.Timeout {
		t.Fatalf("BME680 err = %q, want Timeout", got.Err)
	}
	if got := rec.Data["VL53L0X"]; got.Err != errcode.Timeout {
		t.Fatalf("VL53L0X err = %q, want Timeout", got.Err)
	}
	if skipped.calls != 0 {
		t.Fatal("sensor after the deadline should not be read")
	}
}

func TestCycleUnwrapsWrappedCodes(t *testing.T) {
	wrapped := &stubSensor{
		meta: newMeta(testIdentity, NameBME280),
		err:  &errcode.E{C: errcode.OutOfRange, Op: "read"},
	}
	o := NewOrchestrator(testIdentity, stubRegistry(wrapped))
	rec := o.Cycle(context.Background())
	if got := rec.Data["BME280"]; got.Err != errcode.OutOfRange {
		t.Fatalf("err = %q, want OutOfRange", got.Err)
	}
}

func TestCycleFailureCodeFallback(t *testing.T) {
	odd := &stubSensor{
		meta: newMeta(testIdentity, NameBH1750),
		err:  errors.New("i2c glitch"),
	}
	o := NewOrchestrator(testIdentity, stubRegistry(odd))
	rec := o.Cycle(context.Background())
	if got := rec.Data["BH1750"]; got.Err != errcode.DeviceNotResponding {
		t.Fatalf("err = %q, want DeviceNotResponding", got.Err)
	}
}
