package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"sensenode-go/errcode"
)

// countingBus records concurrent holders so exclusivity violations show up.
type countingBus struct {
	inFlight int32
	maxSeen  int32
	txCount  int32
	delay    time.Duration
}

var _ drivers.I2C = (*countingBus)(nil)

func (b *countingBus) Tx(addr uint16, w, r []byte) error {
	n := atomic.AddInt32(&b.inFlight, 1)
	for {
		m := atomic.LoadInt32(&b.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&b.maxSeen, m, n) {
			break
		}
	}
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	atomic.AddInt32(&b.txCount, 1)
	atomic.AddInt32(&b.inFlight, -1)
	return nil
}

func TestWithBus_Exclusive(t *testing.T) {
	raw := &countingBus{delay: 2 * time.Millisecond}
	a := NewArbiter(raw, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				err := a.WithBus(context.Background(), func(bus drivers.I2C) error {
					return bus.Tx(0x23, []byte{0x20}, nil)
				})
				if err != nil {
					t.Errorf("WithBus: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if raw.maxSeen != 1 {
		t.Fatalf("bus held by %d callers at once", raw.maxSeen)
	}
	if raw.txCount != 40 {
		t.Fatalf("txCount = %d, want 40", raw.txCount)
	}
}

func TestWithBus_FIFO(t *testing.T) {
	raw := &countingBus{}
	a := NewArbiter(raw, 0)

	// Park a holder on the bus so the workers below all queue up.
	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = a.WithBus(context.Background(), func(bus drivers.I2C) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = a.WithBus(context.Background(), func(bus drivers.I2C) error {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				return nil
			})
		}(i)
		// Give each waiter time to join the queue before the next spawns.
		time.Sleep(10 * time.Millisecond)
	}

	close(hold)
	wg.Wait()

	for i, n := range order {
		if n != i {
			t.Fatalf("order = %v, want FIFO", order)
		}
	}
}

func TestWithBus_ReleasedOnOpError(t *testing.T) {
	raw := &countingBus{}
	a := NewArbiter(raw, 0)

	boom := errors.New("boom")
	if err := a.WithBus(context.Background(), func(bus drivers.I2C) error {
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	// The bus must be free again.
	if err := a.WithBus(context.Background(), func(bus drivers.I2C) error {
		return bus.Tx(0x23, nil, []byte{0})
	}); err != nil {
		t.Fatalf("bus not released after op error: %v", err)
	}
}

func TestWithBus_ReleasedOnOpPanic(t *testing.T) {
	raw := &countingBus{}
	a := NewArbiter(raw, 0)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic did not propagate out of WithBus")
			}
		}()
		_ = a.WithBus(context.Background(), func(bus drivers.I2C) error {
			panic("driver bug")
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := a.WithBus(ctx, func(bus drivers.I2C) error {
		return bus.Tx(0x23, nil, []byte{0})
	}); err != nil {
		t.Fatalf("arbiter wedged after op panic: %v", err)
	}
}

func TestWithBus_CancelWhileWaiting(t *testing.T) {
	raw := &countingBus{}
	a := NewArbiter(raw, 0)

	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = a.WithBus(context.Background(), func(bus drivers.I2C) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	err := a.WithBus(ctx, func(bus drivers.I2C) error {
		ran = true
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if ran {
		t.Fatal("op ran despite cancelled wait")
	}
	close(hold)
}

func TestWithBus_HoldBudget(t *testing.T) {
	raw := &countingBus{}
	a := NewArbiter(raw, 20*time.Millisecond)

	var first, second error
	err := a.WithBus(context.Background(), func(bus drivers.I2C) error {
		first = bus.Tx(0x29, []byte{0x00}, nil)
		time.Sleep(40 * time.Millisecond) // overstay
		second = bus.Tx(0x29, []byte{0x00}, nil)
		return second
	})

	if first != nil {
		t.Fatalf("first Tx: %v", first)
	}
	if !errors.Is(second, errcode.BusBusy) {
		t.Fatalf("second Tx = %v, want BusBusy", second)
	}
	if !errors.Is(err, errcode.BusBusy) {
		t.Fatalf("WithBus = %v, want BusBusy", err)
	}

	// Bus free again after the overrun.
	if err := a.WithBus(context.Background(), func(bus drivers.I2C) error { return nil }); err != nil {
		t.Fatalf("bus not released after overrun: %v", err)
	}
}

func TestWithBus_LeaseInertAfterReturn(t *testing.T) {
	raw := &countingBus{}
	a := NewArbiter(raw, 0)

	var leaked drivers.I2C
	_ = a.WithBus(context.Background(), func(bus drivers.I2C) error {
		leaked = bus
		return nil
	})

	if err := leaked.Tx(0x23, nil, nil); !errors.Is(err, errcode.BusBusy) {
		t.Fatalf("leaked lease Tx = %v, want BusBusy", err)
	}
	if raw.txCount != 0 {
		t.Fatal("leaked lease reached the raw bus")
	}
}
