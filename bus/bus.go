// bus.go
package bus

import (
	"context"
	"time"

	"tinygo.org/x/drivers"

	"sensenode-go/errcode"
)

// DefaultHoldBudget bounds how long one WithBus op may keep the bus.
const DefaultHoldBudget = 100 * time.Millisecond

// Arbiter owns the single shared I²C bus and serialises access to it.
// Drivers never see the raw handle; every transaction goes through a lease
// handed to the op inside WithBus. At most one op is on the bus at any
// instant, and waiters are served in FIFO order (the runtime wakes
// channel-blocked goroutines in queue order).
type Arbiter struct {
	raw    drivers.I2C
	budget time.Duration
	tok    chan struct{} // capacity 1: holding the token = holding the bus
}

// NewArbiter wraps the configured bus. budget <= 0 selects DefaultHoldBudget.
func NewArbiter(raw drivers.I2C, budget time.Duration) *Arbiter {
	if budget <= 0 {
		budget = DefaultHoldBudget
	}
	return &Arbiter{
		raw:    raw,
		budget: budget,
		tok:    make(chan struct{}, 1),
	}
}

// WithBus runs op with exclusive use of the bus. The bus is released on every
// exit path: op success, op failure, op panic, and cancellation while
// waiting. The hold budget is enforced at transaction boundaries: a Tx
// attempted after the budget has elapsed fails with errcode.BusBusy, and
// WithBus itself then returns BusBusy. WithBus is not re-entrant; calling it
// from inside op deadlocks by design, so don't.
func (a *Arbiter) WithBus(ctx context.Context, op func(bus drivers.I2C) error) error {
	select {
	case a.tok <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	l := &lease{raw: a.raw, ctx: ctx, deadline: time.Now().Add(a.budget)}
	defer func() {
		l.revoked = true
		<-a.tok
	}()

	err := op(l)
	if l.overran {
		return errcode.BusBusy
	}
	return err
}

// HoldBudget returns the configured per-hold budget.
func (a *Arbiter) HoldBudget() time.Duration { return a.budget }

// lease is the bus view an op receives. It checks cancellation and the hold
// budget before every transaction and becomes inert once WithBus returns, so
// a leaked reference cannot touch the bus out of turn.
type lease struct {
	raw      drivers.I2C
	ctx      context.Context
	deadline time.Time
	revoked  bool
	overran  bool
}

var _ drivers.I2C = (*lease)(nil)

func (l *lease) Tx(addr uint16, w, r []byte) error {
	if l.revoked {
		return errcode.BusBusy
	}
	if err := l.ctx.Err(); err != nil {
		return err
	}
	if time.Now().After(l.deadline) {
		l.overran = true
		return errcode.BusBusy
	}
	return l.raw.Tx(addr, w, r)
}
