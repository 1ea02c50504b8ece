package sensing

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"sensenode-go/types"
	"sensenode-go/x/fmtx"
)

// Reporter delivers a finished cycle record. The report client implements
// this; tests substitute a recorder.
type Reporter interface {
	Send(ctx context.Context, rec *types.ReportRecord) error
}

// ServiceOptions tunes the periodic runner.
type ServiceOptions struct {
	// Period between cycles. Default 60 s.
	Period time.Duration
	// CycleBudget bounds one whole cycle; slots still unfilled at the
	// deadline report Timeout. Default 10 s.
	CycleBudget time.Duration
	// Clock drives the ticker. Default is the wall clock; tests inject
	// clock.NewMock().
	Clock clock.Clock
}

// Service ticks the orchestrator and hands each record to the reporter.
// Delivery failure is logged and the loop carries on; sensing never stalls
// on a flaky uplink.
type Service struct {
	orch   *Orchestrator
	rep    Reporter
	clk    clock.Clock
	period time.Duration
	budget time.Duration
}

// NewService wires an orchestrator to a reporter.
func NewService(orch *Orchestrator, rep Reporter, opts ServiceOptions) *Service {
	if opts.Period <= 0 {
		opts.Period = 60 * time.Second
	}
	if opts.CycleBudget <= 0 {
		opts.CycleBudget = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Service{
		orch:   orch,
		rep:    rep,
		clk:    opts.Clock,
		period: opts.Period,
		budget: opts.CycleBudget,
	}
}

// RunOnce performs a single budgeted cycle and delivers it. The budget runs
// on the injected clock so tests can expire it deterministically.
func (s *Service) RunOnce(ctx context.Context) error {
	cctx, cancel := context.WithCancel(ctx)
	deadline := s.clk.AfterFunc(s.budget, cancel)
	rec := s.orch.Cycle(cctx)
	deadline.Stop()
	cancel()
	return s.rep.Send(ctx, rec)
}

// Run loops until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	t := s.clk.Ticker(s.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			fmtx.Printf("Info: sensing service stopped\n")
			return
		case <-t.C:
			if err := s.RunOnce(ctx); err != nil {
				fmtx.Printf("Warn: report delivery failed: %s\n", err.Error())
			}
		}
	}
}
