// Package console is the maintenance shell on the serial port: list the
// sensor catalog, read one sensor, run a full cycle, scan the bus.
package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"
	"tinygo.org/x/drivers"

	"sensenode-go/bus"
	"sensenode-go/services/report"
	"sensenode-go/services/sensing"
	"sensenode-go/types"
	"sensenode-go/x/conv"
	"sensenode-go/x/fmtx"
)

// readTimeout bounds one interactive sensor read.
const readTimeout = 2 * time.Second

// Service runs a line-oriented shell over rw.
type Service struct {
	rw   io.ReadWriter
	reg  *sensing.Registry
	orch *sensing.Orchestrator
	arb  *bus.Arbiter
}

// New wires a shell to the registry, the orchestrator and the bus arbiter.
func New(rw io.ReadWriter, reg *sensing.Registry, orch *sensing.Orchestrator, arb *bus.Arbiter) *Service {
	return &Service{rw: rw, reg: reg, orch: orch, arb: arb}
}

// Run reads commands until EOF or cancellation.
func (s *Service) Run(ctx context.Context) {
	s.printf("sensenode console; 'help' lists commands\n")
	sc := bufio.NewScanner(s.rw)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			s.printf("parse error: %s\n", err.Error())
			continue
		}
		s.dispatch(ctx, args)
	}
}

func (s *Service) dispatch(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		s.printf("commands: help | id | list | read <sensor> | cycle | scan\n")
	case "id":
		id := s.reg.Identity()
		s.printf("device   %s\nlocation %s\nself     %s\n", id.DeviceURN, id.LocationURN, id.SelfURN)
	case "list":
		s.list()
	case "read":
		if len(args) != 2 {
			s.printf("usage: read <sensor>\n")
			return
		}
		s.read(ctx, args[1])
	case "cycle":
		s.cycle(ctx)
	case "scan":
		s.scan(ctx)
	default:
		s.printf("unknown command %q\n", args[0])
	}
}

func (s *Service) list() {
	active := map[string]bool{}
	for _, ent := range s.reg.Active() {
		active[ent.Name] = true
	}
	for _, name := range sensing.Catalog() {
		mark := " "
		if active[name] {
			mark = "*"
		}
		s.printf("%s %s (%s)\n", mark, name, string(sensing.KindOf(name)))
	}
}

func (s *Service) read(ctx context.Context, name string) {
	sensor, err := s.reg.Get(name)
	if err != nil {
		s.printf("no such sensor %q\n", name)
		return
	}
	rctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	m, err := sensor.Read(rctx)
	if err != nil {
		s.printf("%s: %s\n", name, err.Error())
		return
	}
	s.printf("%s: %s\n", name, formatMeasurement(m))
}

func (s *Service) cycle(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rec := s.orch.Cycle(cctx)
	body, err := report.Encode(rec)
	if err != nil {
		s.printf("encode failed: %s\n", err.Error())
		return
	}
	s.printf("%s\n", body)
}

// scan probes every 7-bit address with a one-byte read, one bus hold per
// address so a slow device cannot blow the hold budget for the rest.
func (s *Service) scan(ctx context.Context) {
	found := 0
	for addr := uint16(0x08); addr <= 0x77; addr++ {
		present := false
		_ = s.arb.WithBus(ctx, func(b drivers.I2C) error {
			var one [1]byte
			if err := b.Tx(addr, nil, one[:]); err == nil {
				present = true
			}
			return nil
		})
		if ctx.Err() != nil {
			return
		}
		if present {
			s.printf("  %s\n", conv.AddrHex(addr))
			found++
		}
	}
	s.printf("%d device(s) found\n", found)
}

func formatMeasurement(m types.Measurement) string {
	switch x := m.(type) {
	case types.Illuminance:
		return fmtx.Sprintf("%v lux (%s)", x.Lux, string(x.Condition))
	case types.Atmosphere:
		return fmtx.Sprintf("%v C  %v %%RH  %v hPa", x.TemperatureC, x.HumidityPct, x.PressureHPa)
	case types.Clock:
		return x.ISO8601
	case types.Range:
		return fmtx.Sprintf("%d mm (%s)", x.DistanceMM, string(x.Status))
	case types.Acceleration:
		return fmtx.Sprintf("x=%v y=%v z=%v mag=%v tilt=%v", x.X, x.Y, x.Z, x.Magnitude, x.Tilt)
	}
	return "?"
}

func (s *Service) printf(format string, a ...any) {
	fmtx.Fprintf(s.rw, format, a...)
}
