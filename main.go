package main

import (
	"context"
	"time"

	"sensenode-go/bus"
	"sensenode-go/platform"
	"sensenode-go/services/config"
	"sensenode-go/services/console"
	"sensenode-go/services/report"
	"sensenode-go/services/sensing"
	"sensenode-go/types"
	"sensenode-go/x/fmtx"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	cfg, err := config.Load(platform.DeviceName())
	if err != nil {
		fmtx.Printf("Fatal: config: %s\n", err.Error())
		return
	}

	raw, consoleIO, err := platform.Setup()
	if err != nil {
		fmtx.Printf("Fatal: platform: %s\n", err.Error())
		return
	}

	id := types.DeviceIdentity{
		DeviceURN:   cfg.DeviceURN,
		LocationURN: cfg.LocationURN,
		SelfURN:     cfg.DeviceURN + ":sensing",
	}

	arb := bus.NewArbiter(raw, 0)
	reg, err := sensing.Build(id, cfg.Sensors, arb, sensing.Options{})
	if err != nil {
		fmtx.Printf("Fatal: registry: %s\n", err.Error())
		return
	}
	orch := sensing.NewOrchestrator(id, reg)
	client := report.NewClient(cfg.ServerBaseURL, platform.NewTransport())

	svc := sensing.NewService(orch, client, sensing.ServiceOptions{
		Period: time.Duration(cfg.ReportPeriodS) * time.Second,
	})

	ctx := context.Background()
	go console.New(consoleIO, reg, orch, arb).Run(ctx)

	fmtx.Printf("Info: %s sensing %d sensor(s), period %ds\n",
		cfg.DeviceURN, reg.Len(), cfg.ReportPeriodS)
	svc.Run(ctx)
}
