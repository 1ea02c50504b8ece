package sensing

import (
	"context"
	"strings"

	"sensenode-go/errcode"
	"sensenode-go/types"
)

// Orchestrator walks the active sensors once per cycle and folds the
// outcomes into a report record. Reads run sequentially in include order;
// one sensor's failure never aborts the cycle.
type Orchestrator struct {
	identity  types.DeviceIdentity
	reg       *Registry
	nextCycle uint64
}

// NewOrchestrator creates an orchestrator over reg. Cycle ids start at 0 and
// increase by one per cycle for the life of the process.
func NewOrchestrator(id types.DeviceIdentity, reg *Registry) *Orchestrator {
	return &Orchestrator{identity: id, reg: reg}
}

// Cycle performs one measurement cycle. Every configured sensor gets a slot
// in the record: a measurement on success, a failure code otherwise. Once
// ctx expires, the remaining slots are filled with Timeout without touching
// the hardware, so the record is always structurally complete.
func (o *Orchestrator) Cycle(ctx context.Context) *types.ReportRecord {
	rec := types.NewReportRecord(o.identity, o.nextCycle)
	o.nextCycle++

	for _, ent := range o.reg.Active() {
		key := strings.ToUpper(ent.Name)
		if ctx.Err() != nil {
			rec.Set(key, types.Fail(errcode.Timeout))
			continue
		}
		m, err := ent.Sensor.Read(ctx)
		if err != nil {
			rec.Set(key, types.Fail(failureCode(err)))
			continue
		}
		rec.Set(key, types.Ok(m))
	}
	return rec
}

// failureCode pins a read error to a wire code. Adaptors already speak in
// codes; anything else is treated as an unresponsive device.
func failureCode(err error) errcode.Code {
	return readErr(err, errcode.DeviceNotResponding)
}
