package types

import "sensenode-go/errcode"

// ReadOutcome is the result of one sensor read inside a cycle: either a
// measurement or a failure code, never both.
type ReadOutcome struct {
	Measurement Measurement
	Err         errcode.Code
}

// OK reports whether the outcome carries a measurement.
func (o ReadOutcome) OK() bool { return o.Err == "" && o.Measurement != nil }

// Ok wraps a measurement.
func Ok(m Measurement) ReadOutcome { return ReadOutcome{Measurement: m} }

// Fail wraps a failure code.
func Fail(c errcode.Code) ReadOutcome { return ReadOutcome{Err: c} }

// ReportRecord is one cycle's aggregate. Keys of Data are the upper-cased
// short-names of the configured include list; Order preserves the include
// order for reproducible iteration.
type ReportRecord struct {
	Identity DeviceIdentity
	CycleID  uint64
	Order    []string
	Data     map[string]ReadOutcome
}

// NewReportRecord returns an empty record stamped with identity and cycle id.
func NewReportRecord(id DeviceIdentity, cycle uint64) *ReportRecord {
	return &ReportRecord{
		Identity: id,
		CycleID:  cycle,
		Data:     map[string]ReadOutcome{},
	}
}

// Set inserts an outcome under the upper-cased short-name.
func (r *ReportRecord) Set(key string, o ReadOutcome) {
	if _, dup := r.Data[key]; !dup {
		r.Order = append(r.Order, key)
	}
	r.Data[key] = o
}

// Partial reports whether any slot is a failure.
func (r *ReportRecord) Partial() bool {
	for _, o := range r.Data {
		if !o.OK() {
			return true
		}
	}
	return false
}
