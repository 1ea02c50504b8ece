// Package report is the JSON boundary: it flattens a cycle record into the
// collector's wire shape, parses it back, and posts it over a pluggable
// transport.
package report

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"sensenode-go/errcode"
	"sensenode-go/services/sensing"
	"sensenode-go/types"
	"sensenode-go/x/fmtx"
)

// Report statuses.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
)

// wire is the collector's envelope. Data values are either a measurement
// object or {"error": code}.
type wire struct {
	Status   string                     `json:"status"`
	Message  string                     `json:"message"`
	Device   string                     `json:"device"`
	Location string                     `json:"location"`
	CycleID  uint64                     `json:"cycleId"`
	Data     map[string]json.RawMessage `json:"data"`
}

type wireError struct {
	Error errcode.Code `json:"error"`
}

// Encode renders one cycle record. Failed slots become {"error": code};
// status is "partial" as soon as any slot failed. Non-finite numbers are
// rejected before they can poison the payload.
func Encode(rec *types.ReportRecord) ([]byte, error) {
	w := wire{
		Device:   rec.Identity.DeviceURN,
		Location: rec.Identity.LocationURN,
		CycleID:  rec.CycleID,
		Data:     make(map[string]json.RawMessage, len(rec.Data)),
	}

	failed := 0
	for _, key := range rec.Order {
		o := rec.Data[key]
		if !o.OK() {
			failed++
			raw, err := json.Marshal(wireError{Error: o.Err})
			if err != nil {
				return nil, err
			}
			w.Data[key] = raw
			continue
		}
		if !finite(o.Measurement) {
			return nil, &errcode.E{C: errcode.Error, Op: "report.Encode", Msg: "non-finite value in " + key}
		}
		raw, err := json.Marshal(o.Measurement)
		if err != nil {
			return nil, err
		}
		w.Data[key] = raw
	}

	if failed == 0 {
		w.Status = StatusOK
		w.Message = "all sensor reads ok"
	} else {
		w.Status = StatusPartial
		w.Message = fmtx.Sprintf("%d of %d sensor reads failed", failed, len(rec.Order))
	}
	return json.Marshal(w)
}

// Decode parses a wire payload back into a record. Data keys are resolved to
// their measurement shape through the sensor catalog; slots are restored in
// sorted key order since JSON objects carry none.
func Decode(b []byte) (*types.ReportRecord, error) {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, &errcode.E{C: errcode.ProtocolError, Op: "report.Decode", Err: err}
	}

	rec := types.NewReportRecord(types.DeviceIdentity{
		DeviceURN:   w.Device,
		LocationURN: w.Location,
	}, w.CycleID)

	keys := make([]string, 0, len(w.Data))
	for k := range w.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := w.Data[key]

		var we wireError
		if err := json.Unmarshal(raw, &we); err == nil && we.Error != "" {
			rec.Set(key, types.Fail(we.Error))
			continue
		}

		m, err := decodeMeasurement(sensing.KindOf(strings.ToLower(key)), raw)
		if err != nil {
			return nil, &errcode.E{C: errcode.ProtocolError, Op: "report.Decode", Msg: key, Err: err}
		}
		rec.Set(key, types.Ok(m))
	}
	return rec, nil
}

func decodeMeasurement(kind types.Kind, raw json.RawMessage) (types.Measurement, error) {
	switch kind {
	case types.KindIlluminance:
		var m types.Illuminance
		return m, json.Unmarshal(raw, &m)
	case types.KindAtmosphere:
		var m types.Atmosphere
		return m, json.Unmarshal(raw, &m)
	case types.KindClock:
		var m types.Clock
		return m, json.Unmarshal(raw, &m)
	case types.KindRange:
		var m types.Range
		return m, json.Unmarshal(raw, &m)
	case types.KindAcceleration:
		var m types.Acceleration
		return m, json.Unmarshal(raw, &m)
	}
	return nil, errcode.ProtocolError
}

// finite rejects NaN and infinities in every numeric field.
func finite(m types.Measurement) bool {
	ok := func(v float32) bool {
		f := float64(v)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	switch x := m.(type) {
	case types.Illuminance:
		return ok(x.Lux)
	case types.Atmosphere:
		return ok(x.TemperatureC) && ok(x.HumidityPct) && ok(x.PressureHPa)
	case types.Acceleration:
		return ok(x.X) && ok(x.Y) && ok(x.Z) && ok(x.Magnitude) && ok(x.Tilt)
	}
	return true
}

// Transport posts an encoded payload. The platform supplies the concrete
// uplink; tests supply a recorder.
type Transport interface {
	Post(ctx context.Context, url, contentType string, body []byte) error
}

// Client sends cycle records to the collector's /sensors endpoint.
type Client struct {
	base string
	tr   Transport
}

// NewClient wraps a transport. base is the collector's base URL.
func NewClient(base string, tr Transport) *Client {
	return &Client{base: strings.TrimRight(base, "/"), tr: tr}
}

// Send encodes and posts one record. Transport trouble is reported as
// TransportError; the caller decides whether to retry or drop.
func (c *Client) Send(ctx context.Context, rec *types.ReportRecord) error {
	body, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := c.tr.Post(ctx, c.base+"/sensors", "application/json", body); err != nil {
		return &errcode.E{C: errcode.TransportError, Op: "report.Send", Err: err}
	}
	return nil
}
