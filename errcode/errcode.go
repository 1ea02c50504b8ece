package errcode

// Code is a stable, wire-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes. Per-read codes appear verbatim inside report records, so
// they are spelled the way the upstream collector expects them.
const (
	OK Code = "ok"

	// Per-read, non-fatal.
	BusBusy             Code = "BusBusy"
	DeviceNotResponding Code = "DeviceNotResponding"
	OutOfRange          Code = "OutOfRange"
	ProtocolError       Code = "ProtocolError"
	Timeout             Code = "Timeout"

	// Boot-fatal.
	UnknownSensor Code = "UnknownSensor"

	// Registry lookup.
	NotFound Code = "NotFound"

	// Report boundary; the caller decides what to do with it.
	TransportError Code = "TransportError"

	Error Code = "error" // generic fallback
)

// E is an optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
