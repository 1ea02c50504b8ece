// Package platform assembles board resources: the I²C bus the sensors sit
// on, the serial console, and the report uplink. Board-specific wiring lives
// behind build tags; the rest of the firmware is board-agnostic.
package platform

import (
	"context"

	"sensenode-go/services/report"
	"sensenode-go/x/fmtx"
)

// deviceName selects the embedded configuration at boot.
const deviceName = "node0"

// DeviceName returns the identifier used to look up the embedded config.
func DeviceName() string { return deviceName }

// logTransport writes the payload to the default output. Network bring-up is
// board dependent; until a link layer is wired, a tethered host forwards the
// logged payloads.
type logTransport struct{}

func (logTransport) Post(ctx context.Context, url, contentType string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmtx.Printf("POST %s %s\n%s\n", url, contentType, body)
	return nil
}

// NewTransport returns the report uplink for this board.
func NewTransport() report.Transport { return logTransport{} }
