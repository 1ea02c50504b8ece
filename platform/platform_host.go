//go:build !rp2040

package platform

import (
	"io"
	"os"

	"tinygo.org/x/drivers"
)

// Setup on a host build returns a simulated sensor chain and stdio as the
// console, so the whole firmware can be exercised without hardware.
func Setup() (drivers.I2C, io.ReadWriter, error) {
	return NewSimBus(), stdio{}, nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
